package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/pkg/auth"
	"github.com/stockyardhq/stockyard-backend/pkg/config"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "stockyard-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testJWTConfig(), auth.NewEpoch())
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	warehouseID := uuid.New()
	payload := auth.AccessTokenPayload{
		UserID:      uuid.New(),
		Role:        enums.UserRoleManager,
		WarehouseID: &warehouseID,
	}

	signed, err := issuer.Mint(time.Now(), payload)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user id %s, got %s", payload.UserID, claims.UserID)
	}
	if claims.Role != enums.UserRoleManager {
		t.Fatalf("expected role manager, got %s", claims.Role)
	}
	if claims.WarehouseID == nil || *claims.WarehouseID != warehouseID {
		t.Fatal("expected warehouse id claim to round-trip")
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestParseRejectsStaleEpoch(t *testing.T) {
	cfg := testJWTConfig()
	oldIssuer, err := auth.NewTokenIssuer(cfg, "epoch-old")
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	newIssuer, err := auth.NewTokenIssuer(cfg, "epoch-new")
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	signed, err := oldIssuer.Mint(time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	if _, err := newIssuer.Parse(signed); err == nil {
		t.Fatal("expected stale epoch token to be rejected")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testJWTConfig(), auth.NewEpoch())
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	signed, err := issuer.Mint(time.Now().Add(-2*time.Hour), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	if _, err := issuer.Parse(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestMintRejectsInvalidRole(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testJWTConfig(), auth.NewEpoch())
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	if _, err := issuer.Mint(time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRole("superuser"),
	}); err == nil {
		t.Fatal("expected invalid role to be rejected")
	}
}

func TestNewTokenIssuerValidation(t *testing.T) {
	if _, err := auth.NewTokenIssuer(config.JWTConfig{Issuer: "x", ExpirationMinutes: 10}, "e"); err == nil {
		t.Fatal("expected missing secret to error")
	}
	if _, err := auth.NewTokenIssuer(testJWTConfig(), " "); err == nil {
		t.Fatal("expected blank epoch to error")
	}
}
