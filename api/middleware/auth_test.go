package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/pkg/auth"
	"github.com/stockyardhq/stockyard-backend/pkg/auth/session"
	"github.com/stockyardhq/stockyard-backend/pkg/config"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, s.err
}

func testIssuer(t *testing.T, epoch string) *auth.TokenIssuer {
	t.Helper()
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	issuer, err := auth.NewTokenIssuer(cfg, epoch)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	return issuer
}

func mintTestToken(t *testing.T, issuer *auth.TokenIssuer, role enums.UserRole, warehouseID *uuid.UUID) string {
	t.Helper()
	signed, err := issuer.Mint(time.Now(), auth.AccessTokenPayload{
		UserID:      uuid.New(),
		Role:        role,
		WarehouseID: warehouseID,
		JTI:         session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}
	return signed
}

func TestAuthRejectsMissingToken(t *testing.T) {
	issuer := testIssuer(t, "epoch")
	handler := Auth(issuer, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	issuer := testIssuer(t, "epoch")
	handler := Auth(issuer, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsStaleEpochToken(t *testing.T) {
	oldIssuer := testIssuer(t, "epoch-old")
	newIssuer := testIssuer(t, "epoch-new")
	token := mintTestToken(t, oldIssuer, enums.UserRoleAdmin, nil)

	handler := Auth(newIssuer, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	issuer := testIssuer(t, "epoch")
	token := mintTestToken(t, issuer, enums.UserRoleManager, nil)

	handler := Auth(issuer, stubSessionVerifier{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	issuer := testIssuer(t, "epoch")
	warehouseID := uuid.New()
	token := mintTestToken(t, issuer, enums.UserRoleStaff, &warehouseID)

	var captured struct {
		user      string
		role      string
		warehouse string
	}
	handler := Auth(issuer, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		captured.warehouse = WarehouseIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user == "" {
		t.Fatal("expected user id in context")
	}
	if captured.role != string(enums.UserRoleStaff) {
		t.Fatalf("expected role staff got %s", captured.role)
	}
	if captured.warehouse != warehouseID.String() {
		t.Fatalf("expected warehouse %s got %s", warehouseID, captured.warehouse)
	}
}

func TestAuthAllowsTokenWithoutWarehouse(t *testing.T) {
	issuer := testIssuer(t, "epoch")
	token := mintTestToken(t, issuer, enums.UserRoleAdmin, nil)

	var warehouse string
	handler := Auth(issuer, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		warehouse = WarehouseIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if warehouse != "" {
		t.Fatalf("expected empty warehouse got %s", warehouse)
	}
}
