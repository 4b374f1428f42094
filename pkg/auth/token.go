package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// TokenIssuer mints and validates access tokens against a fixed session
// epoch. A new epoch is generated at process start so a restart invalidates
// every previously issued token.
type TokenIssuer struct {
	cfg   config.JWTConfig
	epoch string
}

// NewTokenIssuer validates the JWT configuration and binds the issuer to
// the supplied session epoch.
func NewTokenIssuer(cfg config.JWTConfig, epoch string) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return nil, fmt.Errorf("jwt expiration minutes must be positive")
	}
	if strings.TrimSpace(epoch) == "" {
		return nil, fmt.Errorf("session epoch is required")
	}
	return &TokenIssuer{cfg: cfg, epoch: epoch}, nil
}

// NewEpoch generates a fresh session epoch value.
func NewEpoch() string {
	return uuid.NewString()
}

// Epoch returns the session epoch this issuer stamps into tokens.
func (t *TokenIssuer) Epoch() string {
	return t.epoch
}

// Mint issues a signed JWT for the provided payload using the configured TTL.
func (t *TokenIssuer) Mint(now time.Time, payload AccessTokenPayload) (string, error) {
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}
	if payload.UserID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}

	issuedAt := jwt.NewNumericDate(now)
	expiry := jwt.NewNumericDate(now.Add(t.cfg.AccessTokenTTL()))

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := AccessTokenClaims{
		UserID:      payload.UserID,
		Role:        payload.Role,
		WarehouseID: payload.WarehouseID,
		Epoch:       t.epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			IssuedAt:  issuedAt,
			ExpiresAt: expiry,
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(t.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// Parse validates the JWT string, including the session epoch, and returns
// typed claims.
func (t *TokenIssuer) Parse(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(t.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.Epoch != t.epoch {
		return nil, fmt.Errorf("token issued under a previous session epoch")
	}
	return claims, nil
}
