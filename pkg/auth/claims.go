package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Role        enums.UserRole
	WarehouseID *uuid.UUID
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients. Epoch is
// the server session epoch active when the token was minted; tokens from
// older epochs are rejected at the middleware.
type AccessTokenClaims struct {
	UserID      uuid.UUID      `json:"user_id"`
	Role        enums.UserRole `json:"role"`
	WarehouseID *uuid.UUID     `json:"warehouse_id,omitempty"`
	Epoch       string         `json:"epoch"`
	jwt.RegisteredClaims
}
