package auth

import (
	"github.com/stockyardhq/stockyard-backend/internal/users"
)

// RegisterInput is the self-service sign-up payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries the credential pair.
type LoginInput struct {
	Email    string
	Password string
}

// ChangePasswordInput carries a password rotation request for the
// authenticated user.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// LoginResult is the authenticated session payload returned by login
// and register.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresIn int64          `json:"expires_in"`
	User      *users.UserDTO `json:"user"`
}
