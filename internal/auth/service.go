package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/internal/users"
	pkgauth "github.com/stockyardhq/stockyard-backend/pkg/auth"
	"github.com/stockyardhq/stockyard-backend/pkg/auth/session"
	"github.com/stockyardhq/stockyard-backend/pkg/config"
	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/security"
)

// invalidCredentialsMessage is returned for both bad email and bad
// password so login does not leak which one failed.
const invalidCredentialsMessage = "invalid email or password"

// Service exposes authentication flows.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*LoginResult, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type tokenMinter interface {
	Mint(now time.Time, payload pkgauth.AccessTokenPayload) (string, error)
}

type sessionStore interface {
	Start(ctx context.Context, accessID string, userID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies for NewService.
type ServiceParams struct {
	Users       userStore
	Issuer      tokenMinter
	Sessions    sessionStore
	JWT         config.JWTConfig
	PasswordCfg config.PasswordConfig
}

type service struct {
	users       userStore
	issuer      tokenMinter
	sessions    sessionStore
	tokenTTL    time.Duration
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService wires the authentication service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if params.Issuer == nil {
		return nil, fmt.Errorf("token issuer required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{
		users:       params.Users,
		issuer:      params.Issuer,
		sessions:    params.Sessions,
		tokenTTL:    params.JWT.AccessTokenTTL(),
		passwordCfg: params.PasswordCfg,
		now:         time.Now,
	}, nil
}

// Register creates an account and opens a session. The very first
// account becomes the admin; everyone after that starts as a viewer
// until an admin promotes them.
func (s *service) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count users")
	}

	role := enums.UserRoleViewer
	if total == 0 {
		role = enums.UserRoleAdmin
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role,
		Status:       enums.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "uq_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user by email")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if user.Status != enums.UserStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is not active")
	}

	loginAt := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, loginAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record last login")
	}
	user.LastLoginAt = &loginAt

	return s.openSession(ctx, user)
}

// Logout revokes the caller's active session marker.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: revoke")
	}
	return nil
}

// Me returns the profile of the authenticated caller.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return users.FromModel(user), nil
}

// ChangePassword rotates the caller's password after checking the
// current one.
func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "current password is incorrect")
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user.PasswordHash = hash

	if err := s.users.Save(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save user")
	}
	return nil
}

func (s *service) openSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessID := session.NewAccessID()
	token, err := s.issuer.Mint(s.now(), pkgauth.AccessTokenPayload{
		UserID:      user.ID,
		Role:        user.Role,
		WarehouseID: user.WarehouseID,
		JTI:         accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if err := s.sessions.Start(ctx, accessID, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: start")
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
		User:      users.FromModel(user),
	}, nil
}
