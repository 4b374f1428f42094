package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/config"
	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
	"github.com/stockyardhq/stockyard-backend/pkg/security"
)

// CreateUserInput holds the validated payload to create a user.
type CreateUserInput struct {
	Name        string
	Email       string
	Password    string
	Role        enums.UserRole
	Status      *enums.UserStatus
	WarehouseID *uuid.UUID
}

// UpdateUserInput holds optional mutation values for a user.
type UpdateUserInput struct {
	Name        *string
	Email       *string
	Role        *enums.UserRole
	Status      *enums.UserStatus
	WarehouseID *uuid.UUID
	// ClearWarehouse removes the assignment when true.
	ClearWarehouse bool
}

// ListResult couples a user page with pagination metadata.
type ListResult struct {
	Users      []UserDTO         `json:"users"`
	Pagination pagination.Result `json:"pagination"`
}

// Service exposes admin user management.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ListUsers(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type warehouseLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
}

type service struct {
	repo        *Repository
	warehouses  warehouseLoader
	passwordCfg config.PasswordConfig
}

// NewService constructs the user management service.
func NewService(repo *Repository, warehouses warehouseLoader, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if warehouses == nil {
		return nil, fmt.Errorf("warehouse loader required")
	}
	return &service{repo: repo, warehouses: warehouses, passwordCfg: passwordCfg}, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	if err := s.ensureWarehouseRule(ctx, input.Role, input.WarehouseID); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	status := enums.UserStatusActive
	if input.Status != nil {
		status = *input.Status
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         input.Role,
		Status:       status,
		WarehouseID:  input.WarehouseID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "uq_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}
	return FromModel(user), nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return FromModel(user), nil
}

func (s *service) ListUsers(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	page.Page = pagination.NormalizePage(page.Page)
	page.Limit = pagination.NormalizeLimit(page.Limit)

	list, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list users")
	}
	return &ListResult{
		Users:      FromModels(list),
		Pagination: pagination.NewResult(page, total),
	}, nil
}

func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
		}
		user.Status = *input.Status
	}
	if input.ClearWarehouse {
		user.WarehouseID = nil
	} else if input.WarehouseID != nil {
		user.WarehouseID = input.WarehouseID
	}

	if err := s.ensureWarehouseRule(ctx, user.Role, user.WarehouseID); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "uq_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save user")
	}
	return FromModel(user), nil
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete user")
	}
	return nil
}

// ensureWarehouseRule enforces that non-admin users carry a warehouse
// assignment and that the referenced warehouse exists.
func (s *service) ensureWarehouseRule(ctx context.Context, role enums.UserRole, warehouseID *uuid.UUID) error {
	if role != enums.UserRoleAdmin && warehouseID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "non-admin users require a warehouse assignment")
	}
	if warehouseID != nil {
		if _, err := s.warehouses.FindByID(ctx, *warehouseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load warehouse")
		}
	}
	return nil
}
