package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
)

// CreateSupplierInput holds the validated payload to create a supplier.
type CreateSupplierInput struct {
	Name          string
	Code          string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Status        *enums.SupplierStatus
}

// UpdateSupplierInput holds optional mutation values for a supplier.
type UpdateSupplierInput struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Status        *enums.SupplierStatus
}

// ListResult couples a supplier page with pagination metadata.
type ListResult struct {
	Suppliers  []SupplierDTO     `json:"suppliers"`
	Pagination pagination.Result `json:"pagination"`
}

// Service exposes supplier management.
type Service interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	ListSuppliers(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs the supplier service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("suppliers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error) {
	status := enums.SupplierStatusActive
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
		}
		status = *input.Status
	}

	supplier := &models.Supplier{
		Name:          strings.TrimSpace(input.Name),
		Code:          strings.ToUpper(strings.TrimSpace(input.Code)),
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		Status:        status,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		if db.IsUniqueViolation(err, "uq_suppliers_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "supplier code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return FromModel(supplier), nil
}

func (s *service) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return FromModel(supplier), nil
}

func (s *service) ListSuppliers(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	page.Page = pagination.NormalizePage(page.Page)
	page.Limit = pagination.NormalizeLimit(page.Limit)

	list, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	return &ListResult{
		Suppliers:  FromModels(list),
		Pagination: pagination.NewResult(page, total),
	}, nil
}

func (s *service) UpdateSupplier(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}

	if input.Name != nil {
		supplier.Name = strings.TrimSpace(*input.Name)
	}
	if input.ContactPerson != nil {
		supplier.ContactPerson = input.ContactPerson
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
		}
		supplier.Status = *input.Status
	}

	if err := s.repo.Save(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save supplier")
	}
	return FromModel(supplier), nil
}

func (s *service) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}

	references, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count supplier products")
	}
	if references > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "supplier still has products assigned")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
	}
	return nil
}
