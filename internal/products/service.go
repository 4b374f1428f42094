package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/internal/stock"
	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
)

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	SKU           string
	Category      string
	Quantity      int
	MinStockLevel int
	UnitPrice     decimal.Decimal
	SupplierID    *uuid.UUID
	WarehouseID   *uuid.UUID
}

// UpdateProductInput holds optional mutation values for a product.
// Quantity is deliberately absent; stock moves through AdjustStock and
// transactions only.
type UpdateProductInput struct {
	Name          *string
	Category      *string
	MinStockLevel *int
	UnitPrice     *decimal.Decimal
	SupplierID    *uuid.UUID
	ClearSupplier bool
}

// AdjustStockInput is the product-facing stock adjustment payload.
type AdjustStockInput struct {
	Operation   stock.Operation
	Quantity    int
	WarehouseID *uuid.UUID
}

// ListResult couples a product page with pagination metadata.
type ListResult struct {
	Products   []ProductDTO      `json:"products"`
	Pagination pagination.Result `json:"pagination"`
}

// Service exposes product management.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, input AdjustStockInput) (*ProductDTO, error)
	Categories(ctx context.Context) ([]string, error)
}

type supplierLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type service struct {
	repo      *Repository
	suppliers supplierLoader
	stock     stock.Service
}

// NewService constructs the product service.
func NewService(repo *Repository, suppliers supplierLoader, stockSvc stock.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier loader required")
	}
	if stockSvc == nil {
		return nil, fmt.Errorf("stock service required")
	}
	return &service{repo: repo, suppliers: suppliers, stock: stockSvc}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if err := s.ensureSupplierExists(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		SKU:           strings.ToUpper(strings.TrimSpace(input.SKU)),
		Category:      strings.TrimSpace(input.Category),
		Quantity:      input.Quantity,
		MinStockLevel: input.MinStockLevel,
		Status:        stock.DeriveStatus(input.Quantity, input.MinStockLevel),
		UnitPrice:     input.UnitPrice,
		SupplierID:    input.SupplierID,
	}
	// An initial quantity with a warehouse lands as a stock entry in the
	// same transaction, so the aggregate stays the sum of the per-warehouse
	// rows and a failed seed rolls the product insert back.
	if err := s.repo.CreateWithInitialStock(ctx, product, input.WarehouseID); err != nil {
		if db.IsUniqueViolation(err, "uq_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return FromModel(product), nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	page.Page = pagination.NormalizePage(page.Page)
	page.Limit = pagination.NormalizeLimit(page.Limit)

	list, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return &ListResult{
		Products:   FromModels(list),
		Pagination: pagination.NewResult(page, total),
	}, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.MinStockLevel != nil {
		if *input.MinStockLevel < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock level cannot be negative")
		}
		product.MinStockLevel = *input.MinStockLevel
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.ClearSupplier {
		product.SupplierID = nil
		product.Supplier = nil
	} else if input.SupplierID != nil {
		if err := s.ensureSupplierExists(ctx, input.SupplierID); err != nil {
			return nil, err
		}
		product.SupplierID = input.SupplierID
		product.Supplier = nil
	}

	// The threshold may have moved, so the status is rederived.
	product.Status = stock.DeriveStatus(product.Quantity, product.MinStockLevel)

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	references, err := s.repo.CountTransactions(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count product transactions")
	}
	if references > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "product has transaction history and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, input AdjustStockInput) (*ProductDTO, error) {
	if !input.Operation.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown adjustment operation")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	if _, err := s.stock.AdjustStock(ctx, id, stock.AdjustInput{
		Operation:   input.Operation,
		Quantity:    input.Quantity,
		WarehouseID: input.WarehouseID,
	}); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return categories, nil
}

func (s *service) ensureSupplierExists(ctx context.Context, supplierID *uuid.UUID) error {
	if supplierID == nil {
		return nil
	}
	if _, err := s.suppliers.FindByID(ctx, *supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return nil
}
