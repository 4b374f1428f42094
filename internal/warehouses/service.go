package warehouses

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/internal/stock"
	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
)

// warehouseCodePattern is the WH- prefix convention for warehouse codes.
var warehouseCodePattern = regexp.MustCompile(`^WH-\d+$`)

// CreateWarehouseInput holds the validated payload to create a warehouse.
type CreateWarehouseInput struct {
	Code      string
	Name      string
	Address   *string
	City      *string
	State     *string
	Country   *string
	Zip       *string
	Capacity  int
	ManagerID *uuid.UUID
	Status    *enums.WarehouseStatus
}

// UpdateWarehouseInput holds optional mutation values for a warehouse.
type UpdateWarehouseInput struct {
	Name         *string
	Address      *string
	City         *string
	State        *string
	Country      *string
	Zip          *string
	Capacity     *int
	ManagerID    *uuid.UUID
	ClearManager bool
	Status       *enums.WarehouseStatus
}

// TransferInput moves product quantity between two warehouses.
type TransferInput struct {
	ProductID       uuid.UUID
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Quantity        int
	Notes           *string
	PerformedByID   uuid.UUID
}

// ListResult couples a warehouse page with pagination metadata.
type ListResult struct {
	Warehouses []WarehouseDTO    `json:"warehouses"`
	Pagination pagination.Result `json:"pagination"`
}

// InventoryResult couples an inventory page with pagination metadata.
type InventoryResult struct {
	Items      []InventoryLine   `json:"items"`
	Pagination pagination.Result `json:"pagination"`
}

// Service exposes warehouse management.
type Service interface {
	CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*WarehouseDTO, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error)
	ListWarehouses(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error
	Inventory(ctx context.Context, id uuid.UUID, page pagination.Params) (*InventoryResult, error)
	Stats(ctx context.Context, id uuid.UUID) (*Stats, error)
	Transfer(ctx context.Context, input TransferInput) (*stock.TransferResult, error)
}

type service struct {
	repo  *Repository
	stock stock.Service
}

// NewService constructs the warehouse service.
func NewService(repo *Repository, stockSvc stock.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouses repository required")
	}
	if stockSvc == nil {
		return nil, fmt.Errorf("stock service required")
	}
	return &service{repo: repo, stock: stockSvc}, nil
}

func (s *service) CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*WarehouseDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if !warehouseCodePattern.MatchString(code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse code must match WH-<digits>")
	}
	if input.Capacity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity cannot be negative")
	}

	status := enums.WarehouseStatusActive
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
		}
		status = *input.Status
	}

	warehouse := &models.Warehouse{
		Code:      code,
		Name:      strings.TrimSpace(input.Name),
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		Country:   input.Country,
		Zip:       input.Zip,
		Capacity:  input.Capacity,
		ManagerID: input.ManagerID,
		Status:    status,
	}
	if err := s.repo.Create(ctx, warehouse); err != nil {
		if db.IsUniqueViolation(err, "uq_warehouses_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "warehouse code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert warehouse")
	}
	return FromModel(warehouse), nil
}

func (s *service) GetWarehouse(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error) {
	warehouse, err := s.loadWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(warehouse), nil
}

func (s *service) ListWarehouses(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	page.Page = pagination.NormalizePage(page.Page)
	page.Limit = pagination.NormalizeLimit(page.Limit)

	list, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list warehouses")
	}
	return &ListResult{
		Warehouses: FromModels(list),
		Pagination: pagination.NewResult(page, total),
	}, nil
}

func (s *service) UpdateWarehouse(ctx context.Context, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error) {
	warehouse, err := s.loadWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		warehouse.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		warehouse.Address = input.Address
	}
	if input.City != nil {
		warehouse.City = input.City
	}
	if input.State != nil {
		warehouse.State = input.State
	}
	if input.Country != nil {
		warehouse.Country = input.Country
	}
	if input.Zip != nil {
		warehouse.Zip = input.Zip
	}
	if input.Capacity != nil {
		if *input.Capacity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity cannot be negative")
		}
		warehouse.Capacity = *input.Capacity
	}
	if input.ClearManager {
		warehouse.ManagerID = nil
		warehouse.Manager = nil
	} else if input.ManagerID != nil {
		warehouse.ManagerID = input.ManagerID
		warehouse.Manager = nil
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
		}
		warehouse.Status = *input.Status
	}

	if err := s.repo.Save(ctx, warehouse); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save warehouse")
	}
	return FromModel(warehouse), nil
}

func (s *service) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadWarehouse(ctx, id); err != nil {
		return err
	}

	references, err := s.repo.CountStockRows(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count warehouse stock")
	}
	if references > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "warehouse still holds stock")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete warehouse")
	}
	return nil
}

func (s *service) Inventory(ctx context.Context, id uuid.UUID, page pagination.Params) (*InventoryResult, error) {
	if _, err := s.loadWarehouse(ctx, id); err != nil {
		return nil, err
	}

	page.Page = pagination.NormalizePage(page.Page)
	page.Limit = pagination.NormalizeLimit(page.Limit)

	rows, total, err := s.repo.Inventory(ctx, id, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: warehouse inventory")
	}

	items := make([]InventoryLine, 0, len(rows))
	for _, row := range rows {
		items = append(items, InventoryLine{
			ProductID:       row.ProductID,
			ProductName:     row.ProductName,
			SKU:             row.SKU,
			Category:        row.Category,
			Status:          stock.DeriveStatus(row.Quantity, row.MinStockLevel),
			Quantity:        row.Quantity,
			Location:        row.Location,
			LastRestockedAt: row.LastRestockedAt,
		})
	}
	return &InventoryResult{
		Items:      items,
		Pagination: pagination.NewResult(page, total),
	}, nil
}

func (s *service) Stats(ctx context.Context, id uuid.UUID) (*Stats, error) {
	warehouse, err := s.loadWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}

	productCount, totalQuantity, lowCount, outCount, err := s.repo.StockTotals(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: warehouse totals")
	}

	utilization := 0.0
	if warehouse.Capacity > 0 {
		utilization = float64(totalQuantity) / float64(warehouse.Capacity) * 100
	}
	return &Stats{
		WarehouseID:         warehouse.ID,
		ProductCount:        productCount,
		TotalQuantity:       totalQuantity,
		LowStockCount:       lowCount,
		OutOfStockCount:     outCount,
		Capacity:            warehouse.Capacity,
		CapacityUtilization: utilization,
	}, nil
}

func (s *service) Transfer(ctx context.Context, input TransferInput) (*stock.TransferResult, error) {
	return s.stock.Transfer(ctx, stock.TransferInput{
		ProductID:       input.ProductID,
		FromWarehouseID: input.FromWarehouseID,
		ToWarehouseID:   input.ToWarehouseID,
		Quantity:        input.Quantity,
		Notes:           input.Notes,
		PerformedByID:   input.PerformedByID,
	})
}

func (s *service) loadWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load warehouse")
	}
	return warehouse, nil
}
