package warehouses

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
)

// listSortColumns whitelists sortBy values for warehouse listings.
var listSortColumns = map[string]string{
	"name":       "name",
	"code":       "code",
	"status":     "status",
	"capacity":   "capacity",
	"created_at": "created_at",
}

// inventorySortColumns whitelists sortBy values for inventory listings.
var inventorySortColumns = map[string]string{
	"name":     "products.name",
	"sku":      "products.sku",
	"quantity": "warehouse_stock.quantity",
}

// ListFilter narrows a warehouse listing.
type ListFilter struct {
	Status *enums.WarehouseStatus
	Search string
}

// inventoryRow is the scan target for the stock/product join.
type inventoryRow struct {
	ProductID       uuid.UUID
	ProductName     string
	SKU             string
	Category        string
	MinStockLevel   int
	Quantity        int
	Location        *string
	LastRestockedAt *time.Time
}

// Repository exposes warehouse persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a warehouses repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new warehouse.
func (r *Repository) Create(ctx context.Context, warehouse *models.Warehouse) error {
	return r.db.WithContext(ctx).Create(warehouse).Error
}

// Save persists changes to an existing warehouse.
func (r *Repository) Save(ctx context.Context, warehouse *models.Warehouse) error {
	return r.db.WithContext(ctx).Save(warehouse).Error
}

// Delete removes a warehouse.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Warehouse{}, "id = ?", id).Error
}

// FindByID loads a warehouse.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

// CountStockRows reports how many stock entries reference the warehouse.
func (r *Repository) CountStockRows(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Where("warehouse_id = ?", warehouseID).
		Count(&count).Error
	return count, err
}

// List returns a filtered, paginated warehouse page plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Warehouse, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Warehouse{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Warehouse
	err := query.
		Order(page.OrderClause(listSortColumns, "created_at")).
		Limit(pagination.NormalizeLimit(page.Limit)).
		Offset(page.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Inventory returns the warehouse's stock entries joined with product info.
func (r *Repository) Inventory(ctx context.Context, warehouseID uuid.UUID, page pagination.Params) ([]inventoryRow, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Joins("JOIN products ON products.id = warehouse_stock.product_id").
		Where("warehouse_stock.warehouse_id = ?", warehouseID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []inventoryRow
	err := base.
		Select(`products.id AS product_id,
			products.name AS product_name,
			products.sku AS sku,
			products.category AS category,
			products.min_stock_level AS min_stock_level,
			warehouse_stock.quantity AS quantity,
			warehouse_stock.location AS location,
			warehouse_stock.last_restocked_at AS last_restocked_at`).
		Order(page.OrderClause(inventorySortColumns, "products.name")).
		Limit(pagination.NormalizeLimit(page.Limit)).
		Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// StockTotals aggregates entry counts and quantities for one warehouse.
func (r *Repository) StockTotals(ctx context.Context, warehouseID uuid.UUID) (productCount int64, totalQuantity int, lowCount int64, outCount int64, err error) {
	if err = r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Where("warehouse_id = ?", warehouseID).
		Count(&productCount).Error; err != nil {
		return
	}

	var sum *int
	if err = r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Where("warehouse_id = ?", warehouseID).
		Select("SUM(quantity)").
		Scan(&sum).Error; err != nil {
		return
	}
	if sum != nil {
		totalQuantity = *sum
	}

	if err = r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Joins("JOIN products ON products.id = warehouse_stock.product_id").
		Where("warehouse_stock.warehouse_id = ?", warehouseID).
		Where("warehouse_stock.quantity > 0 AND warehouse_stock.quantity <= products.min_stock_level").
		Count(&lowCount).Error; err != nil {
		return
	}

	err = r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Where("warehouse_id = ? AND quantity <= 0", warehouseID).
		Count(&outCount).Error
	return
}
