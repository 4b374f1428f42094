package products

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

// listSortColumns whitelists sortBy values for product listings.
var listSortColumns = map[string]string{
	"name":       "name",
	"sku":        "sku",
	"category":   "category",
	"quantity":   "quantity",
	"unit_price": "unit_price",
	"status":     "status",
	"created_at": "created_at",
}

// ListFilter narrows a product listing.
type ListFilter struct {
	Category    string
	Status      *enums.ProductStatus
	SupplierID  *uuid.UUID
	WarehouseID *uuid.UUID
	Search      string
}

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithInitialStock inserts the product and, when a warehouse is
// given, seeds its stock entry in the same transaction so a failed seed
// never leaves an orphan product row. Returns gorm.ErrRecordNotFound when
// the warehouse does not exist.
func (r *Repository) CreateWithInitialStock(ctx context.Context, product *models.Product, warehouseID *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		if warehouseID == nil || product.Quantity <= 0 {
			return nil
		}

		var count int64
		if err := tx.Model(&models.Warehouse{}).Where("id = ?", *warehouseID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		now := time.Now().UTC()
		entry := &models.WarehouseStockEntry{
			ProductID:       product.ID,
			WarehouseID:     *warehouseID,
			Quantity:        product.Quantity,
			MinStockLevel:   product.MinStockLevel,
			LastRestockedAt: &now,
		}
		return tx.Create(entry).Error
	})
}

// Save persists changes to an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product; per-warehouse stock rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// FindByID loads a product with its supplier and stock breakdown.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("WarehouseStock").
		Preload("WarehouseStock.Warehouse").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CountBySupplier reports how many products reference the supplier.
func (r *Repository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

// CountTransactions reports how many audit rows reference the product.
func (r *Repository) CountTransactions(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// Categories returns the distinct category names in use.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// List returns a filtered, paginated product page plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.WarehouseID != nil {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&models.WarehouseStockEntry{}).
				Select("product_id").
				Where("warehouse_id = ? AND quantity > 0", *filter.WarehouseID),
		)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Product
	err := query.
		Preload("Supplier").
		Order(page.OrderClause(listSortColumns, "created_at")).
		Limit(pagination.NormalizeLimit(page.Limit)).
		Offset(page.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
