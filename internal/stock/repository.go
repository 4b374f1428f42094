package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// Repository wires together the persistence helpers the stock engine needs.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProductByID loads the product without associations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SaveProduct persists the aggregate quantity and derived status.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// FindWarehouseByID loads a warehouse row.
func (r *Repository) FindWarehouseByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

// FindEntry loads the stock entry for a product/warehouse pair.
func (r *Repository) FindEntry(ctx context.Context, productID, warehouseID uuid.UUID) (*models.WarehouseStockEntry, error) {
	var entry models.WarehouseStockEntry
	err := r.db.WithContext(ctx).
		First(&entry, "product_id = ? AND warehouse_id = ?", productID, warehouseID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntriesByProduct returns every warehouse entry for the product.
func (r *Repository) ListEntriesByProduct(ctx context.Context, productID uuid.UUID) ([]models.WarehouseStockEntry, error) {
	var entries []models.WarehouseStockEntry
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveEntry inserts or updates a warehouse stock entry.
func (r *Repository) SaveEntry(ctx context.Context, entry *models.WarehouseStockEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// SumEntryQuantities computes the aggregate quantity across warehouses.
func (r *Repository) SumEntryQuantities(ctx context.Context, productID uuid.UUID) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Where("product_id = ?", productID).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// CountEntriesByProduct reports how many warehouse rows the product has.
func (r *Repository) CountEntriesByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// CountTransactionsInMonth counts same-type transactions created in the
// month containing at. Used for number generation.
func (r *Repository) CountTransactionsInMonth(ctx context.Context, txType enums.TransactionType, at time.Time) (int64, error) {
	start, end := monthBounds(at)
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Where("type = ? AND created_at >= ? AND created_at < ?", txType, start, end).
		Count(&count).Error
	return count, err
}

// CreateTransaction inserts the audit record.
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.StockTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// FindTransactionByID loads a transaction row.
func (r *Repository) FindTransactionByID(ctx context.Context, id uuid.UUID) (*models.StockTransaction, error) {
	var txn models.StockTransaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransactionRow removes the audit record.
func (r *Repository) DeleteTransactionRow(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.StockTransaction{}, "id = ?", id).Error
}
