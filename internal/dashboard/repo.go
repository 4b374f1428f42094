package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// trendRow is one day/type bucket of transaction activity. Day is kept as
// text so the same scan works on Postgres and SQLite.
type trendRow struct {
	Day      string
	Type     enums.TransactionType
	Count    int64
	Quantity int64
}

// typeTotalRow aggregates one transaction type over a report window.
type typeTotalRow struct {
	Type       enums.TransactionType
	Count      int64
	Quantity   int64
	TotalValue decimal.Decimal
}

// topProductRow ranks a product by transaction volume.
type topProductRow struct {
	ProductID uuid.UUID
	Name      string
	SKU       string
	TxCount   int64
	Quantity  int64
}

// Repository runs the read-only aggregate queries behind the dashboards.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a dashboard repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EntityCounts returns the headline totals for the admin dashboard.
func (r *Repository) EntityCounts(ctx context.Context) (products, warehouses, suppliers, users int64, err error) {
	conn := r.db.WithContext(ctx)
	if err = conn.Model(&models.Product{}).Count(&products).Error; err != nil {
		return
	}
	if err = conn.Model(&models.Warehouse{}).Count(&warehouses).Error; err != nil {
		return
	}
	if err = conn.Model(&models.Supplier{}).Count(&suppliers).Error; err != nil {
		return
	}
	err = conn.Model(&models.User{}).Count(&users).Error
	return
}

// StockValue sums quantity times unit price over all products.
func (r *Repository) StockValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("SUM(quantity * unit_price)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

// StatusBreakdown counts products per derived status.
func (r *Repository) StatusBreakdown(ctx context.Context) (map[enums.ProductStatus]int64, error) {
	var rows []struct {
		Status enums.ProductStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make(map[enums.ProductStatus]int64, len(rows))
	for _, row := range rows {
		breakdown[row.Status] = row.Count
	}
	return breakdown, nil
}

// RecentTransactions returns the newest audit rows, optionally scoped to
// one warehouse.
func (r *Repository) RecentTransactions(ctx context.Context, warehouseID *uuid.UUID, limit int) ([]models.StockTransaction, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Preload("Product").
		Preload("Warehouse").
		Preload("PerformedBy")
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	var list []models.StockTransaction
	err := query.Order("created_at DESC, number DESC").Limit(limit).Find(&list).Error
	return list, err
}

// Trends buckets transaction activity per day and type since the cutoff.
func (r *Repository) Trends(ctx context.Context, since time.Time, warehouseID *uuid.UUID) ([]trendRow, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Select("DATE(created_at) AS day, type, COUNT(*) AS count, SUM(quantity) AS quantity").
		Where("created_at >= ?", since)
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	var rows []trendRow
	err := query.Group("DATE(created_at), type").Order("day ASC").Scan(&rows).Error
	return rows, err
}

// TypeTotals aggregates transactions per type inside the report window.
func (r *Repository) TypeTotals(ctx context.Context, from, to time.Time, warehouseID *uuid.UUID) ([]typeTotalRow, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Select("type, COUNT(*) AS count, SUM(quantity) AS quantity, SUM(total_price) AS total_value").
		Where("created_at >= ? AND created_at < ?", from, to)
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	var rows []typeTotalRow
	err := query.Group("type").Order("type ASC").Scan(&rows).Error
	return rows, err
}

// TopProducts ranks products by moved quantity inside the report window.
func (r *Repository) TopProducts(ctx context.Context, from, to time.Time, warehouseID *uuid.UUID, limit int) ([]topProductRow, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Select(`stock_transactions.product_id AS product_id,
			products.name AS name,
			products.sku AS sku,
			COUNT(*) AS tx_count,
			SUM(stock_transactions.quantity) AS quantity`).
		Joins("JOIN products ON products.id = stock_transactions.product_id").
		Where("stock_transactions.created_at >= ? AND stock_transactions.created_at < ?", from, to)
	if warehouseID != nil {
		query = query.Where("stock_transactions.warehouse_id = ?", *warehouseID)
	}

	var rows []topProductRow
	err := query.
		Group("stock_transactions.product_id, products.name, products.sku").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// LowStockProducts lists products at or below their minimum level.
func (r *Repository) LowStockProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enums.ProductStatus{enums.ProductStatusLowStock, enums.ProductStatusOutOfStock}).
		Order("quantity ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// WarehouseTotals aggregates one warehouse's entry counts and quantity.
func (r *Repository) WarehouseTotals(ctx context.Context, warehouseID uuid.UUID) (productCount int64, totalQuantity int64, err error) {
	if err = r.db.WithContext(ctx).
		Model(&models.WarehouseStockEntry{}).
		Where("warehouse_id = ?", warehouseID).
		Count(&productCount).Error; err != nil {
		return
	}

	var sum *int64
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
	return
}
