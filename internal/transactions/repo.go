package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
)

// listSortColumns whitelists sortBy values for transaction listings.
var listSortColumns = map[string]string{
	"number":     "number",
	"type":       "type",
	"quantity":   "quantity",
	"created_at": "created_at",
}

// ListFilter narrows a transaction listing.
type ListFilter struct {
	Type        *enums.TransactionType
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	From        *time.Time
	To          *time.Time
}

// Repository exposes transaction read operations. Writes go through the
// stock engine so the aggregates stay consistent.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a transactions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a transaction with its references.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockTransaction, error) {
	var txn models.StockTransaction
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Warehouse").
		Preload("PerformedBy").
		First(&txn, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// List returns a filtered, paginated transaction page plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.StockTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockTransaction{})

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.StockTransaction
	err := query.
		Preload("Product").
		Preload("Warehouse").
		Preload("PerformedBy").
		Order(page.OrderClause(listSortColumns, "created_at") + ", number DESC").
		Limit(pagination.NormalizeLimit(page.Limit)).
		Offset(page.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
