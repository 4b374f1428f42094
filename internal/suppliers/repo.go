package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
)

// listSortColumns whitelists sortBy values for supplier listings.
var listSortColumns = map[string]string{
	"name":       "name",
	"code":       "code",
	"status":     "status",
	"created_at": "created_at",
}

// ListFilter narrows a supplier listing.
type ListFilter struct {
	Status *enums.SupplierStatus
	Search string
}

// Repository exposes supplier persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a suppliers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new supplier.
func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// Save persists changes to an existing supplier.
func (r *Repository) Save(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete removes a supplier.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id).Error
}

// FindByID loads a supplier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// CountProducts reports how many products reference the supplier.
func (r *Repository) CountProducts(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

// List returns a filtered, paginated supplier page plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Supplier, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Supplier{})

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

	var list []models.Supplier
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
