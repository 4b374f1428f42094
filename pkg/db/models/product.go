package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// Product represents a stocked item. Quantity is the denormalized sum of the
// per-warehouse stock rows; Status is derived from Quantity vs MinStockLevel.
type Product struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name           string                `gorm:"column:name;not null"`
	SKU            string                `gorm:"column:sku;not null;uniqueIndex:uq_products_sku"`
	Category       string                `gorm:"column:category;not null"`
	Status         enums.ProductStatus   `gorm:"column:status;not null;default:out_of_stock"`
	Quantity       int                   `gorm:"column:quantity;not null;default:0"`
	MinStockLevel  int                   `gorm:"column:min_stock_level;not null;default:0"`
	UnitPrice      decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null"`
	SupplierID     *uuid.UUID            `gorm:"column:supplier_id;type:uuid"`
	Supplier       *Supplier             `gorm:"foreignKey:SupplierID"`
	WarehouseStock []WarehouseStockEntry `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
