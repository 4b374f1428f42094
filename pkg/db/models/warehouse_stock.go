package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WarehouseStockEntry tracks one product's quantity inside one warehouse.
// The (product, warehouse) pair is unique.
type WarehouseStockEntry struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_stock_product_warehouse"`
	WarehouseID     uuid.UUID  `gorm:"column:warehouse_id;type:uuid;not null;uniqueIndex:uq_stock_product_warehouse"`
	Warehouse       *Warehouse `gorm:"foreignKey:WarehouseID"`
	Quantity        int        `gorm:"column:quantity;not null;default:0"`
	MinStockLevel   int        `gorm:"column:min_stock_level;not null;default:0"`
	Location        *string    `gorm:"column:location"`
	LastRestockedAt *time.Time `gorm:"column:last_restocked_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (WarehouseStockEntry) TableName() string {
	return "warehouse_stock"
}

func (e *WarehouseStockEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
