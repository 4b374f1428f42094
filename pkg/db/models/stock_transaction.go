package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// StockTransaction is the audit record written for every stock movement.
// Rows are never updated after creation; deletion reverses the aggregate
// product quantity.
type StockTransaction struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Number        string                `gorm:"column:number;not null;uniqueIndex:uq_transactions_number"`
	Type          enums.TransactionType `gorm:"column:type;not null"`
	ProductID     uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Product       *Product              `gorm:"foreignKey:ProductID"`
	WarehouseID   uuid.UUID             `gorm:"column:warehouse_id;type:uuid;not null"`
	Warehouse     *Warehouse            `gorm:"foreignKey:WarehouseID"`
	Quantity      int                   `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice    decimal.Decimal       `gorm:"column:total_price;type:numeric(14,2);not null"`
	PerformedByID uuid.UUID             `gorm:"column:performed_by_id;type:uuid;not null"`
	PerformedBy   *User                 `gorm:"foreignKey:PerformedByID"`
	Notes         *string               `gorm:"column:notes"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (t *StockTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
