package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// Warehouse represents a physical storage location. Codes follow the WH-
// prefix convention enforced at the service layer.
type Warehouse struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Code      string                `gorm:"column:code;not null;uniqueIndex:uq_warehouses_code"`
	Name      string                `gorm:"column:name;not null"`
	Address   *string               `gorm:"column:address"`
	City      *string               `gorm:"column:city"`
	State     *string               `gorm:"column:state"`
	Country   *string               `gorm:"column:country"`
	Zip       *string               `gorm:"column:zip"`
	Capacity  int                   `gorm:"column:capacity;not null;default:0"`
	ManagerID *uuid.UUID            `gorm:"column:manager_id;type:uuid"`
	Manager   *User                 `gorm:"foreignKey:ManagerID"`
	Status    enums.WarehouseStatus `gorm:"column:status;not null;default:active"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *Warehouse) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
