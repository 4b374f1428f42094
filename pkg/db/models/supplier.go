package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// Supplier represents a product vendor identified by a unique code.
type Supplier struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name          string               `gorm:"column:name;not null"`
	Code          string               `gorm:"column:code;not null;uniqueIndex:uq_suppliers_code"`
	ContactPerson *string              `gorm:"column:contact_person"`
	Email         *string              `gorm:"column:email"`
	Phone         *string              `gorm:"column:phone"`
	Address       *string              `gorm:"column:address"`
	Status        enums.SupplierStatus `gorm:"column:status;not null;default:active"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
