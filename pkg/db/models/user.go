package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// User represents the canonical identity entity. Non-admin users must be
// assigned to a warehouse.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"column:email;not null;uniqueIndex:uq_users_email"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Role         enums.UserRole   `gorm:"column:role;not null;default:staff"`
	Status       enums.UserStatus `gorm:"column:status;not null;default:active"`
	WarehouseID  *uuid.UUID       `gorm:"column:warehouse_id;type:uuid"`
	Warehouse    *Warehouse       `gorm:"foreignKey:WarehouseID"`
	AvatarPath   *string          `gorm:"column:avatar_path"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key so the model works on both dialects.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
