package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// SupplierDTO is the transport shape for suppliers.
type SupplierDTO struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Code          string               `json:"code"`
	ContactPerson *string              `json:"contact_person,omitempty"`
	Email         *string              `json:"email,omitempty"`
	Phone         *string              `json:"phone,omitempty"`
	Address       *string              `json:"address,omitempty"`
	Status        enums.SupplierStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func FromModel(s *models.Supplier) *SupplierDTO {
	if s == nil {
		return nil
	}
	return &SupplierDTO{
		ID:            s.ID,
		Name:          s.Name,
		Code:          s.Code,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func FromModels(list []models.Supplier) []SupplierDTO {
	out := make([]SupplierDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
