package warehouses

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// WarehouseDTO is the transport shape for warehouses.
type WarehouseDTO struct {
	ID        uuid.UUID             `json:"id"`
	Code      string                `json:"code"`
	Name      string                `json:"name"`
	Address   *string               `json:"address,omitempty"`
	City      *string               `json:"city,omitempty"`
	State     *string               `json:"state,omitempty"`
	Country   *string               `json:"country,omitempty"`
	Zip       *string               `json:"zip,omitempty"`
	Capacity  int                   `json:"capacity"`
	ManagerID *uuid.UUID            `json:"manager_id,omitempty"`
	Status    enums.WarehouseStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// InventoryLine is one product's stock position inside a warehouse.
type InventoryLine struct {
	ProductID       uuid.UUID           `json:"product_id"`
	ProductName     string              `json:"product_name"`
	SKU             string              `json:"sku"`
	Category        string              `json:"category"`
	Status          enums.ProductStatus `json:"status"`
	Quantity        int                 `json:"quantity"`
	Location        *string             `json:"location,omitempty"`
	LastRestockedAt *time.Time          `json:"last_restocked_at,omitempty"`
}

// Stats summarizes one warehouse's stock position.
type Stats struct {
	WarehouseID         uuid.UUID `json:"warehouse_id"`
	ProductCount        int64     `json:"product_count"`
	TotalQuantity       int       `json:"total_quantity"`
	LowStockCount       int64     `json:"low_stock_count"`
	OutOfStockCount     int64     `json:"out_of_stock_count"`
	Capacity            int       `json:"capacity"`
	CapacityUtilization float64   `json:"capacity_utilization"`
}

func FromModel(w *models.Warehouse) *WarehouseDTO {
	if w == nil {
		return nil
	}
	return &WarehouseDTO{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		City:      w.City,
		State:     w.State,
		Country:   w.Country,
		Zip:       w.Zip,
		Capacity:  w.Capacity,
		ManagerID: w.ManagerID,
		Status:    w.Status,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func FromModels(list []models.Warehouse) []WarehouseDTO {
	out := make([]WarehouseDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
