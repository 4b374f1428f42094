package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// SupplierRef is the embedded supplier summary on product payloads.
type SupplierRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// StockEntryDTO is one warehouse line of a product's stock breakdown.
type StockEntryDTO struct {
	WarehouseID     uuid.UUID  `json:"warehouse_id"`
	WarehouseName   string     `json:"warehouse_name,omitempty"`
	Quantity        int        `json:"quantity"`
	Location        *string    `json:"location,omitempty"`
	LastRestockedAt *time.Time `json:"last_restocked_at,omitempty"`
}

// ProductDTO is the transport shape for products.
type ProductDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	SKU            string              `json:"sku"`
	Category       string              `json:"category"`
	Status         enums.ProductStatus `json:"status"`
	Quantity       int                 `json:"quantity"`
	MinStockLevel  int                 `json:"min_stock_level"`
	UnitPrice      decimal.Decimal     `json:"unit_price"`
	SupplierID     *uuid.UUID          `json:"supplier_id,omitempty"`
	Supplier       *SupplierRef        `json:"supplier,omitempty"`
	WarehouseStock []StockEntryDTO     `json:"warehouse_stock,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Category:      p.Category,
		Status:        p.Status,
		Quantity:      p.Quantity,
		MinStockLevel: p.MinStockLevel,
		UnitPrice:     p.UnitPrice,
		SupplierID:    p.SupplierID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Supplier != nil {
		dto.Supplier = &SupplierRef{ID: p.Supplier.ID, Name: p.Supplier.Name, Code: p.Supplier.Code}
	}
	for i := range p.WarehouseStock {
		entry := &p.WarehouseStock[i]
		line := StockEntryDTO{
			WarehouseID:     entry.WarehouseID,
			Quantity:        entry.Quantity,
			Location:        entry.Location,
			LastRestockedAt: entry.LastRestockedAt,
		}
		if entry.Warehouse != nil {
			line.WarehouseName = entry.Warehouse.Name
		}
		dto.WarehouseStock = append(dto.WarehouseStock, line)
	}
	return dto
}

func FromModels(list []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
