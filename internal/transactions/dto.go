package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// TransactionDTO is the transport shape for stock transactions.
type TransactionDTO struct {
	ID            uuid.UUID             `json:"id"`
	Number        string                `json:"number"`
	Type          enums.TransactionType `json:"type"`
	ProductID     uuid.UUID             `json:"product_id"`
	ProductName   string                `json:"product_name,omitempty"`
	SKU           string                `json:"sku,omitempty"`
	WarehouseID   uuid.UUID             `json:"warehouse_id"`
	WarehouseName string                `json:"warehouse_name,omitempty"`
	Quantity      int                   `json:"quantity"`
	UnitPrice     decimal.Decimal       `json:"unit_price"`
	TotalPrice    decimal.Decimal       `json:"total_price"`
	PerformedByID uuid.UUID             `json:"performed_by_id"`
	PerformedBy   string                `json:"performed_by,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

func FromModel(txn *models.StockTransaction) *TransactionDTO {
	if txn == nil {
		return nil
	}
	dto := &TransactionDTO{
		ID:            txn.ID,
		Number:        txn.Number,
		Type:          txn.Type,
		ProductID:     txn.ProductID,
		WarehouseID:   txn.WarehouseID,
		Quantity:      txn.Quantity,
		UnitPrice:     txn.UnitPrice,
		TotalPrice:    txn.TotalPrice,
		PerformedByID: txn.PerformedByID,
		Notes:         txn.Notes,
		CreatedAt:     txn.CreatedAt,
	}
	if txn.Product != nil {
		dto.ProductName = txn.Product.Name
		dto.SKU = txn.Product.SKU
	}
	if txn.Warehouse != nil {
		dto.WarehouseName = txn.Warehouse.Name
	}
	if txn.PerformedBy != nil {
		dto.PerformedBy = txn.PerformedBy.Name
	}
	return dto
}

func FromModels(list []models.StockTransaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
