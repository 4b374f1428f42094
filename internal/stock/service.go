package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
)

// Operation names a stock adjustment mode.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationSet      Operation = "set"
)

// IsValid reports whether the operation is known.
func (o Operation) IsValid() bool {
	switch o {
	case OperationAdd, OperationSubtract, OperationSet:
		return true
	}
	return false
}

// AdjustInput describes a product stock adjustment. WarehouseID nil means
// the aggregate quantity is adjusted directly.
type AdjustInput struct {
	Operation   Operation
	Quantity    int
	WarehouseID *uuid.UUID
}

// TransferInput moves quantity of one product between two warehouses.
type TransferInput struct {
	ProductID       uuid.UUID
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Quantity        int
	Notes           *string
	PerformedByID   uuid.UUID
}

// TransferResult reports the updated product and the audit pair.
type TransferResult struct {
	Product  *models.Product
	StockOut *models.StockTransaction
	StockIn  *models.StockTransaction
}

// CreateTransactionInput describes a stock movement to record.
type CreateTransactionInput struct {
	Type          enums.TransactionType
	ProductID     uuid.UUID
	WarehouseID   uuid.UUID
	Quantity      int
	Notes         *string
	PerformedByID uuid.UUID
}

// Service is the stock consistency engine. Every mutation of product
// quantity, warehouse entries, or the transaction audit trail goes through
// it, and each operation runs inside one database transaction.
type Service interface {
	AdjustStock(ctx context.Context, productID uuid.UUID, input AdjustInput) (*models.Product, error)
	Transfer(ctx context.Context, input TransferInput) (*TransferResult, error)
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.StockTransaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) (*models.StockTransaction, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs the stock engine.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// AdjustStock applies add/subtract/set at the aggregate or warehouse level.
func (s *service) AdjustStock(ctx context.Context, productID uuid.UUID, input AdjustInput) (*models.Product, error) {
	if !input.Operation.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "operation must be add, subtract or set")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindProductByID(ctx, productID)
		if err != nil {
			return notFoundOr(err, "product not found")
		}

		if input.WarehouseID == nil {
			applyGlobalAdjust(product, input)
		} else {
			if err := s.adjustWarehouseEntry(ctx, txRepo, product, input); err != nil {
				return err
			}
		}

		product.Status = DeriveStatus(product.Quantity, product.MinStockLevel)
		if err := txRepo.SaveProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, asTyped(err, "adjust stock")
	}
	return updated, nil
}

func applyGlobalAdjust(product *models.Product, input AdjustInput) {
	switch input.Operation {
	case OperationAdd:
		product.Quantity += input.Quantity
	case OperationSubtract:
		product.Quantity -= input.Quantity
		if product.Quantity < 0 {
			product.Quantity = 0
		}
	case OperationSet:
		product.Quantity = input.Quantity
	}
}

func (s *service) adjustWarehouseEntry(ctx context.Context, txRepo *Repository, product *models.Product, input AdjustInput) error {
	warehouseID := *input.WarehouseID
	if _, err := txRepo.FindWarehouseByID(ctx, warehouseID); err != nil {
		return notFoundOr(err, "warehouse not found")
	}

	entry, err := txRepo.FindEntry(ctx, product.ID, warehouseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock entry")
		}
		entry = &models.WarehouseStockEntry{
			ProductID:     product.ID,
			WarehouseID:   warehouseID,
			MinStockLevel: product.MinStockLevel,
		}
	}

	now := time.Now().UTC()
	switch input.Operation {
	case OperationAdd:
		entry.Quantity += input.Quantity
		entry.LastRestockedAt = &now
	case OperationSubtract:
		if entry.Quantity < input.Quantity {
			return insufficientStock(entry.Quantity, input.Quantity)
		}
		entry.Quantity -= input.Quantity
	case OperationSet:
		if input.Quantity > entry.Quantity {
			entry.LastRestockedAt = &now
		}
		entry.Quantity = input.Quantity
	}

	if err := txRepo.SaveEntry(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save stock entry")
	}

	total, err := txRepo.SumEntryQuantities(ctx, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum stock entries")
	}
	product.Quantity = total
	return nil
}

// Transfer moves quantity between two warehouses and records the audit pair.
// The aggregate quantity is unchanged.
func (s *service) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.FromWarehouseID == input.ToWarehouseID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and destination warehouses must differ")
	}

	var result TransferResult
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindProductByID(ctx, input.ProductID)
		if err != nil {
			return notFoundOr(err, "product not found")
		}
		if _, err := txRepo.FindWarehouseByID(ctx, input.FromWarehouseID); err != nil {
			return notFoundOr(err, "source warehouse not found")
		}
		if _, err := txRepo.FindWarehouseByID(ctx, input.ToWarehouseID); err != nil {
			return notFoundOr(err, "destination warehouse not found")
		}

		source, err := txRepo.FindEntry(ctx, input.ProductID, input.FromWarehouseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return insufficientStock(0, input.Quantity)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load source entry")
		}
		if source.Quantity < input.Quantity {
			return insufficientStock(source.Quantity, input.Quantity)
		}

		now := time.Now().UTC()

		source.Quantity -= input.Quantity
		if err := txRepo.SaveEntry(ctx, source); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save source entry")
		}

		dest, err := txRepo.FindEntry(ctx, input.ProductID, input.ToWarehouseID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load destination entry")
			}
			dest = &models.WarehouseStockEntry{
				ProductID:     input.ProductID,
				WarehouseID:   input.ToWarehouseID,
				MinStockLevel: product.MinStockLevel,
			}
		}
		dest.Quantity += input.Quantity
		dest.LastRestockedAt = &now
		if err := txRepo.SaveEntry(ctx, dest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save destination entry")
		}

		stockOut, err := s.recordTransaction(ctx, txRepo, product, enums.TransactionTypeStockOut, input.FromWarehouseID, input.Quantity, input.Notes, input.PerformedByID, now)
		if err != nil {
			return err
		}
		stockIn, err := s.recordTransaction(ctx, txRepo, product, enums.TransactionTypeStockIn, input.ToWarehouseID, input.Quantity, input.Notes, input.PerformedByID, now)
		if err != nil {
			return err
		}

		result = TransferResult{Product: product, StockOut: stockOut, StockIn: stockIn}
		return nil
	})
	if err != nil {
		return nil, asTyped(err, "transfer stock")
	}
	return &result, nil
}

// CreateTransaction applies the movement's quantity to the warehouse entry
// and the aggregate, then records the audit row. Every type carries a stock
// effect: stock_in, return, and adjustment add; stock_out and damaged remove.
func (s *service) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.StockTransaction, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction type")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var created *models.StockTransaction
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindProductByID(ctx, input.ProductID)
		if err != nil {
			return notFoundOr(err, "product not found")
		}
		if _, err := txRepo.FindWarehouseByID(ctx, input.WarehouseID); err != nil {
			return notFoundOr(err, "warehouse not found")
		}

		now := time.Now().UTC()

		switch {
		case input.Type.AddsStock():
			entry, err := findOrNewEntry(ctx, txRepo, product, input.WarehouseID)
			if err != nil {
				return err
			}
			entry.Quantity += input.Quantity
			entry.LastRestockedAt = &now
			if err := txRepo.SaveEntry(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save stock entry")
			}
			product.Quantity += input.Quantity

		case input.Type.RemovesStock():
			entry, err := txRepo.FindEntry(ctx, product.ID, input.WarehouseID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return insufficientStock(0, input.Quantity)
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock entry")
			}
			if entry.Quantity < input.Quantity {
				return insufficientStock(entry.Quantity, input.Quantity)
			}
			entry.Quantity -= input.Quantity
			if err := txRepo.SaveEntry(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save stock entry")
			}
			product.Quantity -= input.Quantity
			if product.Quantity < 0 {
				product.Quantity = 0
			}
		}

		product.Status = DeriveStatus(product.Quantity, product.MinStockLevel)
		if err := txRepo.SaveProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
		}

		created, err = s.recordTransaction(ctx, txRepo, product, input.Type, input.WarehouseID, input.Quantity, input.Notes, input.PerformedByID, now)
		return err
	})
	if err != nil {
		return nil, asTyped(err, "create transaction")
	}
	return created, nil
}

// DeleteTransaction removes the audit row and reverses the aggregate
// quantity only. The warehouse entry is deliberately left untouched,
// matching the recorded behavior of this endpoint.
func (s *service) DeleteTransaction(ctx context.Context, id uuid.UUID) (*models.StockTransaction, error) {
	var removed *models.StockTransaction
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		txn, err := txRepo.FindTransactionByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "transaction not found")
		}

		product, err := txRepo.FindProductByID(ctx, txn.ProductID)
		if err != nil {
			return notFoundOr(err, "product not found")
		}

		switch {
		case txn.Type.AddsStock():
			product.Quantity -= txn.Quantity
			if product.Quantity < 0 {
				product.Quantity = 0
			}
		case txn.Type.RemovesStock():
			product.Quantity += txn.Quantity
		}

		product.Status = DeriveStatus(product.Quantity, product.MinStockLevel)
		if err := txRepo.SaveProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
		}

		if err := txRepo.DeleteTransactionRow(ctx, txn.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete transaction")
		}
		removed = txn
		return nil
	})
	if err != nil {
		return nil, asTyped(err, "delete transaction")
	}
	return removed, nil
}

func (s *service) recordTransaction(ctx context.Context, txRepo *Repository, product *models.Product, txType enums.TransactionType, warehouseID uuid.UUID, quantity int, notes *string, performedBy uuid.UUID, at time.Time) (*models.StockTransaction, error) {
	count, err := txRepo.CountTransactionsInMonth(ctx, txType, at)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count transactions")
	}

	txn := &models.StockTransaction{
		Number:        TransactionNumber(txType, at, count+1),
		Type:          txType,
		ProductID:     product.ID,
		WarehouseID:   warehouseID,
		Quantity:      quantity,
		UnitPrice:     product.UnitPrice,
		TotalPrice:    product.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		PerformedByID: performedBy,
		Notes:         notes,
	}
	if err := txRepo.CreateTransaction(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
	}
	return txn, nil
}

func findOrNewEntry(ctx context.Context, txRepo *Repository, product *models.Product, warehouseID uuid.UUID) (*models.WarehouseStockEntry, error) {
	entry, err := txRepo.FindEntry(ctx, product.ID, warehouseID)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock entry")
	}
	return &models.WarehouseStockEntry{
		ProductID:     product.ID,
		WarehouseID:   warehouseID,
		MinStockLevel: product.MinStockLevel,
	}, nil
}

func insufficientStock(available, requested int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock: %d available, %d requested", available, requested)).
		WithDetails(map[string]any{"available": available, "requested": requested})
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load record")
}

func asTyped(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
