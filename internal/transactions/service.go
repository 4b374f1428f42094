package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/internal/stock"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/pagination"
)

// CreateInput describes a stock movement submitted through the API.
type CreateInput struct {
	Type          enums.TransactionType
	ProductID     uuid.UUID
	WarehouseID   uuid.UUID
	Quantity      int
	Notes         *string
	PerformedByID uuid.UUID
}

// ListResult couples a transaction page with pagination metadata.
type ListResult struct {
	Transactions []TransactionDTO  `json:"transactions"`
	Pagination   pagination.Result `json:"pagination"`
}

// Service exposes the transaction audit trail.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*TransactionDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TransactionDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
	Delete(ctx context.Context, id uuid.UUID) (*TransactionDTO, error)
}

type service struct {
	repo  *Repository
	stock stock.Service
}

// NewService constructs the transaction service.
func NewService(repo *Repository, stockSvc stock.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if stockSvc == nil {
		return nil, fmt.Errorf("stock service required")
	}
	return &service{repo: repo, stock: stockSvc}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*TransactionDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction type")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	txn, err := s.stock.CreateTransaction(ctx, stock.CreateTransactionInput{
		Type:          input.Type,
		ProductID:     input.ProductID,
		WarehouseID:   input.WarehouseID,
		Quantity:      input.Quantity,
		Notes:         input.Notes,
		PerformedByID: input.PerformedByID,
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, txn.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TransactionDTO, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load transaction")
	}
	return FromModel(txn), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}

	page.Page = pagination.NormalizePage(page.Page)
	page.Limit = pagination.NormalizeLimit(page.Limit)

	list, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list transactions")
	}
	return &ListResult{
		Transactions: FromModels(list),
		Pagination:   pagination.NewResult(page, total),
	}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*TransactionDTO, error) {
	deleted, err := s.stock.DeleteTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(deleted), nil
}
