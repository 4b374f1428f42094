package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/api/responses"
	"github.com/stockyardhq/stockyard-backend/api/validators"
	"github.com/stockyardhq/stockyard-backend/internal/transactions"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/logger"
)

type createTransactionRequest struct {
	Type        string  `json:"type" validate:"required,oneof=stock_in stock_out adjustment return damaged"`
	ProductID   string  `json:"product_id" validate:"required,uuid"`
	WarehouseID string  `json:"warehouse_id" validate:"required,uuid"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// TransactionsCreate wires stock transaction recording.
func TransactionsCreate(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createTransactionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txType, err := enums.ParseTransactionType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction type"))
			return
		}
		productID, err := uuid.Parse(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid product_id"))
			return
		}
		warehouseID, err := uuid.Parse(body.WarehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid warehouse_id"))
			return
		}

		tx, err := svc.Create(r.Context(), transactions.CreateInput{
			Type:          txType,
			ProductID:     productID,
			WarehouseID:   warehouseID,
			Quantity:      body.Quantity,
			Notes:         body.Notes,
			PerformedByID: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tx, "transaction recorded")
	}
}

// TransactionsList wires the paginated transaction listing.
func TransactionsList(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		var filter transactions.ListFilter
		if raw := query.Get("type"); raw != "" {
			txType, parseErr := enums.ParseTransactionType(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown type filter"))
				return
			}
			filter.Type = &txType
		}
		if raw := query.Get("product_id"); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid product_id filter"))
				return
			}
			filter.ProductID = &id
		}
		if raw := query.Get("warehouse_id"); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid warehouse_id filter"))
				return
			}
			filter.WarehouseID = &id
		}
		if raw := query.Get("from"); raw != "" {
			from, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "from must be an RFC3339 timestamp"))
				return
			}
			filter.From = &from
		}
		if raw := query.Get("to"); raw != "" {
			to, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "to must be an RFC3339 timestamp"))
				return
			}
			filter.To = &to
		}

		result, err := svc.List(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result, "")
	}
}

// TransactionsGet wires single-transaction lookup.
func TransactionsGet(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tx, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tx, "")
	}
}

// TransactionsDelete wires transaction removal with aggregate reversal.
func TransactionsDelete(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tx, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tx, "transaction deleted")
	}
}
