package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/api/responses"
	"github.com/stockyardhq/stockyard-backend/api/validators"
	"github.com/stockyardhq/stockyard-backend/internal/warehouses"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/logger"
)

type createWarehouseRequest struct {
	Code      string  `json:"code" validate:"required,min=4,max=16"`
	Name      string  `json:"name" validate:"required,min=2,max=200"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=120"`
	State     *string `json:"state,omitempty" validate:"omitempty,max=120"`
	Country   *string `json:"country,omitempty" validate:"omitempty,max=120"`
	Zip       *string `json:"zip,omitempty" validate:"omitempty,max=20"`
	Capacity  int     `json:"capacity" validate:"gte=0"`
	ManagerID *string `json:"manager_id,omitempty" validate:"omitempty,uuid"`
	Status    string  `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
}

type updateWarehouseRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=120"`
	State     *string `json:"state,omitempty" validate:"omitempty,max=120"`
	Country   *string `json:"country,omitempty" validate:"omitempty,max=120"`
	Zip       *string `json:"zip,omitempty" validate:"omitempty,max=20"`
	Capacity  *int    `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	ManagerID *string `json:"manager_id,omitempty"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive maintenance"`
}

type transferRequest struct {
	ProductID       string  `json:"product_id" validate:"required,uuid"`
	FromWarehouseID string  `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string  `json:"to_warehouse_id" validate:"required,uuid"`
	Quantity        int     `json:"quantity" validate:"required,gt=0"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// WarehousesCreate wires warehouse creation.
func WarehousesCreate(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createWarehouseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		managerID, err := parseOptionalUUID(body.ManagerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := warehouses.CreateWarehouseInput{
			Code:      body.Code,
			Name:      body.Name,
			Address:   body.Address,
			City:      body.City,
			State:     body.State,
			Country:   body.Country,
			Zip:       body.Zip,
			Capacity:  body.Capacity,
			ManagerID: managerID,
		}
		if body.Status != "" {
			status := enums.WarehouseStatus(body.Status)
			input.Status = &status
		}

		warehouse, err := svc.CreateWarehouse(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, warehouse, "warehouse created")
	}
}

// WarehousesList wires the paginated warehouse listing.
func WarehousesList(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filter := warehouses.ListFilter{
			Search: validators.SanitizeString(query.Get("search"), 120),
		}
		if raw := query.Get("status"); raw != "" {
			status := enums.WarehouseStatus(strings.ToLower(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			filter.Status = &status
		}

		result, err := svc.ListWarehouses(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result, "")
	}
}

// WarehousesGet wires single-warehouse lookup.
func WarehousesGet(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouse, err := svc.GetWarehouse(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, warehouse, "")
	}
}

// WarehousesUpdate wires warehouse mutation.
func WarehousesUpdate(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateWarehouseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := warehouses.UpdateWarehouseInput{
			Name:     body.Name,
			Address:  body.Address,
			City:     body.City,
			State:    body.State,
			Country:  body.Country,
			Zip:      body.Zip,
			Capacity: body.Capacity,
		}
		if body.ManagerID != nil {
			if *body.ManagerID == "" {
				input.ClearManager = true
			} else {
				managerID, parseErr := parseOptionalUUID(body.ManagerID)
				if parseErr != nil {
					responses.WriteError(r.Context(), logg, w, parseErr)
					return
				}
				input.ManagerID = managerID
			}
		}
		if body.Status != nil {
			status := enums.WarehouseStatus(*body.Status)
			input.Status = &status
		}

		warehouse, err := svc.UpdateWarehouse(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, warehouse, "warehouse updated")
	}
}

// WarehousesDelete wires warehouse removal.
func WarehousesDelete(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteWarehouse(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil, "warehouse deleted")
	}
}

// WarehousesInventory wires the per-warehouse inventory listing.
func WarehousesInventory(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Inventory(r.Context(), id, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result, "")
	}
}

// WarehousesStats wires the per-warehouse stock summary.
func WarehousesStats(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats, "")
	}
}

// WarehousesTransfer wires stock movement between warehouses.
func WarehousesTransfer(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body transferRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid product_id"))
			return
		}
		fromID, err := uuid.Parse(body.FromWarehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid from_warehouse_id"))
			return
		}
		toID, err := uuid.Parse(body.ToWarehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid to_warehouse_id"))
			return
		}

		result, err := svc.Transfer(r.Context(), warehouses.TransferInput{
			ProductID:       productID,
			FromWarehouseID: fromID,
			ToWarehouseID:   toID,
			Quantity:        body.Quantity,
			Notes:           body.Notes,
			PerformedByID:   actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result, "stock transferred")
	}
}
