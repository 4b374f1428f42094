package controllers

import (
	"net/http"
	"strings"

	"github.com/stockyardhq/stockyard-backend/api/responses"
	"github.com/stockyardhq/stockyard-backend/api/validators"
	"github.com/stockyardhq/stockyard-backend/internal/suppliers"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/logger"
)

type createSupplierRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=200"`
	Code          string  `json:"code" validate:"required,min=2,max=32"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=200"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Status        string  `json:"status" validate:"omitempty,oneof=active inactive blacklisted"`
}

type updateSupplierRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=200"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive blacklisted"`
}

// SuppliersCreate wires supplier creation.
func SuppliersCreate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createSupplierRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := suppliers.CreateSupplierInput{
			Name:          body.Name,
			Code:          body.Code,
			ContactPerson: body.ContactPerson,
			Email:         body.Email,
			Phone:         body.Phone,
			Address:       body.Address,
		}
		if body.Status != "" {
			status := enums.SupplierStatus(body.Status)
			input.Status = &status
		}

		supplier, err := svc.CreateSupplier(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier, "supplier created")
	}
}

// SuppliersList wires the paginated supplier listing.
func SuppliersList(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filter := suppliers.ListFilter{
			Search: validators.SanitizeString(query.Get("search"), 120),
		}
		if raw := query.Get("status"); raw != "" {
			status := enums.SupplierStatus(strings.ToLower(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			filter.Status = &status
		}

		result, err := svc.ListSuppliers(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result, "")
	}
}

// SuppliersGet wires single-supplier lookup.
func SuppliersGet(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.GetSupplier(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier, "")
	}
}

// SuppliersUpdate wires supplier mutation.
func SuppliersUpdate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSupplierRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := suppliers.UpdateSupplierInput{
			Name:          body.Name,
			ContactPerson: body.ContactPerson,
			Email:         body.Email,
			Phone:         body.Phone,
			Address:       body.Address,
		}
		if body.Status != nil {
			status := enums.SupplierStatus(*body.Status)
			input.Status = &status
		}

		supplier, err := svc.UpdateSupplier(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier, "supplier updated")
	}
}

// SuppliersDelete wires supplier removal.
func SuppliersDelete(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteSupplier(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil, "supplier deleted")
	}
}
