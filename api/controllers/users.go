package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/api/responses"
	"github.com/stockyardhq/stockyard-backend/api/validators"
	"github.com/stockyardhq/stockyard-backend/internal/users"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/logger"
)

type createUserRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=128"`
	Role        string  `json:"role" validate:"required,oneof=admin manager staff viewer"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
	WarehouseID *string `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
}

type updateUserRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=admin manager staff viewer"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
	WarehouseID *string `json:"warehouse_id,omitempty"`
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid uuid")
	}
	return &id, nil
}

// UsersCreate wires admin user creation.
func UsersCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouseID, err := parseOptionalUUID(body.WarehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := users.CreateUserInput{
			Name:        body.Name,
			Email:       body.Email,
			Password:    body.Password,
			Role:        enums.UserRole(body.Role),
			WarehouseID: warehouseID,
		}
		if body.Status != nil {
			status := enums.UserStatus(*body.Status)
			input.Status = &status
		}

		user, err := svc.CreateUser(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user, "user created")
	}
}

// UsersList wires the paginated user listing.
func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := users.ListFilter{Search: validators.SanitizeString(r.URL.Query().Get("search"), 120)}
		if raw := r.URL.Query().Get("role"); raw != "" {
			role, parseErr := enums.ParseUserRole(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown role filter"))
				return
			}
			filter.Role = &role
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := enums.UserStatus(strings.ToLower(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := r.URL.Query().Get("warehouse_id"); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid warehouse_id filter"))
				return
			}
			filter.WarehouseID = &id
		}

		result, err := svc.ListUsers(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result, "")
	}
}

// UsersGet wires single-user lookup.
func UsersGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user, "")
	}
}

// UsersUpdate wires user mutation.
func UsersUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := users.UpdateUserInput{Name: body.Name, Email: body.Email}
		if body.Role != nil {
			role := enums.UserRole(*body.Role)
			input.Role = &role
		}
		if body.Status != nil {
			status := enums.UserStatus(*body.Status)
			input.Status = &status
		}
		if body.WarehouseID != nil {
			if *body.WarehouseID == "" {
				input.ClearWarehouse = true
			} else {
				warehouseID, parseErr := parseOptionalUUID(body.WarehouseID)
				if parseErr != nil {
					responses.WriteError(r.Context(), logg, w, parseErr)
					return
				}
				input.WarehouseID = warehouseID
			}
		}

		user, err := svc.UpdateUser(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user, "user updated")
	}
}

// UsersDelete wires user removal.
func UsersDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteUser(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil, "user deleted")
	}
}
