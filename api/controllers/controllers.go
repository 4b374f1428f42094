package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/api/middleware"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
)

// currentUserID resolves the authenticated user from the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}

// currentWarehouseID resolves the caller's warehouse assignment, when any.
func currentWarehouseID(r *http.Request) *uuid.UUID {
	raw := middleware.WarehouseIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
