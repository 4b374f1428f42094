package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/api/responses"
	"github.com/stockyardhq/stockyard-backend/internal/dashboard"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/logger"
)

func parseWarehouseScope(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("warehouse_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid warehouse_id filter")
	}
	return &id, nil
}

// DashboardStats wires the admin dashboard summary.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats, "")
	}
}

// DashboardUserStats wires the warehouse-scoped dashboard for assigned staff.
func DashboardUserStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID := currentWarehouseID(r)
		if warehouseID == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "account has no warehouse assignment"))
			return
		}

		stats, err := svc.UserStats(r.Context(), *warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats, "")
	}
}

// DashboardUserTrends wires the trend series scoped to the caller's warehouse.
func DashboardUserTrends(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID := currentWarehouseID(r)
		if warehouseID == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "account has no warehouse assignment"))
			return
		}

		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, parseErr := strconv.Atoi(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "days must be an integer"))
				return
			}
			days = parsed
		}

		trends, err := svc.Trends(r.Context(), days, warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"trends": trends}, "")
	}
}

// DashboardTrends wires the daily transaction trend series.
func DashboardTrends(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, parseErr := strconv.Atoi(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "days must be an integer"))
				return
			}
			days = parsed
		}
		warehouseID, err := parseWarehouseScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trends, err := svc.Trends(r.Context(), days, warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"trends": trends}, "")
	}
}

// DashboardReport wires the inventory movement report.
func DashboardReport(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var from, to time.Time
		if raw := query.Get("from"); raw != "" {
			parsed, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "from must be an RFC3339 timestamp"))
				return
			}
			from = parsed
		}
		if raw := query.Get("to"); raw != "" {
			parsed, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "to must be an RFC3339 timestamp"))
				return
			}
			to = parsed
		}
		warehouseID, err := parseWarehouseScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Report(r.Context(), from, to, warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report, "")
	}
}
