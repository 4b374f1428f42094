package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyardhq/stockyard-backend/api/responses"
	"github.com/stockyardhq/stockyard-backend/api/validators"
	"github.com/stockyardhq/stockyard-backend/internal/products"
	"github.com/stockyardhq/stockyard-backend/internal/stock"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
	"github.com/stockyardhq/stockyard-backend/pkg/logger"
)

type createProductRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=200"`
	SKU           string  `json:"sku" validate:"required,min=2,max=64"`
	Category      string  `json:"category" validate:"required,min=2,max=120"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
	MinStockLevel int     `json:"min_stock_level" validate:"gte=0"`
	UnitPrice     string  `json:"unit_price" validate:"required"`
	SupplierID    *string `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	WarehouseID   *string `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
}

type updateProductRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Category      *string `json:"category,omitempty" validate:"omitempty,min=2,max=120"`
	MinStockLevel *int    `json:"min_stock_level,omitempty" validate:"omitempty,gte=0"`
	UnitPrice     *string `json:"unit_price,omitempty"`
	SupplierID    *string `json:"supplier_id,omitempty"`
}

type adjustStockRequest struct {
	Operation   string  `json:"operation" validate:"required,oneof=add subtract set"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	WarehouseID *string `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be a decimal number")
	}
	return price, nil
}

// ProductsCreate wires product creation.
func ProductsCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := parsePrice(body.UnitPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := parseOptionalUUID(body.SupplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warehouseID, err := parseOptionalUUID(body.WarehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), products.CreateProductInput{
			Name:          body.Name,
			SKU:           body.SKU,
			Category:      body.Category,
			Quantity:      body.Quantity,
			MinStockLevel: body.MinStockLevel,
			UnitPrice:     price,
			SupplierID:    supplierID,
			WarehouseID:   warehouseID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product, "product created")
	}
}

// ProductsList wires the paginated product listing.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filter := products.ListFilter{
			Category: validators.SanitizeString(query.Get("category"), 120),
			Search:   validators.SanitizeString(query.Get("search"), 120),
		}
		if raw := query.Get("status"); raw != "" {
			status := enums.ProductStatus(strings.ToLower(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := query.Get("supplier_id"); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier_id filter"))
				return
			}
			filter.SupplierID = &id
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

		result, err := svc.ListProducts(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result, "")
	}
}

// ProductsGet wires single-product lookup with its stock breakdown.
func ProductsGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product, "")
	}
}

// ProductsUpdate wires product mutation.
func ProductsUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpdateProductInput{
			Name:          body.Name,
			Category:      body.Category,
			MinStockLevel: body.MinStockLevel,
		}
		if body.UnitPrice != nil {
			price, parseErr := parsePrice(*body.UnitPrice)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			input.UnitPrice = &price
		}
		if body.SupplierID != nil {
			if *body.SupplierID == "" {
				input.ClearSupplier = true
			} else {
				supplierID, parseErr := parseOptionalUUID(body.SupplierID)
				if parseErr != nil {
					responses.WriteError(r.Context(), logg, w, parseErr)
					return
				}
				input.SupplierID = supplierID
			}
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product, "product updated")
	}
}

// ProductsDelete wires product removal.
func ProductsDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil, "product deleted")
	}
}

// ProductsAdjustStock wires the stock adjustment endpoint.
func ProductsAdjustStock(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouseID, err := parseOptionalUUID(body.WarehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AdjustStock(r.Context(), id, products.AdjustStockInput{
			Operation:   stock.Operation(body.Operation),
			Quantity:    body.Quantity,
			WarehouseID: warehouseID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product, "stock adjusted")
	}
}

// ProductsCategories wires the distinct category listing.
func ProductsCategories(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]string{"categories": categories}, "")
	}
}
