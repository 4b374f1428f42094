package stock

import "github.com/stockyardhq/stockyard-backend/pkg/enums"

// DeriveStatus maps a quantity and threshold onto the product status.
// Every code path that changes stock goes through this one function.
func DeriveStatus(quantity, minStockLevel int) enums.ProductStatus {
	switch {
	case quantity <= 0:
		return enums.ProductStatusOutOfStock
	case quantity <= minStockLevel:
		return enums.ProductStatusLowStock
	default:
		return enums.ProductStatusAvailable
	}
}
