package enums

import "fmt"

// TransactionType classifies a stock movement.
type TransactionType string

const (
	TransactionTypeStockIn    TransactionType = "stock_in"
	TransactionTypeStockOut   TransactionType = "stock_out"
	TransactionTypeAdjustment TransactionType = "adjustment"
	TransactionTypeReturn     TransactionType = "return"
	TransactionTypeDamaged    TransactionType = "damaged"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeStockIn,
	TransactionTypeStockOut,
	TransactionTypeAdjustment,
	TransactionTypeReturn,
	TransactionTypeDamaged,
}

// transactionNumberPrefixes maps each type to the prefix used in generated
// transaction numbers.
var transactionNumberPrefixes = map[TransactionType]string{
	TransactionTypeStockIn:    "SI",
	TransactionTypeStockOut:   "SO",
	TransactionTypeAdjustment: "ADJ",
	TransactionTypeReturn:     "RET",
	TransactionTypeDamaged:    "DMG",
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// NumberPrefix returns the transaction-number prefix for the type.
func (t TransactionType) NumberPrefix() string {
	if p, ok := transactionNumberPrefixes[t]; ok {
		return p
	}
	return "TXN"
}

// AddsStock reports whether the movement increases warehouse quantity.
// Adjustments record their quantity as an increase; downward corrections
// go through the stock-adjust endpoint instead.
func (t TransactionType) AddsStock() bool {
	switch t {
	case TransactionTypeStockIn, TransactionTypeReturn, TransactionTypeAdjustment:
		return true
	default:
		return false
	}
}

// RemovesStock reports whether the movement decreases warehouse quantity.
func (t TransactionType) RemovesStock() bool {
	switch t {
	case TransactionTypeStockOut, TransactionTypeDamaged:
		return true
	default:
		return false
	}
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
