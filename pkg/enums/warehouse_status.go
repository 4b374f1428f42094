package enums

import "fmt"

// WarehouseStatus reflects the operational state of a warehouse.
type WarehouseStatus string

const (
	WarehouseStatusActive      WarehouseStatus = "active"
	WarehouseStatusInactive    WarehouseStatus = "inactive"
	WarehouseStatusMaintenance WarehouseStatus = "maintenance"
)

var validWarehouseStatuses = []WarehouseStatus{
	WarehouseStatusActive,
	WarehouseStatusInactive,
	WarehouseStatusMaintenance,
}

// String implements fmt.Stringer.
func (s WarehouseStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known WarehouseStatus.
func (s WarehouseStatus) IsValid() bool {
	for _, candidate := range validWarehouseStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseWarehouseStatus converts raw input into a WarehouseStatus.
func ParseWarehouseStatus(value string) (WarehouseStatus, error) {
	for _, candidate := range validWarehouseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warehouse status %q", value)
}
