package enums

import "fmt"

// UserRole represents the system-level permissions role.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleStaff   UserRole = "staff"
	UserRoleViewer  UserRole = "viewer"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleManager,
	UserRoleStaff,
	UserRoleViewer,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// Capability names a discrete permission checked by route guards.
type Capability string

const (
	CapUsersManage        Capability = "users:manage"
	CapProductsWrite      Capability = "products:write"
	CapStockAdjust        Capability = "stock:adjust"
	CapStockTransfer      Capability = "stock:transfer"
	CapSuppliersWrite     Capability = "suppliers:write"
	CapWarehousesWrite    Capability = "warehouses:write"
	CapTransactionsWrite  Capability = "transactions:write"
	CapTransactionsDelete Capability = "transactions:delete"
	CapDashboardView      Capability = "dashboard:view"
)

var roleCapabilities = map[UserRole]map[Capability]struct{}{
	UserRoleAdmin: {
		CapUsersManage:        {},
		CapProductsWrite:      {},
		CapStockAdjust:        {},
		CapStockTransfer:      {},
		CapSuppliersWrite:     {},
		CapWarehousesWrite:    {},
		CapTransactionsWrite:  {},
		CapTransactionsDelete: {},
		CapDashboardView:      {},
	},
	UserRoleManager: {
		CapProductsWrite:      {},
		CapStockAdjust:        {},
		CapStockTransfer:      {},
		CapSuppliersWrite:     {},
		CapWarehousesWrite:    {},
		CapTransactionsWrite:  {},
		CapTransactionsDelete: {},
		CapDashboardView:      {},
	},
	UserRoleStaff: {
		CapStockAdjust:       {},
		CapTransactionsWrite: {},
	},
	UserRoleViewer: {},
}

// Can reports whether the role holds the requested capability.
func (r UserRole) Can(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}
