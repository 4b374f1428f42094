package enums

import "testing"

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("manager")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != UserRoleManager {
		t.Fatalf("expected manager, got %s", role)
	}
	if _, err := ParseUserRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRoleCapabilities(t *testing.T) {
	if !UserRoleAdmin.Can(CapUsersManage) {
		t.Fatal("admin should manage users")
	}
	if UserRoleManager.Can(CapUsersManage) {
		t.Fatal("manager should not manage users")
	}
	if !UserRoleManager.Can(CapStockTransfer) {
		t.Fatal("manager should transfer stock")
	}
	if !UserRoleStaff.Can(CapTransactionsWrite) {
		t.Fatal("staff should record transactions")
	}
	if UserRoleStaff.Can(CapTransactionsDelete) {
		t.Fatal("staff should not delete transactions")
	}
	if UserRoleViewer.Can(CapStockAdjust) {
		t.Fatal("viewer is read-only")
	}
	if UserRole("ghost").Can(CapDashboardView) {
		t.Fatal("unknown role has no capabilities")
	}
}

func TestTransactionTypeDirections(t *testing.T) {
	if !TransactionTypeStockIn.AddsStock() || TransactionTypeStockIn.RemovesStock() {
		t.Fatal("stock_in must add stock")
	}
	if !TransactionTypeReturn.AddsStock() {
		t.Fatal("return must add stock")
	}
	if !TransactionTypeStockOut.RemovesStock() || TransactionTypeStockOut.AddsStock() {
		t.Fatal("stock_out must remove stock")
	}
	if !TransactionTypeDamaged.RemovesStock() {
		t.Fatal("damaged must remove stock")
	}
	if !TransactionTypeAdjustment.AddsStock() || TransactionTypeAdjustment.RemovesStock() {
		t.Fatal("adjustment must add stock")
	}
}

func TestTransactionNumberPrefixes(t *testing.T) {
	cases := map[TransactionType]string{
		TransactionTypeStockIn:    "SI",
		TransactionTypeStockOut:   "SO",
		TransactionTypeAdjustment: "ADJ",
		TransactionTypeReturn:     "RET",
		TransactionTypeDamaged:    "DMG",
	}
	for typ, want := range cases {
		if got := typ.NumberPrefix(); got != want {
			t.Fatalf("type %s expected prefix %s got %s", typ, want, got)
		}
	}
	if got := TransactionType("bogus").NumberPrefix(); got != "TXN" {
		t.Fatalf("unknown type should fall back to TXN, got %s", got)
	}
}

func TestStatusParsers(t *testing.T) {
	if s, err := ParseProductStatus("low_stock"); err != nil || s != ProductStatusLowStock {
		t.Fatalf("parse low_stock: %v %v", s, err)
	}
	if _, err := ParseProductStatus("empty"); err == nil {
		t.Fatal("expected error for unknown product status")
	}
	if s, err := ParseWarehouseStatus("maintenance"); err != nil || s != WarehouseStatusMaintenance {
		t.Fatalf("parse maintenance: %v %v", s, err)
	}
	if s, err := ParseSupplierStatus("blacklisted"); err != nil || s != SupplierStatusBlacklisted {
		t.Fatalf("parse blacklisted: %v %v", s, err)
	}
	if s, err := ParseUserStatus("suspended"); err != nil || s != UserStatusSuspended {
		t.Fatalf("parse suspended: %v %v", s, err)
	}
}
