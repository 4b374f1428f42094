package stock

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn), db.FromConn(conn))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, conn
}

func reloadProduct(t *testing.T, conn *gorm.DB, id any) *models.Product {
	t.Helper()
	var product models.Product
	if err := conn.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	return &product
}

func reloadEntry(t *testing.T, conn *gorm.DB, productID, warehouseID any) *models.WarehouseStockEntry {
	t.Helper()
	var entry models.WarehouseStockEntry
	if err := conn.First(&entry, "product_id = ? AND warehouse_id = ?", productID, warehouseID).Error; err != nil {
		t.Fatalf("failed to reload entry: %v", err)
	}
	return &entry
}

func TestAdjustWarehouseStockEndToEnd(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "WID-1", 0, 10)

	if product.Status != enums.ProductStatusOutOfStock {
		t.Fatalf("expected out_of_stock at quantity 0, got %s", product.Status)
	}

	updated, err := svc.AdjustStock(ctx, product.ID, AdjustInput{
		Operation:   OperationAdd,
		Quantity:    5,
		WarehouseID: &warehouse.ID,
	})
	if err != nil {
		t.Fatalf("AdjustStock returned error: %v", err)
	}
	if updated.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", updated.Quantity)
	}
	if updated.Status != enums.ProductStatusLowStock {
		t.Fatalf("expected low_stock at quantity 5, got %s", updated.Status)
	}

	updated, err = svc.AdjustStock(ctx, product.ID, AdjustInput{
		Operation:   OperationAdd,
		Quantity:    10,
		WarehouseID: &warehouse.ID,
	})
	if err != nil {
		t.Fatalf("AdjustStock returned error: %v", err)
	}
	if updated.Quantity != 15 {
		t.Fatalf("expected quantity 15, got %d", updated.Quantity)
	}
	if updated.Status != enums.ProductStatusAvailable {
		t.Fatalf("expected available at quantity 15, got %s", updated.Status)
	}

	entry := reloadEntry(t, conn, product.ID, warehouse.ID)
	if entry.Quantity != 15 {
		t.Fatalf("expected warehouse entry 15, got %d", entry.Quantity)
	}
	if entry.LastRestockedAt == nil {
		t.Fatal("expected lastRestockedAt to be set after add")
	}
}

func TestAdjustAggregateMatchesEntrySum(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	whA := seedWarehouse(t, conn, "WH-001")
	whB := seedWarehouse(t, conn, "WH-002")
	product := seedProduct(t, conn, "SKU-SUM", 0, 3)

	if _, err := svc.AdjustStock(ctx, product.ID, AdjustInput{Operation: OperationSet, Quantity: 7, WarehouseID: &whA.ID}); err != nil {
		t.Fatalf("AdjustStock returned error: %v", err)
	}
	if _, err := svc.AdjustStock(ctx, product.ID, AdjustInput{Operation: OperationAdd, Quantity: 4, WarehouseID: &whB.ID}); err != nil {
		t.Fatalf("AdjustStock returned error: %v", err)
	}

	got := reloadProduct(t, conn, product.ID)
	if got.Quantity != 11 {
		t.Fatalf("expected aggregate 11, got %d", got.Quantity)
	}
}

func TestAdjustSubtractInsufficientLeavesStateUnchanged(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-INSUF", 3, 1)
	seedEntry(t, conn, product, warehouse, 3)

	_, err := svc.AdjustStock(ctx, product.ID, AdjustInput{
		Operation:   OperationSubtract,
		Quantity:    10,
		WarehouseID: &warehouse.ID,
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	if entry := reloadEntry(t, conn, product.ID, warehouse.ID); entry.Quantity != 3 {
		t.Fatalf("expected entry unchanged at 3, got %d", entry.Quantity)
	}
	if got := reloadProduct(t, conn, product.ID); got.Quantity != 3 {
		t.Fatalf("expected aggregate unchanged at 3, got %d", got.Quantity)
	}
}

func TestGlobalSubtractClampsAtZero(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, conn, "SKU-CLAMP", 4, 2)

	updated, err := svc.AdjustStock(ctx, product.ID, AdjustInput{Operation: OperationSubtract, Quantity: 10})
	if err != nil {
		t.Fatalf("AdjustStock returned error: %v", err)
	}
	if updated.Quantity != 0 {
		t.Fatalf("expected clamped quantity 0, got %d", updated.Quantity)
	}
	if updated.Status != enums.ProductStatusOutOfStock {
		t.Fatalf("expected out_of_stock, got %s", updated.Status)
	}
}

func TestTransferConservation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	whA := seedWarehouse(t, conn, "WH-001")
	whB := seedWarehouse(t, conn, "WH-002")
	product := seedProduct(t, conn, "SKU-XFER", 10, 2)
	seedEntry(t, conn, product, whA, 10)

	result, err := svc.Transfer(ctx, TransferInput{
		ProductID:       product.ID,
		FromWarehouseID: whA.ID,
		ToWarehouseID:   whB.ID,
		Quantity:        4,
		PerformedByID:   user.ID,
	})
	if err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}

	if entry := reloadEntry(t, conn, product.ID, whA.ID); entry.Quantity != 6 {
		t.Fatalf("expected source entry 6, got %d", entry.Quantity)
	}
	if entry := reloadEntry(t, conn, product.ID, whB.ID); entry.Quantity != 4 {
		t.Fatalf("expected destination entry 4, got %d", entry.Quantity)
	}
	if got := reloadProduct(t, conn, product.ID); got.Quantity != 10 {
		t.Fatalf("transfer must conserve aggregate, got %d", got.Quantity)
	}

	if result.StockOut.Type != enums.TransactionTypeStockOut || result.StockOut.WarehouseID != whA.ID {
		t.Fatalf("unexpected stock_out record %+v", result.StockOut)
	}
	if result.StockIn.Type != enums.TransactionTypeStockIn || result.StockIn.WarehouseID != whB.ID {
		t.Fatalf("unexpected stock_in record %+v", result.StockIn)
	}

	var count int64
	if err := conn.Model(&models.StockTransaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 audit records, got %d", count)
	}
}

func TestTransferRejectsInsufficientSource(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	whA := seedWarehouse(t, conn, "WH-001")
	whB := seedWarehouse(t, conn, "WH-002")
	product := seedProduct(t, conn, "SKU-XFER2", 2, 1)
	seedEntry(t, conn, product, whA, 2)

	_, err := svc.Transfer(ctx, TransferInput{
		ProductID:       product.ID,
		FromWarehouseID: whA.ID,
		ToWarehouseID:   whB.ID,
		Quantity:        5,
		PerformedByID:   user.ID,
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	if entry := reloadEntry(t, conn, product.ID, whA.ID); entry.Quantity != 2 {
		t.Fatalf("expected source unchanged at 2, got %d", entry.Quantity)
	}

	var count int64
	if err := conn.Model(&models.StockTransaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no audit records after failed transfer, got %d", count)
	}
}

func TestCreateTransactionStockIn(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-TXN", 10, 2)

	txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		Type:          enums.TransactionTypeStockIn,
		ProductID:     product.ID,
		WarehouseID:   warehouse.ID,
		Quantity:      50,
		PerformedByID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}

	if got := reloadProduct(t, conn, product.ID); got.Quantity != 60 {
		t.Fatalf("expected aggregate 60, got %d", got.Quantity)
	}

	wantTotal := decimal.NewFromFloat(2.50).Mul(decimal.NewFromInt(50))
	if !txn.TotalPrice.Equal(wantTotal) {
		t.Fatalf("expected total %s, got %s", wantTotal, txn.TotalPrice)
	}
	if !strings.HasPrefix(txn.Number, "SI-") {
		t.Fatalf("expected SI prefix, got %s", txn.Number)
	}
}

func TestCreateTransactionStockOutInsufficient(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-TXN2", 3, 1)
	seedEntry(t, conn, product, warehouse, 3)

	_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		Type:          enums.TransactionTypeStockOut,
		ProductID:     product.ID,
		WarehouseID:   warehouse.ID,
		Quantity:      5,
		PerformedByID: user.ID,
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if got := reloadProduct(t, conn, product.ID); got.Quantity != 3 {
		t.Fatalf("expected aggregate unchanged at 3, got %d", got.Quantity)
	}
}

func TestCreateTransactionAdjustmentAppliesDelta(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-ADJ", 10, 2)
	seedEntry(t, conn, product, warehouse, 10)

	txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		Type:          enums.TransactionTypeAdjustment,
		ProductID:     product.ID,
		WarehouseID:   warehouse.ID,
		Quantity:      5,
		PerformedByID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}

	if entry := reloadEntry(t, conn, product.ID, warehouse.ID); entry.Quantity != 15 {
		t.Fatalf("expected entry 15 after adjustment, got %d", entry.Quantity)
	}
	if got := reloadProduct(t, conn, product.ID); got.Quantity != 15 {
		t.Fatalf("expected aggregate 15 after adjustment, got %d", got.Quantity)
	}
	if !strings.HasPrefix(txn.Number, "ADJ-") {
		t.Fatalf("expected ADJ prefix, got %s", txn.Number)
	}
}

func TestCreateTransactionReturnAddsStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-RET", 4, 1)
	seedEntry(t, conn, product, warehouse, 4)

	txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		Type:          enums.TransactionTypeReturn,
		ProductID:     product.ID,
		WarehouseID:   warehouse.ID,
		Quantity:      3,
		PerformedByID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}

	if entry := reloadEntry(t, conn, product.ID, warehouse.ID); entry.Quantity != 7 {
		t.Fatalf("expected entry 7 after return, got %d", entry.Quantity)
	}
	if got := reloadProduct(t, conn, product.ID); got.Quantity != 7 {
		t.Fatalf("expected aggregate 7 after return, got %d", got.Quantity)
	}
	if !strings.HasPrefix(txn.Number, "RET-") {
		t.Fatalf("expected RET prefix, got %s", txn.Number)
	}
}

func TestCreateTransactionDamagedRemovesStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-DMG", 8, 2)
	seedEntry(t, conn, product, warehouse, 8)

	txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		Type:          enums.TransactionTypeDamaged,
		ProductID:     product.ID,
		WarehouseID:   warehouse.ID,
		Quantity:      3,
		PerformedByID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}

	if entry := reloadEntry(t, conn, product.ID, warehouse.ID); entry.Quantity != 5 {
		t.Fatalf("expected entry 5 after damage write-off, got %d", entry.Quantity)
	}
	if got := reloadProduct(t, conn, product.ID); got.Quantity != 5 {
		t.Fatalf("expected aggregate 5 after damage write-off, got %d", got.Quantity)
	}
	if !strings.HasPrefix(txn.Number, "DMG-") {
		t.Fatalf("expected DMG prefix, got %s", txn.Number)
	}
}

func TestCreateTransactionDamagedInsufficientLeavesStateUnchanged(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-DMG2", 2, 1)
	seedEntry(t, conn, product, warehouse, 2)

	_, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		Type:          enums.TransactionTypeDamaged,
		ProductID:     product.ID,
		WarehouseID:   warehouse.ID,
		Quantity:      6,
		PerformedByID: user.ID,
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	if entry := reloadEntry(t, conn, product.ID, warehouse.ID); entry.Quantity != 2 {
		t.Fatalf("expected entry unchanged at 2, got %d", entry.Quantity)
	}
	if got := reloadProduct(t, conn, product.ID); got.Quantity != 2 {
		t.Fatalf("expected aggregate unchanged at 2, got %d", got.Quantity)
	}

	var count int64
	if err := conn.Model(&models.StockTransaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no audit record after rejected write-off, got %d", count)
	}
}

func TestTransactionNumbersIncreaseWithinTypeAndMonth(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-SEQ", 0, 1)

	var numbers []string
	for i := 0; i < 3; i++ {
		txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
			Type:          enums.TransactionTypeStockIn,
			ProductID:     product.ID,
			WarehouseID:   warehouse.ID,
			Quantity:      1,
			PerformedByID: user.ID,
		})
		if err != nil {
			t.Fatalf("CreateTransaction returned error: %v", err)
		}
		numbers = append(numbers, txn.Number)
	}

	for i, number := range numbers {
		parts := strings.Split(number, "-")
		if len(parts) != 3 {
			t.Fatalf("unexpected number format %s", number)
		}
		if len(parts[2]) != 4 {
			t.Fatalf("expected zero-padded 4-digit sequence, got %s", number)
		}
		if i > 0 && numbers[i-1] >= number {
			t.Fatalf("expected strictly increasing numbers, got %v", numbers)
		}
	}
}

func TestDeleteTransactionReversesAggregateOnly(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	warehouse := seedWarehouse(t, conn, "WH-001")
	product := seedProduct(t, conn, "SKU-DEL", 0, 1)

	txn, err := svc.CreateTransaction(ctx, CreateTransactionInput{
		Type:          enums.TransactionTypeStockIn,
		ProductID:     product.ID,
		WarehouseID:   warehouse.ID,
		Quantity:      5,
		PerformedByID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}

	if _, err := svc.DeleteTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("DeleteTransaction returned error: %v", err)
	}

	if got := reloadProduct(t, conn, product.ID); got.Quantity != 0 {
		t.Fatalf("expected aggregate reversed to 0, got %d", got.Quantity)
	}
	// the warehouse entry is not corrected on delete
	if entry := reloadEntry(t, conn, product.ID, warehouse.ID); entry.Quantity != 5 {
		t.Fatalf("expected entry untouched at 5, got %d", entry.Quantity)
	}

	var count int64
	if err := conn.Model(&models.StockTransaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected transaction row removed, got %d", count)
	}
}
