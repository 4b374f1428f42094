package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stockyardhq/stockyard-backend/internal/stock"
	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

type fixture struct {
	svc       Service
	stock     stock.Service
	conn      *gorm.DB
	warehouse *models.Warehouse
	operator  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// in-memory sqlite is per-connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Warehouse{},
		&models.Product{},
		&models.WarehouseStockEntry{},
		&models.StockTransaction{},
	))

	stockSvc, err := stock.NewService(stock.NewRepository(conn), db.FromConn(conn))
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	warehouse := &models.Warehouse{Code: "WH-001", Name: "Main"}
	require.NoError(t, conn.Create(warehouse).Error)
	operator := &models.User{Name: "Op", Email: "op@example.com", PasswordHash: "x"}
	require.NoError(t, conn.Create(operator).Error)

	return &fixture{svc: svc, stock: stockSvc, conn: conn, warehouse: warehouse, operator: operator}
}

func (f *fixture) seedProduct(t *testing.T, sku string, quantity, minStock int, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		Category:      "general",
		Quantity:      quantity,
		MinStockLevel: minStock,
		Status:        stock.DeriveStatus(quantity, minStock),
		UnitPrice:     decimal.NewFromFloat(price),
	}
	require.NoError(t, f.conn.Create(product).Error)
	return product
}

func (f *fixture) record(t *testing.T, product *models.Product, txType enums.TransactionType, quantity int) {
	t.Helper()
	_, err := f.stock.CreateTransaction(context.Background(), stock.CreateTransactionInput{
		Type:          txType,
		ProductID:     product.ID,
		WarehouseID:   f.warehouse.ID,
		Quantity:      quantity,
		PerformedByID: f.operator.ID,
	})
	require.NoError(t, err)
}

func TestStats(t *testing.T) {
	f := newFixture(t)

	f.seedProduct(t, "AA-001", 10, 2, 2.00)
	f.seedProduct(t, "BB-002", 1, 5, 10.00)
	f.seedProduct(t, "CC-003", 0, 5, 3.00)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.TotalWarehouses)
	assert.Equal(t, int64(0), stats.TotalSuppliers)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.True(t, stats.TotalStockValue.Equal(decimal.NewFromFloat(30.00)),
		"got %s", stats.TotalStockValue)
	assert.Equal(t, int64(1), stats.StatusBreakdown[enums.ProductStatusAvailable])
	assert.Equal(t, int64(1), stats.StatusBreakdown[enums.ProductStatusLowStock])
	assert.Equal(t, int64(1), stats.StatusBreakdown[enums.ProductStatusOutOfStock])
}

func TestStatsIncludesRecentTransactions(t *testing.T) {
	f := newFixture(t)

	product := f.seedProduct(t, "AA-001", 10, 2, 2.00)
	f.record(t, product, enums.TransactionTypeStockIn, 5)
	f.record(t, product, enums.TransactionTypeStockOut, 3)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.RecentTransactions, 2)
	assert.Equal(t, "Product AA-001", stats.RecentTransactions[0].ProductName)
}

func TestUserStatsScopedToWarehouse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &models.Warehouse{Code: "WH-002", Name: "Annex"}
	require.NoError(t, f.conn.Create(other).Error)

	product := f.seedProduct(t, "AA-001", 0, 2, 2.00)
	require.NoError(t, f.conn.Create(&models.WarehouseStockEntry{
		ProductID: product.ID, WarehouseID: f.warehouse.ID, Quantity: 7,
	}).Error)
	require.NoError(t, f.conn.Create(&models.WarehouseStockEntry{
		ProductID: product.ID, WarehouseID: other.ID, Quantity: 3,
	}).Error)

	f.record(t, product, enums.TransactionTypeStockIn, 5)

	stats, err := f.svc.UserStats(ctx, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ProductCount)
	assert.Equal(t, int64(12), stats.TotalQuantity)
	assert.Len(t, stats.RecentTransactions, 1)

	otherStats, err := f.svc.UserStats(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), otherStats.TotalQuantity)
	assert.Empty(t, otherStats.RecentTransactions)
}

func TestTrendsFillEmptyDays(t *testing.T) {
	f := newFixture(t)

	product := f.seedProduct(t, "AA-001", 10, 2, 2.00)
	f.record(t, product, enums.TransactionTypeStockIn, 5)
	f.record(t, product, enums.TransactionTypeStockIn, 2)
	f.record(t, product, enums.TransactionTypeStockOut, 1)

	points, err := f.svc.Trends(context.Background(), 7, nil)
	require.NoError(t, err)
	require.Len(t, points, 7)

	today := time.Now().UTC().Format("2006-01-02")
	last := points[len(points)-1]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, int64(2), last.ByType[enums.TransactionTypeStockIn])
	assert.Equal(t, int64(1), last.ByType[enums.TransactionTypeStockOut])
	assert.Equal(t, int64(8), last.Quantity)

	for _, point := range points[:len(points)-1] {
		assert.Zero(t, point.Quantity)
	}
}

func TestReportTotalsAndTopProducts(t *testing.T) {
	f := newFixture(t)

	busy := f.seedProduct(t, "AA-001", 50, 2, 2.00)
	quiet := f.seedProduct(t, "BB-002", 50, 2, 1.00)
	low := f.seedProduct(t, "CC-003", 1, 5, 3.00)

	f.record(t, busy, enums.TransactionTypeStockIn, 20)
	f.record(t, busy, enums.TransactionTypeStockOut, 10)
	f.record(t, quiet, enums.TransactionTypeStockIn, 5)

	report, err := f.svc.Report(context.Background(), time.Time{}, time.Time{}, nil)
	require.NoError(t, err)

	require.Len(t, report.TypeTotals, 2)
	byType := map[enums.TransactionType]TypeTotal{}
	for _, total := range report.TypeTotals {
		byType[total.Type] = total
	}
	assert.Equal(t, int64(2), byType[enums.TransactionTypeStockIn].Count)
	assert.Equal(t, int64(25), byType[enums.TransactionTypeStockIn].Quantity)
	assert.True(t, byType[enums.TransactionTypeStockIn].TotalValue.Equal(decimal.NewFromFloat(45.00)),
		"got %s", byType[enums.TransactionTypeStockIn].TotalValue)

	require.NotEmpty(t, report.TopProducts)
	assert.Equal(t, busy.ID, report.TopProducts[0].ProductID)
	assert.Equal(t, int64(30), report.TopProducts[0].Quantity)

	require.Len(t, report.LowStock, 1)
	assert.Equal(t, low.ID, report.LowStock[0].ProductID)
}
