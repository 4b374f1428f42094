package stock

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stockyardhq/stockyard-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// in-memory sqlite is per-connection
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Warehouse{},
		&models.Product{},
		&models.WarehouseStockEntry{},
		&models.StockTransaction{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test Operator",
		Email:        "operator@example.com",
		PasswordHash: "x",
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedWarehouse(t *testing.T, conn *gorm.DB, code string) *models.Warehouse {
	t.Helper()
	warehouse := &models.Warehouse{
		Code: code,
		Name: "Warehouse " + code,
	}
	if err := conn.Create(warehouse).Error; err != nil {
		t.Fatalf("failed to seed warehouse: %v", err)
	}
	return warehouse
}

func seedProduct(t *testing.T, conn *gorm.DB, sku string, quantity, minStock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		Category:      "general",
		Quantity:      quantity,
		MinStockLevel: minStock,
		Status:        DeriveStatus(quantity, minStock),
		UnitPrice:     decimal.NewFromFloat(2.50),
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedEntry(t *testing.T, conn *gorm.DB, product *models.Product, warehouse *models.Warehouse, quantity int) *models.WarehouseStockEntry {
	t.Helper()
	entry := &models.WarehouseStockEntry{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Quantity:    quantity,
	}
	if err := conn.Create(entry).Error; err != nil {
		t.Fatalf("failed to seed stock entry: %v", err)
	}
	return entry
}
