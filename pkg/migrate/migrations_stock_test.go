package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stockyardhq/stockyard-backend/pkg/migrate"
)

func TestStockMigrationsContainSchemas(t *testing.T) {
	cases := []struct {
		glob   string
		checks []string
	}{
		{
			glob: "*_create_warehouse_stock_table.sql",
			checks: []string{
				"CREATE TABLE IF NOT EXISTS warehouse_stock",
				"CREATE UNIQUE INDEX IF NOT EXISTS uq_stock_product_warehouse",
			},
		},
		{
			glob: "*_create_stock_transactions_table.sql",
			checks: []string{
				"CREATE TABLE IF NOT EXISTS stock_transactions",
				"CREATE UNIQUE INDEX IF NOT EXISTS uq_transactions_number",
			},
		},
		{
			glob: "*_create_products_table.sql",
			checks: []string{
				"CREATE TABLE IF NOT EXISTS products",
				"CREATE UNIQUE INDEX IF NOT EXISTS uq_products_sku",
			},
		},
	}

	for _, tc := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", tc.glob))
		if err != nil {
			t.Fatalf("glob migrations: %v", err)
		}
		if len(matches) == 0 {
			t.Fatalf("no migration matching %q found", tc.glob)
		}

		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		content := string(data)

		for _, sub := range tc.checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", matches[0], sub)
			}
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir returned error: %v", err)
	}
}
