package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyardhq/stockyard-backend/internal/transactions"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
)

const (
	recentTransactionLimit = 10
	topProductLimit        = 5
	lowStockLimit          = 20
	maxTrendDays           = 90
	defaultTrendDays       = 7
)

// Stats is the admin dashboard headline payload.
type Stats struct {
	TotalProducts      int64                         `json:"total_products"`
	TotalWarehouses    int64                         `json:"total_warehouses"`
	TotalSuppliers     int64                         `json:"total_suppliers"`
	TotalUsers         int64                         `json:"total_users"`
	TotalStockValue    decimal.Decimal               `json:"total_stock_value"`
	StatusBreakdown    map[enums.ProductStatus]int64 `json:"status_breakdown"`
	RecentTransactions []transactions.TransactionDTO `json:"recent_transactions"`
}

// UserStats is the warehouse-scoped dashboard for non-admin users.
type UserStats struct {
	WarehouseID        uuid.UUID                     `json:"warehouse_id"`
	ProductCount       int64                         `json:"product_count"`
	TotalQuantity      int64                         `json:"total_quantity"`
	RecentTransactions []transactions.TransactionDTO `json:"recent_transactions"`
}

// TrendPoint is one day of transaction activity.
type TrendPoint struct {
	Date     string                          `json:"date"`
	ByType   map[enums.TransactionType]int64 `json:"by_type"`
	Quantity int64                           `json:"quantity"`
}

// TypeTotal summarizes one transaction type over a report window.
type TypeTotal struct {
	Type       enums.TransactionType `json:"type"`
	Count      int64                 `json:"count"`
	Quantity   int64                 `json:"quantity"`
	TotalValue decimal.Decimal       `json:"total_value"`
}

// TopProduct ranks a product by moved quantity.
type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	TxCount   int64     `json:"tx_count"`
	Quantity  int64     `json:"quantity"`
}

// LowStockItem is one product below its minimum level.
type LowStockItem struct {
	ProductID     uuid.UUID           `json:"product_id"`
	Name          string              `json:"name"`
	SKU           string              `json:"sku"`
	Quantity      int                 `json:"quantity"`
	MinStockLevel int                 `json:"min_stock_level"`
	Status        enums.ProductStatus `json:"status"`
}

// Report is the transaction report payload.
type Report struct {
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	TypeTotals  []TypeTotal    `json:"type_totals"`
	TopProducts []TopProduct   `json:"top_products"`
	LowStock    []LowStockItem `json:"low_stock"`
}

// Service exposes the dashboard and reporting reads.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	UserStats(ctx context.Context, warehouseID uuid.UUID) (*UserStats, error)
	Trends(ctx context.Context, days int, warehouseID *uuid.UUID) ([]TrendPoint, error)
	Report(ctx context.Context, from, to time.Time, warehouseID *uuid.UUID) (*Report, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs the dashboard service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	products, warehouses, suppliers, users, err := s.repo.EntityCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: entity counts")
	}

	value, err := s.repo.StockValue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: stock value")
	}

	breakdown, err := s.repo.StatusBreakdown(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: status breakdown")
	}
	for _, status := range []enums.ProductStatus{
		enums.ProductStatusAvailable,
		enums.ProductStatusLowStock,
		enums.ProductStatusOutOfStock,
	} {
		if _, ok := breakdown[status]; !ok {
			breakdown[status] = 0
		}
	}

	recent, err := s.repo.RecentTransactions(ctx, nil, recentTransactionLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: recent transactions")
	}

	return &Stats{
		TotalProducts:      products,
		TotalWarehouses:    warehouses,
		TotalSuppliers:     suppliers,
		TotalUsers:         users,
		TotalStockValue:    value,
		StatusBreakdown:    breakdown,
		RecentTransactions: transactions.FromModels(recent),
	}, nil
}

func (s *service) UserStats(ctx context.Context, warehouseID uuid.UUID) (*UserStats, error) {
	if warehouseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse assignment required")
	}

	productCount, totalQuantity, err := s.repo.WarehouseTotals(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: warehouse totals")
	}

	recent, err := s.repo.RecentTransactions(ctx, &warehouseID, recentTransactionLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: recent transactions")
	}

	return &UserStats{
		WarehouseID:        warehouseID,
		ProductCount:       productCount,
		TotalQuantity:      totalQuantity,
		RecentTransactions: transactions.FromModels(recent),
	}, nil
}

func (s *service) Trends(ctx context.Context, days int, warehouseID *uuid.UUID) ([]TrendPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	since := s.now().UTC().AddDate(0, 0, -days+1).Truncate(24 * time.Hour)
	rows, err := s.repo.Trends(ctx, since, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: trends")
	}

	byDay := make(map[string]*TrendPoint, days)
	for _, row := range rows {
		day := row.Day
		if len(day) > 10 {
			day = day[:10]
		}
		point, ok := byDay[day]
		if !ok {
			point = &TrendPoint{Date: day, ByType: map[enums.TransactionType]int64{}}
			byDay[day] = point
		}
		point.ByType[row.Type] += row.Count
		point.Quantity += row.Quantity
	}

	// Every day in the window appears, including empty ones.
	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		if point, ok := byDay[date]; ok {
			points = append(points, *point)
			continue
		}
		points = append(points, TrendPoint{Date: date, ByType: map[enums.TransactionType]int64{}})
	}
	return points, nil
}

func (s *service) Report(ctx context.Context, from, to time.Time, warehouseID *uuid.UUID) (*Report, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report window end precedes start")
	}

	totals, err := s.repo.TypeTotals(ctx, from, to, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: type totals")
	}
	typeTotals := make([]TypeTotal, 0, len(totals))
	for _, row := range totals {
		typeTotals = append(typeTotals, TypeTotal{
			Type:       row.Type,
			Count:      row.Count,
			Quantity:   row.Quantity,
			TotalValue: row.TotalValue,
		})
	}

	top, err := s.repo.TopProducts(ctx, from, to, warehouseID, topProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: top products")
	}
	topProducts := make([]TopProduct, 0, len(top))
	for _, row := range top {
		topProducts = append(topProducts, TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			SKU:       row.SKU,
			TxCount:   row.TxCount,
			Quantity:  row.Quantity,
		})
	}

	lowStock, err := s.repo.LowStockProducts(ctx, lowStockLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: low stock products")
	}
	lowItems := make([]LowStockItem, 0, len(lowStock))
	for _, product := range lowStock {
		lowItems = append(lowItems, LowStockItem{
			ProductID:     product.ID,
			Name:          product.Name,
			SKU:           product.SKU,
			Quantity:      product.Quantity,
			MinStockLevel: product.MinStockLevel,
			Status:        product.Status,
		})
	}

	return &Report{
		From:        from,
		To:          to,
		TypeTotals:  typeTotals,
		TopProducts: topProducts,
		LowStock:    lowItems,
	}, nil
}
