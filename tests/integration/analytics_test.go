package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kavish/inventory-insight/internal/analytics"
	"github.com/kavish/inventory-insight/internal/store"
)

func insertSaleAt(t *testing.T, db *sql.DB, productID int64, qty int, price int64, saleDate time.Time) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO sales (product_id, quantity_sold, sale_price, sale_date)
		 VALUES ($1, $2, $3, $4)`,
		productID, qty, price, saleDate)
	if err != nil {
		t.Fatalf("Insert sale: %v", err)
	}
}

func TestAnalyticsOverLedger(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	electronics, err := store.CreateCategory(ctx, db, "Electronics", "")
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}

	cable, err := store.CreateProduct(ctx, db, store.ProductParams{
		Name:              "USB Cable",
		CategoryID:        &electronics.ID,
		Price:             decimal.NewFromInt(299),
		Quantity:          200,
		LowStockThreshold: 30,
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	// No category: must land in the Uncategorized bucket.
	mystery := createTestProduct(t, db, "Mystery Item", 50, 10, 2)

	march := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 5, 9, 0, 0, 0, time.UTC)

	insertSaleAt(t, db, cable.ID, 5, 299, march)
	insertSaleAt(t, db, cable.ID, 3, 299, march.AddDate(0, 0, 2))
	insertSaleAt(t, db, mystery.ID, 2, 50, april)

	rows, err := analytics.LoadSaleRows(ctx, db)
	if err != nil {
		t.Fatalf("Load sale rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.SaleDate.Location() != time.UTC {
			t.Errorf("Sale date not normalized to UTC: %v", row.SaleDate)
		}
	}

	monthly := analytics.MonthlySalesReport(rows)
	if len(monthly) != 2 {
		t.Fatalf("Expected 2 monthly buckets, got %d", len(monthly))
	}
	if monthly[0].Month != "Mar 2025" || monthly[1].Month != "Apr 2025" {
		t.Errorf("Unexpected month order: %s, %s", monthly[0].Month, monthly[1].Month)
	}
	if monthly[0].UnitsSold != 8 || monthly[0].Transactions != 2 {
		t.Errorf("March bucket wrong: %+v", monthly[0])
	}

	breakdown := analytics.CategorySalesBreakdown(rows)
	if len(breakdown) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(breakdown))
	}
	if breakdown[0].Category != "Electronics" {
		t.Errorf("Expected Electronics first by revenue, got %s", breakdown[0].Category)
	}
	if breakdown[1].Category != analytics.UncategorizedLabel {
		t.Errorf("Expected Uncategorized bucket, got %s", breakdown[1].Category)
	}

	products, err := store.ListAllProducts(ctx, db)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}

	stats := analytics.DashboardStats(rows, products, time.Now().UTC())
	if stats.TotalProducts != 2 {
		t.Errorf("Expected 2 products, got %d", stats.TotalProducts)
	}
	if stats.TotalUnitsSold != 10 {
		t.Errorf("Expected 10 total units sold, got %d", stats.TotalUnitsSold)
	}
	expectedRevenue := float64(5*299 + 3*299 + 2*50)
	if stats.TotalRevenue != expectedRevenue {
		t.Errorf("Expected total revenue %.2f, got %.2f", expectedRevenue, stats.TotalRevenue)
	}
}

func TestAnalyticsEmptyLedger(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	rows, err := analytics.LoadSaleRows(ctx, db)
	if err != nil {
		t.Fatalf("Load sale rows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("Expected empty ledger, got %d rows", len(rows))
	}

	if report := analytics.MonthlySalesReport(rows); len(report) != 0 {
		t.Errorf("Expected empty monthly report, got %d buckets", len(report))
	}

	stats := analytics.DashboardStats(rows, nil, time.Now().UTC())
	if stats.TotalRevenue != 0 || stats.TotalUnitsSold != 0 {
		t.Errorf("Expected zeroed stats, got %+v", stats)
	}
}
