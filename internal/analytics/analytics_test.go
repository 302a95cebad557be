package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kavish/inventory-insight/internal/models"
)

func row(product, category string, qty int, price float64, saleDate time.Time) SaleRow {
	p := decimal.NewFromFloat(price)
	return SaleRow{
		Product:      product,
		Category:     category,
		QuantitySold: qty,
		SalePrice:    p,
		Revenue:      p.Mul(decimal.NewFromInt(int64(qty))),
		SaleDate:     saleDate.UTC(),
	}
}

func TestFastMovingProducts(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	rows := []SaleRow{
		row("USB Cable", "Electronics", 10, 299, now.AddDate(0, 0, -5)),
		row("USB Cable", "Electronics", 7, 299, now.AddDate(0, 0, -20)),
		row("Notebook A4", "Stationery", 12, 99, now.AddDate(0, 0, -1)),
		// Outside the 30-day window, must not count.
		row("Laptop", "Electronics", 50, 65000, now.AddDate(0, 0, -45)),
	}

	movers := FastMovingProducts(rows, now, 30, 5)

	assert.Equal(t, []FastMover{
		{Product: "USB Cable", QuantitySold: 17},
		{Product: "Notebook A4", QuantitySold: 12},
	}, movers)
}

func TestFastMovingProductsTieBreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	rows := []SaleRow{
		row("Zebra Pen", "Stationery", 5, 49, now.AddDate(0, 0, -2)),
		row("Apple Slicer", "Home", 5, 199, now.AddDate(0, 0, -3)),
	}

	movers := FastMovingProducts(rows, now, 30, 5)

	assert.Equal(t, "Apple Slicer", movers[0].Product)
	assert.Equal(t, "Zebra Pen", movers[1].Product)
}

func TestFastMovingProductsTopN(t *testing.T) {
	now := time.Now().UTC()

	var rows []SaleRow
	for _, name := range []string{"A", "B", "C", "D"} {
		rows = append(rows, row(name, "Cat", 1, 10, now.AddDate(0, 0, -1)))
	}

	assert.Len(t, FastMovingProducts(rows, now, 30, 2), 2)
}

func TestMonthlySalesReport(t *testing.T) {
	rows := []SaleRow{
		row("USB Cable", "Electronics", 5, 299, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		row("USB Cable", "Electronics", 3, 299, time.Date(2025, 3, 25, 17, 0, 0, 0, time.UTC)),
		row("T-Shirt", "Clothing", 2, 499, time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)),
	}

	report := MonthlySalesReport(rows)

	assert.Equal(t, []MonthlyBucket{
		{Month: "Mar 2025", TotalRevenue: 2392, UnitsSold: 8, Transactions: 2},
		{Month: "May 2025", TotalRevenue: 998, UnitsSold: 2, Transactions: 1},
	}, report)
}

func TestMonthlySalesReportBucketsInUTC(t *testing.T) {
	// 23:30 on Mar 31 in UTC+2 is 21:30 Mar 31 UTC; 01:30 on Apr 1 in
	// UTC+2 is 23:30 Mar 31 UTC. Both land in the March bucket.
	zone := time.FixedZone("UTC+2", 2*3600)
	rows := []SaleRow{
		row("A", "Cat", 1, 100, time.Date(2025, 3, 31, 23, 30, 0, 0, zone)),
		row("A", "Cat", 1, 100, time.Date(2025, 4, 1, 1, 30, 0, 0, zone)),
	}

	report := MonthlySalesReport(rows)

	assert.Len(t, report, 1)
	assert.Equal(t, "Mar 2025", report[0].Month)
}

func TestMonthlySalesReportPartitionsAllUnits(t *testing.T) {
	rows := []SaleRow{
		row("A", "Cat", 3, 10, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
		row("B", "Cat", 4, 10, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)),
		row("C", "Cat", 5, 10, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
		row("D", "Cat", 6, 10, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)),
	}

	report := MonthlySalesReport(rows)

	totalUnits := 0
	for _, bucket := range report {
		totalUnits += bucket.UnitsSold
	}
	assert.Equal(t, 18, totalUnits)
	assert.Equal(t, []string{"Jan 2025", "Feb 2025", "Apr 2025"},
		[]string{report[0].Month, report[1].Month, report[2].Month})
}

func TestCategorySalesBreakdown(t *testing.T) {
	now := time.Now().UTC()
	rows := []SaleRow{
		row("USB Cable", "Electronics", 5, 299, now),
		row("T-Shirt", "Clothing", 10, 499, now),
		row("Mystery Item", UncategorizedLabel, 1, 50, now),
	}

	breakdown := CategorySalesBreakdown(rows)

	assert.Equal(t, []CategoryBreakdown{
		{Category: "Clothing", Revenue: 4990, Units: 10},
		{Category: "Electronics", Revenue: 1495, Units: 5},
		{Category: UncategorizedLabel, Revenue: 50, Units: 1},
	}, breakdown)
}

func TestLowStockProducts(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Sports Shoes", Quantity: 8, LowStockThreshold: 10},
		{ID: 2, Name: "USB Cable", Quantity: 200, LowStockThreshold: 30},
		{ID: 3, Name: "Geometry Box", Quantity: 3, LowStockThreshold: 10},
		{ID: 4, Name: "Table Fan", Quantity: 5, LowStockThreshold: 5},
	}

	low := LowStockProducts(products)

	assert.Equal(t, []LowStockProduct{
		{ID: 3, Name: "Geometry Box", Quantity: 3, Threshold: 10, Deficit: 7},
		{ID: 1, Name: "Sports Shoes", Quantity: 8, Threshold: 10, Deficit: 2},
		{ID: 4, Name: "Table Fan", Quantity: 5, Threshold: 5, Deficit: 0},
	}, low)
}

func TestDashboardStats(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	products := []models.Product{
		{Name: "USB Cable", Price: decimal.NewFromInt(299), Quantity: 195, LowStockThreshold: 30},
		{Name: "Protein Bar", Price: decimal.NewFromInt(149), Quantity: 7, LowStockThreshold: 15},
	}
	rows := []SaleRow{
		row("USB Cable", "Electronics", 5, 299, now.AddDate(0, 0, -3)),
		row("Protein Bar", "Food & Beverages", 2, 149, now.AddDate(0, 0, -60)),
	}

	stats := DashboardStats(rows, products, now)

	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.InDelta(t, 299*195+149*7, stats.TotalStockValue, 0.001)
	assert.InDelta(t, 1495, stats.MonthlyRevenue, 0.001)
	assert.InDelta(t, 1495+298, stats.TotalRevenue, 0.001)
	assert.Equal(t, 7, stats.TotalUnitsSold)
}

func TestDashboardStatsEmptyLedger(t *testing.T) {
	stats := DashboardStats(nil, nil, time.Now().UTC())

	assert.Equal(t, Stats{}, stats)
}

func TestEmptyLedgerReports(t *testing.T) {
	assert.Empty(t, MonthlySalesReport(nil))
	assert.Empty(t, CategorySalesBreakdown(nil))
	assert.Empty(t, FastMovingProducts(nil, time.Now().UTC(), 30, 5))
	assert.Empty(t, ProductSalesChartData(nil))
	assert.Empty(t, LowStockProducts(nil))
}

func TestProductSalesChartData(t *testing.T) {
	now := time.Now().UTC()

	var rows []SaleRow
	for i := 0; i < 12; i++ {
		name := string(rune('A' + i))
		rows = append(rows, row(name, "Cat", 1, float64(100*(i+1)), now))
	}

	top := ProductSalesChartData(rows)

	assert.Len(t, top, 10)
	assert.Equal(t, "L", top[0].Product)
	assert.InDelta(t, 1200, top[0].Revenue, 0.001)
	// The two cheapest products fall off the chart.
	for _, entry := range top {
		assert.NotContains(t, []string{"A", "B"}, entry.Product)
	}
}
