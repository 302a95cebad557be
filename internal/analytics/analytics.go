// Package analytics derives dashboard and report figures from the sale
// ledger and product catalog. Every function here is a pure pass over
// in-memory rows: group, sum, sort. Monetary sums are carried as decimals
// internally and converted to floats only in the returned records.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kavish/inventory-insight/internal/models"
)

type FastMover struct {
	Product      string `json:"product"`
	QuantitySold int    `json:"quantity_sold"`
}

type MonthlyBucket struct {
	Month        string  `json:"month"`
	TotalRevenue float64 `json:"total_revenue"`
	UnitsSold    int     `json:"units_sold"`
	Transactions int     `json:"transactions"`
}

type CategoryBreakdown struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Units    int     `json:"units"`
}

type LowStockProduct struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
	Deficit   int    `json:"deficit"`
}

type Stats struct {
	TotalProducts   int     `json:"total_products"`
	LowStockCount   int     `json:"low_stock_count"`
	TotalStockValue float64 `json:"total_stock_value"`
	MonthlyRevenue  float64 `json:"monthly_revenue"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalUnitsSold  int     `json:"total_units_sold"`
}

type ProductRevenue struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
}

// FastMovingProducts ranks products by units sold within the trailing
// window ending at now. Ties are broken by product name ascending.
func FastMovingProducts(rows []SaleRow, now time.Time, windowDays, topN int) []FastMover {
	cutoff := now.UTC().AddDate(0, 0, -windowDays)

	totals := make(map[string]int)
	for _, row := range rows {
		if row.SaleDate.Before(cutoff) {
			continue
		}
		totals[row.Product] += row.QuantitySold
	}

	movers := make([]FastMover, 0, len(totals))
	for product, quantity := range totals {
		movers = append(movers, FastMover{Product: product, QuantitySold: quantity})
	}

	sort.Slice(movers, func(i, j int) bool {
		if movers[i].QuantitySold != movers[j].QuantitySold {
			return movers[i].QuantitySold > movers[j].QuantitySold
		}
		return movers[i].Product < movers[j].Product
	})

	if len(movers) > topN {
		movers = movers[:topN]
	}

	return movers
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlySalesReport buckets the whole ledger by UTC calendar month and
// returns the buckets in chronological order, labelled "Jan 2006".
func MonthlySalesReport(rows []SaleRow) []MonthlyBucket {
	type monthAgg struct {
		revenue      decimal.Decimal
		units        int
		transactions int
	}

	buckets := make(map[monthKey]*monthAgg)
	for _, row := range rows {
		date := row.SaleDate.UTC()
		key := monthKey{year: date.Year(), month: date.Month()}

		agg, ok := buckets[key]
		if !ok {
			agg = &monthAgg{}
			buckets[key] = agg
		}
		agg.revenue = agg.revenue.Add(row.Revenue)
		agg.units += row.QuantitySold
		agg.transactions++
	}

	keys := make([]monthKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	report := make([]MonthlyBucket, 0, len(keys))
	for _, key := range keys {
		agg := buckets[key]
		label := time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
		report = append(report, MonthlyBucket{
			Month:        label,
			TotalRevenue: agg.revenue.InexactFloat64(),
			UnitsSold:    agg.units,
			Transactions: agg.transactions,
		})
	}

	return report
}

// CategorySalesBreakdown sums revenue and units per category, ordered by
// revenue descending then category name ascending.
func CategorySalesBreakdown(rows []SaleRow) []CategoryBreakdown {
	type catAgg struct {
		revenue decimal.Decimal
		units   int
	}

	totals := make(map[string]*catAgg)
	for _, row := range rows {
		agg, ok := totals[row.Category]
		if !ok {
			agg = &catAgg{}
			totals[row.Category] = agg
		}
		agg.revenue = agg.revenue.Add(row.Revenue)
		agg.units += row.QuantitySold
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		cmp := totals[names[i]].revenue.Cmp(totals[names[j]].revenue)
		if cmp != 0 {
			return cmp > 0
		}
		return names[i] < names[j]
	})

	breakdown := make([]CategoryBreakdown, 0, len(names))
	for _, name := range names {
		agg := totals[name]
		breakdown = append(breakdown, CategoryBreakdown{
			Category: name,
			Revenue:  agg.revenue.InexactFloat64(),
			Units:    agg.units,
		})
	}

	return breakdown
}

// LowStockProducts selects products at or below their threshold, ranked by
// deficit descending so the most critical shortage comes first.
func LowStockProducts(products []models.Product) []LowStockProduct {
	low := make([]LowStockProduct, 0)
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		low = append(low, LowStockProduct{
			ID:        p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Threshold: p.LowStockThreshold,
			Deficit:   p.LowStockThreshold - p.Quantity,
		})
	}

	sort.Slice(low, func(i, j int) bool {
		if low[i].Deficit != low[j].Deficit {
			return low[i].Deficit > low[j].Deficit
		}
		return low[i].Name < low[j].Name
	})

	return low
}

// DashboardStats aggregates the headline figures. Monetary values are
// rounded to 2 decimal places here, at the output boundary; everything
// upstream runs at full decimal precision.
func DashboardStats(rows []SaleRow, products []models.Product, now time.Time) Stats {
	var stockValue decimal.Decimal
	lowStockCount := 0
	for _, p := range products {
		stockValue = stockValue.Add(p.StockValue())
		if p.IsLowStock() {
			lowStockCount++
		}
	}

	cutoff := now.UTC().AddDate(0, 0, -30)

	var monthlyRevenue, totalRevenue decimal.Decimal
	totalUnits := 0
	for _, row := range rows {
		totalRevenue = totalRevenue.Add(row.Revenue)
		totalUnits += row.QuantitySold
		if !row.SaleDate.Before(cutoff) {
			monthlyRevenue = monthlyRevenue.Add(row.Revenue)
		}
	}

	return Stats{
		TotalProducts:   len(products),
		LowStockCount:   lowStockCount,
		TotalStockValue: stockValue.Round(2).InexactFloat64(),
		MonthlyRevenue:  monthlyRevenue.Round(2).InexactFloat64(),
		TotalRevenue:    totalRevenue.Round(2).InexactFloat64(),
		TotalUnitsSold:  totalUnits,
	}
}

// ProductSalesChartData returns the top 10 products by revenue for the
// product bar chart. Ties are broken by product name ascending.
func ProductSalesChartData(rows []SaleRow) []ProductRevenue {
	totals := make(map[string]decimal.Decimal)
	for _, row := range rows {
		totals[row.Product] = totals[row.Product].Add(row.Revenue)
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		cmp := totals[names[i]].Cmp(totals[names[j]])
		if cmp != 0 {
			return cmp > 0
		}
		return names[i] < names[j]
	})

	top := make([]ProductRevenue, 0, len(names))
	for _, name := range names {
		top = append(top, ProductRevenue{
			Product: name,
			Revenue: totals[name].InexactFloat64(),
		})
	}

	if len(top) > 10 {
		top = top[:10]
	}

	return top
}
