package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/kavish/inventory-insight/internal/analytics"
	"github.com/kavish/inventory-insight/internal/models"
	"github.com/kavish/inventory-insight/internal/store"
)

func loadAnalyticsInputs(ctx context.Context, db *sql.DB) ([]analytics.SaleRow, []models.Product, error) {
	rows, err := analytics.LoadSaleRows(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	products, err := store.ListAllProducts(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return rows, products, nil
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, products, err := loadAnalyticsInputs(ctx, h.db)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	recentSales, err := store.RecentSales(ctx, h.db, 10)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if recentSales == nil {
		recentSales = []models.Sale{}
	}

	now := time.Now().UTC()
	lowStock := analytics.LowStockProducts(products)
	if len(lowStock) > 5 {
		lowStock = lowStock[:5]
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"stats":        analytics.DashboardStats(rows, products, now),
		"fast_moving":  analytics.FastMovingProducts(rows, now, 30, 5),
		"low_stock":    lowStock,
		"recent_sales": recentSales,
	})
}

func (h *Handler) AnalysisReport(w http.ResponseWriter, r *http.Request) {
	rows, products, err := loadAnalyticsInputs(r.Context(), h.db)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	now := time.Now().UTC()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"fast_moving":        analytics.FastMovingProducts(rows, now, 30, 5),
		"monthly_report":     analytics.MonthlySalesReport(rows),
		"category_breakdown": analytics.CategorySalesBreakdown(rows),
		"low_stock":          analytics.LowStockProducts(products),
		"stats":              analytics.DashboardStats(rows, products, now),
	})
}

type chartPayload struct {
	Monthly    monthlySeries `json:"monthly"`
	Categories labeledSeries `json:"categories"`
	Products   labeledSeries `json:"products"`
}

type monthlySeries struct {
	Labels   []string  `json:"labels"`
	Revenues []float64 `json:"revenues"`
	Units    []int     `json:"units"`
}

type labeledSeries struct {
	Labels   []string  `json:"labels"`
	Revenues []float64 `json:"revenues"`
}

// buildChartPayload flattens the report rollups into the index-aligned
// label/value arrays the charting widget consumes.
func buildChartPayload(monthly []analytics.MonthlyBucket, categories []analytics.CategoryBreakdown, products []analytics.ProductRevenue) chartPayload {
	payload := chartPayload{
		Monthly: monthlySeries{
			Labels:   make([]string, 0, len(monthly)),
			Revenues: make([]float64, 0, len(monthly)),
			Units:    make([]int, 0, len(monthly)),
		},
		Categories: labeledSeries{
			Labels:   make([]string, 0, len(categories)),
			Revenues: make([]float64, 0, len(categories)),
		},
		Products: labeledSeries{
			Labels:   make([]string, 0, len(products)),
			Revenues: make([]float64, 0, len(products)),
		},
	}

	for _, bucket := range monthly {
		payload.Monthly.Labels = append(payload.Monthly.Labels, bucket.Month)
		payload.Monthly.Revenues = append(payload.Monthly.Revenues, bucket.TotalRevenue)
		payload.Monthly.Units = append(payload.Monthly.Units, bucket.UnitsSold)
	}
	for _, category := range categories {
		payload.Categories.Labels = append(payload.Categories.Labels, category.Category)
		payload.Categories.Revenues = append(payload.Categories.Revenues, category.Revenue)
	}
	for _, product := range products {
		payload.Products.Labels = append(payload.Products.Labels, product.Product)
		payload.Products.Revenues = append(payload.Products.Revenues, product.Revenue)
	}

	return payload
}

func (h *Handler) ChartData(w http.ResponseWriter, r *http.Request) {
	rows, err := analytics.LoadSaleRows(r.Context(), h.db)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildChartPayload(
		analytics.MonthlySalesReport(rows),
		analytics.CategorySalesBreakdown(rows),
		analytics.ProductSalesChartData(rows),
	))
}
