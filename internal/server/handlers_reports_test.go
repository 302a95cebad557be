package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kavish/inventory-insight/internal/analytics"
)

func TestBuildChartPayloadAlignment(t *testing.T) {
	monthly := []analytics.MonthlyBucket{
		{Month: "Mar 2025", TotalRevenue: 2392, UnitsSold: 8, Transactions: 2},
		{Month: "Apr 2025", TotalRevenue: 998, UnitsSold: 2, Transactions: 1},
	}
	categories := []analytics.CategoryBreakdown{
		{Category: "Electronics", Revenue: 2392, Units: 8},
		{Category: "Clothing", Revenue: 998, Units: 2},
	}
	products := []analytics.ProductRevenue{
		{Product: "USB Cable", Revenue: 2392},
	}

	payload := buildChartPayload(monthly, categories, products)

	assert.Equal(t, []string{"Mar 2025", "Apr 2025"}, payload.Monthly.Labels)
	assert.Equal(t, []float64{2392, 998}, payload.Monthly.Revenues)
	assert.Equal(t, []int{8, 2}, payload.Monthly.Units)

	// Every series must stay index-aligned with its labels.
	assert.Len(t, payload.Categories.Revenues, len(payload.Categories.Labels))
	assert.Equal(t, "Electronics", payload.Categories.Labels[0])
	assert.InDelta(t, 2392, payload.Categories.Revenues[0], 0.001)

	assert.Equal(t, []string{"USB Cable"}, payload.Products.Labels)
	assert.Equal(t, []float64{2392}, payload.Products.Revenues)
}

func TestBuildChartPayloadEmpty(t *testing.T) {
	payload := buildChartPayload(nil, nil, nil)

	assert.NotNil(t, payload.Monthly.Labels)
	assert.Empty(t, payload.Monthly.Labels)
	assert.Empty(t, payload.Categories.Labels)
	assert.Empty(t, payload.Products.Labels)
}
