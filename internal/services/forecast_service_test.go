package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestForecastHeuristic(t *testing.T) {
	service := NewForecastService("", "", nil, nil, nil)

	histories := []itemHistory{
		{ItemName: "Exercise Book A4", MonthlySales: []int{0, 0, 100, 80, 0, 120}, StockRemaining: 50},
		{ItemName: "Ruler 30cm", MonthlySales: []int{0, 0, 0, 0, 0, 0}, StockRemaining: 200},
	}

	insights := service.forecastHeuristic(histories)
	assert.Len(t, insights, 2)

	books := insights[0]
	assert.Equal(t, "Exercise Book A4", books.ItemName)
	assert.InDelta(t, 100.0, books.PredictedDemand, 1e-9, "average of the last three selling months")
	assert.InDelta(t, 50.0, books.SuggestedReorder, 1e-9)
	assert.NotEmpty(t, books.EstimatedStockoutDate)

	rulers := insights[1]
	assert.Equal(t, 0.0, rulers.PredictedDemand)
	assert.Equal(t, 0.0, rulers.SuggestedReorder)
	assert.Equal(t, "No recent sales.", rulers.Insight)
	assert.Empty(t, rulers.EstimatedStockoutDate)
}

func TestMonthsAgo(t *testing.T) {
	now := mustDate("2025-08-15")
	assert.Equal(t, 0, monthsAgo(mustDate("2025-08-01"), now))
	assert.Equal(t, 1, monthsAgo(mustDate("2025-07-31"), now))
	assert.Equal(t, 12, monthsAgo(mustDate("2024-08-15"), now))
}
