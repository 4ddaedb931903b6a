package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalyticsCache stores a computed aggregate payload with a TTL so dashboard
// reads do not recompute over the full entity sets on every request
type AnalyticsCache struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CacheKey  string         `gorm:"not null;uniqueIndex" json:"cache_key"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data"`
	ExpiresAt time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (AnalyticsCache) TableName() string {
	return "analytics_cache"
}

// BusinessOverview is the dashboard KPI block. All fields are derived from
// the full entity sets; nothing here is persisted aggregate state.
type BusinessOverview struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalCOGS          float64 `json:"total_cogs"`
	GrossProfit        float64 `json:"gross_profit"`
	TotalExpenses      float64 `json:"total_expenses"`
	NetProfit          float64 `json:"net_profit"`
	Receivables        float64 `json:"receivables"`
	InventoryValue     float64 `json:"inventory_value"`
	CashBalance        float64 `json:"cash_balance"`
	InventoryTurnover  float64 `json:"inventory_turnover"`
}

// ItemProfit is one row of the top-profit-items board
type ItemProfit struct {
	ItemName string  `json:"item_name"`
	Profit   float64 `json:"profit"`
}

// SlowPayer is one row of the slowest-paying-schools board
type SlowPayer struct {
	SchoolID           uint    `json:"school_id"`
	SchoolName         string  `json:"school_name"`
	AveragePaymentDays float64 `json:"average_payment_days"`
	OutstandingBalance float64 `json:"outstanding_balance"`
}

// AgingBuckets groups unsettled invoice balances by age of the invoice
type AgingBuckets struct {
	Current float64 `json:"current"`      // 0-30 days
	Mid     float64 `json:"mid"`          // 31-60 days
	Old     float64 `json:"old"`          // 61+ days
}

// MonthTrendPoint is revenue/profit for one calendar month, bucketed across
// all years (month-of-year, not year+month)
type MonthTrendPoint struct {
	Month       string  `json:"month"`
	Revenue     float64 `json:"revenue"`
	GrossProfit float64 `json:"gross_profit"`
}

// ForecastInsight is one item's demand prediction from the inference service
type ForecastInsight struct {
	ItemName              string  `json:"item_name"`
	PredictedDemand       float64 `json:"predicted_demand"`
	SuggestedReorder      float64 `json:"suggested_reorder"`
	EstimatedStockoutDate string  `json:"estimated_stockout_date"`
	Insight               string  `json:"insight"`
}
