package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	exportService    *services.ExportService
	forecastService  *services.ForecastService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, exportService *services.ExportService, forecastService *services.ForecastService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		exportService:    exportService,
		forecastService:  forecastService,
	}
}

// @Summary Business Overview
// @Description Headline figures: revenue, gross and net profit, receivables, stock value and cash balance
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.BusinessOverview
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsService.GetOverview(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary Top Profit Items
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items, default 10"
// @Success 200 {array} models.ItemProfit
// @Router /analytics/top-items [get]
func (h *AnalyticsHandler) TopItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items, err := h.analyticsService.TopProfitItems(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Slowest Payers
// @Description Schools ranked by average days between invoicing and settlement
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max schools, default 10"
// @Success 200 {array} models.SlowPayer
// @Router /analytics/slow-payers [get]
func (h *AnalyticsHandler) SlowPayers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	payers, err := h.analyticsService.SlowestPayers(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payers)
}

// @Summary Receivables Aging
// @Description Outstanding balances bucketed by age: up to 30, 31-60 and over 60 days
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AgingBuckets
// @Router /analytics/aging [get]
func (h *AnalyticsHandler) Aging(c *gin.Context) {
	buckets, err := h.analyticsService.ReceivablesAging(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// @Summary Monthly Trend
// @Description Revenue, expenses and profit per month for the current year
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MonthTrendPoint
// @Router /analytics/trend [get]
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	trend, err := h.analyticsService.MonthlyTrend(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// @Summary Expenses By Category
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]float64
// @Router /analytics/expenses-by-category [get]
func (h *AnalyticsHandler) ExpensesByCategory(c *gin.Context) {
	totals, err := h.analyticsService.ExpensesByCategory(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// @Summary Export Dashboard
// @Description Downloads the dashboard figures as CSV or Excel
// @Tags Analytics
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or xlsx, default csv"
// @Success 200 {file} binary
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	var (
		data     []byte
		filename string
		err      error
	)
	switch format {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context())
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// @Summary Demand Forecast
// @Description Predicted demand and reorder suggestions per item for the coming month
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ForecastInsight
// @Router /analytics/forecast [get]
func (h *AnalyticsHandler) Forecast(c *gin.Context) {
	insights, err := h.forecastService.Forecast(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}
