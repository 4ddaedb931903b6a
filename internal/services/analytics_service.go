package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
)

// AnalyticsService derives the dashboard aggregates. Every figure is
// computed from the full entity sets on demand and memoized in the analytics
// cache; the posting workflows invalidate the cache after each event.
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	invoiceRepo   repository.InvoiceRepository
	schoolRepo    repository.SchoolRepository
	inventoryRepo repository.InventoryRepository
	expenseRepo   repository.ExpenseRepository
	ledgerRepo    repository.LedgerRepository
	cacheTTL      time.Duration
}

func NewAnalyticsService(
	analyticsRepo repository.AnalyticsRepository,
	invoiceRepo repository.InvoiceRepository,
	schoolRepo repository.SchoolRepository,
	inventoryRepo repository.InventoryRepository,
	expenseRepo repository.ExpenseRepository,
	ledgerRepo repository.LedgerRepository,
	cacheTTL time.Duration,
) *AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		invoiceRepo:   invoiceRepo,
		schoolRepo:    schoolRepo,
		inventoryRepo: inventoryRepo,
		expenseRepo:   expenseRepo,
		ledgerRepo:    ledgerRepo,
		cacheTTL:      cacheTTL,
	}
}

// GetOverview returns the dashboard KPI block
func (s *AnalyticsService) GetOverview(ctx context.Context) (*models.BusinessOverview, error) {
	var overview models.BusinessOverview
	if s.fromCache(ctx, "business_overview", &overview) {
		return &overview, nil
	}

	invoices, err := s.invoiceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, inv := range invoices {
		overview.TotalRevenue += inv.TotalRevenue
		overview.TotalCOGS += inv.TotalCOGS
		overview.GrossProfit += inv.GrossProfit
	}

	if overview.TotalExpenses, err = s.expenseRepo.TotalAmount(ctx); err != nil {
		return nil, err
	}
	overview.NetProfit = overview.GrossProfit - overview.TotalExpenses

	if overview.Receivables, err = s.schoolRepo.TotalReceivables(ctx); err != nil {
		return nil, err
	}
	if overview.InventoryValue, err = s.inventoryRepo.TotalValue(ctx); err != nil {
		return nil, err
	}
	if overview.CashBalance, err = s.ledgerRepo.LatestBalance(ctx); err != nil {
		return nil, err
	}
	if overview.InventoryValue > 0 {
		overview.InventoryTurnover = overview.TotalCOGS / overview.InventoryValue
	}

	s.toCache(ctx, "business_overview", overview)
	return &overview, nil
}

// TopProfitItems returns the most profitable items across all invoiced lines
func (s *AnalyticsService) TopProfitItems(ctx context.Context, limit int) ([]models.ItemProfit, error) {
	if limit <= 0 {
		limit = 5
	}

	var items []models.ItemProfit
	if s.fromCache(ctx, "top_profit_items", &items) {
		return clip(items, limit), nil
	}

	invoices, err := s.invoiceRepo.FindAllWithItems(ctx)
	if err != nil {
		return nil, err
	}

	profits := make(map[string]float64)
	for _, inv := range invoices {
		for _, line := range inv.Items {
			profits[line.ItemName] += line.LineProfit()
		}
	}

	items = make([]models.ItemProfit, 0, len(profits))
	for name, profit := range profits {
		items = append(items, models.ItemProfit{ItemName: name, Profit: profit})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Profit != items[j].Profit {
			return items[i].Profit > items[j].Profit
		}
		return items[i].ItemName < items[j].ItemName
	})

	s.toCache(ctx, "top_profit_items", items)
	return clip(items, limit), nil
}

// SlowestPayers ranks schools by average settlement time, slowest first.
// Schools with no settled invoice yet are left out.
func (s *AnalyticsService) SlowestPayers(ctx context.Context, limit int) ([]models.SlowPayer, error) {
	if limit <= 0 {
		limit = 5
	}

	var payers []models.SlowPayer
	if s.fromCache(ctx, "slowest_payers", &payers) {
		return clip(payers, limit), nil
	}

	schools, err := s.schoolRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	payers = make([]models.SlowPayer, 0, len(schools))
	for _, school := range schools {
		if len(school.PaymentDaysHistory) == 0 {
			continue
		}
		payers = append(payers, models.SlowPayer{
			SchoolID:           school.ID,
			SchoolName:         school.Name,
			AveragePaymentDays: school.AveragePaymentDays(),
			OutstandingBalance: school.OutstandingBalance,
		})
	}
	sort.Slice(payers, func(i, j int) bool {
		return payers[i].AveragePaymentDays > payers[j].AveragePaymentDays
	})

	s.toCache(ctx, "slowest_payers", payers)
	return clip(payers, limit), nil
}

// ReceivablesAging buckets unsettled invoice balances by invoice age
func (s *AnalyticsService) ReceivablesAging(ctx context.Context) (*models.AgingBuckets, error) {
	var buckets models.AgingBuckets
	if s.fromCache(ctx, "receivables_aging", &buckets) {
		return &buckets, nil
	}

	unsettled, err := s.invoiceRepo.FindUnsettled(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, inv := range unsettled {
		age := int(now.Sub(inv.InvoiceDate).Hours() / 24)
		switch {
		case age <= 30:
			buckets.Current += inv.Outstanding()
		case age <= 60:
			buckets.Mid += inv.Outstanding()
		default:
			buckets.Old += inv.Outstanding()
		}
	}

	s.toCache(ctx, "receivables_aging", buckets)
	return &buckets, nil
}

// MonthlyTrend buckets revenue and gross profit by calendar month across all
// years, January through December
func (s *AnalyticsService) MonthlyTrend(ctx context.Context) ([]models.MonthTrendPoint, error) {
	var trend []models.MonthTrendPoint
	if s.fromCache(ctx, "monthly_trend", &trend) {
		return trend, nil
	}

	invoices, err := s.invoiceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	trend = make([]models.MonthTrendPoint, 12)
	for i := range trend {
		trend[i].Month = time.Month(i + 1).String()[:3]
	}
	for _, inv := range invoices {
		m := int(inv.InvoiceDate.Month()) - 1
		trend[m].Revenue += inv.TotalRevenue
		trend[m].GrossProfit += inv.GrossProfit
	}

	s.toCache(ctx, "monthly_trend", trend)
	return trend, nil
}

// RefreshCache drops every cached aggregate and recomputes the dashboard
// figures so the first request after a refresh is served warm. Runs on a
// schedule from the worker.
func (s *AnalyticsService) RefreshCache(ctx context.Context) error {
	if err := s.analyticsRepo.InvalidateAll(ctx); err != nil {
		return err
	}
	if _, err := s.GetOverview(ctx); err != nil {
		return err
	}
	if _, err := s.TopProfitItems(ctx, 0); err != nil {
		return err
	}
	if _, err := s.SlowestPayers(ctx, 0); err != nil {
		return err
	}
	if _, err := s.ReceivablesAging(ctx); err != nil {
		return err
	}
	_, err := s.MonthlyTrend(ctx)
	return err
}

// ExpensesByCategory returns total spend per expense category
func (s *AnalyticsService) ExpensesByCategory(ctx context.Context) (map[string]float64, error) {
	return s.expenseRepo.TotalsByCategory(ctx)
}

func (s *AnalyticsService) fromCache(ctx context.Context, key string, out interface{}) bool {
	cached, err := s.analyticsRepo.GetCache(ctx, key)
	if err != nil || cached == nil {
		return false
	}
	return json.Unmarshal(cached.Data, out) == nil
}

func (s *AnalyticsService) toCache(ctx context.Context, key string, value interface{}) {
	// Cache writes are best effort; the computed value is already in hand.
	_ = s.analyticsRepo.SetCache(ctx, key, value, s.cacheTTL)
}

func clip[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
