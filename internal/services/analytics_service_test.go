package services

import (
	"context"
	"testing"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockAnalyticsRepo struct {
	repository.AnalyticsRepository
	store map[string]*models.AnalyticsCache
}

func (m *mockAnalyticsRepo) GetCache(ctx context.Context, key string) (*models.AnalyticsCache, error) {
	if c, ok := m.store[key]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnalyticsRepo) SetCache(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return nil
}

type mockInvoiceRepo struct {
	repository.InvoiceRepository
	invoices []models.Invoice
}

func (m *mockInvoiceRepo) FindAll(ctx context.Context) ([]models.Invoice, error) {
	return m.invoices, nil
}

func (m *mockInvoiceRepo) FindAllWithItems(ctx context.Context) ([]models.Invoice, error) {
	return m.invoices, nil
}

func (m *mockInvoiceRepo) FindUnsettled(ctx context.Context, olderThan time.Time) ([]models.Invoice, error) {
	var open []models.Invoice
	for _, inv := range m.invoices {
		if !inv.IsSettled() && inv.InvoiceDate.Before(olderThan) {
			open = append(open, inv)
		}
	}
	return open, nil
}

type mockSchoolRepo struct {
	repository.SchoolRepository
	schools     []models.School
	receivables float64
}

func (m *mockSchoolRepo) FindAll(ctx context.Context) ([]models.School, error) {
	return m.schools, nil
}

func (m *mockSchoolRepo) TotalReceivables(ctx context.Context) (float64, error) {
	return m.receivables, nil
}

type mockInventoryRepo struct {
	repository.InventoryRepository
	totalValue float64
}

func (m *mockInventoryRepo) TotalValue(ctx context.Context) (float64, error) {
	return m.totalValue, nil
}

type mockExpenseRepo struct {
	repository.ExpenseRepository
	total float64
}

func (m *mockExpenseRepo) TotalAmount(ctx context.Context) (float64, error) {
	return m.total, nil
}

type mockLedgerRepo struct {
	repository.LedgerRepository
	balance float64
}

func (m *mockLedgerRepo) LatestBalance(ctx context.Context) (float64, error) {
	return m.balance, nil
}

func newAnalyticsFixture(invoices []models.Invoice, schools []models.School) *AnalyticsService {
	return NewAnalyticsService(
		&mockAnalyticsRepo{store: map[string]*models.AnalyticsCache{}},
		&mockInvoiceRepo{invoices: invoices},
		&mockSchoolRepo{schools: schools, receivables: 4500},
		&mockInventoryRepo{totalValue: 20000},
		&mockExpenseRepo{total: 300},
		&mockLedgerRepo{balance: -3360},
		time.Minute,
	)
}

func TestAnalyticsService_GetOverview(t *testing.T) {
	invoices := []models.Invoice{
		{TotalRevenue: 820, TotalCOGS: 500, GrossProfit: 320},
		{TotalRevenue: 1000, TotalCOGS: 600, GrossProfit: 400},
	}
	service := newAnalyticsFixture(invoices, nil)

	overview, err := service.GetOverview(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1820.0, overview.TotalRevenue)
	assert.Equal(t, 1100.0, overview.TotalCOGS)
	assert.Equal(t, 720.0, overview.GrossProfit)
	assert.Equal(t, 300.0, overview.TotalExpenses)
	assert.Equal(t, 420.0, overview.NetProfit)
	assert.Equal(t, 4500.0, overview.Receivables)
	assert.Equal(t, -3360.0, overview.CashBalance)
	assert.InDelta(t, 1100.0/20000.0, overview.InventoryTurnover, 1e-9)
}

func TestAnalyticsService_TopProfitItems(t *testing.T) {
	invoices := []models.Invoice{
		{Items: []models.InvoiceItem{
			{ItemName: "Exercise Book A4", Quantity: 100, SellingPrice: 60, CostPrice: 45},
			{ItemName: "Pencil HB", Quantity: 200, SellingPrice: 10, CostPrice: 8},
		}},
		{Items: []models.InvoiceItem{
			{ItemName: "Exercise Book A4", Quantity: 50, SellingPrice: 62, CostPrice: 45},
		}},
	}
	service := newAnalyticsFixture(invoices, nil)

	items, err := service.TopProfitItems(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Exercise Book A4", items[0].ItemName)
	assert.Equal(t, 100*15.0+50*17.0, items[0].Profit)
	assert.Equal(t, "Pencil HB", items[1].ItemName)
	assert.Equal(t, 400.0, items[1].Profit)
}

func TestAnalyticsService_SlowestPayers(t *testing.T) {
	schools := []models.School{
		{ID: 1, Name: "Hillcrest Primary", PaymentDaysHistory: []int{10, 20}},
		{ID: 2, Name: "Riverside Academy", PaymentDaysHistory: []int{45}},
		{ID: 3, Name: "New School"}, // never settled an invoice
	}
	service := newAnalyticsFixture(nil, schools)

	payers, err := service.SlowestPayers(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, payers, 2)
	assert.Equal(t, "Riverside Academy", payers[0].SchoolName)
	assert.Equal(t, 45.0, payers[0].AveragePaymentDays)
	assert.Equal(t, 15.0, payers[1].AveragePaymentDays)
}

func TestAnalyticsService_ReceivablesAging(t *testing.T) {
	now := time.Now()
	invoices := []models.Invoice{
		{TotalRevenue: 100, InvoiceDate: now.AddDate(0, 0, -10)},
		{TotalRevenue: 200, InvoiceDate: now.AddDate(0, 0, -45)},
		{TotalRevenue: 300, InvoiceDate: now.AddDate(0, 0, -90)},
		{TotalRevenue: 400, AmountPaid: 400, InvoiceDate: now.AddDate(0, 0, -90)}, // settled
	}
	service := newAnalyticsFixture(invoices, nil)

	buckets, err := service.ReceivablesAging(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 100.0, buckets.Current)
	assert.Equal(t, 200.0, buckets.Mid)
	assert.Equal(t, 300.0, buckets.Old)
}

func TestAnalyticsService_MonthlyTrend(t *testing.T) {
	invoices := []models.Invoice{
		{TotalRevenue: 500, GrossProfit: 100, InvoiceDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{TotalRevenue: 700, GrossProfit: 150, InvoiceDate: time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC)},
		{TotalRevenue: 200, GrossProfit: 50, InvoiceDate: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)},
	}
	service := newAnalyticsFixture(invoices, nil)

	trend, err := service.MonthlyTrend(context.Background())
	assert.NoError(t, err)
	assert.Len(t, trend, 12)
	assert.Equal(t, "Mar", trend[2].Month)
	assert.Equal(t, 1200.0, trend[2].Revenue, "same month across years shares a bucket")
	assert.Equal(t, 250.0, trend[2].GrossProfit)
	assert.Equal(t, 200.0, trend[10].Revenue)
	assert.Equal(t, 0.0, trend[0].Revenue)
}
