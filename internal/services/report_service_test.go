package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
)

type reportInvoiceRepo struct {
	repository.InvoiceRepository
	invoice *models.Invoice
}

func (m *reportInvoiceRepo) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	if m.invoice == nil || m.invoice.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return m.invoice, nil
}

type reportLedgerRepo struct {
	repository.LedgerRepository
	entries []models.LedgerEntry
}

func (m *reportLedgerRepo) FindAll(ctx context.Context) ([]models.LedgerEntry, error) {
	return m.entries, nil
}

func TestGenerateInvoicePDF(t *testing.T) {
	invoice := &models.Invoice{
		ID:            9,
		InvoiceNumber: "INV-0009",
		InvoiceDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		DeliveryDate:  time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		School:        models.School{Name: "Hilltop Academy"},
		Items: []models.InvoiceItem{
			{ItemName: "Exercise Book A5", Quantity: 100, SellingPrice: 45},
		},
		TotalRevenue: 4500,
		AmountPaid:   1000,
	}
	svc := NewReportService(&reportInvoiceRepo{invoice: invoice}, nil, nil, nil, "Schola Supplies Ltd")

	buf, err := svc.GenerateInvoicePDF(context.Background(), 9)
	assert.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestGenerateInvoicePDFNotFound(t *testing.T) {
	svc := NewReportService(&reportInvoiceRepo{}, nil, nil, nil, "Schola Supplies Ltd")

	_, err := svc.GenerateInvoicePDF(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateLedgerCSV(t *testing.T) {
	entries := []models.LedgerEntry{
		{
			EntryDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			EntryType: models.EntryTypePurchase,
			Reference: "Procurement: Kasuku Ltd - Exercise Book A5",
			Debit:     12000,
			Balance:   -12000,
		},
		{
			EntryDate: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
			EntryType: models.EntryTypeSale,
			Reference: "Invoice: INV-0001",
			Credit:    18000,
			Balance:   6000,
		},
	}
	svc := NewReportService(nil, nil, nil, &reportLedgerRepo{entries: entries}, "Schola Supplies Ltd")

	buf, err := svc.GenerateLedgerCSV(context.Background())
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "Date,Type,Reference,Debit,Credit,Balance", lines[0])
	assert.Contains(t, lines[1], "2026-01-05")
	assert.Contains(t, lines[1], "12000.00")
	assert.Contains(t, lines[2], "Invoice: INV-0001")
	assert.Contains(t, lines[2], "6000.00")
}
