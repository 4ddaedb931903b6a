package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edusupply/schola-api/internal/jobs"
	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
)

type postingHarness struct {
	svc        *PostingService
	db         *gorm.DB
	ledgerRepo repository.LedgerRepository
}

// newPostingHarness wires a PostingService against an in-memory database.
// Each test gets its own named database so state never leaks across tests.
func newPostingHarness(t *testing.T, name string) *postingHarness {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.School{},
		&models.InventoryBatch{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
		&models.LPO{},
		&models.LPOItem{},
		&models.Expense{},
		&models.LedgerEntry{},
		&models.AuditLog{},
		&models.AnalyticsCache{},
	))

	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	ledgerRepo := repository.NewLedgerRepository(db)
	svc := NewPostingService(db, ledgerRepo, repository.NewAnalyticsRepository(db), NewAuditService(db), worker)

	return &postingHarness{svc: svc, db: db, ledgerRepo: ledgerRepo}
}

func TestRecordPayment_AttributesToFirstOpenInvoice(t *testing.T) {
	h := newPostingHarness(t, "payment_attribution")
	ctx := context.Background()
	actor := Actor{UserID: 1}

	invoiced := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	school := models.School{Name: "Hilltop Academy", CreditLimit: 100000, TotalInvoiced: 8000, OutstandingBalance: 8000}
	require.NoError(t, h.db.Create(&school).Error)

	first := models.Invoice{InvoiceNumber: "INV-1001", SchoolID: school.ID, InvoiceDate: invoiced, TotalRevenue: 3000}
	second := models.Invoice{InvoiceNumber: "INV-1002", SchoolID: school.ID, InvoiceDate: invoiced, TotalRevenue: 5000}
	require.NoError(t, h.db.Create(&first).Error)
	require.NoError(t, h.db.Create(&second).Error)

	// Settles the oldest open invoice in full, 20 days after invoicing.
	payment, err := h.svc.RecordPayment(ctx, actor, RecordPaymentCommand{
		SchoolID:    school.ID,
		Amount:      3000,
		PaymentDate: invoiced.AddDate(0, 0, 20),
	})
	require.NoError(t, err)
	require.NotNil(t, payment.InvoiceID)
	assert.Equal(t, first.ID, *payment.InvoiceID)

	require.NoError(t, h.db.First(&first, first.ID).Error)
	assert.Equal(t, 3000.0, first.AmountPaid)
	assert.True(t, first.IsSettled())

	require.NoError(t, h.db.First(&school, school.ID).Error)
	assert.Equal(t, 3000.0, school.TotalPaid)
	assert.Equal(t, 5000.0, school.OutstandingBalance)
	assert.Equal(t, []int{20}, school.PaymentDaysHistory, "full settlement records payment days")

	// With the first invoice settled the next payment moves to the second,
	// and a partial amount leaves it open with no payment-days entry.
	payment, err = h.svc.RecordPayment(ctx, actor, RecordPaymentCommand{
		SchoolID:    school.ID,
		Amount:      2000,
		PaymentDate: invoiced.AddDate(0, 0, 25),
	})
	require.NoError(t, err)
	require.NotNil(t, payment.InvoiceID)
	assert.Equal(t, second.ID, *payment.InvoiceID)

	require.NoError(t, h.db.First(&second, second.ID).Error)
	assert.Equal(t, 2000.0, second.AmountPaid)
	assert.False(t, second.IsSettled())

	require.NoError(t, h.db.First(&school, school.ID).Error)
	assert.Equal(t, []int{20}, school.PaymentDaysHistory)

	// The remainder lands on the same invoice and closes it.
	payment, err = h.svc.RecordPayment(ctx, actor, RecordPaymentCommand{
		SchoolID:    school.ID,
		Amount:      3000,
		PaymentDate: invoiced.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	require.NotNil(t, payment.InvoiceID)
	assert.Equal(t, second.ID, *payment.InvoiceID)

	require.NoError(t, h.db.First(&second, second.ID).Error)
	assert.True(t, second.IsSettled())

	require.NoError(t, h.db.First(&school, school.ID).Error)
	assert.Equal(t, 8000.0, school.TotalPaid)
	assert.Equal(t, 0.0, school.OutstandingBalance)
	assert.Equal(t, []int{20, 30}, school.PaymentDaysHistory)

	balance, err := h.ledgerRepo.LatestBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, balance, "every payment credits the running ledger")
}

func TestRecordPayment_GeneralSettlementWithoutOpenInvoice(t *testing.T) {
	h := newPostingHarness(t, "payment_general")
	ctx := context.Background()

	invoiced := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	school := models.School{Name: "Riverside Primary", CreditLimit: 50000}
	require.NoError(t, h.db.Create(&school).Error)

	settled := models.Invoice{InvoiceNumber: "INV-2001", SchoolID: school.ID, InvoiceDate: invoiced, TotalRevenue: 1500, AmountPaid: 1500}
	require.NoError(t, h.db.Create(&settled).Error)

	payment, err := h.svc.RecordPayment(ctx, Actor{UserID: 1}, RecordPaymentCommand{
		SchoolID:    school.ID,
		Amount:      400,
		PaymentDate: invoiced.AddDate(0, 0, 10),
	})
	require.NoError(t, err)
	assert.Nil(t, payment.InvoiceID, "no open invoice leaves the payment unattributed")

	require.NoError(t, h.db.First(&settled, settled.ID).Error)
	assert.Equal(t, 1500.0, settled.AmountPaid, "settled invoices are never touched")

	require.NoError(t, h.db.First(&school, school.ID).Error)
	assert.Equal(t, 400.0, school.TotalPaid)
	assert.Equal(t, -400.0, school.OutstandingBalance, "overpayment goes negative, held as customer credit")
	assert.Empty(t, school.PaymentDaysHistory)

	var entry models.LedgerEntry
	require.NoError(t, h.db.Order("id DESC").First(&entry).Error)
	assert.Equal(t, models.EntryTypePayment, entry.EntryType)
	assert.Equal(t, 400.0, entry.Credit)
}

func TestRecordPayment_UnknownSchool(t *testing.T) {
	h := newPostingHarness(t, "payment_unknown_school")

	_, err := h.svc.RecordPayment(context.Background(), Actor{UserID: 1}, RecordPaymentCommand{
		SchoolID:    99,
		Amount:      100,
		PaymentDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Runs the four posting events end to end and checks the school balances and
// the running ledger move in lockstep after each one.
func TestPostingEventsMoveBalancesInLockstep(t *testing.T) {
	h := newPostingHarness(t, "posting_lockstep")
	ctx := context.Background()
	actor := Actor{UserID: 1}

	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	batch, err := h.svc.Procure(ctx, actor, ProcureCommand{
		ItemName:      "Exercise Book A4",
		Supplier:      "Kasuku Ltd",
		PurchasePrice: 50,
		Quantity:      100,
		Date:          day,
	})
	require.NoError(t, err)

	balance, err := h.ledgerRepo.LatestBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, -5000.0, balance, "procurement debits the full batch cost")

	school := models.School{Name: "Hilltop Academy", CreditLimit: 100000}
	require.NoError(t, h.db.Create(&school).Error)

	invoice, err := h.svc.RecordInvoice(ctx, actor, RecordInvoiceCommand{
		SchoolID:    school.ID,
		Items:       []InvoiceLineCommand{{BatchID: batch.ID, Quantity: 10, SellingPrice: 82}},
		InvoiceDate: day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 820.0, invoice.TotalRevenue)

	require.NoError(t, h.db.First(batch, batch.ID).Error)
	assert.Equal(t, 90, batch.QuantityRemaining)

	require.NoError(t, h.db.First(&school, school.ID).Error)
	assert.Equal(t, 820.0, school.TotalInvoiced)
	assert.Equal(t, 820.0, school.OutstandingBalance)

	balance, err = h.ledgerRepo.LatestBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, -4180.0, balance, "invoicing credits the revenue")

	_, err = h.svc.RecordPayment(ctx, actor, RecordPaymentCommand{
		SchoolID:    school.ID,
		Amount:      820,
		PaymentDate: day.AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	require.NoError(t, h.db.First(&school, school.ID).Error)
	assert.Equal(t, 820.0, school.TotalPaid)
	assert.Equal(t, 0.0, school.OutstandingBalance)
	assert.Equal(t, school.TotalInvoiced-school.TotalPaid, school.OutstandingBalance)

	balance, err = h.ledgerRepo.LatestBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, -3360.0, balance)

	_, err = h.svc.RecordExpense(ctx, actor, RecordExpenseCommand{
		Name:     "Delivery fuel",
		Category: models.ExpenseCategoryTransport,
		Amount:   200,
		Date:     day.AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	balance, err = h.ledgerRepo.LatestBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, -3560.0, balance, "expenses debit the running ledger")
}
