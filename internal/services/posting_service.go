package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/edusupply/schola-api/internal/jobs"
	"github.com/edusupply/schola-api/internal/ledger"
	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
	"github.com/edusupply/schola-api/internal/statemachine"
	"github.com/edusupply/schola-api/pkg/logger"

	"gorm.io/gorm"
)

// PostingService runs the four business events that move the books:
// Procure, RecordInvoice, RecordPayment and RecordExpense. Every event is a
// single database transaction; the rows it derives from (school, batches,
// LPO, open invoice) are read with row locks inside that transaction, and
// the ledger append is serialized by an advisory lock. Either all dependent
// writes of an event land or none do.
type PostingService struct {
	db            *gorm.DB
	ledgerRepo    repository.LedgerRepository
	analyticsRepo repository.AnalyticsRepository
	auditSvc      *AuditService
	worker        *jobs.Worker
}

// NewPostingService creates a new posting service
func NewPostingService(
	db *gorm.DB,
	ledgerRepo repository.LedgerRepository,
	analyticsRepo repository.AnalyticsRepository,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PostingService {
	return &PostingService{
		db:            db,
		ledgerRepo:    ledgerRepo,
		analyticsRepo: analyticsRepo,
		auditSvc:      auditSvc,
		worker:        worker,
	}
}

// Procure records a new inventory batch and debits the ledger with its
// purchase cost
func (s *PostingService) Procure(ctx context.Context, actor Actor, cmd ProcureCommand) (*models.InventoryBatch, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	batch := &models.InventoryBatch{
		ItemName:          cmd.ItemName,
		Size:              cmd.Size,
		Supplier:          cmd.Supplier,
		PurchasePrice:     cmd.PurchasePrice,
		QuantityProcured:  cmd.Quantity,
		QuantityRemaining: cmd.Quantity,
		ProcurementDate:   cmd.Date,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}

		entry := &models.LedgerEntry{
			EntryDate: cmd.Date,
			EntryType: models.EntryTypePurchase,
			Reference: fmt.Sprintf("Procurement: %s - %s", cmd.Supplier, cmd.ItemName),
			Debit:     float64(cmd.Quantity) * cmd.PurchasePrice,
		}
		if err := s.ledgerRepo.AppendTx(tx, entry); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterPosting(actor, models.AuditActionProcure, "inventory_batch", batch.ID,
		fmt.Sprintf("%d x %s @ %.2f from %s", cmd.Quantity, cmd.ItemName, cmd.PurchasePrice, cmd.Supplier))
	return batch, nil
}

// RecordInvoice posts a sale: creates the invoice, depletes the referenced
// batches, advances the linked LPO's fulfillment, moves the school's
// balances and credits the ledger with the revenue
func (s *PostingService) RecordInvoice(ctx context.Context, actor Actor, cmd RecordInvoiceCommand) (*models.Invoice, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var invoice *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school models.School
		if err := forUpdate(tx).
			First(&school, cmd.SchoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("school %d: %w", cmd.SchoolID, ErrNotFound)
			}
			return err
		}

		// Lock and read every referenced batch before pricing the lines so
		// cost capture and depletion see the same stock.
		batches := make(map[uint]*models.InventoryBatch, len(cmd.Items))
		lines := make([]ledger.InvoiceLine, 0, len(cmd.Items))
		items := make([]models.InvoiceItem, 0, len(cmd.Items))
		for _, lc := range cmd.Items {
			batch, ok := batches[lc.BatchID]
			if !ok {
				batch = &models.InventoryBatch{}
				if err := forUpdate(tx).
					First(batch, lc.BatchID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("batch %d: %w", lc.BatchID, ErrNotFound)
					}
					return err
				}
				batches[lc.BatchID] = batch
			}

			lines = append(lines, ledger.InvoiceLine{
				Quantity:     lc.Quantity,
				SellingPrice: lc.SellingPrice,
				CostPrice:    batch.PurchasePrice,
			})
			items = append(items, models.InvoiceItem{
				BatchID:      batch.ID,
				LPOItemID:    lc.LPOItemID,
				ItemName:     batch.ItemName,
				Quantity:     lc.Quantity,
				SellingPrice: lc.SellingPrice,
				CostPrice:    batch.PurchasePrice,
			})
		}

		totals := ledger.ComputeInvoiceTotals(lines, cmd.ExtraCost)

		// Soft gate: the operator must confirm postings past the limit.
		if ledger.ExceedsCreditLimit(&school, totals.Revenue) && !cmd.ConfirmCreditExcess {
			return ErrCreditLimitExceeded
		}

		number, err := s.nextInvoiceNumber(tx)
		if err != nil {
			return err
		}

		invoice = &models.Invoice{
			InvoiceNumber: number,
			SchoolID:      school.ID,
			LPOID:         cmd.LPOID,
			InvoiceDate:   cmd.InvoiceDate,
			DeliveryDate:  cmd.DeliveryDate,
			ExtraCost:     cmd.ExtraCost,
			TotalRevenue:  totals.Revenue,
			TotalCOGS:     totals.COGS,
			GrossProfit:   totals.GrossProfit,
			MarginPercent: totals.MarginPercent,
			Items:         items,
		}
		if err := tx.Create(invoice).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		// Deplete stock. Floors at zero: an oversold line is still invoiced
		// at its full quantity, with a warning for reconciliation.
		for _, lc := range cmd.Items {
			batch := batches[lc.BatchID]
			if lc.Quantity > batch.QuantityRemaining {
				logger.Warn("invoice line exceeds remaining stock",
					"batch_id", batch.ID, "item", batch.ItemName,
					"requested", lc.Quantity, "remaining", batch.QuantityRemaining)
			}
			batch.QuantityRemaining = ledger.Deplete(batch.QuantityRemaining, lc.Quantity)
		}
		for _, batch := range batches {
			if err := tx.Save(batch).Error; err != nil {
				return fmt.Errorf("failed to deplete batch %d: %w", batch.ID, err)
			}
		}

		if cmd.LPOID != nil {
			if err := s.fulfillLPO(ctx, tx, *cmd.LPOID, invoice.Items); err != nil {
				return err
			}
		}

		school.TotalInvoiced += totals.Revenue
		school.OutstandingBalance += totals.Revenue
		if err := tx.Save(&school).Error; err != nil {
			return fmt.Errorf("failed to update school balances: %w", err)
		}

		entry := &models.LedgerEntry{
			EntryDate: cmd.InvoiceDate,
			EntryType: models.EntryTypeSale,
			Reference: fmt.Sprintf("Invoice: %s", number),
			Credit:    totals.Revenue,
		}
		if err := s.ledgerRepo.AppendTx(tx, entry); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterPosting(actor, models.AuditActionRecordInvoice, "invoice", invoice.ID,
		fmt.Sprintf("%s for school %d, revenue %.2f", invoice.InvoiceNumber, invoice.SchoolID, invoice.TotalRevenue))
	return invoice, nil
}

// fulfillLPO accumulates the invoiced quantities onto the order's items and
// advances the order status, all within the posting transaction
func (s *PostingService) fulfillLPO(ctx context.Context, tx *gorm.DB, lpoID uint, items []models.InvoiceItem) error {
	var lpo models.LPO
	if err := forUpdate(tx).
		First(&lpo, lpoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lpo %d: %w", lpoID, ErrNotFound)
		}
		return err
	}
	if err := tx.Where("lpo_id = ?", lpoID).Order("id ASC").Find(&lpo.Items).Error; err != nil {
		return err
	}

	deliveries := make([]ledger.Delivery, 0, len(items))
	for _, item := range items {
		d := ledger.Delivery{ItemName: item.ItemName, Quantity: item.Quantity}
		if item.LPOItemID != nil {
			d.LPOItemID = *item.LPOItemID
		}
		deliveries = append(deliveries, d)
	}

	if unmatched := ledger.ApplyFulfillment(lpo.Items, deliveries); unmatched > 0 {
		logger.Warn("invoice lines matched no LPO item", "lpo_id", lpoID, "unmatched", unmatched)
	}

	derived := ledger.FulfillmentStatus(lpo.Items)
	if err := statemachine.NewLPOFSM(&lpo).Advance(ctx, derived); err != nil {
		return fmt.Errorf("failed to advance lpo %d: %w", lpoID, err)
	}

	for i := range lpo.Items {
		if err := tx.Save(&lpo.Items[i]).Error; err != nil {
			return fmt.Errorf("failed to update lpo item %d: %w", lpo.Items[i].ID, err)
		}
	}
	if err := tx.Model(&models.LPO{}).Where("id = ?", lpo.ID).
		Update("status", lpo.Status).Error; err != nil {
		return fmt.Errorf("failed to update lpo status: %w", err)
	}
	return nil
}

// RecordPayment posts money received from a school. The payment attaches to
// the school's first invoice (by insertion order) that still has an
// outstanding balance; when none qualifies it stays a general settlement.
func (s *PostingService) RecordPayment(ctx context.Context, actor Actor, cmd RecordPaymentCommand) (*models.Payment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var payment *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school models.School
		if err := forUpdate(tx).
			First(&school, cmd.SchoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("school %d: %w", cmd.SchoolID, ErrNotFound)
			}
			return err
		}

		var target *models.Invoice
		var open models.Invoice
		err := forUpdate(tx).
			Where("school_id = ? AND amount_paid < total_revenue", school.ID).
			Order("id ASC").
			First(&open).Error
		if err == nil {
			target = &open
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		payment = &models.Payment{
			SchoolID:    school.ID,
			Amount:      cmd.Amount,
			Method:      cmd.Method,
			Reference:   cmd.Reference,
			BankName:    cmd.BankName,
			ChequeDate:  cmd.ChequeDate,
			PaymentDate: cmd.PaymentDate,
		}
		if target != nil {
			payment.InvoiceID = &target.ID
		}
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		if target != nil {
			wasSettled := target.IsSettled()
			target.AmountPaid += cmd.Amount
			if err := tx.Model(&models.Invoice{}).Where("id = ?", target.ID).
				Update("amount_paid", target.AmountPaid).Error; err != nil {
				return fmt.Errorf("failed to update invoice: %w", err)
			}

			// First full settlement feeds the school's payment-days history.
			if !wasSettled && target.IsSettled() {
				school.PaymentDaysHistory = append(school.PaymentDaysHistory,
					paymentDays(target.InvoiceDate, cmd.PaymentDate))
			}
		}

		school.TotalPaid += cmd.Amount
		school.OutstandingBalance -= cmd.Amount
		if err := tx.Save(&school).Error; err != nil {
			return fmt.Errorf("failed to update school balances: %w", err)
		}

		entry := &models.LedgerEntry{
			EntryDate: cmd.PaymentDate,
			EntryType: models.EntryTypePayment,
			Reference: fmt.Sprintf("Received: %s", school.Name),
			Credit:    cmd.Amount,
		}
		if err := s.ledgerRepo.AppendTx(tx, entry); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterPosting(actor, models.AuditActionRecordPayment, "payment", payment.ID,
		fmt.Sprintf("%.2f from school %d via %s", cmd.Amount, cmd.SchoolID, cmd.Method))
	return payment, nil
}

// RecordExpense posts an operating cost and debits the ledger
func (s *PostingService) RecordExpense(ctx context.Context, actor Actor, cmd RecordExpenseCommand) (*models.Expense, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Name:     cmd.Name,
		Category: cmd.Category,
		Amount:   cmd.Amount,
		Date:     cmd.Date,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}

		entry := &models.LedgerEntry{
			EntryDate: cmd.Date,
			EntryType: models.EntryTypeExpense,
			Reference: fmt.Sprintf("%s: %s", cmd.Category, cmd.Name),
			Debit:     cmd.Amount,
		}
		if err := s.ledgerRepo.AppendTx(tx, entry); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterPosting(actor, models.AuditActionRecordExpense, "expense", expense.ID,
		fmt.Sprintf("%s %.2f (%s)", cmd.Name, cmd.Amount, cmd.Category))
	return expense, nil
}

// paymentDays counts whole days between invoicing and the settling payment.
// Backdated payments count as same-day.
func paymentDays(invoiced, paid time.Time) int {
	days := int(paid.Sub(invoiced).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// nextInvoiceNumber generates an INV-NNNN number, retrying on collision so
// numbers stay unique without a dedicated sequence
func (s *PostingService) nextInvoiceNumber(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		number := fmt.Sprintf("INV-%04d", rand.Intn(10000))
		var count int64
		if err := tx.Model(&models.Invoice{}).
			Where("invoice_number = ?", number).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	// Numbering space is nearly full; fall back to a timestamped number.
	return fmt.Sprintf("INV-%d", time.Now().UnixMilli()%100000000), nil
}

// forUpdate adds a row lock to the query. SQLite, used by the service
// tests, has no FOR UPDATE; its writes are serialized anyway.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return forUpdate(tx)
}

// afterPosting runs the non-transactional tail of an event: the audit trail
// entry and the dashboard cache invalidation
func (s *PostingService) afterPosting(actor Actor, action, entity string, entityID uint, details string) {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.auditSvc.Log(ctx, actor.UserID, action, entity, entityID, details, actor.IP, actor.UserAgent); err != nil {
			logger.Error("failed to write audit entry", "action", action, "error", err)
		}
		return s.analyticsRepo.InvalidateAll(ctx)
	})
}
