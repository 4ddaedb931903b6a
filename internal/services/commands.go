package services

import (
	"fmt"
	"time"

	"github.com/edusupply/schola-api/internal/models"
)

// Actor identifies the operator behind a posting, for the audit trail
type Actor struct {
	UserID    uint
	IP        string
	UserAgent string
}

// ProcureCommand records a new inventory batch
type ProcureCommand struct {
	ItemName      string    `json:"item_name"`
	Size          string    `json:"size"`
	Supplier      string    `json:"supplier"`
	PurchasePrice float64   `json:"purchase_price"`
	Quantity      int       `json:"quantity"`
	Date          time.Time `json:"date"`
}

// Validate checks required fields and numeric ranges
func (c *ProcureCommand) Validate() error {
	if c.ItemName == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidCommand)
	}
	if c.PurchasePrice < 0 {
		return fmt.Errorf("%w: purchase price cannot be negative", ErrInvalidCommand)
	}
	if c.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidCommand)
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	return nil
}

// InvoiceLineCommand is one line of a sale. LPOItemID ties the line to the
// ordered LPO line it fulfills; lines without it fall back to name matching.
type InvoiceLineCommand struct {
	BatchID      uint    `json:"batch_id"`
	LPOItemID    *uint   `json:"lpo_item_id,omitempty"`
	Quantity     int     `json:"quantity"`
	SellingPrice float64 `json:"selling_price"`
}

// RecordInvoiceCommand posts a sale against a school, optionally fulfilling
// an LPO. ConfirmCreditExcess acknowledges the credit-limit warning.
type RecordInvoiceCommand struct {
	SchoolID            uint                 `json:"school_id"`
	LPOID               *uint                `json:"lpo_id,omitempty"`
	Items               []InvoiceLineCommand `json:"items"`
	ExtraCost           float64              `json:"extra_cost"`
	InvoiceDate         time.Time            `json:"invoice_date"`
	DeliveryDate        time.Time            `json:"delivery_date"`
	ConfirmCreditExcess bool                 `json:"confirm_credit_excess"`
}

// Validate checks required fields and numeric ranges
func (c *RecordInvoiceCommand) Validate() error {
	if c.SchoolID == 0 {
		return fmt.Errorf("%w: school is required", ErrInvalidCommand)
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalidCommand)
	}
	for i, item := range c.Items {
		if item.BatchID == 0 {
			return fmt.Errorf("%w: line %d has no batch", ErrInvalidCommand, i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: line %d quantity must be positive", ErrInvalidCommand, i+1)
		}
		if item.SellingPrice < 0 {
			return fmt.Errorf("%w: line %d selling price cannot be negative", ErrInvalidCommand, i+1)
		}
	}
	if c.ExtraCost < 0 {
		return fmt.Errorf("%w: extra cost cannot be negative", ErrInvalidCommand)
	}
	if c.InvoiceDate.IsZero() {
		c.InvoiceDate = time.Now()
	}
	if c.DeliveryDate.IsZero() {
		c.DeliveryDate = c.InvoiceDate
	}
	return nil
}

// RecordPaymentCommand posts money received from a school. The payment is
// attributed to the school's first open invoice, or held as a general
// settlement when none qualifies.
type RecordPaymentCommand struct {
	SchoolID    uint       `json:"school_id"`
	Amount      float64    `json:"amount"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference"`
	BankName    string     `json:"bank_name"`
	ChequeDate  *time.Time `json:"cheque_date,omitempty"`
	PaymentDate time.Time  `json:"payment_date"`
}

// Validate checks required fields and numeric ranges
func (c *RecordPaymentCommand) Validate() error {
	if c.SchoolID == 0 {
		return fmt.Errorf("%w: school is required", ErrInvalidCommand)
	}
	if c.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidCommand)
	}
	if c.Method == "" {
		c.Method = models.PaymentMethodCheque
	}
	if c.PaymentDate.IsZero() {
		c.PaymentDate = time.Now()
	}
	return nil
}

// RecordExpenseCommand posts an operating cost
type RecordExpenseCommand struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

// Validate checks required fields and numeric ranges
func (c *RecordExpenseCommand) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCommand)
	}
	if !models.ValidExpenseCategory(c.Category) {
		return fmt.Errorf("%w: unknown expense category %q", ErrInvalidCommand, c.Category)
	}
	if c.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidCommand)
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	return nil
}
