package services

import (
	"testing"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestProcureCommand_Validate(t *testing.T) {
	cmd := ProcureCommand{ItemName: "Exercise Book A4", Supplier: "Kasuku Ltd", PurchasePrice: 45, Quantity: 500}
	assert.NoError(t, cmd.Validate())
	assert.False(t, cmd.Date.IsZero(), "zero date should default to now")

	bad := ProcureCommand{Supplier: "Kasuku Ltd", PurchasePrice: 45, Quantity: 500}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)

	bad = ProcureCommand{ItemName: "Exercise Book A4", Quantity: 0}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)

	bad = ProcureCommand{ItemName: "Exercise Book A4", PurchasePrice: -1, Quantity: 10}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)
}

func TestRecordInvoiceCommand_Validate(t *testing.T) {
	cmd := RecordInvoiceCommand{
		SchoolID: 1,
		Items:    []InvoiceLineCommand{{BatchID: 3, Quantity: 100, SellingPrice: 60}},
	}
	assert.NoError(t, cmd.Validate())
	assert.False(t, cmd.InvoiceDate.IsZero())
	assert.Equal(t, cmd.InvoiceDate, cmd.DeliveryDate, "delivery defaults to invoice date")

	bad := RecordInvoiceCommand{SchoolID: 1}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)

	bad = RecordInvoiceCommand{
		SchoolID: 1,
		Items:    []InvoiceLineCommand{{BatchID: 3, Quantity: 0, SellingPrice: 60}},
	}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)

	bad = RecordInvoiceCommand{
		SchoolID:  1,
		Items:     []InvoiceLineCommand{{BatchID: 3, Quantity: 1, SellingPrice: 60}},
		ExtraCost: -50,
	}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)
}

func TestRecordPaymentCommand_Validate(t *testing.T) {
	cmd := RecordPaymentCommand{SchoolID: 2, Amount: 1500}
	assert.NoError(t, cmd.Validate())
	assert.Equal(t, models.PaymentMethodCheque, cmd.Method, "method defaults to cheque")

	bad := RecordPaymentCommand{SchoolID: 2, Amount: 0}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)

	bad = RecordPaymentCommand{Amount: 100}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)
}

func TestRecordExpenseCommand_Validate(t *testing.T) {
	cmd := RecordExpenseCommand{Name: "Warehouse rent", Category: models.ExpenseCategoryRent, Amount: 12000}
	assert.NoError(t, cmd.Validate())

	bad := RecordExpenseCommand{Name: "Warehouse rent", Category: "stationery", Amount: 12000}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)

	bad = RecordExpenseCommand{Name: "Warehouse rent", Category: models.ExpenseCategoryRent}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCommand)
}

func TestPaymentDays(t *testing.T) {
	invoiced := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, paymentDays(invoiced, invoiced))
	assert.Equal(t, 14, paymentDays(invoiced, invoiced.AddDate(0, 0, 14)))
	assert.Equal(t, 0, paymentDays(invoiced, invoiced.AddDate(0, 0, -3)), "backdated payment counts as same-day")
}
