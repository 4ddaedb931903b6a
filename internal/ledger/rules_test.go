package ledger

import (
	"testing"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNextBalance(t *testing.T) {
	// base case: first entry starts from zero
	assert.Equal(t, -5000.0, NextBalance(0, 5000, 0))
	// credit moves the balance up, debit down
	assert.Equal(t, -4180.0, NextBalance(-5000, 0, 820))
	assert.Equal(t, -3360.0, NextBalance(-4180, 0, 820))
}

func TestComputeInvoiceTotals(t *testing.T) {
	lines := []InvoiceLine{
		{Quantity: 10, SellingPrice: 80, CostPrice: 50},
	}
	totals := ComputeInvoiceTotals(lines, 20)

	assert.Equal(t, 820.0, totals.Revenue)
	assert.Equal(t, 500.0, totals.COGS)
	assert.Equal(t, 320.0, totals.GrossProfit)
	assert.InDelta(t, 39.02, totals.MarginPercent, 0.01)
}

func TestComputeInvoiceTotalsZeroRevenue(t *testing.T) {
	// giveaway lines with cost but no revenue must not divide by zero
	lines := []InvoiceLine{
		{Quantity: 5, SellingPrice: 0, CostPrice: 30},
	}
	totals := ComputeInvoiceTotals(lines, 0)

	assert.Equal(t, 0.0, totals.Revenue)
	assert.Equal(t, 150.0, totals.COGS)
	assert.Equal(t, -150.0, totals.GrossProfit)
	assert.Equal(t, 0.0, totals.MarginPercent)
}

func TestComputeInvoiceTotalsEmpty(t *testing.T) {
	totals := ComputeInvoiceTotals(nil, 0)
	assert.Equal(t, 0.0, totals.Revenue)
	assert.Equal(t, 0.0, totals.MarginPercent)
}

func TestDeplete(t *testing.T) {
	assert.Equal(t, 90, Deplete(100, 10))
	assert.Equal(t, 0, Deplete(100, 100))
	// overselling floors at zero, never negative
	assert.Equal(t, 0, Deplete(5, 10))
}

func TestApplyFulfillmentByID(t *testing.T) {
	items := []models.LPOItem{
		{ID: 1, ItemName: "Exercise Book A4", QuantityOrdered: 10},
		{ID: 2, ItemName: "Pencil HB", QuantityOrdered: 50},
	}

	unmatched := ApplyFulfillment(items, []Delivery{
		{LPOItemID: 1, Quantity: 4},
	})

	assert.Zero(t, unmatched)
	assert.Equal(t, 4, items[0].QuantityDelivered)
	assert.Equal(t, 0, items[1].QuantityDelivered)
	assert.Equal(t, models.LPOStatusPartial, FulfillmentStatus(items))
}

func TestApplyFulfillmentByNameFallback(t *testing.T) {
	items := []models.LPOItem{
		{ID: 1, ItemName: "Exercise Book A4", QuantityOrdered: 10},
	}

	unmatched := ApplyFulfillment(items, []Delivery{
		{ItemName: "Exercise Book A4", Quantity: 6},
		{ItemName: "Ruler 30cm", Quantity: 3},
	})

	assert.Equal(t, 1, unmatched)
	assert.Equal(t, 6, items[0].QuantityDelivered)
}

func TestFulfillmentStatusTransitions(t *testing.T) {
	items := []models.LPOItem{
		{ID: 1, ItemName: "Exercise Book A4", QuantityOrdered: 10, QuantityDelivered: 0},
	}
	assert.Equal(t, models.LPOStatusPending, FulfillmentStatus(items))

	ApplyFulfillment(items, []Delivery{{LPOItemID: 1, Quantity: 4}})
	assert.Equal(t, models.LPOStatusPartial, FulfillmentStatus(items))

	ApplyFulfillment(items, []Delivery{{LPOItemID: 1, Quantity: 6}})
	assert.Equal(t, 10, items[0].QuantityDelivered)
	assert.Equal(t, models.LPOStatusCompleted, FulfillmentStatus(items))
}

func TestFulfillmentStatusEmptyOrder(t *testing.T) {
	assert.Equal(t, models.LPOStatusPending, FulfillmentStatus(nil))
}

func TestExceedsCreditLimit(t *testing.T) {
	school := &models.School{CreditLimit: 1000, OutstandingBalance: 600}

	assert.False(t, ExceedsCreditLimit(school, 400))
	assert.True(t, ExceedsCreditLimit(school, 401))
}

// Full posting sequence: procure, invoice, settle.
func TestRunningLedgerScenario(t *testing.T) {
	balance := NextBalance(0, 100*50, 0) // procure 100 @ 50
	assert.Equal(t, -5000.0, balance)

	totals := ComputeInvoiceTotals([]InvoiceLine{{Quantity: 10, SellingPrice: 80, CostPrice: 50}}, 20)
	assert.Equal(t, 820.0, totals.Revenue)
	assert.Equal(t, 500.0, totals.COGS)
	assert.Equal(t, 320.0, totals.GrossProfit)
	assert.InDelta(t, 39.02, totals.MarginPercent, 0.01)

	remaining := Deplete(100, 10)
	assert.Equal(t, 90, remaining)

	balance = NextBalance(balance, 0, totals.Revenue)
	assert.Equal(t, -4180.0, balance)

	balance = NextBalance(balance, 0, 820) // payment in full
	assert.Equal(t, -3360.0, balance)
}
