// Package ledger holds the pure derivation rules behind the posting
// workflows: running-balance arithmetic, invoice totals, inventory
// depletion, LPO fulfillment and the credit-limit gate. Nothing in this
// package touches the database.
package ledger

import (
	"github.com/edusupply/schola-api/internal/models"
)

// NextBalance derives the running balance for a new ledger entry from the
// latest known balance and the entry's debit/credit pair
func NextBalance(latest, debit, credit float64) float64 {
	return latest + credit - debit
}

// InvoiceTotals is the derived money block of an invoice
type InvoiceTotals struct {
	Revenue       float64
	COGS          float64
	GrossProfit   float64
	MarginPercent float64
}

// InvoiceLine is the priced input for one invoice line
type InvoiceLine struct {
	Quantity     int
	SellingPrice float64
	CostPrice    float64
}

// ComputeInvoiceTotals derives revenue, COGS, gross profit and margin for a
// set of priced lines plus an extra (logistics) cost. Zero revenue yields a
// 0% margin rather than a division error.
func ComputeInvoiceTotals(lines []InvoiceLine, extraCost float64) InvoiceTotals {
	t := InvoiceTotals{Revenue: extraCost}
	for _, l := range lines {
		t.Revenue += l.SellingPrice * float64(l.Quantity)
		t.COGS += l.CostPrice * float64(l.Quantity)
	}
	t.GrossProfit = t.Revenue - t.COGS
	if t.Revenue > 0 {
		t.MarginPercent = t.GrossProfit / t.Revenue * 100
	}
	return t
}

// Deplete returns the remaining quantity after drawing qty units from a
// batch. Floors at zero: overselling never produces negative stock.
func Deplete(remaining, qty int) int {
	remaining -= qty
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Delivery is an invoiced quantity to apply against an LPO's ordered items
type Delivery struct {
	LPOItemID uint   // preferred match, stable across renames
	ItemName  string // fallback for lines recorded without an item id
	Quantity  int
}

// ApplyFulfillment accumulates delivered quantities onto the LPO's items,
// matching by item id first and by name second. Delivered quantities only
// ever increase. Returns the number of deliveries that matched no item.
func ApplyFulfillment(items []models.LPOItem, deliveries []Delivery) (unmatched int) {
	for _, d := range deliveries {
		if d.Quantity <= 0 {
			continue
		}
		idx := -1
		for i := range items {
			if d.LPOItemID != 0 && items[i].ID == d.LPOItemID {
				idx = i
				break
			}
		}
		if idx < 0 && d.ItemName != "" {
			for i := range items {
				if items[i].ItemName == d.ItemName {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			unmatched++
			continue
		}
		items[idx].QuantityDelivered += d.Quantity
	}
	return unmatched
}

// FulfillmentStatus derives the LPO status from its items: completed iff
// every item is covered, partial when any delivery has landed, else pending
func FulfillmentStatus(items []models.LPOItem) string {
	if len(items) == 0 {
		return models.LPOStatusPending
	}
	all := true
	any := false
	for i := range items {
		if items[i].QuantityDelivered > 0 {
			any = true
		}
		if items[i].QuantityDelivered < items[i].QuantityOrdered {
			all = false
		}
	}
	switch {
	case all:
		return models.LPOStatusCompleted
	case any:
		return models.LPOStatusPartial
	default:
		return models.LPOStatusPending
	}
}

// ExceedsCreditLimit reports whether posting an invoice of the given revenue
// would push the school past its credit limit. A soft gate: the operator can
// still confirm the posting.
func ExceedsCreditLimit(school *models.School, invoiceRevenue float64) bool {
	return school.OutstandingBalance+invoiceRevenue > school.CreditLimit
}
