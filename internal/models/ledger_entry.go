package models

import (
	"time"
)

// Ledger entry type constants
const (
	EntryTypePurchase = "purchase" // stock procurement (debit)
	EntryTypeSale     = "sale"     // invoice posted (credit)
	EntryTypePayment  = "payment"  // money received (credit)
	EntryTypeExpense  = "expense"  // operating cost (debit)
)

// LedgerEntry is one line of the append-only cash ledger. Balance is the
// running total ordered by (entry_date, id):
//
//	balance[i] = balance[i-1] + credit[i] - debit[i]
//
// Entries are never edited or deleted.
type LedgerEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EntryDate time.Time `gorm:"type:date;not null;index" json:"entry_date"`
	EntryType string    `gorm:"not null;index" json:"entry_type"`
	Reference string    `gorm:"not null" json:"reference"`
	Debit     float64   `gorm:"type:decimal(15,2);default:0" json:"debit"`
	Credit    float64   `gorm:"type:decimal(15,2);default:0" json:"credit"`
	Balance   float64   `gorm:"type:decimal(15,2);not null" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
