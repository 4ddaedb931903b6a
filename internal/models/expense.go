package models

import (
	"time"
)

// Expense category constants
const (
	ExpenseCategoryRent      = "rent"
	ExpenseCategoryUtilities = "utilities"
	ExpenseCategoryTransport = "transport"
	ExpenseCategorySalaries  = "salaries"
	ExpenseCategoryMisc      = "misc"
)

// ExpenseCategories lists the accepted expense categories
var ExpenseCategories = []string{
	ExpenseCategoryRent,
	ExpenseCategoryUtilities,
	ExpenseCategoryTransport,
	ExpenseCategorySalaries,
	ExpenseCategoryMisc,
}

// Expense is an operating cost. Each expense debits exactly one ledger entry.
type Expense struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  string    `gorm:"not null;index" json:"category"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// ValidExpenseCategory reports whether c is one of the accepted categories
func ValidExpenseCategory(c string) bool {
	for _, cat := range ExpenseCategories {
		if cat == c {
			return true
		}
	}
	return false
}
