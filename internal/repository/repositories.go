package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	School       SchoolRepository
	Inventory    InventoryRepository
	LPO          LPORepository
	Invoice      InvoiceRepository
	Payment      PaymentRepository
	Expense      ExpenseRepository
	Ledger       LedgerRepository
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Analytics    AnalyticsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		School:       NewSchoolRepository(db),
		Inventory:    NewInventoryRepository(db),
		LPO:          NewLPORepository(db),
		Invoice:      NewInvoiceRepository(db),
		Payment:      NewPaymentRepository(db),
		Expense:      NewExpenseRepository(db),
		Ledger:       NewLedgerRepository(db),
		User:         NewUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Analytics:    NewAnalyticsRepository(db),
	}
}

// ListQuery carries pagination, sorting and free-form filters for list endpoints
type ListQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery returns a ListQuery with sane defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		SortDir: "desc",
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 20
	}
	return (q.Page - 1) * q.PerPage
}

// paginate applies offset/limit to a gorm query
func paginate(db *gorm.DB, q *ListQuery) *gorm.DB {
	return db.Offset(q.Offset()).Limit(q.PerPage)
}
