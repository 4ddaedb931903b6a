package repository

import (
	"context"
	"errors"

	"github.com/edusupply/schola-api/internal/models"
	"gorm.io/gorm"
)

// ledgerLockKey is the advisory lock id serializing ledger appends. Two
// concurrent postings must not read the same "latest balance".
const ledgerLockKey = 7340021

// LedgerRepository defines the interface for cash ledger data access.
// The ledger is append-only: there is no update or delete.
type LedgerRepository interface {
	List(ctx context.Context, query *ListQuery) ([]models.LedgerEntry, int64, error)
	FindAll(ctx context.Context) ([]models.LedgerEntry, error)
	LatestBalance(ctx context.Context) (float64, error)

	// AppendTx composes and writes an entry inside the caller's transaction,
	// deriving the running balance under the ledger advisory lock.
	AppendTx(tx *gorm.DB, entry *models.LedgerEntry) error
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) List(ctx context.Context, query *ListQuery) ([]models.LedgerEntry, int64, error) {
	var entries []models.LedgerEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LedgerEntry{})

	if entryType := query.Filters["type"]; entryType != "" {
		db = db.Where("entry_type = ?", entryType)
	}
	if from := query.Filters["start_date"]; from != "" {
		db = db.Where("entry_date >= ?", from)
	}
	if to := query.Filters["end_date"]; to != "" {
		db = db.Where("entry_date <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db, query).Order("entry_date ASC, id ASC").Find(&entries).Error
	return entries, total, err
}

func (r *ledgerRepository) FindAll(ctx context.Context) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).Order("entry_date ASC, id ASC").Find(&entries).Error
	return entries, err
}

// LatestBalance returns the running balance of the most recent entry, 0 for
// an empty ledger
func (r *ledgerRepository) LatestBalance(ctx context.Context) (float64, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).
		Order("entry_date DESC, id DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Balance, nil
}

// AppendTx takes the ledger advisory lock for the remainder of the caller's
// transaction, reads the latest balance, derives the new running balance
// from the entry's debit/credit and inserts the entry. The lock holds until
// the transaction commits or rolls back, so balances never interleave.
func (r *ledgerRepository) AppendTx(tx *gorm.DB, entry *models.LedgerEntry) error {
	// Advisory locks are a Postgres feature; the SQLite used in tests
	// serializes writers on its own.
	if tx.Dialector.Name() != "sqlite" {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", ledgerLockKey).Error; err != nil {
			return err
		}
	}

	var latest models.LedgerEntry
	err := tx.Order("entry_date DESC, id DESC").First(&latest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	entry.Balance = latest.Balance + entry.Credit - entry.Debit
	return tx.Create(entry).Error
}
