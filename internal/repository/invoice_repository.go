package repository

import (
	"context"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*models.Invoice, error)
	List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error)
	FindAll(ctx context.Context) ([]models.Invoice, error)
	FindAllWithItems(ctx context.Context) ([]models.Invoice, error)
	FindBySchool(ctx context.Context, schoolID uint) ([]models.Invoice, error)
	FindUnsettled(ctx context.Context, olderThan time.Time) ([]models.Invoice, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository.
// Invoice creation goes through the posting workflow, not the repository,
// so every sale lands together with its ledger and balance writes.
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Joins("School").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Joins("School").
		Where("invoice_number = ?", number).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if schoolID := query.Filters["school_id"]; schoolID != "" {
		db = db.Where("invoices.school_id = ?", schoolID)
	}
	if query.Filters["unsettled"] == "true" {
		db = db.Where("invoices.amount_paid < invoices.total_revenue")
	}
	if term := query.Filters["search_term"]; term != "" {
		db = db.Joins("JOIN schools ON schools.id = invoices.school_id").
			Where("invoices.invoice_number ILIKE ? OR schools.name ILIKE ?", "%"+term+"%", "%"+term+"%")
	}
	if from := query.Filters["start_date"]; from != "" {
		db = db.Where("invoices.invoice_date >= ?", from)
	}
	if to := query.Filters["end_date"]; to != "" {
		db = db.Where("invoices.invoice_date <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db, query).
		Preload("Items").
		Preload("School").
		Order("invoices.invoice_date DESC, invoices.id DESC").
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) FindAll(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).Order("id ASC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) FindAllWithItems(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).Preload("Items").Order("id ASC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) FindBySchool(ctx context.Context, schoolID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("school_id = ?", schoolID).
		Order("id ASC").
		Find(&invoices).Error
	return invoices, err
}

// FindUnsettled returns invoices with money still owed, invoiced before the cutoff
func (r *invoiceRepository) FindUnsettled(ctx context.Context, olderThan time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Joins("School").
		Where("invoices.amount_paid < invoices.total_revenue AND invoices.invoice_date < ?", olderThan).
		Order("invoices.invoice_date ASC").
		Find(&invoices).Error
	return invoices, err
}
