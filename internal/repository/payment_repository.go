package repository

import (
	"context"

	"github.com/edusupply/schola-api/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
	FindBySchool(ctx context.Context, schoolID uint) ([]models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
// Payments are created by the posting workflow; Update exists only for
// attaching receipt scans after the fact.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Joins("School").
		Preload("Invoice").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if schoolID := query.Filters["school_id"]; schoolID != "" {
		db = db.Where("payments.school_id = ?", schoolID)
	}
	if method := query.Filters["method"]; method != "" {
		db = db.Where("payments.method = ?", method)
	}
	if term := query.Filters["search_term"]; term != "" {
		db = db.Joins("JOIN schools ON schools.id = payments.school_id").
			Where("schools.name ILIKE ? OR payments.reference ILIKE ?", "%"+term+"%", "%"+term+"%")
	}
	if from := query.Filters["start_date"]; from != "" {
		db = db.Where("payments.payment_date >= ?", from)
	}
	if to := query.Filters["end_date"]; to != "" {
		db = db.Where("payments.payment_date <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db, query).
		Preload("School").
		Preload("Invoice").
		Order("payments.payment_date DESC, payments.id DESC").
		Find(&payments).Error
	return payments, total, err
}

func (r *paymentRepository) FindBySchool(ctx context.Context, schoolID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Invoice").
		Where("school_id = ?", schoolID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}
