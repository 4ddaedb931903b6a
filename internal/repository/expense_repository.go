package repository

import (
	"context"

	"github.com/edusupply/schola-api/internal/models"
	"gorm.io/gorm"
)

// ExpenseRepository defines the interface for expense data access
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Expense, error)
	List(ctx context.Context, query *ListQuery) ([]models.Expense, int64, error)
	TotalAmount(ctx context.Context) (float64, error)
	TotalsByCategory(ctx context.Context) (map[string]float64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository.
// Expenses are created by the posting workflow so each one lands with its
// ledger debit.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, query *ListQuery) ([]models.Expense, int64, error) {
	var expenses []models.Expense
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Expense{})

	if category := query.Filters["category"]; category != "" {
		db = db.Where("category = ?", category)
	}
	if term := query.Filters["search_term"]; term != "" {
		db = db.Where("name ILIKE ?", "%"+term+"%")
	}
	if from := query.Filters["start_date"]; from != "" {
		db = db.Where("date >= ?", from)
	}
	if to := query.Filters["end_date"]; to != "" {
		db = db.Where("date <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db, query).Order("date DESC, id DESC").Find(&expenses).Error
	return expenses, total, err
}

func (r *expenseRepository) TotalAmount(ctx context.Context) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Scan(&result).Error
	return result.Total, err
}

func (r *expenseRepository) TotalsByCategory(ctx context.Context) (map[string]float64, error) {
	var rows []struct {
		Category string
		Total    float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.Category] = row.Total
	}
	return totals, nil
}
