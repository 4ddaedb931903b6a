package services

import (
	"context"
	"errors"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"

	"gorm.io/gorm"
)

// ExpenseService reads posted expenses. Recording goes through the posting
// workflow so the ledger debit always lands with the expense row.
type ExpenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{repo: repo}
}

func (s *ExpenseService) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) List(ctx context.Context, query *repository.ListQuery) ([]models.Expense, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ExpenseService) TotalsByCategory(ctx context.Context) (map[string]float64, error) {
	return s.repo.TotalsByCategory(ctx)
}
