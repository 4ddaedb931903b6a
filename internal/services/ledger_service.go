package services

import (
	"context"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
)

// LedgerService reads the append-only cash ledger
type LedgerService struct {
	repo repository.LedgerRepository
}

func NewLedgerService(repo repository.LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

func (s *LedgerService) List(ctx context.Context, query *repository.ListQuery) ([]models.LedgerEntry, int64, error) {
	return s.repo.List(ctx, query)
}

// Balance returns the current running balance
func (s *LedgerService) Balance(ctx context.Context) (float64, error) {
	return s.repo.LatestBalance(ctx)
}
