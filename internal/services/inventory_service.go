package services

import (
	"context"
	"errors"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"

	"gorm.io/gorm"
)

// InventoryService reads the stock book. Batches enter through Procure and
// deplete through RecordInvoice; there is no direct stock mutation.
type InventoryService struct {
	repo repository.InventoryRepository
}

func NewInventoryService(repo repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

func (s *InventoryService) FindByID(ctx context.Context, id uint) (*models.InventoryBatch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return batch, nil
}

func (s *InventoryService) List(ctx context.Context, query *repository.ListQuery) ([]models.InventoryBatch, int64, error) {
	return s.repo.List(ctx, query)
}

// Available returns batches with stock left, oldest procurement first, the
// order invoice lines should consume them in
func (s *InventoryService) Available(ctx context.Context) ([]models.InventoryBatch, error) {
	return s.repo.FindAvailable(ctx)
}

// StockSummary aggregates remaining stock per item across batches
type StockSummary struct {
	ItemName   string  `json:"item_name"`
	Remaining  int     `json:"remaining"`
	StockValue float64 `json:"stock_value"`
	Batches    int     `json:"batches"`
}

func (s *InventoryService) Summary(ctx context.Context) ([]StockSummary, error) {
	batches, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	summaries := make([]StockSummary, 0)
	for _, b := range batches {
		i, ok := index[b.ItemName]
		if !ok {
			i = len(summaries)
			index[b.ItemName] = i
			summaries = append(summaries, StockSummary{ItemName: b.ItemName})
		}
		summaries[i].Remaining += b.QuantityRemaining
		summaries[i].StockValue += b.Value()
		summaries[i].Batches++
	}
	return summaries, nil
}
