package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"

	"gorm.io/gorm"
)

// LPOService manages purchase orders received from schools. Fulfillment
// state is owned by the invoice posting workflow; this service only creates
// orders and edits their pre-delivery contents.
type LPOService struct {
	repo       repository.LPORepository
	schoolRepo repository.SchoolRepository
	auditSvc   *AuditService
}

func NewLPOService(repo repository.LPORepository, schoolRepo repository.SchoolRepository, auditSvc *AuditService) *LPOService {
	return &LPOService{
		repo:       repo,
		schoolRepo: schoolRepo,
		auditSvc:   auditSvc,
	}
}

func (s *LPOService) FindByID(ctx context.Context, id uint) (*models.LPO, error) {
	lpo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lpo, nil
}

func (s *LPOService) List(ctx context.Context, query *repository.ListQuery) ([]models.LPO, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *LPOService) Create(ctx context.Context, lpo *models.LPO, actorID uint) error {
	if lpo.LPONumber == "" {
		return fmt.Errorf("%w: LPO number is required", ErrInvalidCommand)
	}
	if len(lpo.Items) == 0 {
		return fmt.Errorf("%w: at least one ordered item is required", ErrInvalidCommand)
	}
	for i, item := range lpo.Items {
		if item.ItemName == "" {
			return fmt.Errorf("%w: line %d has no item name", ErrInvalidCommand, i+1)
		}
		if item.QuantityOrdered <= 0 {
			return fmt.Errorf("%w: line %d ordered quantity must be positive", ErrInvalidCommand, i+1)
		}
		lpo.Items[i].QuantityDelivered = 0
	}
	if _, err := s.schoolRepo.FindByID(ctx, lpo.SchoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("school %d: %w", lpo.SchoolID, ErrNotFound)
		}
		return err
	}

	lpo.Status = models.LPOStatusPending
	if lpo.DateReceived.IsZero() {
		lpo.DateReceived = time.Now()
	}

	if err := s.repo.Create(ctx, lpo); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionCreate, "lpo", lpo.ID,
		fmt.Sprintf("Registered LPO %s for school %d", lpo.LPONumber, lpo.SchoolID), "", "")
}

// UpdateItems replaces the ordered lines of an order no invoice has touched
// yet. Once delivery starts the order contents are frozen.
func (s *LPOService) UpdateItems(ctx context.Context, id uint, items []models.LPOItem, actorID uint) (*models.LPO, error) {
	lpo, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lpo.Status != models.LPOStatusPending {
		return nil, fmt.Errorf("%w: order %s already has deliveries", ErrInvalidCommand, lpo.LPONumber)
	}
	for i, item := range items {
		if item.ItemName == "" || item.QuantityOrdered <= 0 {
			return nil, fmt.Errorf("%w: line %d is invalid", ErrInvalidCommand, i+1)
		}
		items[i].LPOID = lpo.ID
		items[i].QuantityDelivered = 0
	}

	lpo.Items = items
	if err := s.repo.Update(ctx, lpo); err != nil {
		return nil, err
	}
	if err := s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "lpo", lpo.ID,
		fmt.Sprintf("Replaced items of LPO %s", lpo.LPONumber), "", ""); err != nil {
		return nil, err
	}
	return lpo, nil
}
