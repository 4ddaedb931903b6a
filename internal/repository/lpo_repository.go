package repository

import (
	"context"

	"github.com/edusupply/schola-api/internal/models"
	"gorm.io/gorm"
)

// LPORepository defines the interface for purchase order data access
type LPORepository interface {
	FindByID(ctx context.Context, id uint) (*models.LPO, error)
	Create(ctx context.Context, lpo *models.LPO) error
	Update(ctx context.Context, lpo *models.LPO) error
	List(ctx context.Context, query *ListQuery) ([]models.LPO, int64, error)
	FindOpenBySchool(ctx context.Context, schoolID uint) ([]models.LPO, error)
}

type lpoRepository struct {
	db *gorm.DB
}

// NewLPORepository creates a new LPO repository
func NewLPORepository(db *gorm.DB) LPORepository {
	return &lpoRepository{db: db}
}

func (r *lpoRepository) FindByID(ctx context.Context, id uint) (*models.LPO, error) {
	var lpo models.LPO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Joins("School").
		First(&lpo, id).Error
	if err != nil {
		return nil, err
	}
	return &lpo, nil
}

func (r *lpoRepository) Create(ctx context.Context, lpo *models.LPO) error {
	return r.db.WithContext(ctx).Create(lpo).Error
}

// Update persists the order header and its item rows
func (r *lpoRepository) Update(ctx context.Context, lpo *models.LPO) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(lpo).Error
}

func (r *lpoRepository) List(ctx context.Context, query *ListQuery) ([]models.LPO, int64, error) {
	var lpos []models.LPO
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LPO{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("lpos.status = ?", status)
	}
	if schoolID := query.Filters["school_id"]; schoolID != "" {
		db = db.Where("lpos.school_id = ?", schoolID)
	}
	if term := query.Filters["search_term"]; term != "" {
		db = db.Joins("JOIN schools ON schools.id = lpos.school_id").
			Where("lpos.lpo_number ILIKE ? OR schools.name ILIKE ?", "%"+term+"%", "%"+term+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db, query).
		Preload("Items").
		Preload("School").
		Order("lpos.date_received DESC, lpos.id DESC").
		Find(&lpos).Error
	return lpos, total, err
}

// FindOpenBySchool returns a school's orders that still have undelivered items
func (r *lpoRepository) FindOpenBySchool(ctx context.Context, schoolID uint) ([]models.LPO, error) {
	var lpos []models.LPO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("school_id = ? AND status <> ?", schoolID, models.LPOStatusCompleted).
		Order("date_received ASC").
		Find(&lpos).Error
	return lpos, err
}
