package repository

import (
	"context"

	"github.com/edusupply/schola-api/internal/models"
	"gorm.io/gorm"
)

// InventoryRepository defines the interface for inventory batch data access
type InventoryRepository interface {
	FindByID(ctx context.Context, id uint) (*models.InventoryBatch, error)
	Create(ctx context.Context, batch *models.InventoryBatch) error
	Update(ctx context.Context, batch *models.InventoryBatch) error
	List(ctx context.Context, query *ListQuery) ([]models.InventoryBatch, int64, error)
	FindAvailable(ctx context.Context) ([]models.InventoryBatch, error)
	FindAll(ctx context.Context) ([]models.InventoryBatch, error)
	TotalValue(ctx context.Context) (float64, error)
	ItemNames(ctx context.Context) ([]string, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uint) (*models.InventoryBatch, error) {
	var batch models.InventoryBatch
	if err := r.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *inventoryRepository) Create(ctx context.Context, batch *models.InventoryBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *inventoryRepository) Update(ctx context.Context, batch *models.InventoryBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

func (r *inventoryRepository) List(ctx context.Context, query *ListQuery) ([]models.InventoryBatch, int64, error) {
	var batches []models.InventoryBatch
	var total int64

	db := r.db.WithContext(ctx).Model(&models.InventoryBatch{})

	if term := query.Filters["search_term"]; term != "" {
		db = db.Where("item_name ILIKE ? OR supplier ILIKE ?", "%"+term+"%", "%"+term+"%")
	}
	if query.Filters["in_stock"] == "true" {
		db = db.Where("quantity_remaining > 0")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(db, query).Order("procurement_date DESC, id DESC").Find(&batches).Error
	return batches, total, err
}

// FindAvailable returns batches with stock left, oldest procurement first
func (r *inventoryRepository) FindAvailable(ctx context.Context) ([]models.InventoryBatch, error) {
	var batches []models.InventoryBatch
	err := r.db.WithContext(ctx).
		Where("quantity_remaining > 0").
		Order("procurement_date ASC, id ASC").
		Find(&batches).Error
	return batches, err
}

func (r *inventoryRepository) FindAll(ctx context.Context) ([]models.InventoryBatch, error) {
	var batches []models.InventoryBatch
	err := r.db.WithContext(ctx).Order("id ASC").Find(&batches).Error
	return batches, err
}

// TotalValue sums purchase cost of all remaining stock
func (r *inventoryRepository) TotalValue(ctx context.Context) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.InventoryBatch{}).
		Select("COALESCE(SUM(quantity_remaining * purchase_price), 0) as total").
		Scan(&result).Error
	return result.Total, err
}

// ItemNames returns the distinct item names ever procured
func (r *inventoryRepository) ItemNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.InventoryBatch{}).
		Distinct("item_name").
		Order("item_name ASC").
		Pluck("item_name", &names).Error
	return names, err
}
