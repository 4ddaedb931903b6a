package repository

import (
	"context"

	"github.com/edusupply/schola-api/internal/models"
	"gorm.io/gorm"
)

// SchoolRepository defines the interface for school data access
type SchoolRepository interface {
	FindByID(ctx context.Context, id uint) (*models.School, error)
	Create(ctx context.Context, school *models.School) error
	Update(ctx context.Context, school *models.School) error
	List(ctx context.Context, query *ListQuery) ([]models.School, int64, error)
	FindAll(ctx context.Context) ([]models.School, error)
	TotalReceivables(ctx context.Context) (float64, error)
}

type schoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository creates a new school repository
func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) FindByID(ctx context.Context, id uint) (*models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).First(&school, id).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepository) Create(ctx context.Context, school *models.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *schoolRepository) Update(ctx context.Context, school *models.School) error {
	return r.db.WithContext(ctx).Save(school).Error
}

func (r *schoolRepository) List(ctx context.Context, query *ListQuery) ([]models.School, int64, error) {
	var schools []models.School
	var total int64

	db := r.db.WithContext(ctx).Model(&models.School{})

	if term := query.Filters["search_term"]; term != "" {
		db = db.Where("name ILIKE ? OR principal_name ILIKE ?", "%"+term+"%", "%"+term+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "name"
	switch query.SortBy {
	case "outstanding_balance", "total_invoiced", "credit_limit", "created_at":
		sortBy = query.SortBy
	}
	dir := "ASC"
	if query.SortDir == "desc" {
		dir = "DESC"
	}

	err := paginate(db, query).Order(sortBy + " " + dir).Find(&schools).Error
	return schools, total, err
}

func (r *schoolRepository) FindAll(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	err := r.db.WithContext(ctx).Order("name ASC").Find(&schools).Error
	return schools, err
}

// TotalReceivables sums the outstanding balance across all schools
func (r *schoolRepository) TotalReceivables(ctx context.Context) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.School{}).
		Select("COALESCE(SUM(outstanding_balance), 0) as total").
		Scan(&result).Error
	return result.Total, err
}
