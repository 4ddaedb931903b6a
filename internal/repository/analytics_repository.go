package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnalyticsRepository caches computed dashboard aggregates with a TTL
type AnalyticsRepository interface {
	GetCache(ctx context.Context, key string) (*models.AnalyticsCache, error)
	SetCache(ctx context.Context, key string, data interface{}, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
	CleanExpired(ctx context.Context) error
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetCache(ctx context.Context, key string) (*models.AnalyticsCache, error) {
	var cache models.AnalyticsCache
	err := r.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, time.Now()).
		First(&cache).Error
	if err != nil {
		return nil, err
	}
	return &cache, nil
}

func (r *analyticsRepository) SetCache(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	cache := models.AnalyticsCache{
		CacheKey:  key,
		Data:      payload,
		ExpiresAt: time.Now().Add(ttl),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
		}).
		Create(&cache).Error
}

// InvalidateAll drops every cached aggregate. Called after each posting so
// dashboards never serve stale books.
func (r *analyticsRepository) InvalidateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.AnalyticsCache{}).Error
}

func (r *analyticsRepository) CleanExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.AnalyticsCache{}).Error
}
