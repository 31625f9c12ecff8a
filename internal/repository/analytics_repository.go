package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnalyticsRepository stores computed analytics payloads with an expiry
type AnalyticsRepository interface {
	GetCache(ctx context.Context, key string) (*models.AnalyticsCache, error)
	Generation(ctx context.Context) (int64, error)
	SetCache(ctx context.Context, key string, data interface{}, ttl time.Duration, generation int64) error
	InvalidateCache(ctx context.Context, key string) error
	InvalidateAll(ctx context.Context) error
	CleanExpiredCache(ctx context.Context) (int64, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// GetCache returns an unexpired entry or gorm.ErrRecordNotFound
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

// Generation returns the current invalidation counter. Read it before
// computing a payload and hand it to SetCache.
func (r *analyticsRepository) Generation(ctx context.Context) (int64, error) {
	var gen models.AnalyticsCacheGeneration
	err := r.db.WithContext(ctx).First(&gen, models.AnalyticsGenerationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return gen.Generation, err
}

// SetCache stores data under key unless the cache was invalidated after
// generation was read, in which case it returns ErrStaleVersion.
func (r *analyticsRepository) SetCache(ctx context.Context, key string, data interface{}, ttl time.Duration, generation int64) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The row lock orders this write against InvalidateAll's bump
		var gen models.AnalyticsCacheGeneration
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&gen, models.AnalyticsGenerationID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if gen.Generation != generation {
			return ErrStaleVersion
		}

		now := time.Now()
		cache := models.AnalyticsCache{
			CacheKey:  key,
			Data:      jsonData,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
			UpdatedAt: now,
		}

		// Upsert on the unique cache key
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
		}).Create(&cache).Error
	})
}

func (r *analyticsRepository) InvalidateCache(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&models.AnalyticsCache{}).Error
}

// InvalidateAll drops every cached payload; called whenever balances move.
// The generation is bumped before the delete so a concurrent SetCache
// either lands first and is deleted, or sees the new generation.
func (r *analyticsRepository) InvalidateAll(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	bump := db.Model(&models.AnalyticsCacheGeneration{}).
		Where("id = ?", models.AnalyticsGenerationID).
		Updates(map[string]interface{}{
			"generation": gorm.Expr("generation + 1"),
			"updated_at": time.Now(),
		})
	if bump.Error != nil {
		return bump.Error
	}
	if bump.RowsAffected == 0 {
		if err := db.Create(&models.AnalyticsCacheGeneration{ID: models.AnalyticsGenerationID, Generation: 1}).Error; err != nil {
			return err
		}
	}
	return db.Where("1 = 1").Delete(&models.AnalyticsCache{}).Error
}

func (r *analyticsRepository) CleanExpiredCache(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&models.AnalyticsCache{})
	return result.RowsAffected, result.Error
}
