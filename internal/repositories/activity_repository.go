package repositories

import (
	"context"
	"fmt"
	"time"

	"vyns/internal/models"

	"gorm.io/gorm"
)

// ActivityRepository defines the interface for activity feed data access.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListByWallet(ctx context.Context, wallet string, limit int) ([]models.Activity, error)
}

// GORMActivityRepository is a GORM implementation of ActivityRepository.
type GORMActivityRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGORMActivityRepository(db *gorm.DB, timeout time.Duration) *GORMActivityRepository {
	return &GORMActivityRepository{
		db:      db,
		timeout: timeout,
	}
}

func (r *GORMActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// ListByWallet returns the newest entries first.
func (r *GORMActivityRepository) ListByWallet(ctx context.Context, wallet string, limit int) ([]models.Activity, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("wallet = ?", wallet).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activity for wallet %s: %w", wallet, err)
	}
	return activities, nil
}
