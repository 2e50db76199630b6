package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vyns/internal/models"

	"gorm.io/gorm"
)

// GORMUsernameRepository is a GORM implementation of UsernameRepository.
type GORMUsernameRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGORMUsernameRepository creates a new instance of GORMUsernameRepository.
func NewGORMUsernameRepository(db *gorm.DB, timeout time.Duration) *GORMUsernameRepository {
	return &GORMUsernameRepository{
		db:      db,
		timeout: timeout,
	}
}

// GetByName retrieves a claim record by its normalized name.
func (r *GORMUsernameRepository) GetByName(ctx context.Context, name string) (*models.Username, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var record models.Username
	if err := r.db.WithContext(ctx).First(&record, "username = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsernameNotFound
		}
		return nil, fmt.Errorf("failed to get username %s: %w", name, err)
	}
	return &record, nil
}

// ListByWallet returns every name owned by wallet in claim order.
func (r *GORMUsernameRepository) ListByWallet(ctx context.Context, wallet string) ([]models.Username, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var records []models.Username
	if err := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list usernames for wallet %s: %w", wallet, err)
	}
	return records, nil
}

// Claim inserts the record and sets the owner's username in a single transaction.
func (r *GORMUsernameRepository) Claim(ctx context.Context, record *models.Username, ownerID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	record.OwnerID = ownerID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to create username %s: %w", record.Username, err)
		}

		// The IS NULL guard makes one-name-per-identity hold under concurrent claims.
		res := tx.Model(&models.User{}).
			Where("id = ? AND username IS NULL", ownerID).
			Update("username", record.Username)
		if res.Error != nil {
			if isDuplicateKey(res.Error) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to link username %s to user %s: %w", record.Username, ownerID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrIdentityHasUsername
		}
		return nil
	})
}

// SetListedPrice updates or clears the listing price of name.
func (r *GORMUsernameRepository) SetListedPrice(ctx context.Context, name string, price *float64) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var value interface{} = gorm.Expr("NULL")
	if price != nil {
		value = *price
	}

	res := r.db.WithContext(ctx).Model(&models.Username{}).Where("username = ?", name).Update("listed_price", value)
	if res.Error != nil {
		return fmt.Errorf("failed to update listing for %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUsernameNotFound
	}
	return nil
}

// ListListed pages through names with a positive price. Ties in the sort key
// fall back to insertion order.
func (r *GORMUsernameRepository) ListListed(ctx context.Context, sort ListingSort, offset, limit int) ([]models.Username, int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	listed := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Username{}).Where("listed_price IS NOT NULL AND listed_price > ?", 0)
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(listed).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	var records []models.Username
	err := r.db.WithContext(ctx).
		Scopes(listed).
		Order(orderClause(sort)).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	return records, total, nil
}

func orderClause(sort ListingSort) string {
	switch sort {
	case SortPriceLow:
		return "listed_price ASC"
	case SortPriceHigh:
		return "listed_price DESC"
	case SortLevel:
		return "level DESC"
	default:
		return "created_at DESC"
	}
}
