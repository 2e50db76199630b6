package repositories

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"vyns/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const referralAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB, timeout time.Duration) *GORMUserRepository {
	return &GORMUserRepository{
		db:      db,
		timeout: timeout,
	}
}

// Create inserts a new identity. Unique index violations are reported as
// *DuplicateIdentityError naming the colliding field.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Email == nil && user.Wallet == nil {
		return ErrIdentityIncomplete
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.ReferralCode == "" {
		code, err := newReferralCode()
		if err != nil {
			return fmt.Errorf("failed to generate referral code: %w", err)
		}
		user.ReferralCode = code
	}
	if user.Level == 0 {
		user.Level = 1
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return r.duplicateField(ctx, user)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves an identity by email.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByWallet retrieves an identity by wallet address.
func (r *GORMUserRepository) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	return r.first(ctx, "wallet = ?", wallet)
}

// GetByID retrieves an identity by its ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// UpsertByWallet finds the identity for wallet or provisions one.
func (r *GORMUserRepository) UpsertByWallet(ctx context.Context, wallet string) (*models.User, bool, error) {
	user, err := r.GetByWallet(ctx, wallet)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user = &models.User{Wallet: models.StringPtr(wallet)}
	if err := r.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			// A concurrent login created it first.
			if existing, getErr := r.GetByWallet(ctx, wallet); getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return user, true, nil
}

// UpdateFieldsByWallet applies a partial update to the identity owning wallet.
func (r *GORMUserRepository) UpdateFieldsByWallet(ctx context.Context, wallet string, fields map[string]interface{}) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("wallet = ?", wallet).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update user with wallet %s: %w", wallet, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with wallet %s: %w", wallet, ErrUserNotFound)
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user (%s): %w", query, err)
	}
	return &user, nil
}

// duplicateField probes the unique columns after a failed insert. The insert
// already lost, so this only picks the message.
func (r *GORMUserRepository) duplicateField(ctx context.Context, user *models.User) error {
	probes := []struct {
		field string
		value *string
	}{
		{"email", user.Email},
		{"wallet", user.Wallet},
		{"username", user.Username},
	}
	for _, p := range probes {
		if p.value == nil {
			continue
		}
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where(p.field+" = ?", *p.value).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to inspect duplicate user: %w", err)
		}
		if count > 0 {
			return &DuplicateIdentityError{Field: p.field}
		}
	}
	return &DuplicateIdentityError{}
}

func newReferralCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralAlphabet[int(b)%len(referralAlphabet)]
	}
	return string(buf), nil
}
