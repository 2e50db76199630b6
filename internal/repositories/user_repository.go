package repositories

import (
	"context"

	"vyns/internal/models"
)

// UserRepository defines the interface for identity data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByWallet(ctx context.Context, wallet string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpsertByWallet returns the identity for wallet, creating it if absent.
	// The bool is true when a new record was created.
	UpsertByWallet(ctx context.Context, wallet string) (*models.User, bool, error)
	UpdateFieldsByWallet(ctx context.Context, wallet string, fields map[string]interface{}) error
}
