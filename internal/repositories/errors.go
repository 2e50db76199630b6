package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"vyns/internal/common"

	"gorm.io/gorm"
)

// DefaultStoreTimeout bounds every store call when no timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

var (
	ErrUserNotFound        = common.NewError(common.KindNotFound, "User not found")
	ErrUsernameNotFound    = common.NewError(common.KindNotFound, "Username not found")
	ErrIdentityIncomplete  = common.NewError(common.KindValidation, "Email or wallet is required")
	ErrDuplicateIdentity   = common.NewError(common.KindConflict, "Identity already exists")
	ErrUsernameTaken       = common.NewError(common.KindConflict, "Username already taken")
	ErrIdentityHasUsername = common.NewError(common.KindConflict, "You already have a username")
)

// DuplicateIdentityError reports which unique identity field collided on create.
// It matches ErrDuplicateIdentity with errors.Is.
type DuplicateIdentityError struct {
	Field string
}

func (e *DuplicateIdentityError) Error() string {
	switch e.Field {
	case "email":
		return "Email already in use"
	case "wallet":
		return "Wallet already registered"
	case "username":
		return "Username already taken"
	default:
		return ErrDuplicateIdentity.Error()
	}
}

func (e *DuplicateIdentityError) Kind() common.Kind { return common.KindConflict }

func (e *DuplicateIdentityError) Is(target error) bool { return target == ErrDuplicateIdentity }

// isDuplicateKey recognizes unique index violations. TranslateError covers the
// configured drivers; the string checks catch databases opened without it.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}
