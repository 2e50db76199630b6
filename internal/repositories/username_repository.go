package repositories

import (
	"context"

	"vyns/internal/models"
)

// ListingSort selects the marketplace ordering.
type ListingSort string

const (
	SortRecent    ListingSort = "recent"
	SortPriceLow  ListingSort = "price-low"
	SortPriceHigh ListingSort = "price-high"
	SortLevel     ListingSort = "level"
)

// ParseListingSort falls back to SortRecent for unknown values.
func ParseListingSort(s string) ListingSort {
	switch ListingSort(s) {
	case SortPriceLow, SortPriceHigh, SortLevel:
		return ListingSort(s)
	default:
		return SortRecent
	}
}

// UsernameRepository defines the interface for claim record data access.
type UsernameRepository interface {
	GetByName(ctx context.Context, name string) (*models.Username, error)
	ListByWallet(ctx context.Context, wallet string) ([]models.Username, error)
	// Claim creates record and points the owner's identity at it in one
	// transaction. It fails with ErrUsernameTaken or ErrIdentityHasUsername
	// and leaves nothing behind when either write fails.
	Claim(ctx context.Context, record *models.Username, ownerID string) error
	// SetListedPrice sets or, with nil, clears the sale price.
	SetListedPrice(ctx context.Context, name string, price *float64) error
	// ListListed returns one page of names for sale and the total count.
	ListListed(ctx context.Context, sort ListingSort, offset, limit int) ([]models.Username, int64, error)
}
