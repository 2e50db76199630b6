package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"vyns/internal/logging"
	"vyns/internal/models"
	"vyns/internal/repositories"
)

const (
	minNameLength     = 3
	maxNameLength     = 20
	premiumNameLength = 4

	DefaultMarketplaceLimit = 50
	MaxMarketplaceLimit     = 100
)

var (
	validName       = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
	disallowedChars = regexp.MustCompile(`[^a-z0-9_]`)
)

// Normalize returns the canonical "@name" form of raw: trimmed, lowercased,
// leading @s stripped. Names outside [a-z0-9_]{3,20} are rejected, never fixed up.
func Normalize(raw string) (string, error) {
	name := strings.TrimLeft(strings.ToLower(strings.TrimSpace(raw)), "@")
	if !validName.MatchString(name) {
		return "", ErrInvalidName
	}
	return "@" + name, nil
}

// normalizeQuery is the lenient form used by search: disallowed characters are dropped.
func normalizeQuery(raw string) string {
	name := strings.TrimLeft(strings.ToLower(strings.TrimSpace(raw)), "@")
	return disallowedChars.ReplaceAllString(name, "")
}

// SearchResult describes a searched name and, when claimed, its public details.
type SearchResult struct {
	Username     string     `json:"username"`
	Available    bool       `json:"available"`
	Reason       string     `json:"reason,omitempty"`
	Owner        string     `json:"owner,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	Level        int        `json:"level,omitempty"`
	TotalYield   float64    `json:"totalYield,omitempty"`
	RegisteredAt *time.Time `json:"registeredAt,omitempty"`
}

// MarketplaceQuery selects one page of listings.
type MarketplaceQuery struct {
	Sort  string
	Page  int
	Limit int
}

// Listing is the public view of a name for sale.
type Listing struct {
	Username  string    `json:"username"`
	Price     float64   `json:"price"`
	Owner     string    `json:"owner"`
	Level     int       `json:"level"`
	XP        int       `json:"xp"`
	IsPremium bool      `json:"isPremium"`
	ListedAt  time.Time `json:"listedAt"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	TotalCount int64 `json:"totalCount"`
}

type MarketplacePage struct {
	Listings   []Listing  `json:"listings"`
	Pagination Pagination `json:"pagination"`
}

// WalletProfile aggregates the names a wallet owns.
type WalletProfile struct {
	Wallet            string            `json:"wallet"`
	Usernames         []models.Username `json:"usernames"`
	TotalYield        float64           `json:"totalYield"`
	TotalTransactions int               `json:"totalTransactions"`
	TotalVolume       float64           `json:"totalVolume"`
}

// UsernameService handles the username registry.
type UsernameService struct {
	usernames repositories.UsernameRepository
	users     repositories.UserRepository
	events    EventPublisher
	log       logging.Logger
}

// NewUsernameService creates a new UsernameService.
func NewUsernameService(
	usernames repositories.UsernameRepository,
	users repositories.UserRepository,
	events EventPublisher,
	log logging.Logger,
) *UsernameService {
	return &UsernameService{
		usernames: usernames,
		users:     users,
		events:    events,
		log:       log,
	}
}

// IsAvailable reports whether raw names an unclaimed, valid username.
func (s *UsernameService) IsAvailable(ctx context.Context, raw string) (bool, error) {
	name, err := Normalize(raw)
	if err != nil {
		return false, err
	}
	return s.available(ctx, name)
}

func (s *UsernameService) available(ctx context.Context, name string) (bool, error) {
	_, err := s.usernames.GetByName(ctx, name)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, repositories.ErrUsernameNotFound):
		return true, nil
	default:
		return false, fmt.Errorf("failed to check availability of %s: %w", name, err)
	}
}

// Claim grants the normalized name to identityID. The availability and
// identity checks only select the error; the store enforces both rules.
func (s *UsernameService) Claim(ctx context.Context, identityID, raw string) (*models.Username, error) {
	name, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if user.HasUsername() {
		return nil, ErrIdentityAlreadyHasName
	}

	free, err := s.available(ctx, name)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrNameTaken
	}

	record := &models.Username{
		Username:      name,
		WalletAddress: user.Wallet,
		Level:         1,
		IsPremium:     len(name)-1 <= premiumNameLength,
	}
	if err := s.usernames.Claim(ctx, record, user.ID); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "username claimed", "username", name, "owner", user.ID)
	s.publish(ctx, Event{
		Type:     EventUsernameClaimed,
		Wallet:   models.Deref(user.Wallet),
		UserID:   user.ID,
		Username: name,
	})
	return record, nil
}

// Search looks up a leniently normalized name.
func (s *UsernameService) Search(ctx context.Context, raw string) (*SearchResult, error) {
	query := normalizeQuery(raw)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if len(query) < minNameLength || len(query) > maxNameLength {
		return nil, ErrInvalidNameLength
	}

	name := "@" + query
	record, err := s.usernames.GetByName(ctx, name)
	if errors.Is(err, repositories.ErrUsernameNotFound) {
		return &SearchResult{Username: name, Available: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", name, err)
	}

	registeredAt := record.CreatedAt
	result := &SearchResult{
		Username:     name,
		Available:    false,
		Reason:       "taken",
		Owner:        models.Deref(record.WalletAddress),
		Level:        record.Level,
		TotalYield:   record.TotalYield,
		RegisteredAt: &registeredAt,
	}
	if record.Listed() {
		result.Price = record.ListedPrice
	}
	return result, nil
}

// Details returns the full claim record of raw.
func (s *UsernameService) Details(ctx context.Context, raw string) (*models.Username, error) {
	name, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return s.usernames.GetByName(ctx, name)
}

// SetListing puts the owner's name up for sale at price.
func (s *UsernameService) SetListing(ctx context.Context, identityID, raw string, price float64) (*models.Username, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, ErrInvalidPrice
	}
	return s.updateListing(ctx, identityID, raw, &price)
}

// ClearListing takes the owner's name off the market.
func (s *UsernameService) ClearListing(ctx context.Context, identityID, raw string) (*models.Username, error) {
	return s.updateListing(ctx, identityID, raw, nil)
}

func (s *UsernameService) updateListing(ctx context.Context, identityID, raw string, price *float64) (*models.Username, error) {
	record, err := s.Details(ctx, raw)
	if err != nil {
		return nil, err
	}
	if record.OwnerID != identityID {
		return nil, ErrNotOwner
	}

	if err := s.usernames.SetListedPrice(ctx, record.Username, price); err != nil {
		return nil, err
	}
	record.ListedPrice = price

	if price != nil {
		s.publish(ctx, Event{
			Type:     EventUsernameListed,
			Wallet:   models.Deref(record.WalletAddress),
			UserID:   identityID,
			Username: record.Username,
			Price:    price,
		})
	}
	return record, nil
}

// Marketplace returns one page of names for sale.
func (s *UsernameService) Marketplace(ctx context.Context, q MarketplaceQuery) (*MarketplacePage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	switch {
	case limit == 0:
		limit = DefaultMarketplaceLimit
	case limit < 1:
		limit = 1
	case limit > MaxMarketplaceLimit:
		limit = MaxMarketplaceLimit
	}

	records, total, err := s.usernames.ListListed(ctx, repositories.ParseListingSort(q.Sort), (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load marketplace: %w", err)
	}

	listings := make([]Listing, 0, len(records))
	for _, r := range records {
		listings = append(listings, Listing{
			Username:  r.Username,
			Price:     *r.ListedPrice,
			Owner:     models.Deref(r.WalletAddress),
			Level:     r.Level,
			XP:        r.XP,
			IsPremium: r.IsPremium,
			ListedAt:  r.UpdatedAt,
		})
	}

	return &MarketplacePage{
		Listings: listings,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
			TotalCount: total,
		},
	}, nil
}

// WalletProfile returns the names owned by wallet with summed totals.
func (s *UsernameService) WalletProfile(ctx context.Context, wallet string) (*WalletProfile, error) {
	records, err := s.usernames.ListByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []models.Username{}
	}
	profile := &WalletProfile{Wallet: wallet, Usernames: records}
	for _, r := range records {
		profile.TotalYield += r.TotalYield
		profile.TotalTransactions += r.TotalTransactions
		profile.TotalVolume += r.TotalVolume
	}
	return profile, nil
}

func (s *UsernameService) publish(ctx context.Context, event Event) {
	publishEvent(ctx, s.events, s.log, event)
}
