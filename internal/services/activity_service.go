package services

import (
	"context"
	"fmt"
	"strings"

	"vyns/internal/logging"
	"vyns/internal/models"
	"vyns/internal/repositories"

	"gorm.io/gorm"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// ActivityInput is a feed entry submitted for a wallet.
type ActivityInput struct {
	Type        models.ActivityType
	Description string
	Amount      *float64
	XPEarned    int
	TxHash      string
}

// ActivityService records and lists wallet activity feeds.
type ActivityService struct {
	activities repositories.ActivityRepository
	users      repositories.UserRepository
	log        logging.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activities repositories.ActivityRepository, users repositories.UserRepository, log logging.Logger) *ActivityService {
	return &ActivityService{
		activities: activities,
		users:      users,
		log:        log,
	}
}

func validActivityType(t models.ActivityType) bool {
	switch t {
	case models.ActivityStake, models.ActivityUnstake, models.ActivityClaim,
		models.ActivityReferral, models.ActivityTransaction, models.ActivityListing:
		return true
	}
	return false
}

// Record appends an entry to wallet's feed. Earned XP is added to the
// identity's advisory counter when the wallet belongs to one.
func (s *ActivityService) Record(ctx context.Context, wallet string, in ActivityInput) (*models.Activity, error) {
	description := strings.TrimSpace(in.Description)
	if wallet == "" || !validActivityType(in.Type) || description == "" {
		return nil, ErrInvalidActivity
	}
	if in.XPEarned < 0 {
		in.XPEarned = 0
	}

	activity := &models.Activity{
		Wallet:      wallet,
		Type:        in.Type,
		Description: description,
		Amount:      in.Amount,
		XPEarned:    in.XPEarned,
		TxHash:      models.StringPtr(in.TxHash),
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}

	if in.XPEarned > 0 {
		err := s.users.UpdateFieldsByWallet(ctx, wallet, map[string]interface{}{
			"xp": gorm.Expr("xp + ?", in.XPEarned),
		})
		if err != nil {
			s.log.Warn(ctx, "failed to credit xp", "wallet", wallet, "xp", in.XPEarned, "error", err)
		}
	}
	return activity, nil
}

// List returns wallet's newest entries first.
func (s *ActivityService) List(ctx context.Context, wallet string, limit int) ([]models.Activity, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	activities, err := s.activities.ListByWallet(ctx, wallet, limit)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

// HandleEvent turns a domain event into a feed entry. Events without a
// wallet and event types with no feed representation are ignored.
func (s *ActivityService) HandleEvent(ctx context.Context, event Event) error {
	if event.Wallet == "" {
		return nil
	}

	var in ActivityInput
	switch event.Type {
	case EventUsernameClaimed:
		in = ActivityInput{
			Type:        models.ActivityClaim,
			Description: fmt.Sprintf("Claimed username %s", event.Username),
		}
	case EventUsernameListed:
		in = ActivityInput{
			Type:        models.ActivityListing,
			Description: fmt.Sprintf("Listed %s for sale", event.Username),
			Amount:      event.Price,
		}
	default:
		return nil
	}

	_, err := s.Record(ctx, event.Wallet, in)
	return err
}

// Publish makes ActivityService an EventPublisher that records events in
// process, for deployments without a broker.
func (s *ActivityService) Publish(ctx context.Context, event Event) error {
	return s.HandleEvent(ctx, event)
}
