package services_test

import (
	"context"

	"vyns/internal/models"
	"vyns/internal/repositories"
	"vyns/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	return m.user(m.Called(ctx, wallet))
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) UpsertByWallet(ctx context.Context, wallet string) (*models.User, bool, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) UpdateFieldsByWallet(ctx context.Context, wallet string, fields map[string]interface{}) error {
	args := m.Called(ctx, wallet, fields)
	return args.Error(0)
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockUsernameRepository is a mock implementation of repositories.UsernameRepository
type MockUsernameRepository struct {
	mock.Mock
}

func (m *MockUsernameRepository) GetByName(ctx context.Context, name string) (*models.Username, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Username), args.Error(1)
}

func (m *MockUsernameRepository) ListByWallet(ctx context.Context, wallet string) ([]models.Username, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Username), args.Error(1)
}

func (m *MockUsernameRepository) Claim(ctx context.Context, record *models.Username, ownerID string) error {
	args := m.Called(ctx, record, ownerID)
	if args.Error(0) == nil {
		record.OwnerID = ownerID
	}
	return args.Error(0)
}

func (m *MockUsernameRepository) SetListedPrice(ctx context.Context, name string, price *float64) error {
	args := m.Called(ctx, name, price)
	return args.Error(0)
}

func (m *MockUsernameRepository) ListListed(ctx context.Context, sort repositories.ListingSort, offset, limit int) ([]models.Username, int64, error) {
	args := m.Called(ctx, sort, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Username), args.Get(1).(int64), args.Error(2)
}

// MockActivityRepository is a mock implementation of repositories.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByWallet(ctx context.Context, wallet string, limit int) ([]models.Activity, error) {
	args := m.Called(ctx, wallet, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event services.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(t string) interface{} {
	return mock.MatchedBy(func(e services.Event) bool { return e.Type == t })
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
