package services_test

import (
	"context"
	"errors"
	"testing"

	"vyns/internal/logging"
	"vyns/internal/models"
	"vyns/internal/repositories"
	"vyns/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newActivityService() (*services.ActivityService, *MockActivityRepository, *MockUserRepository) {
	activities := new(MockActivityRepository)
	users := new(MockUserRepository)
	return services.NewActivityService(activities, users, logging.Discard()), activities, users
}

func TestActivityService_Record(t *testing.T) {
	ctx := context.Background()
	service, activities, users := newActivityService()

	activities.On("Create", ctx, mock.MatchedBy(func(a *models.Activity) bool {
		return a.Wallet == "W1" && a.Type == models.ActivityStake && a.Description == "Staked 10" &&
			models.Deref(a.TxHash) == "0xabc"
	})).Return(nil).Once()
	users.On("UpdateFieldsByWallet", ctx, "W1", mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, ok := fields["xp"]
		return ok && len(fields) == 1
	})).Return(nil).Once()

	activity, err := service.Record(ctx, "W1", services.ActivityInput{
		Type:        models.ActivityStake,
		Description: "  Staked 10 ",
		Amount:      floatPtr(10),
		XPEarned:    5,
		TxHash:      "0xabc",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, activity.XPEarned)

	activities.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestActivityService_RecordToleratesUnknownWallet(t *testing.T) {
	ctx := context.Background()
	service, activities, users := newActivityService()

	activities.On("Create", ctx, mock.Anything).Return(nil).Once()
	users.On("UpdateFieldsByWallet", ctx, "W9", mock.Anything).Return(repositories.ErrUserNotFound).Once()

	_, err := service.Record(ctx, "W9", services.ActivityInput{
		Type:        models.ActivityReferral,
		Description: "Referred a friend",
		XPEarned:    50,
	})
	assert.NoError(t, err)
}

func TestActivityService_RecordValidates(t *testing.T) {
	ctx := context.Background()
	service, activities, _ := newActivityService()

	for name, in := range map[string]services.ActivityInput{
		"unknown type":        {Type: "mint", Description: "x"},
		"missing description": {Type: models.ActivityStake, Description: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.Record(ctx, "W1", in)
			assert.ErrorIs(t, err, services.ErrInvalidActivity)
		})
	}
	activities.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestActivityService_ListClampsLimit(t *testing.T) {
	ctx := context.Background()
	service, activities, _ := newActivityService()

	activities.On("ListByWallet", ctx, "W1", services.DefaultActivityLimit).Return(nil, nil).Once()
	activities.On("ListByWallet", ctx, "W1", services.MaxActivityLimit).Return([]models.Activity{{ID: 1}}, nil).Once()
	activities.On("ListByWallet", ctx, "W2", 7).Return(nil, errors.New("db down")).Once()

	list, err := service.List(ctx, "W1", 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	list, err = service.List(ctx, "W1", 1000)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = service.List(ctx, "W2", 7)
	assert.Error(t, err)

	activities.AssertExpectations(t)
}

func TestActivityService_HandleEvent(t *testing.T) {
	ctx := context.Background()
	service, activities, _ := newActivityService()

	activities.On("Create", ctx, mock.MatchedBy(func(a *models.Activity) bool {
		return a.Type == models.ActivityClaim && a.Description == "Claimed username @alice"
	})).Return(nil).Once()
	activities.On("Create", ctx, mock.MatchedBy(func(a *models.Activity) bool {
		return a.Type == models.ActivityListing && a.Amount != nil && *a.Amount == 12
	})).Return(nil).Once()

	require.NoError(t, service.HandleEvent(ctx, services.Event{Type: services.EventUsernameClaimed, Wallet: "W1", Username: "@alice"}))
	require.NoError(t, service.Publish(ctx, services.Event{Type: services.EventUsernameListed, Wallet: "W1", Username: "@alice", Price: floatPtr(12)}))

	// Ignored: no feed representation, or no wallet to attach to.
	require.NoError(t, service.HandleEvent(ctx, services.Event{Type: services.EventIdentityCreated, Wallet: "W1"}))
	require.NoError(t, service.HandleEvent(ctx, services.Event{Type: services.EventUsernameClaimed, Username: "@bob"}))

	activities.AssertExpectations(t)
	activities.AssertNumberOfCalls(t, "Create", 2)
}

func TestQueuePublisher_RoundTrip(t *testing.T) {
	queue := &recordingQueue{}
	publisher := services.NewQueuePublisher(queue)

	err := publisher.Publish(context.Background(), services.Event{Type: services.EventUsernameClaimed, Wallet: "W1", Username: "@alice"})
	require.NoError(t, err)
	assert.Equal(t, services.EventUsernameClaimed, queue.key)

	event, err := services.DecodeEvent(queue.body)
	require.NoError(t, err)
	assert.Equal(t, "@alice", event.Username)
	assert.Equal(t, "W1", event.Wallet)

	_, err = services.DecodeEvent([]byte(`{"wallet":"W1"}`))
	assert.Error(t, err)
	_, err = services.DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}

type recordingQueue struct {
	key  string
	body []byte
}

func (q *recordingQueue) Publish(ctx context.Context, routingKey string, body []byte) error {
	q.key = routingKey
	q.body = body
	return nil
}
