package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vyns/internal/logging"
)

// Routing keys of the domain events.
const (
	EventIdentityCreated = "identity.created"
	EventUsernameClaimed = "username.claimed"
	EventUsernameListed  = "username.listed"
)

// Event is a notification emitted after a successful write.
type Event struct {
	Type       string    `json:"type"`
	Wallet     string    `json:"wallet,omitempty"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username,omitempty"`
	Price      *float64  `json:"price,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher delivers events. Publishing is best effort: callers log
// failures and never undo the write that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// MessageQueue is the subset of the RabbitMQ client used for publishing.
type MessageQueue interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// QueuePublisher publishes events as JSON messages keyed by event type.
type QueuePublisher struct {
	queue MessageQueue
}

func NewQueuePublisher(queue MessageQueue) *QueuePublisher {
	return &QueuePublisher{queue: queue}
}

func (p *QueuePublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	return p.queue.Publish(ctx, event.Type, body)
}

// DecodeEvent parses a message body produced by QueuePublisher.
func DecodeEvent(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("event has no type")
	}
	return event, nil
}

// publishEvent stamps and publishes event, logging failures. A nil publisher
// disables publishing.
func publishEvent(ctx context.Context, events EventPublisher, log logging.Logger, event Event) {
	if events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := events.Publish(ctx, event); err != nil {
		log.Warn(ctx, "failed to publish event", "type", event.Type, "error", err)
	}
}
