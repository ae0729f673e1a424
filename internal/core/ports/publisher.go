package ports

import "context"

// EventPublisher emits booking lifecycle events to downstream consumers.
// Key groups related events (usually the appointment id).
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}
