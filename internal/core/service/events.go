package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/ports"
)

// publish emits an event. Failures are logged and never fail the caller.
func publish(ctx context.Context, pub ports.EventPublisher, log zerolog.Logger, topic, key string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, key, payload); err != nil {
		log.Warn().Err(err).Str("topic", topic).Str("key", key).Msg("failed to publish event")
	}
}
