package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

type webhookService struct {
	ledger   *paymentLedger
	payments ports.PaymentRepository
	gateway  ports.PaymentGateway
	dedup    DedupChecker
	log      zerolog.Logger
}

// NewWebhookService returns a WebhookService implementation.
func NewWebhookService(
	payments ports.PaymentRepository,
	appointments ports.AppointmentRepository,
	gateway ports.PaymentGateway,
	dedup DedupChecker,
	events ports.EventPublisher,
	log zerolog.Logger,
) ports.WebhookService {
	return &webhookService{
		ledger: &paymentLedger{
			payments:     payments,
			appointments: appointments,
			events:       events,
			log:          log,
			now:          time.Now,
		},
		payments: payments,
		gateway:  gateway,
		dedup:    dedup,
		log:      log,
	}
}

type webhookBody struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (s *webhookService) Parse(body []byte, signature, eventID string) (*domain.GatewayEvent, error) {
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		return nil, domain.ErrInvalidSignature
	}

	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, domain.Invalid("Invalid webhook payload")
	}
	if wb.Event == "" {
		return nil, domain.Invalid("Webhook event type is required")
	}
	var raw map[string]any
	_ = json.Unmarshal(body, &raw)

	entity := wb.Payload.Payment.Entity
	if eventID == "" {
		eventID = wb.Event + ":" + entity.ID
	}
	return &domain.GatewayEvent{
		ID:         eventID,
		Type:       wb.Event,
		OrderID:    entity.OrderID,
		PaymentID:  entity.ID,
		Amount:     entity.Amount,
		Payload:    raw,
		ReceivedAt: time.Now().UTC(),
	}, nil
}

// Process deduplicates and applies a single gateway event.
func (s *webhookService) Process(ctx context.Context, ev domain.GatewayEvent) error {
	// 1. Idempotency check: skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, ev.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("event_id", ev.ID).Str("type", ev.Type).Msg("duplicate webhook skipped")
		return nil
	}

	switch ev.Type {
	case domain.GatewayPaymentCaptured, domain.GatewayPaymentFailed:
	default:
		s.log.Info().Str("event_id", ev.ID).Str("type", ev.Type).Msg("unhandled webhook event")
		s.mark(ctx, ev)
		return nil
	}

	// 2. Find the payment the order belongs to.
	payment, err := s.payments.FindByGatewayOrderID(ctx, ev.OrderID)
	if err != nil {
		return fmt.Errorf("process webhook: %w", err)
	}

	// 3. Mark as processed before writing (prevents duplicate processing on retry).
	s.mark(ctx, ev)

	if ev.Type == domain.GatewayPaymentFailed {
		if err := s.ledger.fail(ctx, payment, ev.Payload); err != nil {
			return fmt.Errorf("process webhook: %w", err)
		}
		return nil
	}

	if payment.Status != domain.PaymentPending {
		s.log.Debug().Str("payment_id", payment.ID).Str("status", string(payment.Status)).Msg("capture for settled payment ignored")
		return nil
	}

	a, err := s.ledger.appointments.FindByID(ctx, payment.AppointmentID)
	if err != nil {
		return fmt.Errorf("process webhook: %w", err)
	}
	payment.GatewayPaymentID = ev.PaymentID
	payment.GatewayResponse = ev.Payload
	if _, err := s.ledger.complete(ctx, payment, a); err != nil {
		return fmt.Errorf("process webhook: %w", err)
	}

	s.log.Info().
		Str("event_id", ev.ID).
		Str("order_id", ev.OrderID).
		Str("payment_id", payment.ID).
		Msg("webhook processed")
	return nil
}

func (s *webhookService) mark(ctx context.Context, ev domain.GatewayEvent) {
	if err := s.dedup.Mark(ctx, ev.ID); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("failed to set dedup key")
	}
}
