package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// paymentLedger owns the writes that keep a payment and the payment facet of
// its appointment in step. Payment and webhook services share it.
type paymentLedger struct {
	payments     ports.PaymentRepository
	appointments ports.AppointmentRepository
	events       ports.EventPublisher
	log          zerolog.Logger
	now          func() time.Time
}

// openPayment returns the pending payment of the appointment, creating one
// when none exists. A reused payment is repriced to the appointment's current
// total so it can never settle for less.
func (l *paymentLedger) openPayment(ctx context.Context, a *domain.Appointment, method domain.PaymentMethod, currency string) (*domain.Payment, error) {
	existing, err := l.payments.FindActiveByAppointment(ctx, a.ID)
	switch {
	case err == nil:
		if existing.Status == domain.PaymentCompleted {
			return nil, domain.ErrPaymentAlreadyCompleted
		}
		if existing.Amount != a.TotalAmount {
			l.log.Info().
				Str("payment_id", existing.ID).
				Float64("from", existing.Amount).
				Float64("to", a.TotalAmount).
				Msg("pending payment repriced")
		}
		existing.Amount = a.TotalAmount
		existing.Method = method
		existing.UpdatedAt = l.now().UTC()
		if err := l.payments.Update(ctx, existing, domain.PaymentPending); err != nil {
			return nil, fmt.Errorf("reprice payment: %w", err)
		}
		return existing, nil
	case !errors.Is(err, domain.ErrPaymentNotFound):
		return nil, fmt.Errorf("find active payment: %w", err)
	}

	now := l.now().UTC()
	p := &domain.Payment{
		UserID:        a.UserID,
		AppointmentID: a.ID,
		Amount:        a.TotalAmount,
		Currency:      currency,
		Method:        method,
		Status:        domain.PaymentPending,
		TransactionID: newTransactionID(now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

// complete marks the payment completed and mirrors paid onto the appointment.
// A captured payment whose appointment can no longer be paid is still
// recorded; the mismatch is logged for follow-up.
func (l *paymentLedger) complete(ctx context.Context, p *domain.Payment, a *domain.Appointment) (*domain.Payment, error) {
	from := p.Status
	if err := p.TransitionTo(domain.PaymentCompleted); err != nil {
		return nil, err
	}
	p.UpdatedAt = l.now().UTC()
	if err := l.payments.Update(ctx, p, from); err != nil {
		return nil, fmt.Errorf("complete payment: %w", err)
	}

	if a != nil {
		if res := a.Apply(domain.StateChange{PaymentStatus: domain.PaymentStatePaid}); res.Applied {
			a.UpdatedAt = p.UpdatedAt
			if err := l.appointments.SaveState(ctx, a); err != nil {
				return nil, fmt.Errorf("mark appointment paid: %w", err)
			}
		} else {
			l.log.Warn().
				Err(res.Err()).
				Str("payment_id", p.ID).
				Str("appointment_id", a.ID).
				Msg("payment completed but appointment not marked paid")
		}
	}

	l.log.Info().
		Str("payment_id", p.ID).
		Str("appointment_id", p.AppointmentID).
		Float64("amount", p.Amount).
		Msg("payment completed")
	publish(ctx, l.events, l.log, domain.EventPaymentCompleted, p.AppointmentID, p)
	return p, nil
}

// fail marks a pending payment failed. Other states are left untouched.
func (l *paymentLedger) fail(ctx context.Context, p *domain.Payment, response map[string]any) error {
	if p.Status != domain.PaymentPending {
		return nil
	}
	if err := p.TransitionTo(domain.PaymentFailed); err != nil {
		return err
	}
	p.GatewayResponse = response
	p.UpdatedAt = l.now().UTC()
	if err := l.payments.Update(ctx, p, domain.PaymentPending); err != nil {
		return fmt.Errorf("fail payment: %w", err)
	}

	l.log.Warn().Str("payment_id", p.ID).Str("appointment_id", p.AppointmentID).Msg("payment failed")
	publish(ctx, l.events, l.log, domain.EventPaymentFailed, p.AppointmentID, p)
	return nil
}

// newTransactionID returns an id of the form TXN_<unix millis>_<random>.
func newTransactionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return fmt.Sprintf("TXN_%d_%s", now.UnixMilli(), suffix)
}
