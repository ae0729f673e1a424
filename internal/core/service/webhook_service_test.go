package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Helper: a pending gateway payment for a pending appointment.
// ---------------------------------------------------------------------------

type webhookFixture struct {
	svc          ports.WebhookService
	payments     *stubPaymentRepo
	appointments *stubAppointmentRepo
	gateway      *stubGateway
	dedup        *stubDedup
	events       *stubPublisher
	payment      *domain.Payment
	appointment  *domain.Appointment
}

func newWebhookFixture(dedup *stubDedup) *webhookFixture {
	payments := newStubPaymentRepo()
	appointments := newStubAppointmentRepo()
	gateway := &stubGateway{webhookOK: true}
	events := &stubPublisher{}

	a := &domain.Appointment{
		UserID:        "user-1",
		TestID:        "test-1",
		Type:          domain.AppointmentTest,
		Date:          domain.StartOfDay(time.Now().UTC().AddDate(0, 0, 1)),
		Time:          "09:00",
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentStatePending,
		TotalAmount:   45,
	}
	_ = appointments.Create(context.Background(), a)

	p := &domain.Payment{
		UserID:         "user-1",
		AppointmentID:  a.ID,
		Amount:         45,
		Currency:       "INR",
		Method:         domain.MethodRazorpay,
		Status:         domain.PaymentPending,
		GatewayOrderID: "order_abc",
	}
	_ = payments.Create(context.Background(), p)

	return &webhookFixture{
		svc:          NewWebhookService(payments, appointments, gateway, dedup, events, zerolog.Nop()),
		payments:     payments,
		appointments: appointments,
		gateway:      gateway,
		dedup:        dedup,
		events:       events,
		payment:      p,
		appointment:  a,
	}
}

func captured(orderID string) domain.GatewayEvent {
	return domain.GatewayEvent{
		ID:        "evt_1",
		Type:      domain.GatewayPaymentCaptured,
		OrderID:   orderID,
		PaymentID: "pay_gw_9",
		Amount:    4500,
	}
}

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

const capturedBody = `{
	"event": "payment.captured",
	"payload": {"payment": {"entity": {"id": "pay_gw_9", "order_id": "order_abc", "amount": 4500, "status": "captured"}}}
}`

func TestWebhookService_Parse(t *testing.T) {
	f := newWebhookFixture(&stubDedup{})

	ev, err := f.svc.Parse([]byte(capturedBody), "sig", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ev.Type != domain.GatewayPaymentCaptured || ev.OrderID != "order_abc" || ev.PaymentID != "pay_gw_9" || ev.Amount != 4500 {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.ID != "payment.captured:pay_gw_9" {
		t.Errorf("expected derived event id, got %q", ev.ID)
	}

	ev, _ = f.svc.Parse([]byte(capturedBody), "sig", "evt_header")
	if ev.ID != "evt_header" {
		t.Errorf("expected delivery id to win, got %q", ev.ID)
	}
}

func TestWebhookService_Parse_BadSignature(t *testing.T) {
	f := newWebhookFixture(&stubDedup{})
	f.gateway.webhookOK = false

	if _, err := f.svc.Parse([]byte(capturedBody), "forged", ""); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got: %v", err)
	}
}

func TestWebhookService_Parse_Malformed(t *testing.T) {
	f := newWebhookFixture(&stubDedup{})

	if _, err := f.svc.Parse([]byte(`{not json`), "sig", ""); !domain.IsValidation(err) {
		t.Errorf("expected validation error, got: %v", err)
	}
	if _, err := f.svc.Parse([]byte(`{}`), "sig", ""); !domain.IsValidation(err) {
		t.Errorf("expected validation error for missing event, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Process
// ---------------------------------------------------------------------------

func TestWebhookService_Process_Captured(t *testing.T) {
	dedup := &stubDedup{}
	f := newWebhookFixture(dedup)

	if err := f.svc.Process(context.Background(), captured("order_abc")); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	stored := f.payments.byID[f.payment.ID]
	if stored.Status != domain.PaymentCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}
	if stored.GatewayPaymentID != "pay_gw_9" {
		t.Errorf("expected gateway payment id stored, got %q", stored.GatewayPaymentID)
	}
	if f.appointments.byID[f.appointment.ID].PaymentStatus != domain.PaymentStatePaid {
		t.Errorf("expected appointment paid")
	}
	if len(dedup.marked) != 1 || dedup.marked[0] != "evt_1" {
		t.Errorf("expected event marked, got %v", dedup.marked)
	}
	if !f.events.has(domain.EventPaymentCompleted) {
		t.Errorf("expected %s event", domain.EventPaymentCompleted)
	}
}

func TestWebhookService_Process_DuplicateSkipped(t *testing.T) {
	f := newWebhookFixture(&stubDedup{dupResult: true})

	if err := f.svc.Process(context.Background(), captured("order_abc")); err != nil {
		t.Fatalf("expected no error for duplicate, got: %v", err)
	}
	if f.payments.byID[f.payment.ID].Status != domain.PaymentPending {
		t.Errorf("expected payment untouched for duplicate event")
	}
}

func TestWebhookService_Process_CapturedTwiceIsIdempotent(t *testing.T) {
	f := newWebhookFixture(&stubDedup{})

	_ = f.svc.Process(context.Background(), captured("order_abc"))
	if err := f.svc.Process(context.Background(), captured("order_abc")); err != nil {
		t.Fatalf("expected redelivery to succeed, got: %v", err)
	}
	if f.payments.byID[f.payment.ID].Status != domain.PaymentCompleted {
		t.Errorf("expected payment to stay completed")
	}
}

func TestWebhookService_Process_Failed(t *testing.T) {
	f := newWebhookFixture(&stubDedup{})

	ev := captured("order_abc")
	ev.Type = domain.GatewayPaymentFailed
	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if f.payments.byID[f.payment.ID].Status != domain.PaymentFailed {
		t.Errorf("expected payment failed")
	}
	if f.appointments.byID[f.appointment.ID].PaymentStatus != domain.PaymentStatePending {
		t.Errorf("expected appointment payment state untouched")
	}
}

func TestWebhookService_Process_UnhandledTypeMarked(t *testing.T) {
	dedup := &stubDedup{}
	f := newWebhookFixture(dedup)

	ev := captured("order_abc")
	ev.Type = "order.paid"
	if err := f.svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(dedup.marked) != 1 {
		t.Errorf("expected unhandled event marked")
	}
	if f.payments.byID[f.payment.ID].Status != domain.PaymentPending {
		t.Errorf("expected payment untouched")
	}
}

func TestWebhookService_Process_UnknownOrder(t *testing.T) {
	dedup := &stubDedup{}
	f := newWebhookFixture(dedup)

	err := f.svc.Process(context.Background(), captured("order_missing"))
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got: %v", err)
	}
	if len(dedup.marked) != 0 {
		t.Errorf("expected unknown order not to be marked")
	}
}

func TestWebhookService_Process_DedupCheckError_ProcessesAnyway(t *testing.T) {
	f := newWebhookFixture(&stubDedup{dupErr: errors.New("redis timeout")})

	if err := f.svc.Process(context.Background(), captured("order_abc")); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if f.payments.byID[f.payment.ID].Status != domain.PaymentCompleted {
		t.Errorf("expected processing to proceed when dedup check errors")
	}
}

func TestWebhookService_Process_CapturedForCancelledAppointment(t *testing.T) {
	f := newWebhookFixture(&stubDedup{})
	f.appointments.byID[f.appointment.ID].Status = domain.StatusCancelled

	if err := f.svc.Process(context.Background(), captured("order_abc")); err != nil {
		t.Fatalf("expected capture to be recorded, got: %v", err)
	}
	if f.payments.byID[f.payment.ID].Status != domain.PaymentCompleted {
		t.Errorf("expected payment completed")
	}
	if f.appointments.byID[f.appointment.ID].PaymentStatus != domain.PaymentStatePending {
		t.Errorf("cancelled appointment must not be marked paid")
	}
}
