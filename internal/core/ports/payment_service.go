package ports

import (
	"context"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

type CreatePaymentInput struct {
	AppointmentID string
	Method        string
}

type CreateOrderInput struct {
	AppointmentID string
	IsTest        bool
}

// OrderResult is what the client needs to open the gateway checkout.
// Mock is true when the order was synthesized instead of created at the
// gateway.
type OrderResult struct {
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	KeyID     string `json:"keyId"`
	PaymentID string `json:"paymentId,omitempty"`
	Mock      bool   `json:"isMock"`
}

type VerifyPaymentInput struct {
	PaymentID        string
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
	IsTest           bool
}

type VerifyResult struct {
	Verified  bool            `json:"verified"`
	OrderID   string          `json:"orderId"`
	PaymentID string          `json:"paymentId"`
	Payment   *domain.Payment `json:"payment,omitempty"`
	Mock      bool            `json:"isMock"`
}

type GatewayConfig struct {
	KeyID       string `json:"keyId"`
	DemoMode    bool   `json:"demoMode"`
	Environment string `json:"environment"`
}

// PaymentDetail is a payment with its appointment expanded.
type PaymentDetail struct {
	*domain.Payment
	Appointment *domain.Appointment `json:"appointment,omitempty"`
}

type PaymentService interface {
	List(ctx context.Context, p domain.Principal, filter ListPaymentsFilter) (*Page[*PaymentDetail], error)
	Get(ctx context.Context, p domain.Principal, id string) (*PaymentDetail, error)
	// Create records a payment for the appointment and completes it.
	Create(ctx context.Context, p domain.Principal, in CreatePaymentInput) (*domain.Payment, error)
	CreateOrder(ctx context.Context, p domain.Principal, in CreateOrderInput) (*OrderResult, error)
	Verify(ctx context.Context, p domain.Principal, in VerifyPaymentInput) (*VerifyResult, error)
	Refund(ctx context.Context, id, reason string) (*domain.Payment, error)
	Stats(ctx context.Context) (*PaymentStats, error)
	GatewayConfig() GatewayConfig
}

// WebhookService turns gateway notifications into payment updates.
type WebhookService interface {
	// Parse authenticates and decodes a raw webhook body. eventID is the
	// gateway's delivery id, used for deduplication when present.
	Parse(body []byte, signature, eventID string) (*domain.GatewayEvent, error)
	Process(ctx context.Context, event domain.GatewayEvent) error
}
