// Package gateway adapts the Razorpay API to ports.PaymentGateway.
package gateway

import (
	"context"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/api/metrics"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// Config holds the gateway credentials. AllowUnsignedWebhooks accepts webhook
// bodies when no WebhookSecret is configured; only local development sets it.
type Config struct {
	KeyID                 string
	KeySecret             string
	WebhookSecret         string
	AllowUnsignedWebhooks bool
}

// orderAPI and refundAPI are the parts of the Razorpay client in use.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type refundAPI interface {
	Refund(paymentID string, amount int, data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Razorpay is the ports.PaymentGateway backed by razorpay-go.
type Razorpay struct {
	orders        orderAPI
	payments      refundAPI
	keyID         string
	keySecret     string
	webhookSecret string
	allowUnsigned bool
	log           zerolog.Logger
}

var _ ports.PaymentGateway = (*Razorpay)(nil)

// NewRazorpay builds a gateway client. The client makes no network calls
// until an order or refund is requested.
func NewRazorpay(cfg Config, log zerolog.Logger) *Razorpay {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	if cfg.WebhookSecret == "" && cfg.AllowUnsignedWebhooks {
		log.Warn().Msg("no webhook secret configured: unsigned webhooks are accepted")
	}
	return &Razorpay{
		orders:        client.Order,
		payments:      client.Payment,
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		allowUnsigned: cfg.AllowUnsignedWebhooks,
		log:           log,
	}
}

func (r *Razorpay) KeyID() string { return r.keyID }

// CreateOrder registers an order at the gateway. razorpay-go has no context
// support, so ctx is only checked before the call.
func (r *Razorpay) CreateOrder(ctx context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	start := time.Now()
	body, err := r.orders.Create(data, nil)
	observe("create_order", start, err)
	if err != nil {
		r.log.Error().Err(err).Str("receipt", req.Receipt).Msg("gateway order creation failed")
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	order := &ports.GatewayOrder{
		ID:       stringField(body, "id"),
		Amount:   intField(body, "amount"),
		Currency: stringField(body, "currency"),
		Receipt:  stringField(body, "receipt"),
		Status:   stringField(body, "status"),
		Raw:      body,
	}
	if order.ID == "" {
		return nil, fmt.Errorf("create gateway order: response has no order id")
	}
	if order.Amount == 0 {
		order.Amount = req.Amount
	}
	if order.Currency == "" {
		order.Currency = req.Currency
	}
	if order.Receipt == "" {
		order.Receipt = req.Receipt
	}
	return order, nil
}

// Refund issues a refund against a captured gateway payment. amount is in
// minor units.
func (r *Razorpay) Refund(ctx context.Context, paymentID string, amount int64) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := r.payments.Refund(paymentID, int(amount), map[string]interface{}{"speed": "normal"}, nil)
	observe("refund", start, err)
	if err != nil {
		r.log.Error().Err(err).Str("gateway_payment_id", paymentID).Msg("gateway refund failed")
		return nil, fmt.Errorf("refund gateway payment: %w", err)
	}
	return body, nil
}

func (r *Razorpay) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return Verify([]byte(orderID+"|"+paymentID), r.keySecret, signature)
}

func (r *Razorpay) VerifyWebhookSignature(body []byte, signature string) bool {
	if r.webhookSecret == "" {
		return r.allowUnsigned
	}
	return Verify(body, r.webhookSecret, signature)
}

func observe(operation string, start time.Time, err error) {
	metrics.GatewayRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.GatewayRequestsTotal.WithLabelValues(operation, metrics.Outcome(err)).Inc()
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// intField reads a JSON number, which the client decodes as float64.
func intField(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
