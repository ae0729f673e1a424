package ports

import "context"

// GatewayOrderRequest asks the payment gateway for a new order. Amount is in
// the currency's minor unit.
type GatewayOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

type GatewayOrder struct {
	ID       string         `json:"id"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Receipt  string         `json:"receipt"`
	Status   string         `json:"status"`
	Raw      map[string]any `json:"-"`
}

// PaymentGateway is the external payment processor.
type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
	Refund(ctx context.Context, paymentID string, amount int64) (map[string]any, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	// VerifyWebhookSignature reports whether body was signed by the gateway.
	// It returns true when no webhook secret is configured.
	VerifyWebhookSignature(body []byte, signature string) bool
}
