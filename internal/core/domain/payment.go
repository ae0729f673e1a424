package domain

import (
	"math"
	"time"
)

// PaymentStatus is the lifecycle of a single payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodDebitCard  PaymentMethod = "debit_card"
	MethodNetBanking PaymentMethod = "net_banking"
	MethodUPI        PaymentMethod = "upi"
	MethodWallet     PaymentMethod = "wallet"
	MethodRazorpay   PaymentMethod = "razorpay"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the payment still counts against its appointment.
// At most one active payment exists per appointment.
func (s PaymentStatus) IsActive() bool {
	return s == PaymentPending || s == PaymentCompleted
}

type Payment struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	AppointmentID    string         `json:"appointmentId"`
	Amount           float64        `json:"amount"`
	Currency         string         `json:"currency"`
	Method           PaymentMethod  `json:"paymentMethod"`
	Status           PaymentStatus  `json:"paymentStatus"`
	TransactionID    string         `json:"transactionId"`
	GatewayOrderID   string         `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string         `json:"gatewayPaymentId,omitempty"`
	GatewayResponse  map[string]any `json:"gatewayResponse,omitempty"`
	RefundAmount     float64        `json:"refundAmount,omitempty"`
	RefundReason     string         `json:"refundReason,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// TransitionTo moves the payment to next or returns ErrInvalidTransition.
func (p *Payment) TransitionTo(next PaymentStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return TransitionResult{Facet: "payment", From: string(p.Status), To: string(next), Reason: "transition not allowed"}.Err()
	}
	p.Status = next
	return nil
}

// ToMinorUnits converts an amount in major currency units to the gateway's
// minor unit (paise, cents), rounding to the nearest unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

