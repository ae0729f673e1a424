package domain

import "time"

// Topics for booking lifecycle events.
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentCancelled     = "appointment.cancelled"
	EventAppointmentStatusChanged = "appointment.status_changed"
	EventPaymentCompleted         = "payment.completed"
	EventPaymentFailed            = "payment.failed"
	EventPaymentRefunded          = "payment.refunded"
	EventSupportContact           = "support.contact"
)

// Gateway webhook event types handled by the system.
const (
	GatewayPaymentCaptured = "payment.captured"
	GatewayPaymentFailed   = "payment.failed"
)

// GatewayEvent is an asynchronous notification received from the payment
// gateway.
type GatewayEvent struct {
	ID         string
	Type       string
	OrderID    string
	PaymentID  string
	Amount     int64
	Payload    map[string]any
	ReceivedAt time.Time
}
