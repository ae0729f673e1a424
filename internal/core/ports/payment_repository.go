package ports

import (
	"context"
	"time"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

type ListPaymentsFilter struct {
	UserID        string // empty = all users (admin)
	Status        string
	AppointmentID string
	Page          PageRequest
}

// PaymentStats aggregates payments by status.
type PaymentStats struct {
	Total         int64   `json:"totalPayments"`
	Completed     int64   `json:"completedPayments"`
	Pending       int64   `json:"pendingPayments"`
	Failed        int64   `json:"failedPayments"`
	Refunded      int64   `json:"refundedPayments"`
	TotalRevenue  float64 `json:"totalRevenue"`
	RefundedTotal float64 `json:"refundedAmount"`
}

// PaymentRepository persists payments. Inserting a second active payment for
// an appointment fails with domain.ErrPaymentInProgress.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	// FindActiveByAppointment returns the pending or completed payment of an
	// appointment, or domain.ErrPaymentNotFound.
	FindActiveByAppointment(ctx context.Context, appointmentID string) (*domain.Payment, error)
	FindByGatewayOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	List(ctx context.Context, filter ListPaymentsFilter) ([]*domain.Payment, int64, error)
	// Update replaces the payment only while its stored status is still from.
	// A concurrent change in between yields domain.ErrPaymentConflict.
	Update(ctx context.Context, p *domain.Payment, from domain.PaymentStatus) error
	Stats(ctx context.Context) (*PaymentStats, error)
	RevenueSince(ctx context.Context, since time.Time) (float64, error)
	Count(ctx context.Context) (int64, error)
}
