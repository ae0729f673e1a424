package ports

import (
	"context"
	"time"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

// SlotQuery describes a candidate slot. DoctorID is empty for test bookings;
// ExcludeID skips the appointment being updated.
type SlotQuery struct {
	Date      time.Time
	Time      string
	DoctorID  string
	ExcludeID string
}

type ListAppointmentsFilter struct {
	UserID   string // empty = all users (admin)
	Status   string
	Type     string
	DoctorID string
	Page     PageRequest
}

// AppointmentRepository persists appointments. Writes that would make two
// active consultations share a doctor slot fail with domain.ErrSlotTaken.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Appointment, error)
	// SlotTaken reports whether a pending or confirmed appointment occupies
	// the slot.
	SlotTaken(ctx context.Context, q SlotQuery) (bool, error)
	List(ctx context.Context, filter ListAppointmentsFilter) ([]*domain.Appointment, int64, error)
	Recent(ctx context.Context, limit int) ([]*domain.Appointment, error)
	// Update replaces the booking fields of an appointment.
	Update(ctx context.Context, a *domain.Appointment) error
	// SaveState writes only the status facets and the derived slot key.
	SaveState(ctx context.Context, a *domain.Appointment) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
