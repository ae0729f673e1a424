package ports

import (
	"context"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

// CreateAppointmentInput carries a booking request. UserID and TotalAmount
// are only honoured on the administrator path.
type CreateAppointmentInput struct {
	UserID      string
	Type        string
	Date        string
	Time        string
	DoctorID    string
	TestID      string
	PatientName string
	Symptoms    string
	Notes       string
	TotalAmount *float64
}

// UpdateAppointmentInput is a partial update; nil fields are left unchanged.
// Status, PaymentStatus and TotalAmount are administrator-only.
type UpdateAppointmentInput struct {
	Type          *string
	Date          *string
	Time          *string
	DoctorID      *string
	TestID        *string
	PatientName   *string
	Symptoms      *string
	Notes         *string
	Status        *string
	PaymentStatus *string
	TotalAmount   *float64
}

// UserSummary is the public part of a user embedded in other resources.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AppointmentDetail is an appointment with its references expanded.
type AppointmentDetail struct {
	*domain.Appointment
	Doctor *domain.Doctor  `json:"doctor,omitempty"`
	Test   *domain.LabTest `json:"test,omitempty"`
	User   *UserSummary    `json:"user,omitempty"`
}

type AppointmentService interface {
	List(ctx context.Context, p domain.Principal, filter ListAppointmentsFilter) (*Page[*AppointmentDetail], error)
	Get(ctx context.Context, p domain.Principal, id string) (*AppointmentDetail, error)
	// Create books on behalf of the requester: status pending, amount taken
	// from the catalog.
	Create(ctx context.Context, p domain.Principal, in CreateAppointmentInput) (*AppointmentDetail, error)
	// AdminCreate books on behalf of in.UserID: status confirmed, amount taken
	// from the input when present.
	AdminCreate(ctx context.Context, in CreateAppointmentInput) (*AppointmentDetail, error)
	Update(ctx context.Context, p domain.Principal, id string, in UpdateAppointmentInput) (*AppointmentDetail, error)
	UpdateStatus(ctx context.Context, id, status string) (*AppointmentDetail, error)
	Cancel(ctx context.Context, p domain.Principal, id string) (*AppointmentDetail, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}
