package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

const (
	maxPatientNameLen = 100
	maxFreeTextLen    = 1000
)

type AppointmentService struct {
	appointments ports.AppointmentRepository
	doctors      ports.DoctorRepository
	tests        ports.TestRepository
	users        ports.UserRepository
	events       ports.EventPublisher
	view         appointmentExpander
	log          zerolog.Logger
	now          func() time.Time
}

func NewAppointmentService(
	appointments ports.AppointmentRepository,
	doctors ports.DoctorRepository,
	tests ports.TestRepository,
	users ports.UserRepository,
	events ports.EventPublisher,
	log zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		doctors:      doctors,
		tests:        tests,
		users:        users,
		events:       events,
		view:         appointmentExpander{doctors: doctors, tests: tests, users: users},
		log:          log,
		now:          time.Now,
	}
}

// List returns the requester's appointments, or every appointment for
// administrators, newest appointment date first.
func (s *AppointmentService) List(ctx context.Context, p domain.Principal, filter ports.ListAppointmentsFilter) (*ports.Page[*ports.AppointmentDetail], error) {
	if !p.IsAdmin() {
		filter.UserID = p.UserID
	}
	filter.Page = filter.Page.Normalize()

	items, total, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	details, err := s.view.expand(ctx, items)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*ports.AppointmentDetail]{Items: details, Pagination: ports.NewPagination(filter.Page, total)}, nil
}

func (s *AppointmentService) Get(ctx context.Context, p domain.Principal, id string) (*ports.AppointmentDetail, error) {
	a, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.view.detail(ctx, a)
}

func (s *AppointmentService) Create(ctx context.Context, p domain.Principal, in ports.CreateAppointmentInput) (*ports.AppointmentDetail, error) {
	a, price, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	a.UserID = p.UserID
	a.TotalAmount = price
	a.Status = domain.StatusPending

	return s.book(ctx, a)
}

func (s *AppointmentService) AdminCreate(ctx context.Context, in ports.CreateAppointmentInput) (*ports.AppointmentDetail, error) {
	if in.UserID == "" {
		return nil, domain.Invalid("User ID is required")
	}
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	a, price, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	a.UserID = user.ID
	a.TotalAmount = price
	if in.TotalAmount != nil {
		if *in.TotalAmount < 0 {
			return nil, domain.Invalid("Total amount cannot be negative")
		}
		a.TotalAmount = *in.TotalAmount
	}
	a.Status = domain.StatusConfirmed

	return s.book(ctx, a)
}

// Update applies a partial update. Status, payment status and amount are only
// taken from administrators; for everyone else the amount follows the catalog.
func (s *AppointmentService) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateAppointmentInput) (*ports.AppointmentDetail, error) {
	current, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	next := *current

	referenceChanged := false
	if in.Type != nil && domain.AppointmentType(*in.Type) != next.Type {
		next.Type = domain.AppointmentType(*in.Type)
		referenceChanged = true
	}
	if in.DoctorID != nil && *in.DoctorID != next.DoctorID {
		next.DoctorID = *in.DoctorID
		referenceChanged = true
	}
	if in.TestID != nil && *in.TestID != next.TestID {
		next.TestID = *in.TestID
		referenceChanged = true
	}
	if in.Date != nil {
		date, err := domain.ParseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		if !date.Equal(next.Date) {
			if err := domain.CheckNotPast(date, s.now()); err != nil {
				return nil, err
			}
			next.Date = date
		}
	}
	if in.Time != nil {
		t, err := domain.NormalizeTime(*in.Time)
		if err != nil {
			return nil, err
		}
		next.Time = t
	}
	if in.PatientName != nil {
		next.PatientName = strings.TrimSpace(*in.PatientName)
	}
	if in.Symptoms != nil {
		next.Symptoms = strings.TrimSpace(*in.Symptoms)
	}
	if in.Notes != nil {
		next.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := checkFreeText(&next); err != nil {
		return nil, err
	}

	if referenceChanged {
		if !p.IsAdmin() && current.PaymentStatus == domain.PaymentStatePaid {
			return nil, domain.ErrAppointmentPaid
		}
		if err := next.NormalizeReference(); err != nil {
			return nil, err
		}
		price, err := s.price(ctx, &next)
		if err != nil {
			return nil, err
		}
		next.TotalAmount = price
	}

	if p.IsAdmin() {
		if in.TotalAmount != nil {
			if *in.TotalAmount < 0 {
				return nil, domain.Invalid("Total amount cannot be negative")
			}
			next.TotalAmount = *in.TotalAmount
		}
		change := domain.StateChange{}
		if in.Status != nil {
			change.Status = domain.AppointmentStatus(*in.Status)
		}
		if in.PaymentStatus != nil {
			change.PaymentStatus = domain.PaymentState(*in.PaymentStatus)
		}
		if err := next.Apply(change).Err(); err != nil {
			return nil, err
		}
	}

	if key := next.SlotKey(); key != "" && key != current.SlotKey() {
		if err := s.checkSlot(ctx, &next, id); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = s.now().UTC()
	if err := s.appointments.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	if next.Status != current.Status {
		s.publishStatus(ctx, current.Status, &next)
	}
	return s.view.detail(ctx, &next)
}

// UpdateStatus is the administrator status route. It goes through the same
// transition rules as every other status change.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, status string) (*ports.AppointmentDetail, error) {
	if status == "" {
		return nil, domain.Invalid("Status is required")
	}
	a, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := a.Status
	if err := a.Apply(domain.StateChange{Status: domain.AppointmentStatus(status)}).Err(); err != nil {
		return nil, err
	}
	if a.Status != from {
		a.UpdatedAt = s.now().UTC()
		if err := s.appointments.SaveState(ctx, a); err != nil {
			return nil, fmt.Errorf("update appointment status: %w", err)
		}
		s.publishStatus(ctx, from, a)
	}
	return s.view.detail(ctx, a)
}

// Cancel cancels a pending or confirmed appointment. Cancelling an already
// cancelled appointment is a no-op.
func (s *AppointmentService) Cancel(ctx context.Context, p domain.Principal, id string) (*ports.AppointmentDetail, error) {
	a, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if a.Status == domain.StatusCompleted {
		return nil, domain.ErrCancelCompleted
	}
	if a.Status == domain.StatusCancelled {
		return s.view.detail(ctx, a)
	}

	from := a.Status
	if err := a.Apply(domain.StateChange{Status: domain.StatusCancelled}).Err(); err != nil {
		return nil, err
	}
	a.UpdatedAt = s.now().UTC()
	if err := s.appointments.SaveState(ctx, a); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.publishStatus(ctx, from, a)
	s.log.Info().Str("appointment_id", a.ID).Str("user_id", p.UserID).Msg("appointment cancelled")
	return s.view.detail(ctx, a)
}

func (s *AppointmentService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("appointment_id", id).Str("user_id", p.UserID).Msg("appointment deleted")
	return nil
}

func (s *AppointmentService) owned(ctx context.Context, p domain.Principal, id string) (*domain.Appointment, error) {
	a, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.CanAccess(a.UserID); err != nil {
		return nil, err
	}
	return a, nil
}

// prepare validates a booking request and resolves its catalog price.
func (s *AppointmentService) prepare(ctx context.Context, in ports.CreateAppointmentInput) (*domain.Appointment, float64, error) {
	if in.Type == "" || in.Date == "" || in.Time == "" {
		return nil, 0, domain.Invalid("Appointment type, date, and time are required")
	}

	a := &domain.Appointment{
		Type:          domain.AppointmentType(in.Type),
		DoctorID:      in.DoctorID,
		TestID:        in.TestID,
		PatientName:   strings.TrimSpace(in.PatientName),
		Symptoms:      strings.TrimSpace(in.Symptoms),
		Notes:         strings.TrimSpace(in.Notes),
		PaymentStatus: domain.PaymentStatePending,
	}
	if err := a.NormalizeReference(); err != nil {
		return nil, 0, err
	}

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, 0, err
	}
	if err := domain.CheckNotPast(date, s.now()); err != nil {
		return nil, 0, err
	}
	a.Date = date

	if a.Time, err = domain.NormalizeTime(in.Time); err != nil {
		return nil, 0, err
	}
	if err := checkFreeText(a); err != nil {
		return nil, 0, err
	}

	price, err := s.price(ctx, a)
	if err != nil {
		return nil, 0, err
	}
	return a, price, nil
}

// price resolves the referenced doctor or test and returns its fee.
func (s *AppointmentService) price(ctx context.Context, a *domain.Appointment) (float64, error) {
	if a.Type == domain.AppointmentConsultation {
		d, err := s.doctors.FindByID(ctx, a.DoctorID)
		if err != nil {
			return 0, err
		}
		return d.ConsultationFee, nil
	}
	t, err := s.tests.FindByID(ctx, a.TestID)
	if err != nil {
		return 0, err
	}
	return t.Price, nil
}

func (s *AppointmentService) book(ctx context.Context, a *domain.Appointment) (*ports.AppointmentDetail, error) {
	if a.SlotKey() != "" {
		if err := s.checkSlot(ctx, a, ""); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info().
		Str("appointment_id", a.ID).
		Str("user_id", a.UserID).
		Str("type", string(a.Type)).
		Str("status", string(a.Status)).
		Msg("appointment booked")
	publish(ctx, s.events, s.log, domain.EventAppointmentCreated, a.ID, a)

	return s.view.detail(ctx, a)
}

// checkSlot answers the common conflict case before writing. The unique slot
// index rejects whatever races past it.
func (s *AppointmentService) checkSlot(ctx context.Context, a *domain.Appointment, excludeID string) error {
	taken, err := s.appointments.SlotTaken(ctx, ports.SlotQuery{
		Date:      a.Date,
		Time:      a.Time,
		DoctorID:  a.DoctorID,
		ExcludeID: excludeID,
	})
	if err != nil {
		return fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return domain.ErrSlotTaken
	}
	return nil
}

func (s *AppointmentService) publishStatus(ctx context.Context, from domain.AppointmentStatus, a *domain.Appointment) {
	topic := domain.EventAppointmentStatusChanged
	if a.Status == domain.StatusCancelled {
		topic = domain.EventAppointmentCancelled
	}
	publish(ctx, s.events, s.log, topic, a.ID, map[string]any{
		"appointmentId": a.ID,
		"userId":        a.UserID,
		"from":          from,
		"to":            a.Status,
	})
}

func checkFreeText(a *domain.Appointment) error {
	switch {
	case len(a.PatientName) > maxPatientNameLen:
		return domain.Invalid("Patient name cannot exceed 100 characters")
	case len(a.Symptoms) > maxFreeTextLen:
		return domain.Invalid("Symptoms description cannot exceed 1000 characters")
	case len(a.Notes) > maxFreeTextLen:
		return domain.Invalid("Notes cannot exceed 1000 characters")
	}
	return nil
}
