package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used on the wire and in slot keys.
const DateLayout = "2006-01-02"

type AppointmentType string

const (
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentTest         AppointmentType = "test"
)

// AppointmentStatus is the booking lifecycle facet of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// PaymentState is the payment facet of an appointment. It mirrors the state of
// the appointment's payment records.
type PaymentState string

const (
	PaymentStatePending  PaymentState = "pending"
	PaymentStatePaid     PaymentState = "paid"
	PaymentStateRefunded PaymentState = "refunded"
)

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

var paymentStateTransitions = map[PaymentState][]PaymentState{
	PaymentStatePending:  {PaymentStatePaid},
	PaymentStatePaid:     {PaymentStateRefunded},
	PaymentStateRefunded: {PaymentStatePaid},
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transition is possible.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (p PaymentState) Valid() bool {
	switch p {
	case PaymentStatePending, PaymentStatePaid, PaymentStateRefunded:
		return true
	}
	return false
}

func (p PaymentState) CanTransitionTo(next PaymentState) bool {
	for _, allowed := range paymentStateTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment ties a patient to either a doctor consultation or a diagnostic
// test at a calendar date and HH:MM time. Date is always UTC midnight.
type Appointment struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	DoctorID      string            `json:"doctorId,omitempty"`
	TestID        string            `json:"testId,omitempty"`
	Type          AppointmentType   `json:"appointmentType"`
	Date          time.Time         `json:"appointmentDate"`
	Time          string            `json:"appointmentTime"`
	Status        AppointmentStatus `json:"status"`
	PaymentStatus PaymentState      `json:"paymentStatus"`
	PatientName   string            `json:"patientName,omitempty"`
	Symptoms      string            `json:"symptoms,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	TotalAmount   float64           `json:"totalAmount"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// SlotKey identifies the doctor slot held by the appointment. It is empty when
// the appointment holds no slot: test bookings and terminal appointments.
func (a *Appointment) SlotKey() string {
	if a.Type != AppointmentConsultation || a.DoctorID == "" || a.Status.IsTerminal() {
		return ""
	}
	return a.DoctorID + "|" + a.Date.UTC().Format(DateLayout) + "|" + a.Time
}

// NormalizeReference enforces that exactly the reference matching the
// appointment type is set, clearing the other one.
func (a *Appointment) NormalizeReference() error {
	switch a.Type {
	case AppointmentConsultation:
		if a.DoctorID == "" {
			return Invalid("Doctor ID is required for consultation appointments")
		}
		a.TestID = ""
	case AppointmentTest:
		if a.TestID == "" {
			return Invalid("Test ID is required for test appointments")
		}
		a.DoctorID = ""
	default:
		return Invalid("Appointment type must be consultation or test")
	}
	return nil
}

// StateChange requests new values for either facet. Empty fields are left
// untouched.
type StateChange struct {
	Status        AppointmentStatus
	PaymentStatus PaymentState
}

// TransitionResult reports the outcome of Apply. A rejected result leaves the
// appointment unchanged.
type TransitionResult struct {
	Applied bool
	Facet   string
	From    string
	To      string
	Reason  string
}

// Err returns nil for an applied transition and an error wrapping
// ErrInvalidTransition otherwise.
func (r TransitionResult) Err() error {
	if r.Applied {
		return nil
	}
	return fmt.Errorf("%w: %s cannot change from %s to %s (%s)", ErrInvalidTransition, r.Facet, r.From, r.To, r.Reason)
}

func rejected(facet, from, to, reason string) TransitionResult {
	return TransitionResult{Facet: facet, From: from, To: to, Reason: reason}
}

// Apply is the only place either facet of an appointment changes. Both facets
// are validated before anything is written. Requesting the current value of a
// facet is a no-op.
func (a *Appointment) Apply(change StateChange) TransitionResult {
	nextStatus := a.Status
	if change.Status != "" && change.Status != a.Status {
		if !change.Status.Valid() {
			return rejected("status", string(a.Status), string(change.Status), "unknown status")
		}
		if !a.Status.CanTransitionTo(change.Status) {
			return rejected("status", string(a.Status), string(change.Status), "transition not allowed")
		}
		nextStatus = change.Status
	}

	nextPayment := a.PaymentStatus
	if change.PaymentStatus != "" && change.PaymentStatus != a.PaymentStatus {
		if !change.PaymentStatus.Valid() {
			return rejected("paymentStatus", string(a.PaymentStatus), string(change.PaymentStatus), "unknown payment status")
		}
		if !a.PaymentStatus.CanTransitionTo(change.PaymentStatus) {
			return rejected("paymentStatus", string(a.PaymentStatus), string(change.PaymentStatus), "transition not allowed")
		}
		if change.PaymentStatus == PaymentStatePaid && nextStatus == StatusCancelled {
			return rejected("paymentStatus", string(a.PaymentStatus), string(change.PaymentStatus), "appointment is cancelled")
		}
		nextPayment = change.PaymentStatus
	}

	result := TransitionResult{Applied: true, Facet: "status", From: string(a.Status), To: string(nextStatus)}
	if nextStatus == a.Status && nextPayment != a.PaymentStatus {
		result.Facet = "paymentStatus"
		result.From, result.To = string(a.PaymentStatus), string(nextPayment)
	}

	a.Status = nextStatus
	a.PaymentStatus = nextPayment
	return result
}

var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// NormalizeTime validates an HH:MM time and zero-pads the hour.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !timePattern.MatchString(s) {
		return "", Invalid("Please enter a valid time format (HH:MM)")
	}
	if len(s) == 4 {
		s = "0" + s
	}
	return s, nil
}

// ParseDate accepts either a calendar date or an RFC 3339 timestamp and
// returns the UTC midnight of that calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, Invalid("Please enter a valid appointment date")
	}
	return StartOfDay(t), nil
}

// StartOfDay truncates t to midnight UTC of its calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckNotPast rejects dates before today.
func CheckNotPast(date, now time.Time) error {
	if date.Before(StartOfDay(now.UTC())) {
		return Invalid("Appointment date cannot be in the past")
	}
	return nil
}
