package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("User not found")
	ErrUserExists         = errors.New("User with this username or email already exists")
	ErrUsernameTaken      = errors.New("Username already taken")
	ErrEmailTaken         = errors.New("Email already taken")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidToken       = errors.New("Invalid or expired token")
	ErrForbidden          = errors.New("Access denied")

	ErrDoctorNotFound = errors.New("Doctor not found")
	ErrDoctorExists   = errors.New("Doctor with this email already exists")
	ErrTestNotFound   = errors.New("Test not found")

	ErrAppointmentNotFound = errors.New("Appointment not found")
	ErrSlotTaken           = errors.New("Time slot is already booked")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrCancelCompleted     = errors.New("Cannot cancel a completed appointment")

	ErrPaymentNotFound         = errors.New("Payment not found")
	ErrPaymentAlreadyCompleted = errors.New("Payment already completed for this appointment")
	ErrPaymentInProgress       = errors.New("A payment is already in progress for this appointment")
	ErrRefundNotAllowed        = errors.New("Only completed payments can be refunded")
	ErrInvalidSignature        = errors.New("Invalid payment signature")
	ErrPaymentConflict         = errors.New("Payment was modified by another request")
	ErrAppointmentPaid         = errors.New("Cannot change the doctor or test of a paid appointment")
)

// ValidationError is a client input problem. Its message is safe to return
// to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
