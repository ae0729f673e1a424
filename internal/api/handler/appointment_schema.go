package handler

import "github.com/medicarepro/booking-system/internal/core/ports"

type createAppointmentRequest struct {
	AppointmentType string `json:"appointmentType" validate:"required,oneof=consultation test"`
	DoctorID        string `json:"doctorId"        validate:"omitempty,mongodb"`
	TestID          string `json:"testId"          validate:"omitempty,mongodb"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	AppointmentTime string `json:"appointmentTime" validate:"required,clock"`
	PatientName     string `json:"patientName"     validate:"max=100"`
	Symptoms        string `json:"symptoms"        validate:"max=1000"`
	Notes           string `json:"notes"           validate:"max=1000"`
}

// adminCreateAppointmentRequest books on behalf of another user.
type adminCreateAppointmentRequest struct {
	createAppointmentRequest
	UserID      string   `json:"userId"      validate:"required,mongodb"`
	TotalAmount *float64 `json:"totalAmount" validate:"omitempty,gte=0"`
}

type updateAppointmentRequest struct {
	AppointmentType *string  `json:"appointmentType" validate:"omitempty,oneof=consultation test"`
	DoctorID        *string  `json:"doctorId"        validate:"omitempty,mongodb"`
	TestID          *string  `json:"testId"          validate:"omitempty,mongodb"`
	AppointmentDate *string  `json:"appointmentDate"`
	AppointmentTime *string  `json:"appointmentTime" validate:"omitempty,clock"`
	PatientName     *string  `json:"patientName"     validate:"omitempty,max=100"`
	Symptoms        *string  `json:"symptoms"        validate:"omitempty,max=1000"`
	Notes           *string  `json:"notes"           validate:"omitempty,max=1000"`
	Status          *string  `json:"status"          validate:"omitempty,oneof=pending confirmed completed cancelled"`
	PaymentStatus   *string  `json:"paymentStatus"   validate:"omitempty,oneof=pending paid refunded"`
	TotalAmount     *float64 `json:"totalAmount"     validate:"omitempty,gte=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

func (r createAppointmentRequest) toInput() ports.CreateAppointmentInput {
	return ports.CreateAppointmentInput{
		Type:        r.AppointmentType,
		Date:        r.AppointmentDate,
		Time:        r.AppointmentTime,
		DoctorID:    r.DoctorID,
		TestID:      r.TestID,
		PatientName: r.PatientName,
		Symptoms:    r.Symptoms,
		Notes:       r.Notes,
	}
}

func (r adminCreateAppointmentRequest) toInput() ports.CreateAppointmentInput {
	in := r.createAppointmentRequest.toInput()
	in.UserID = r.UserID
	in.TotalAmount = r.TotalAmount
	return in
}

func (r updateAppointmentRequest) toInput() ports.UpdateAppointmentInput {
	return ports.UpdateAppointmentInput{
		Type:          r.AppointmentType,
		Date:          r.AppointmentDate,
		Time:          r.AppointmentTime,
		DoctorID:      r.DoctorID,
		TestID:        r.TestID,
		PatientName:   r.PatientName,
		Symptoms:      r.Symptoms,
		Notes:         r.Notes,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		TotalAmount:   r.TotalAmount,
	}
}
