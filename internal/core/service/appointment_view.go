package service

import (
	"context"
	"fmt"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// appointmentExpander joins appointments with their doctor, test and user,
// batching one lookup per collection.
type appointmentExpander struct {
	doctors ports.DoctorRepository
	tests   ports.TestRepository
	users   ports.UserRepository
}

func (x appointmentExpander) expand(ctx context.Context, items []*domain.Appointment) ([]*ports.AppointmentDetail, error) {
	var doctorIDs, testIDs, userIDs []string
	for _, a := range items {
		if a.DoctorID != "" {
			doctorIDs = append(doctorIDs, a.DoctorID)
		}
		if a.TestID != "" {
			testIDs = append(testIDs, a.TestID)
		}
		userIDs = append(userIDs, a.UserID)
	}

	doctors := map[string]*domain.Doctor{}
	if len(doctorIDs) > 0 {
		found, err := x.doctors.FindByIDs(ctx, doctorIDs)
		if err != nil {
			return nil, fmt.Errorf("expand doctors: %w", err)
		}
		doctors = found
	}
	tests := map[string]*domain.LabTest{}
	if len(testIDs) > 0 {
		found, err := x.tests.FindByIDs(ctx, testIDs)
		if err != nil {
			return nil, fmt.Errorf("expand tests: %w", err)
		}
		tests = found
	}
	users := map[string]*domain.User{}
	if len(userIDs) > 0 {
		found, err := x.users.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("expand users: %w", err)
		}
		users = found
	}

	out := make([]*ports.AppointmentDetail, 0, len(items))
	for _, a := range items {
		d := &ports.AppointmentDetail{Appointment: a, Doctor: doctors[a.DoctorID], Test: tests[a.TestID]}
		if u, ok := users[a.UserID]; ok {
			d.User = &ports.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
		}
		out = append(out, d)
	}
	return out, nil
}

func (x appointmentExpander) detail(ctx context.Context, a *domain.Appointment) (*ports.AppointmentDetail, error) {
	details, err := x.expand(ctx, []*domain.Appointment{a})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}
