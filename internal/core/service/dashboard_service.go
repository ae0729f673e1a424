package service

import (
	"context"
	"fmt"
	"time"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

const recentAppointments = 5

type DashboardService struct {
	users        ports.UserRepository
	doctors      ports.DoctorRepository
	tests        ports.TestRepository
	appointments ports.AppointmentRepository
	payments     ports.PaymentRepository
	view         appointmentExpander
	now          func() time.Time
}

func NewDashboardService(
	users ports.UserRepository,
	doctors ports.DoctorRepository,
	tests ports.TestRepository,
	appointments ports.AppointmentRepository,
	payments ports.PaymentRepository,
) *DashboardService {
	return &DashboardService{
		users:        users,
		doctors:      doctors,
		tests:        tests,
		appointments: appointments,
		payments:     payments,
		view:         appointmentExpander{doctors: doctors, tests: tests, users: users},
		now:          time.Now,
	}
}

// Stats returns catalog and booking counts, this month's completed revenue and
// the latest bookings.
func (s *DashboardService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	var (
		stats ports.DashboardStats
		err   error
	)
	if stats.TotalUsers, err = s.users.Count(ctx, domain.RoleUser); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalDoctors, err = s.doctors.Count(ctx); err != nil {
		return nil, fmt.Errorf("count doctors: %w", err)
	}
	if stats.TotalTests, err = s.tests.Count(ctx); err != nil {
		return nil, fmt.Errorf("count tests: %w", err)
	}
	if stats.TotalAppointments, err = s.appointments.Count(ctx); err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	if stats.TotalPayments, err = s.payments.Count(ctx); err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if stats.MonthlyRevenue, err = s.payments.RevenueSince(ctx, monthStart); err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}

	recent, err := s.appointments.Recent(ctx, recentAppointments)
	if err != nil {
		return nil, fmt.Errorf("recent appointments: %w", err)
	}
	if stats.RecentAppointments, err = s.view.expand(ctx, recent); err != nil {
		return nil, err
	}
	return &stats, nil
}
