package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// Seeder loads the demo accounts and catalog into an empty database.
type Seeder struct {
	users   ports.UserRepository
	doctors ports.DoctorRepository
	tests   ports.TestRepository
	log     zerolog.Logger
}

func NewSeeder(users ports.UserRepository, doctors ports.DoctorRepository, tests ports.TestRepository, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, doctors: doctors, tests: tests, log: log}
}

// Run is a no-op when the admin account already exists.
func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.users.FindByUsername(ctx, "admin"); err == nil {
		s.log.Info().Msg("seed data already present, skipping")
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed: %w", err)
	}

	now := time.Now().UTC()
	accounts := []struct{ username, email, password, role string }{
		{"admin", "admin@example.com", "admin123", domain.RoleAdmin},
		{"testuser", "user@example.com", "user123", domain.RoleUser},
	}
	for _, acc := range accounts {
		hash, err := hashPassword(acc.password)
		if err != nil {
			return err
		}
		if _, err := s.users.Create(ctx, &domain.User{
			Username:     acc.username,
			Email:        acc.email,
			PasswordHash: hash,
			Role:         acc.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", acc.username, err)
		}
	}

	for _, d := range sampleDoctors() {
		d.CreatedAt, d.UpdatedAt = now, now
		if err := validateDoctor(d); err != nil {
			return fmt.Errorf("seed doctor %s: %w", d.Name, err)
		}
		if err := s.doctors.Create(ctx, d); err != nil {
			return fmt.Errorf("seed doctor %s: %w", d.Name, err)
		}
	}
	for _, t := range sampleTests() {
		t.CreatedAt, t.UpdatedAt = now, now
		if err := s.tests.Create(ctx, t); err != nil {
			return fmt.Errorf("seed test %s: %w", t.Name, err)
		}
	}

	s.log.Info().Msg("seed data created (admin/admin123, testuser/user123)")
	return nil
}

func weekSlots(start, end string, days ...string) []domain.AvailabilitySlot {
	slots := make([]domain.AvailabilitySlot, 0, len(days))
	for _, d := range days {
		slots = append(slots, domain.AvailabilitySlot{Day: d, StartTime: start, EndTime: end, IsAvailable: true})
	}
	return slots
}

func sampleDoctors() []*domain.Doctor {
	return []*domain.Doctor{
		{
			Name:            "Dr. Sarah Johnson",
			Specialization:  "Cardiology",
			Email:           "sarah.johnson@hospital.com",
			Phone:           "+1-555-0101",
			Experience:      15,
			ConsultationFee: 150,
			Rating:          4.8,
			TotalRatings:    120,
			Bio:             "Experienced cardiologist with expertise in heart disease treatment and prevention.",
			Qualifications:  []string{"MD Cardiology", "Fellowship in Interventional Cardiology"},
			AvailableSlots:  weekSlots("09:00", "17:00", "monday", "wednesday", "friday"),
		},
		{
			Name:            "Dr. Michael Chen",
			Specialization:  "Neurology",
			Email:           "michael.chen@hospital.com",
			Phone:           "+1-555-0102",
			Experience:      12,
			ConsultationFee: 180,
			Rating:          4.7,
			TotalRatings:    95,
			Bio:             "Neurologist specializing in brain and nervous system disorders.",
			Qualifications:  []string{"MD Neurology", "Board Certified Neurologist"},
			AvailableSlots:  weekSlots("10:00", "18:00", "tuesday", "thursday"),
		},
		{
			Name:            "Dr. Emily Davis",
			Specialization:  "Pediatrics",
			Email:           "emily.davis@hospital.com",
			Phone:           "+1-555-0103",
			Experience:      8,
			ConsultationFee: 120,
			Rating:          4.9,
			TotalRatings:    200,
			Bio:             "Pediatrician with a passion for children's health and development.",
			Qualifications:  []string{"MD Pediatrics", "Child Development Specialist"},
			AvailableSlots:  weekSlots("08:00", "16:00", "monday", "wednesday", "friday"),
		},
	}
}

func sampleTests() []*domain.LabTest {
	return []*domain.LabTest{
		{
			Name:                    "Complete Blood Count (CBC)",
			Description:             "A comprehensive blood test that measures different components of blood",
			Category:                "Blood Test",
			Price:                   45,
			Duration:                30,
			PreparationInstructions: "Fasting not required. Avoid heavy meals 2 hours before test.",
			NormalRange:             "Varies by component",
			IsAvailable:             true,
		},
		{
			Name:                    "MRI Brain Scan",
			Description:             "Magnetic resonance imaging of the brain to detect abnormalities",
			Category:                "Imaging",
			Price:                   800,
			Duration:                60,
			PreparationInstructions: "Remove all metal objects. Fasting required for 4 hours.",
			NormalRange:             "Normal brain structure",
			IsAvailable:             true,
		},
		{
			Name:                    "ECG (Electrocardiogram)",
			Description:             "Test to check heart rhythm and electrical activity",
			Category:                "Cardiology",
			Price:                   75,
			Duration:                15,
			PreparationInstructions: "No special preparation required.",
			NormalRange:             "Normal sinus rhythm",
			IsAvailable:             true,
		},
		{
			Name:                    "Urine Analysis",
			Description:             "Physical, chemical and microscopic examination of urine",
			Category:                "Urine Test",
			Price:                   35,
			Duration:                20,
			PreparationInstructions: "Collect a mid-stream morning sample.",
			NormalRange:             "Clear, pale yellow",
			IsAvailable:             true,
		},
	}
}
