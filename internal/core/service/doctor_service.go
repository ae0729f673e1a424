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

type DoctorService struct {
	repo ports.DoctorRepository
	log  zerolog.Logger
}

func NewDoctorService(repo ports.DoctorRepository, log zerolog.Logger) *DoctorService {
	return &DoctorService{repo: repo, log: log}
}

func (s *DoctorService) List(ctx context.Context, filter ports.DoctorFilter) (*ports.Page[*domain.Doctor], error) {
	filter.Page = filter.Page.Normalize()
	doctors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return &ports.Page[*domain.Doctor]{Items: doctors, Pagination: ports.NewPagination(filter.Page, total)}, nil
}

func (s *DoctorService) Specializations(ctx context.Context) ([]string, error) {
	return s.repo.Specializations(ctx)
}

func (s *DoctorService) Get(ctx context.Context, id string) (*domain.Doctor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DoctorService) Create(ctx context.Context, in ports.DoctorInput) (*domain.Doctor, error) {
	now := time.Now().UTC()
	d := &domain.Doctor{
		Name:            strings.TrimSpace(in.Name),
		Specialization:  strings.TrimSpace(in.Specialization),
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:           strings.TrimSpace(in.Phone),
		Experience:      in.Experience,
		ConsultationFee: in.ConsultationFee,
		Rating:          in.Rating,
		Bio:             in.Bio,
		Qualifications:  in.Qualifications,
		AvailableSlots:  in.AvailableSlots,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validateDoctor(d); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Str("doctor_id", d.ID).Str("specialization", d.Specialization).Msg("doctor created")
	return d, nil
}

func (s *DoctorService) Update(ctx context.Context, id string, in ports.DoctorUpdate) (*domain.Doctor, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Specialization != nil {
		d.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.Email != nil {
		d.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		d.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Experience != nil {
		d.Experience = *in.Experience
	}
	if in.ConsultationFee != nil {
		d.ConsultationFee = *in.ConsultationFee
	}
	if in.Rating != nil {
		d.Rating = *in.Rating
	}
	if in.Bio != nil {
		d.Bio = *in.Bio
	}
	if in.Qualifications != nil {
		d.Qualifications = in.Qualifications
	}
	if in.AvailableSlots != nil {
		d.AvailableSlots = in.AvailableSlots
	}
	if err := validateDoctor(d); err != nil {
		return nil, err
	}

	d.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DoctorService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateDoctor(d *domain.Doctor) error {
	switch {
	case d.Name == "":
		return domain.Invalid("Doctor name is required")
	case d.Specialization == "":
		return domain.Invalid("Specialization is required")
	case d.Email == "":
		return domain.Invalid("Email is required")
	case d.Phone == "":
		return domain.Invalid("Phone number is required")
	case d.Experience < 0 || d.Experience > 50:
		return domain.Invalid("Experience must be between 0 and 50 years")
	case d.ConsultationFee < 0:
		return domain.Invalid("Consultation fee cannot be negative")
	case d.Rating < 0 || d.Rating > 5:
		return domain.Invalid("Rating must be between 0 and 5")
	}

	for i := range d.AvailableSlots {
		slot := &d.AvailableSlots[i]
		slot.Day = strings.ToLower(slot.Day)
		if !domain.IsWeekday(slot.Day) {
			return domain.Invalid(fmt.Sprintf("Invalid day %q in available slots", slot.Day))
		}
		start, err := domain.NormalizeTime(slot.StartTime)
		if err != nil {
			return err
		}
		end, err := domain.NormalizeTime(slot.EndTime)
		if err != nil {
			return err
		}
		if end <= start {
			return domain.Invalid("Slot end time must be after start time")
		}
		slot.StartTime, slot.EndTime = start, end
	}
	return nil
}
