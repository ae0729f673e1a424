package ports

import (
	"context"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

type DoctorInput struct {
	Name            string
	Specialization  string
	Email           string
	Phone           string
	Experience      int
	ConsultationFee float64
	Rating          float64
	Bio             string
	Qualifications  []string
	AvailableSlots  []domain.AvailabilitySlot
}

// DoctorUpdate is a partial update; nil fields are left unchanged.
type DoctorUpdate struct {
	Name            *string
	Specialization  *string
	Email           *string
	Phone           *string
	Experience      *int
	ConsultationFee *float64
	Rating          *float64
	Bio             *string
	Qualifications  []string
	AvailableSlots  []domain.AvailabilitySlot
}

type DoctorService interface {
	List(ctx context.Context, filter DoctorFilter) (*Page[*domain.Doctor], error)
	Specializations(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*domain.Doctor, error)
	Create(ctx context.Context, in DoctorInput) (*domain.Doctor, error)
	Update(ctx context.Context, id string, in DoctorUpdate) (*domain.Doctor, error)
	Delete(ctx context.Context, id string) error
}

type TestInput struct {
	Name                    string
	Description             string
	Category                string
	Price                   float64
	Duration                int
	PreparationInstructions string
	NormalRange             string
	IsAvailable             *bool // defaults to true
}

// TestUpdate is a partial update; nil fields are left unchanged.
type TestUpdate struct {
	Name                    *string
	Description             *string
	Category                *string
	Price                   *float64
	Duration                *int
	PreparationInstructions *string
	NormalRange             *string
	IsAvailable             *bool
}

type LabTestService interface {
	List(ctx context.Context, filter TestFilter) (*Page[*domain.LabTest], error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*domain.LabTest, error)
	Create(ctx context.Context, in TestInput) (*domain.LabTest, error)
	Update(ctx context.Context, id string, in TestUpdate) (*domain.LabTest, error)
	Delete(ctx context.Context, id string) error
}
