package ports

import (
	"context"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

// DoctorFilter carries the catalog query for doctors. Zero values mean
// "no filter".
type DoctorFilter struct {
	Specialization string  // case-insensitive match
	Search         string  // full-text over name, specialization and bio
	MinRating      float64
	MaxFee         float64
	Page           PageRequest
}

type DoctorRepository interface {
	Create(ctx context.Context, d *domain.Doctor) error
	FindByID(ctx context.Context, id string) (*domain.Doctor, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Doctor, error)
	List(ctx context.Context, filter DoctorFilter) ([]*domain.Doctor, int64, error)
	Update(ctx context.Context, d *domain.Doctor) error
	Delete(ctx context.Context, id string) error
	Specializations(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// TestFilter carries the catalog query for diagnostic tests.
type TestFilter struct {
	Category string
	Search   string
	MinPrice float64
	MaxPrice float64
	// IncludeUnavailable lists tests with is_available=false too (admin view).
	IncludeUnavailable bool
	Page               PageRequest
}

type TestRepository interface {
	Create(ctx context.Context, t *domain.LabTest) error
	FindByID(ctx context.Context, id string) (*domain.LabTest, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.LabTest, error)
	List(ctx context.Context, filter TestFilter) ([]*domain.LabTest, int64, error)
	Update(ctx context.Context, t *domain.LabTest) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}
