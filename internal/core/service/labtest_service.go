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

type LabTestService struct {
	repo ports.TestRepository
	log  zerolog.Logger
}

func NewLabTestService(repo ports.TestRepository, log zerolog.Logger) *LabTestService {
	return &LabTestService{repo: repo, log: log}
}

func (s *LabTestService) List(ctx context.Context, filter ports.TestFilter) (*ports.Page[*domain.LabTest], error) {
	filter.Page = filter.Page.Normalize()
	tests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return &ports.Page[*domain.LabTest]{Items: tests, Pagination: ports.NewPagination(filter.Page, total)}, nil
}

func (s *LabTestService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *LabTestService) Get(ctx context.Context, id string) (*domain.LabTest, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LabTestService) Create(ctx context.Context, in ports.TestInput) (*domain.LabTest, error) {
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	now := time.Now().UTC()
	t := &domain.LabTest{
		Name:                    strings.TrimSpace(in.Name),
		Description:             strings.TrimSpace(in.Description),
		Category:                in.Category,
		Price:                   in.Price,
		Duration:                in.Duration,
		PreparationInstructions: in.PreparationInstructions,
		NormalRange:             in.NormalRange,
		IsAvailable:             available,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := validateLabTest(t); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info().Str("test_id", t.ID).Str("category", t.Category).Msg("test created")
	return t, nil
}

func (s *LabTestService) Update(ctx context.Context, id string, in ports.TestUpdate) (*domain.LabTest, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.Price != nil {
		t.Price = *in.Price
	}
	if in.Duration != nil {
		t.Duration = *in.Duration
	}
	if in.PreparationInstructions != nil {
		t.PreparationInstructions = *in.PreparationInstructions
	}
	if in.NormalRange != nil {
		t.NormalRange = *in.NormalRange
	}
	if in.IsAvailable != nil {
		t.IsAvailable = *in.IsAvailable
	}
	if err := validateLabTest(t); err != nil {
		return nil, err
	}

	t.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *LabTestService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateLabTest(t *domain.LabTest) error {
	switch {
	case t.Name == "":
		return domain.Invalid("Test name is required")
	case t.Description == "":
		return domain.Invalid("Test description is required")
	case !domain.IsTestCategory(t.Category):
		return domain.Invalid("Category must be one of: " + strings.Join(domain.TestCategories, ", "))
	case t.Price < 0:
		return domain.Invalid("Price cannot be negative")
	case t.Duration < 5 || t.Duration > 480:
		return domain.Invalid("Duration must be between 5 and 480 minutes")
	}
	return nil
}
