package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Doctors
// ---------------------------------------------------------------------------

func validDoctorInput() ports.DoctorInput {
	return ports.DoctorInput{
		Name:            "Dr. Ana Ruiz",
		Specialization:  "Neurology",
		Email:           "Ana.Ruiz@Example.com",
		Phone:           "+1-555-0199",
		Experience:      8,
		ConsultationFee: 120,
		AvailableSlots: []domain.AvailabilitySlot{
			{Day: "Monday", StartTime: "9:00", EndTime: "17:00", IsAvailable: true},
		},
	}
}

func TestDoctorService_Create(t *testing.T) {
	svc := NewDoctorService(newStubDoctorRepo(), zerolog.Nop())

	d, err := svc.Create(context.Background(), validDoctorInput())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if d.ID == "" {
		t.Errorf("expected id assigned")
	}
	if d.Email != "ana.ruiz@example.com" {
		t.Errorf("expected lowercased email, got %s", d.Email)
	}
	slot := d.AvailableSlots[0]
	if slot.Day != "monday" || slot.StartTime != "09:00" {
		t.Errorf("expected normalized slot, got %+v", slot)
	}
}

func TestDoctorService_Create_Validation(t *testing.T) {
	svc := NewDoctorService(newStubDoctorRepo(), zerolog.Nop())

	cases := map[string]func(*ports.DoctorInput){
		"missing name":      func(in *ports.DoctorInput) { in.Name = "" },
		"experience":        func(in *ports.DoctorInput) { in.Experience = 51 },
		"negative fee":      func(in *ports.DoctorInput) { in.ConsultationFee = -1 },
		"rating":            func(in *ports.DoctorInput) { in.Rating = 5.5 },
		"bad day":           func(in *ports.DoctorInput) { in.AvailableSlots[0].Day = "funday" },
		"end before start":  func(in *ports.DoctorInput) { in.AvailableSlots[0].EndTime = "08:00" },
		"bad slot time fmt": func(in *ports.DoctorInput) { in.AvailableSlots[0].StartTime = "9am" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validDoctorInput()
			mutate(&in)
			if _, err := svc.Create(context.Background(), in); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got: %v", err)
			}
		})
	}
}

func TestDoctorService_Update(t *testing.T) {
	repo := newStubDoctorRepo(&domain.Doctor{ID: "doc-1", Name: "Dr. A", Specialization: "Cardiology", Email: "a@example.com", Phone: "1", ConsultationFee: 100})
	svc := NewDoctorService(repo, zerolog.Nop())

	fee := 175.0
	d, err := svc.Update(context.Background(), "doc-1", ports.DoctorUpdate{ConsultationFee: &fee})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if d.ConsultationFee != 175 || repo.doctors["doc-1"].ConsultationFee != 175 {
		t.Errorf("expected fee persisted")
	}
	if d.Name != "Dr. A" {
		t.Errorf("expected untouched fields kept")
	}

	if _, err := svc.Update(context.Background(), "doc-9", ports.DoctorUpdate{}); !errors.Is(err, domain.ErrDoctorNotFound) {
		t.Errorf("expected ErrDoctorNotFound, got: %v", err)
	}
}

func TestDoctorService_Specializations(t *testing.T) {
	repo := newStubDoctorRepo(
		&domain.Doctor{ID: "doc-1", Specialization: "Pediatrics"},
		&domain.Doctor{ID: "doc-2", Specialization: "Cardiology"},
		&domain.Doctor{ID: "doc-3", Specialization: "Cardiology"},
	)
	svc := NewDoctorService(repo, zerolog.Nop())

	got, err := svc.Specializations(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(got) != 2 || got[0] != "Cardiology" {
		t.Errorf("expected distinct sorted specializations, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Lab tests
// ---------------------------------------------------------------------------

func TestLabTestService_Create(t *testing.T) {
	svc := NewLabTestService(newStubTestRepo(), zerolog.Nop())

	lt, err := svc.Create(context.Background(), ports.TestInput{
		Name:        "Lipid Panel",
		Description: "Cholesterol and triglycerides",
		Category:    "Blood Test",
		Price:       60,
		Duration:    15,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !lt.IsAvailable {
		t.Errorf("expected tests to be available by default")
	}
}

func TestLabTestService_Create_Validation(t *testing.T) {
	svc := NewLabTestService(newStubTestRepo(), zerolog.Nop())

	base := ports.TestInput{Name: "X", Description: "Y", Category: "Blood Test", Price: 10, Duration: 30}
	cases := map[string]func(*ports.TestInput){
		"category":       func(in *ports.TestInput) { in.Category = "Astrology" },
		"negative price": func(in *ports.TestInput) { in.Price = -5 },
		"too short":      func(in *ports.TestInput) { in.Duration = 4 },
		"too long":       func(in *ports.TestInput) { in.Duration = 481 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			if _, err := svc.Create(context.Background(), in); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got: %v", err)
			}
		})
	}
}

func TestLabTestService_Update_Availability(t *testing.T) {
	repo := newStubTestRepo(&domain.LabTest{ID: "test-1", Name: "CBC", Description: "Blood count", Category: "Blood Test", Price: 45, Duration: 15, IsAvailable: true})
	svc := NewLabTestService(repo, zerolog.Nop())

	off := false
	lt, err := svc.Update(context.Background(), "test-1", ports.TestUpdate{IsAvailable: &off})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if lt.IsAvailable || repo.tests["test-1"].IsAvailable {
		t.Errorf("expected test disabled")
	}
}
