package handler

import (
	"strings"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// --- Doctors ---

type slotRequest struct {
	Day         string `json:"day"         validate:"required,weekday"`
	StartTime   string `json:"startTime"   validate:"required,clock"`
	EndTime     string `json:"endTime"     validate:"required,clock"`
	IsAvailable *bool  `json:"isAvailable"`
}

type doctorRequest struct {
	Name            string        `json:"name"            validate:"required,max=100"`
	Specialization  string        `json:"specialization"  validate:"required,max=100"`
	Email           string        `json:"email"           validate:"required,email"`
	Phone           string        `json:"phone"           validate:"required"`
	Experience      int           `json:"experience"      validate:"gte=0,lte=50"`
	ConsultationFee float64       `json:"consultationFee" validate:"gte=0"`
	Rating          float64       `json:"rating"          validate:"gte=0,lte=5"`
	Bio             string        `json:"bio"             validate:"max=1000"`
	Qualifications  []string      `json:"qualifications"`
	AvailableSlots  []slotRequest `json:"availableSlots"  validate:"omitempty,dive"`
}

type updateDoctorRequest struct {
	Name            *string       `json:"name"            validate:"omitempty,max=100"`
	Specialization  *string       `json:"specialization"  validate:"omitempty,max=100"`
	Email           *string       `json:"email"           validate:"omitempty,email"`
	Phone           *string       `json:"phone"`
	Experience      *int          `json:"experience"      validate:"omitempty,gte=0,lte=50"`
	ConsultationFee *float64      `json:"consultationFee" validate:"omitempty,gte=0"`
	Rating          *float64      `json:"rating"          validate:"omitempty,gte=0,lte=5"`
	Bio             *string       `json:"bio"             validate:"omitempty,max=1000"`
	Qualifications  []string      `json:"qualifications"`
	AvailableSlots  []slotRequest `json:"availableSlots"  validate:"omitempty,dive"`
}

func toSlots(in []slotRequest) []domain.AvailabilitySlot {
	if in == nil {
		return nil
	}
	out := make([]domain.AvailabilitySlot, 0, len(in))
	for _, s := range in {
		available := true
		if s.IsAvailable != nil {
			available = *s.IsAvailable
		}
		out = append(out, domain.AvailabilitySlot{
			Day:         strings.ToLower(s.Day),
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			IsAvailable: available,
		})
	}
	return out
}

func (r doctorRequest) toInput() ports.DoctorInput {
	return ports.DoctorInput{
		Name:            r.Name,
		Specialization:  r.Specialization,
		Email:           r.Email,
		Phone:           r.Phone,
		Experience:      r.Experience,
		ConsultationFee: r.ConsultationFee,
		Rating:          r.Rating,
		Bio:             r.Bio,
		Qualifications:  r.Qualifications,
		AvailableSlots:  toSlots(r.AvailableSlots),
	}
}

func (r updateDoctorRequest) toUpdate() ports.DoctorUpdate {
	return ports.DoctorUpdate{
		Name:            r.Name,
		Specialization:  r.Specialization,
		Email:           r.Email,
		Phone:           r.Phone,
		Experience:      r.Experience,
		ConsultationFee: r.ConsultationFee,
		Rating:          r.Rating,
		Bio:             r.Bio,
		Qualifications:  r.Qualifications,
		AvailableSlots:  toSlots(r.AvailableSlots),
	}
}

// --- Tests ---

type testRequest struct {
	Name                    string  `json:"name"                    validate:"required,max=100"`
	Description             string  `json:"description"             validate:"required,max=500"`
	Category                string  `json:"category"                validate:"required,category"`
	Price                   float64 `json:"price"                   validate:"gte=0"`
	Duration                int     `json:"duration"                validate:"gte=5,lte=480"`
	PreparationInstructions string  `json:"preparationInstructions" validate:"max=1000"`
	NormalRange             string  `json:"normalRange"             validate:"max=200"`
	IsAvailable             *bool   `json:"isAvailable"`
}

type updateTestRequest struct {
	Name                    *string  `json:"name"                    validate:"omitempty,max=100"`
	Description             *string  `json:"description"             validate:"omitempty,max=500"`
	Category                *string  `json:"category"                validate:"omitempty,category"`
	Price                   *float64 `json:"price"                   validate:"omitempty,gte=0"`
	Duration                *int     `json:"duration"                validate:"omitempty,gte=5,lte=480"`
	PreparationInstructions *string  `json:"preparationInstructions" validate:"omitempty,max=1000"`
	NormalRange             *string  `json:"normalRange"             validate:"omitempty,max=200"`
	IsAvailable             *bool    `json:"isAvailable"`
}

func (r testRequest) toInput() ports.TestInput {
	return ports.TestInput{
		Name:                    r.Name,
		Description:             r.Description,
		Category:                r.Category,
		Price:                   r.Price,
		Duration:                r.Duration,
		PreparationInstructions: r.PreparationInstructions,
		NormalRange:             r.NormalRange,
		IsAvailable:             r.IsAvailable,
	}
}

func (r updateTestRequest) toUpdate() ports.TestUpdate {
	return ports.TestUpdate{
		Name:                    r.Name,
		Description:             r.Description,
		Category:                r.Category,
		Price:                   r.Price,
		Duration:                r.Duration,
		PreparationInstructions: r.PreparationInstructions,
		NormalRange:             r.NormalRange,
		IsAvailable:             r.IsAvailable,
	}
}
