package domain

import "time"

var weekdays = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

// IsWeekday reports whether day is a lowercase English weekday name.
func IsWeekday(day string) bool {
	_, ok := weekdays[day]
	return ok
}

// AvailabilitySlot is a weekly window in which a doctor takes consultations.
type AvailabilitySlot struct {
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

type Doctor struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Specialization  string             `json:"specialization"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	Experience      int                `json:"experience"`
	ConsultationFee float64            `json:"consultationFee"`
	Rating          float64            `json:"rating"`
	TotalRatings    int                `json:"totalRatings"`
	Bio             string             `json:"bio,omitempty"`
	Qualifications  []string           `json:"qualifications"`
	AvailableSlots  []AvailabilitySlot `json:"availableSlots"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}
