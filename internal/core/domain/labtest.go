package domain

import "time"

// TestCategories lists the catalog categories a diagnostic test may belong to.
var TestCategories = []string{
	"Blood Test",
	"Urine Test",
	"Imaging",
	"Cardiology",
	"Neurology",
	"Dermatology",
	"Gynecology",
	"Pediatrics",
	"General",
	"Other",
}

func IsTestCategory(category string) bool {
	for _, c := range TestCategories {
		if c == category {
			return true
		}
	}
	return false
}

// LabTest is a bookable diagnostic test. Duration is in minutes.
type LabTest struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Description             string    `json:"description"`
	Category                string    `json:"category"`
	Price                   float64   `json:"price"`
	Duration                int       `json:"duration"`
	PreparationInstructions string    `json:"preparationInstructions,omitempty"`
	NormalRange             string    `json:"normalRange,omitempty"`
	IsAvailable             bool      `json:"isAvailable"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}
