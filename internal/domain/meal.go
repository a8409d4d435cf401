package domain

import "time"

// DateLayout is the wire format for dates in the menu feed (e.g. "02.01.2006").
const DateLayout = "02.01.2006"

// Meal is a unique catalog entry, identified by its exact description text.
// The catalog is append-only: meals are created on first encounter and never
// deleted, so a dish reappearing months later keeps its identity and score.
type Meal struct {
	ID                int64
	Description       string
	Category          string
	Marking           string
	NutritionalValues string
	CO2Value          *float64
	CO2Rating         string
	CO2Savings        *float64
	WaterValue        *float64
	WaterRating       string
	AnimalWelfare     string
	Rainforest        string
	Score             *float64
}

// MealOccurrence records that a meal was served at a hall on a date,
// with the pricing in effect that day. Unique on (meal, hall, date).
type MealOccurrence struct {
	ID                int64
	MealID            int64
	HallName          string
	Date              time.Time
	PriceStudent      float64
	PriceEmployee     float64
	PriceGuest        float64
	PriceStudentCard  float64
	PriceEmployeeCard float64
	PriceGuestCard    float64
	Notes             string
}

// RawRecord is one ROW element of the feed with its attributes as-is.
// Missing attributes decode to empty strings so downstream stages never
// have to nil-check.
type RawRecord struct {
	Hall              string
	Date              string
	Category          string
	Description       string
	Marking           string
	PriceStudent      string
	PriceEmployee     string
	PriceGuest        string
	PriceStudentCard  string
	PriceEmployeeCard string
	PriceGuestCard    string
	NutritionalValues string
	Notes             string
	CO2Value          string
	CO2Rating         string
	CO2Savings        string
	WaterValue        string
	WaterRating       string
	AnimalWelfare     string
	Rainforest        string
}

// NormalizedOccurrence is a validated, deduplicated feed row with numeric
// fields already parsed. The date stays in feed format; it is only parsed
// into a time.Time when the occurrence is written to the store.
type NormalizedOccurrence struct {
	Hall              string
	Date              string
	Category          string
	Description       string
	Marking           string
	NutritionalValues string
	Notes             string
	PriceStudent      float64
	PriceEmployee     float64
	PriceGuest        float64
	PriceStudentCard  float64
	PriceEmployeeCard float64
	PriceGuestCard    float64
	CO2Value          *float64
	CO2Rating         string
	CO2Savings        *float64
	WaterValue        *float64
	WaterRating       string
	AnimalWelfare     string
	Rainforest        string
}

// Menu groups normalized occurrences by hall and date, in feed order.
type Menu map[string]map[string][]NormalizedOccurrence

// SyncResult reports what one catalog sync cycle wrote.
type SyncResult struct {
	MealsCreated       int
	OccurrencesWritten int
}

// RefreshOutcome reports the result of one refresh cycle to the caller.
type RefreshOutcome struct {
	Success            bool          `json:"success"`
	Detail             string        `json:"detail"`
	MealsCreated       int           `json:"mealsCreated"`
	OccurrencesWritten int           `json:"occurrencesWritten"`
	Duration           time.Duration `json:"duration"`
}

// EnrichmentReport summarizes one enrichment pass over unscored meals.
type EnrichmentReport struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
