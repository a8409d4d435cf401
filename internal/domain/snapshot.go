package domain

import (
	"sort"
	"time"
)

// MenuEntry is one row of the read model: a meal's catalog fields flattened
// together with its occurrence fields for a specific hall and date.
type MenuEntry struct {
	MealID            int64    `json:"mealId"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Marking           string   `json:"marking"`
	NutritionalValues string   `json:"nutritionalValues"`
	Notes             string   `json:"notes"`
	PriceStudent      float64  `json:"priceStudent"`
	PriceEmployee     float64  `json:"priceEmployee"`
	PriceGuest        float64  `json:"priceGuest"`
	PriceStudentCard  float64  `json:"priceStudentCard"`
	PriceEmployeeCard float64  `json:"priceEmployeeCard"`
	PriceGuestCard    float64  `json:"priceGuestCard"`
	CO2Value          *float64 `json:"co2Value,omitempty"`
	CO2Rating         string   `json:"co2Rating,omitempty"`
	CO2Savings        *float64 `json:"co2Savings,omitempty"`
	WaterValue        *float64 `json:"waterValue,omitempty"`
	WaterRating       string   `json:"waterRating,omitempty"`
	AnimalWelfare     string   `json:"animalWelfare,omitempty"`
	Rainforest        string   `json:"rainforest,omitempty"`
	Score             *float64 `json:"score,omitempty"`
}

// Snapshot is the fully materialized read model served to request handlers.
// A snapshot is built once, published via an atomic swap and never mutated
// afterwards, so concurrent readers always see a consistent view.
type Snapshot struct {
	Halls       map[string]map[string][]MenuEntry `json:"halls"`
	HallNames   []string                          `json:"hallNames"`
	Dates       []string                          `json:"dates"`
	RefreshedAt time.Time                         `json:"refreshedAt"`
}

// EmptySnapshot returns a valid snapshot with no data, used before the
// first successful refresh.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Halls:     map[string]map[string][]MenuEntry{},
		HallNames: []string{},
		Dates:     []string{},
	}
}

// SortedHallNames returns the hall names of a menu-shaped map in sorted order.
func SortedHallNames[V any](halls map[string]V) []string {
	names := make([]string, 0, len(halls))
	for name := range halls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedDates collects every date key across halls and sorts them
// chronologically by their feed-format value. Dates that do not parse are
// left out of the listing (they remain reachable via the hall maps).
func SortedDates[V any](halls map[string]map[string]V) []string {
	seen := map[string]time.Time{}
	for _, dates := range halls {
		for date := range dates {
			if _, ok := seen[date]; ok {
				continue
			}
			parsed, err := time.Parse(DateLayout, date)
			if err != nil {
				continue
			}
			seen[date] = parsed
		}
	}

	sorted := make([]string, 0, len(seen))
	for date := range seen {
		sorted = append(sorted, date)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return seen[sorted[i]].Before(seen[sorted[j]])
	})
	return sorted
}
