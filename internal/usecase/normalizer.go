package usecase

import (
	"log"
	"strconv"
	"strings"

	"github.com/mensahub/backend/internal/domain"
)

// Normalize maps raw feed records into the canonical hall -> date -> meals
// structure. Rules, in order:
//
//  1. records with an empty (after trimming) description are dropped; they
//     carry no identity
//  2. exact duplicate descriptions within one (hall, date) bucket are
//     dropped, keeping the first occurrence; the feed repeats rows
//  3. insertion order is preserved; presentation decides any sorting
//  4. numeric fields arrive in German locale format and are parsed here;
//     a field that does not parse becomes zero with a logged warning, it
//     never fails the refresh
func Normalize(records []domain.RawRecord) domain.Menu {
	menu := domain.Menu{}
	seen := map[string]map[string]bool{}

	dropped := 0
	duplicates := 0
	for _, rec := range records {
		description := strings.TrimSpace(rec.Description)
		if description == "" {
			dropped++
			continue
		}

		hall := rec.Hall
		if hall == "" {
			hall = "Unknown"
		}

		bucket := hall + "\x00" + rec.Date
		if seen[bucket] == nil {
			seen[bucket] = map[string]bool{}
		}
		if seen[bucket][description] {
			duplicates++
			continue
		}
		seen[bucket][description] = true

		if menu[hall] == nil {
			menu[hall] = map[string][]domain.NormalizedOccurrence{}
		}
		menu[hall][rec.Date] = append(menu[hall][rec.Date], domain.NormalizedOccurrence{
			Hall:              hall,
			Date:              rec.Date,
			Category:          rec.Category,
			Description:       description,
			Marking:           rec.Marking,
			NutritionalValues: rec.NutritionalValues,
			Notes:             rec.Notes,
			PriceStudent:      parsePrice(rec.PriceStudent, description),
			PriceEmployee:     parsePrice(rec.PriceEmployee, description),
			PriceGuest:        parsePrice(rec.PriceGuest, description),
			PriceStudentCard:  parsePrice(rec.PriceStudentCard, description),
			PriceEmployeeCard: parsePrice(rec.PriceEmployeeCard, description),
			PriceGuestCard:    parsePrice(rec.PriceGuestCard, description),
			CO2Value:          parseMetric(rec.CO2Value, description),
			CO2Rating:         rec.CO2Rating,
			CO2Savings:        parseMetric(rec.CO2Savings, description),
			WaterValue:        parseMetric(rec.WaterValue, description),
			WaterRating:       rec.WaterRating,
			AnimalWelfare:     rec.AnimalWelfare,
			Rainforest:        rec.Rainforest,
		})
	}

	if dropped > 0 || duplicates > 0 {
		log.Printf("[Normalizer] Dropped %d records without description, %d duplicates", dropped, duplicates)
	}
	return menu
}

// parseLocaleFloat converts a German locale number ("1.234,50") to a float:
// dots are thousands separators, the comma is the decimal separator.
func parseLocaleFloat(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return strconv.ParseFloat(cleaned, 64)
}

// parsePrice parses a price field; an unparseable value is logged and
// treated as zero so a single bad price never aborts the refresh.
func parsePrice(raw, description string) float64 {
	value, err := parseLocaleFloat(raw)
	if err != nil {
		log.Printf("[Normalizer] Unparseable price %q for %q, using 0", raw, description)
		return 0
	}
	return value
}

// parseMetric parses an optional environmental metric. Empty means the
// feed carries no value; unparseable values are logged and dropped.
func parseMetric(raw, description string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	value, err := parseLocaleFloat(raw)
	if err != nil {
		log.Printf("[Normalizer] Unparseable metric %q for %q, ignoring", raw, description)
		return nil
	}
	return &value
}
