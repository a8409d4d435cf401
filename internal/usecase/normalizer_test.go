package usecase

import (
	"testing"

	"github.com/mensahub/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DropsEmptyDescriptions(t *testing.T) {
	records := []domain.RawRecord{
		{Hall: "A", Date: "01.01.2030", Description: "Suppe"},
		{Hall: "A", Date: "01.01.2030", Description: ""},
		{Hall: "A", Date: "01.01.2030", Description: "   \t  "},
		{Hall: "A", Date: "01.01.2030", Description: "Salat"},
	}

	menu := Normalize(records)

	require.Contains(t, menu, "A")
	entries := menu["A"]["01.01.2030"]
	require.Len(t, entries, 2)
	assert.Equal(t, "Suppe", entries[0].Description)
	assert.Equal(t, "Salat", entries[1].Description)
}

func TestNormalize_DropsDuplicatesWithinHallAndDate(t *testing.T) {
	// The feed is observed to repeat rows: two identical "Soup" rows and
	// one "Salad" must yield exactly two entries.
	records := []domain.RawRecord{
		{Hall: "A", Date: "01.01.2030", Description: "Soup"},
		{Hall: "A", Date: "01.01.2030", Description: "Soup"},
		{Hall: "A", Date: "01.01.2030", Description: "Salad"},
	}

	menu := Normalize(records)

	entries := menu["A"]["01.01.2030"]
	require.Len(t, entries, 2)
	assert.Equal(t, "Soup", entries[0].Description)
	assert.Equal(t, "Salad", entries[1].Description)
}

func TestNormalize_KeepsDuplicatesAcrossBuckets(t *testing.T) {
	records := []domain.RawRecord{
		{Hall: "A", Date: "01.01.2030", Description: "Soup"},
		{Hall: "A", Date: "02.01.2030", Description: "Soup"},
		{Hall: "B", Date: "01.01.2030", Description: "Soup"},
	}

	menu := Normalize(records)

	assert.Len(t, menu["A"]["01.01.2030"], 1)
	assert.Len(t, menu["A"]["02.01.2030"], 1)
	assert.Len(t, menu["B"]["01.01.2030"], 1)
}

func TestNormalize_PreservesInsertionOrder(t *testing.T) {
	records := []domain.RawRecord{
		{Hall: "A", Date: "01.01.2030", Description: "Zwiebelsuppe"},
		{Hall: "A", Date: "01.01.2030", Description: "Apfelstrudel"},
		{Hall: "A", Date: "01.01.2030", Description: "Maultaschen"},
	}

	menu := Normalize(records)

	entries := menu["A"]["01.01.2030"]
	require.Len(t, entries, 3)
	assert.Equal(t, "Zwiebelsuppe", entries[0].Description)
	assert.Equal(t, "Apfelstrudel", entries[1].Description)
	assert.Equal(t, "Maultaschen", entries[2].Description)
}

func TestNormalize_TrimsDescriptionForIdentity(t *testing.T) {
	records := []domain.RawRecord{
		{Hall: "A", Date: "01.01.2030", Description: "  Suppe  "},
		{Hall: "A", Date: "01.01.2030", Description: "Suppe"},
	}

	menu := Normalize(records)

	entries := menu["A"]["01.01.2030"]
	require.Len(t, entries, 1)
	assert.Equal(t, "Suppe", entries[0].Description)
}

func TestNormalize_ParsesGermanLocalePrices(t *testing.T) {
	records := []domain.RawRecord{
		{
			Hall: "A", Date: "01.01.2030", Description: "Festessen",
			PriceStudent:  "1.234,50",
			PriceEmployee: "3,80",
			PriceGuest:    "abc",
		},
	}

	menu := Normalize(records)

	entry := menu["A"]["01.01.2030"][0]
	assert.Equal(t, 1234.50, entry.PriceStudent)
	assert.Equal(t, 3.80, entry.PriceEmployee)
	// Unparseable prices become zero, the refresh continues.
	assert.Equal(t, 0.0, entry.PriceGuest)
	assert.Equal(t, 0.0, entry.PriceStudentCard)
}

func TestNormalize_ParsesEnvironmentalMetrics(t *testing.T) {
	records := []domain.RawRecord{
		{
			Hall: "A", Date: "01.01.2030", Description: "Gemüsecurry",
			CO2Value:   "1.556,00",
			CO2Savings: "",
			WaterValue: "kaputt",
		},
	}

	menu := Normalize(records)

	entry := menu["A"]["01.01.2030"][0]
	require.NotNil(t, entry.CO2Value)
	assert.Equal(t, 1556.0, *entry.CO2Value)
	assert.Nil(t, entry.CO2Savings)
	assert.Nil(t, entry.WaterValue)
}

func TestNormalize_HallDefaultsToUnknown(t *testing.T) {
	records := []domain.RawRecord{
		{Date: "01.01.2030", Description: "Suppe"},
	}

	menu := Normalize(records)

	require.Contains(t, menu, "Unknown")
	assert.Len(t, menu["Unknown"]["01.01.2030"], 1)
}

func TestParseLocaleFloat(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"1.234,50", 1234.50, false},
		{"583,00", 583.0, false},
		{"0,00", 0.0, false},
		{"", 0.0, false},
		{"  2,50 ", 2.50, false},
		{"abc", 0, true},
		{"1,2,3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, err := parseLocaleFloat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}
