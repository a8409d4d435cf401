package feed

import (
	"encoding/xml"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/mensahub/backend/internal/domain"
)

// The feed is a Delphi-style DATAPACKET document: a ROWDATA container whose
// self-closing ROW children carry all meal data as attributes. The upstream
// export is regularly truncated mid-document, so parsing falls back through
// an ordered recovery chain before giving up:
//
//  1. strict parse of the document as delivered
//  2. strict parse after appending the missing ROWDATA/DATAPACKET closers
//  3. parse of a synthesized minimal document holding every syntactically
//     complete ROW element found by pattern match
//
// Only when all three tiers fail does Parse report ErrMalformedFeed.

// rowPattern matches complete self-closing ROW elements. It deliberately
// looks at element boundaries only; attribute handling is left to the
// XML decoder once the rows are re-wrapped.
var rowPattern = regexp.MustCompile(`<ROW[^>]+/>`)

type document struct {
	XMLName xml.Name    `xml:"DATAPACKET"`
	Rows    []rowRecord `xml:"ROWDATA>ROW"`
}

// rowRecord mirrors the feed's attribute names. Attributes absent from a
// ROW decode to empty strings, which is the contract downstream stages
// rely on.
type rowRecord struct {
	Hall              string `xml:"MENSA,attr"`
	Date              string `xml:"DATUM,attr"`
	Category          string `xml:"BEZEICHNUNG_KATEGORIE,attr"`
	Description       string `xml:"BESCHREIBUNG,attr"`
	Marking           string `xml:"KENNZEICHNUNG,attr"`
	PriceStudent      string `xml:"PREIS_STUDENT,attr"`
	PriceEmployee     string `xml:"PREIS_BEDIENSTETER,attr"`
	PriceGuest        string `xml:"PREIS_GAST,attr"`
	PriceStudentCard  string `xml:"PREIS_STUDENT_KARTE,attr"`
	PriceEmployeeCard string `xml:"PREIS_BEDIENSTETER_KARTE,attr"`
	PriceGuestCard    string `xml:"PREIS_GAST_KARTE,attr"`
	NutritionalValues string `xml:"NAEHRWERTE,attr"`
	Notes             string `xml:"HINWEISE,attr"`
	CO2Value          string `xml:"EXTINFO_CO2_WERT,attr"`
	CO2Rating         string `xml:"EXTINFO_CO2_BEWERTUNG,attr"`
	CO2Savings        string `xml:"EXTINFO_CO2_EINSPARUNG,attr"`
	WaterValue        string `xml:"EXTINFO_WASSER_WERT,attr"`
	WaterRating       string `xml:"EXTINFO_WASSER_BEWERTUNG,attr"`
	AnimalWelfare     string `xml:"EXTINFO_TIERWOHL,attr"`
	Rainforest        string `xml:"EXTINFO_REGENWALD,attr"`
}

// Parser is the tolerant XML parser for the menu feed.
type Parser struct{}

// NewParser creates a feed parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes feed bytes into raw records, applying the recovery chain
// on parse failure.
func (p *Parser) Parse(data []byte) ([]domain.RawRecord, error) {
	rows, err := parseStrict(data)
	if err == nil {
		return toRawRecords(rows), nil
	}
	log.Printf("[Parser] Strict parse failed: %v, attempting recovery", err)

	text := string(data)

	repaired, changed := repairClosingTags(text)
	if changed {
		rows, repairErr := parseStrict([]byte(repaired))
		if repairErr == nil {
			log.Printf("[Parser] Recovered %d rows after repairing closing tags", len(rows))
			return toRawRecords(rows), nil
		}
		log.Printf("[Parser] Tag repair failed: %v", repairErr)
	}

	rows, extractErr := extractRows(text)
	if extractErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedFeed, err)
	}
	log.Printf("[Parser] Recovered %d rows by row extraction", len(rows))
	return toRawRecords(rows), nil
}

func parseStrict(data []byte) ([]rowRecord, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Rows, nil
}

// repairClosingTags appends the minimal set of closing tags needed to
// balance a document that was cut off after its last complete ROW. The
// second return value reports whether anything was appended.
func repairClosingTags(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, "</DATAPACKET>") {
		return text, false
	}
	if strings.Contains(text, "<ROWDATA>") && !strings.Contains(text, "</ROWDATA>") {
		text += "</ROWDATA>"
	}
	text += "</DATAPACKET>"
	return text, true
}

// extractRows pulls every complete self-closing ROW element out of the
// damaged document and parses them inside a freshly synthesized wrapper.
func extractRows(text string) ([]rowRecord, error) {
	matches := rowPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no complete ROW elements found")
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?><DATAPACKET><ROWDATA>`)
	for _, row := range matches {
		b.WriteString(row)
	}
	b.WriteString(`</ROWDATA></DATAPACKET>`)

	return parseStrict([]byte(b.String()))
}

func toRawRecords(rows []rowRecord) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.RawRecord{
			Hall:              row.Hall,
			Date:              row.Date,
			Category:          row.Category,
			Description:       row.Description,
			Marking:           row.Marking,
			PriceStudent:      row.PriceStudent,
			PriceEmployee:     row.PriceEmployee,
			PriceGuest:        row.PriceGuest,
			PriceStudentCard:  row.PriceStudentCard,
			PriceEmployeeCard: row.PriceEmployeeCard,
			PriceGuestCard:    row.PriceGuestCard,
			NutritionalValues: row.NutritionalValues,
			Notes:             row.Notes,
			CO2Value:          row.CO2Value,
			CO2Rating:         row.CO2Rating,
			CO2Savings:        row.CO2Savings,
			WaterValue:        row.WaterValue,
			WaterRating:       row.WaterRating,
			AnimalWelfare:     row.AnimalWelfare,
			Rainforest:        row.Rainforest,
		})
	}
	return records
}
