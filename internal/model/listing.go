// Package model defines the listing record types shared by the pipeline,
// scorer, and scrape layers. Absence is a first-class value: optional text
// fields use the empty string, optional numerics use nil pointers.
package model

import (
	"regexp"
	"strconv"
	"strings"
)

// RawListing is an apartment listing exactly as delivered by an extractor or
// a CSV row: every field is an unparsed string, "" meaning absent. No
// invariants hold; numeric-looking fields may carry units, currency symbols
// or thousands separators.
type RawListing struct {
	URL                string
	Source             string
	Address            string
	Price              string
	Fee                string
	PricePerM2         string
	Rooms              string
	YearBuilt          string
	HousingCooperative string
	HasElevator        string
	HasBalcony         string
	Floor              string
	TotalFloors        string
	ScrapedAt          string
}

// Listing is a RawListing after validation and enrichment: every numeric
// field is a valid number or nil, booleans are strict, and ScrapedAt is
// always set. URL is non-empty (the validator enforces it).
type Listing struct {
	URL                string
	Source             string
	Address            string
	Price              *float64
	Fee                *float64
	PricePerM2         *float64
	Rooms              *float64
	YearBuilt          *int
	HousingCooperative string
	HasElevator        bool
	HasBalcony         bool
	Floor              *int
	TotalFloors        *int
	ScrapedAt          string
}

// ScoredListing is the terminal artifact: a clean listing with its composite
// score in [0,1] and a dense 1-based rank (1 = best).
type ScoredListing struct {
	Listing
	Score float64
	Rank  int
}

// truthyTokens is the language-neutral token set that maps to true when
// coercing elevator/balcony fields. Everything else is false.
var truthyTokens = map[string]bool{
	"yes":   true,
	"ja":    true,
	"true":  true,
	"1":     true,
	"finns": true,
	"hiss":  true,
}

var (
	amountStripRe = regexp.MustCompile(`[^\d.]`)
	decimalRe     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	integerRe     = regexp.MustCompile(`\d+`)
)

// ParseAmount parses a monetary value after stripping everything that is not
// a digit or decimal point (spaces, thousands separators, currency symbols).
// A leading minus sign is preserved so that negative values stay detectable.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")

	stripped := amountStripRe.ReplaceAllString(s, "")
	if stripped == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// ParseDecimal extracts the first decimal number in s, accepting a comma as
// the decimal separator ("2,5 rum" parses to 2.5).
func ParseDecimal(s string) (float64, bool) {
	m := decimalRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInteger extracts the first run of digits in s as an integer
// ("Byggår 1987" parses to 1987).
func ParseInteger(s string) (int, bool) {
	m := integerRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseBool reports whether s is a truthy token. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseBool(s string) bool {
	return truthyTokens[strings.ToLower(strings.TrimSpace(s))]
}

// Clean converts an enriched RawListing into a typed Listing. The conversion
// is total: any numeric field that still fails to parse becomes nil rather
// than an error.
func (r RawListing) Clean() Listing {
	l := Listing{
		URL:                strings.TrimSpace(r.URL),
		Source:             strings.TrimSpace(r.Source),
		Address:            strings.TrimSpace(r.Address),
		HousingCooperative: strings.TrimSpace(r.HousingCooperative),
		HasElevator:        ParseBool(r.HasElevator),
		HasBalcony:         ParseBool(r.HasBalcony),
		ScrapedAt:          strings.TrimSpace(r.ScrapedAt),
	}
	if v, ok := ParseAmount(r.Price); ok {
		l.Price = &v
	}
	if v, ok := ParseAmount(r.Fee); ok {
		l.Fee = &v
	}
	if v, ok := ParseAmount(r.PricePerM2); ok {
		l.PricePerM2 = &v
	}
	if v, ok := ParseDecimal(r.Rooms); ok {
		l.Rooms = &v
	}
	if v, ok := ParseInteger(r.YearBuilt); ok {
		l.YearBuilt = &v
	}
	if v, ok := ParseInteger(r.Floor); ok {
		l.Floor = &v
	}
	if v, ok := ParseInteger(r.TotalFloors); ok {
		l.TotalFloors = &v
	}
	return l
}
