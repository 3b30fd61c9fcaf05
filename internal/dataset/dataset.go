// Package dataset loads county indicator tables from CSV and XLSX sources.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Expected column headers in indicator tables.
const (
	ColCounty       = "County"
	ColUnemployment = "Unemployment-Rate"
	ColDiploma      = "Rate H.S. Diploma or Less"
)

// Record is one county's indicator values. County is the join key against
// the boundary source.
type Record struct {
	County        string  `json:"county"`
	Unemployment  float64 `json:"unemployment_rate"`
	DiplomaOrLess float64 `json:"diploma_or_less_rate"`
}

// parseRate parses a percentage value, failing loudly on missing or
// non-numeric input so NaN never reaches the classifier.
func parseRate(raw, column, county string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, eris.Errorf("dataset: county %q has no %q value", county, column)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "dataset: county %q has non-numeric %q value %q", county, column, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Errorf("dataset: county %q has non-finite %q value %q", county, column, raw)
	}
	return v, nil
}

// validate rejects empty county names and duplicate join keys. The input
// contract is one row per county.
func validate(records []Record) error {
	if len(records) == 0 {
		return eris.New("dataset: no records found")
	}
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.County == "" {
			return eris.Errorf("dataset: row %d has an empty county name", i+1)
		}
		if seen[r.County] {
			return eris.Errorf("dataset: duplicate county %q", r.County)
		}
		seen[r.County] = true
	}
	return nil
}
