package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// rawRow decodes rate columns as strings so missing and malformed values can
// be rejected with row context instead of silently coercing to zero.
type rawRow struct {
	County        string `csv:"County"`
	Unemployment  string `csv:"Unemployment-Rate"`
	DiplomaOrLess string `csv:"Rate H.S. Diploma or Less"`
}

// ReadCSV loads an indicator table from a CSV file. The header row is
// required and must contain the County, Unemployment-Rate and
// "Rate H.S. Diploma or Less" columns.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open CSV %s", path)
	}
	defer f.Close() //nolint:errcheck

	records, err := DecodeCSV(f)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}

	zap.L().Info("dataset loaded",
		zap.String("path", path),
		zap.Int("counties", len(records)),
	)
	return records, nil
}

// DecodeCSV parses indicator records from a CSV stream.
func DecodeCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		if err == io.EOF {
			return nil, eris.New("dataset: CSV is empty, header row required")
		}
		return nil, eris.Wrap(err, "dataset: read CSV header")
	}

	if err := checkHeader(dec.Header()); err != nil {
		return nil, err
	}

	var records []Record
	row := 1
	for {
		var raw rawRow
		if err := dec.Decode(&raw); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "dataset: decode CSV row %d", row)
		}
		row++

		rec, err := fromRaw(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// checkHeader verifies all required columns are present.
func checkHeader(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, col := range []string{ColCounty, ColUnemployment, ColDiploma} {
		if !have[col] {
			return eris.Errorf("dataset: CSV header missing required column %q", col)
		}
	}
	return nil
}

func fromRaw(raw rawRow) (Record, error) {
	unemp, err := parseRate(raw.Unemployment, ColUnemployment, raw.County)
	if err != nil {
		return Record{}, err
	}
	diploma, err := parseRate(raw.DiplomaOrLess, ColDiploma, raw.County)
	if err != nil {
		return Record{}, err
	}
	return Record{
		County:        raw.County,
		Unemployment:  unemp,
		DiplomaOrLess: diploma,
	}, nil
}
