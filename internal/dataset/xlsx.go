package dataset

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// XLSXOptions selects the worksheet to read.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX loads an indicator table from an XLSX workbook. The first row of
// the selected sheet must be the same header a CSV source would carry.
func ReadXLSX(path string, opts XLSXOptions) ([]Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open XLSX %s", path)
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("dataset: XLSX sheet in %s is empty, header row required", path)
	}

	header := rowToStrings(sheet.Rows[0])
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for j, h := range header {
		idx[h] = j
	}

	var records []Record
	for i, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		raw := rawRow{
			County:        cellAt(cells, idx[ColCounty]),
			Unemployment:  cellAt(cells, idx[ColUnemployment]),
			DiplomaOrLess: cellAt(cells, idx[ColDiploma]),
		}
		rec, err := fromRaw(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: XLSX row %d", i+2)
		}
		records = append(records, rec)
	}

	if err := validate(records); err != nil {
		return nil, err
	}

	zap.L().Info("dataset loaded",
		zap.String("path", path),
		zap.Int("counties", len(records)),
	)
	return records, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("dataset: XLSX sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("dataset: XLSX sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// cellAt guards against short rows, which XLSX files produce for trailing
// empty cells.
func cellAt(cells []string, j int) string {
	if j < 0 || j >= len(cells) {
		return ""
	}
	return cells[j]
}
