package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/spreaddash-cli/internal/csvload"
)

// DecodeOptions controls how auto-typed cells are coerced into rows.
type DecodeOptions struct {
	// Strict fails on the first non-empty, non-numeric cell in a numeric column.
	// When false such cells become NaN.
	Strict bool
}

// CellError describes a cell that does not fit its column's type.
type CellError struct {
	Row    int // 1-based data row, header excluded
	Column string
	Raw    string
	Kind   csvload.Kind
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %q: expected number, got %s %q", e.Row, e.Column, e.Kind, e.Raw)
}

func numCell(rec csvload.Record, col string, row int, opt DecodeOptions) (float64, error) {
	v, ok := rec.Get(col)
	if !ok {
		return math.NaN(), nil
	}
	switch v.Kind {
	case csvload.KindNull:
		return math.NaN(), nil
	case csvload.KindNumber:
		return v.Num, nil
	case csvload.KindBool:
		return v.Float(), nil
	}
	if opt.Strict {
		return math.NaN(), &CellError{Row: row, Column: col, Raw: v.Raw, Kind: v.Kind}
	}
	return math.NaN(), nil
}

func textCell(rec csvload.Record, col string) string {
	v, ok := rec.Get(col)
	if !ok || v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.Raw)
}

// DecodeMaster converts a parsed master panel into typed rows.
func DecodeMaster(t *csvload.Table, opt DecodeOptions) ([]MasterRow, error) {
	rows := make([]MasterRow, 0, t.Len())
	if t == nil {
		return rows, nil
	}
	for i, rec := range t.Rows {
		var r MasterRow
		for _, f := range masterText {
			*f.ptr(&r) = textCell(rec, f.name)
		}
		for _, f := range masterNumeric {
			x, err := numCell(rec, f.name, i+1, opt)
			if err != nil {
				return nil, err
			}
			*f.ptr(&r) = x
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// DecodeSpreads converts a parsed wide spread table into typed rows.
// Only the fixed country columns are read; null, NaN and infinite cells are left out.
func DecodeSpreads(t *csvload.Table, opt DecodeOptions) ([]SpreadRow, error) {
	rows := make([]SpreadRow, 0, t.Len())
	if t == nil {
		return rows, nil
	}
	for i, rec := range t.Rows {
		r := SpreadRow{Date: textCell(rec, "date"), Spreads: make(map[string]float64, len(Countries))}
		for _, c := range Countries {
			x, err := numCell(rec, c, i+1, opt)
			if err != nil {
				return nil, err
			}
			if !math.IsNaN(x) && !math.IsInf(x, 0) {
				r.Spreads[c] = x
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func formatCell(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	if math.IsInf(f, 0) {
		return csvload.FormatNumber(f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteMasterCSV writes rows with the MasterColumns header. Missing numbers become empty cells.
func WriteMasterCSV(w io.Writer, rows []MasterRow) error {
	cw := csv.NewWriter(w)
	cols := MasterColumns()
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(cols))
	for _, r := range rows {
		for j, c := range cols {
			if s, ok := r.Text(c); ok {
				rec[j] = s
				continue
			}
			x, _ := r.Indicator(c)
			rec[j] = formatCell(x)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSpreadsCSV writes the wide spread table with a date column followed by Countries.
func WriteSpreadsCSV(w io.Writer, rows []SpreadRow) error {
	cw := csv.NewWriter(w)
	header := append([]string{"date"}, Countries...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for _, r := range rows {
		rec[0] = r.Date
		for j, c := range Countries {
			x, ok := r.Spread(c)
			if !ok {
				x = math.NaN()
			}
			rec[j+1] = formatCell(x)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
