package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Record is one parsed row keyed by column name.
type Record map[string]Value

// Get returns the cell for column and whether the column exists in the row.
func (r Record) Get(column string) (Value, bool) {
	v, ok := r[column]
	return v, ok
}

// Table is a parsed CSV document in file order.
type Table struct {
	Columns []string
	Rows    []Record
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column collects one column's cells in row order. Rows missing the column get a null.
func (t *Table) Column(name string) []Value {
	out := make([]Value, 0, t.Len())
	for _, r := range t.Rows {
		v, ok := r[name]
		if !ok {
			v = Null()
		}
		out = append(out, v)
	}
	return out
}

// ParseString parses CSV text. See Parse.
func ParseString(text string) (*Table, error) {
	return Parse(strings.NewReader(text))
}

// Parse reads comma-separated text with a header row and auto-types every cell.
// Short rows are padded with nulls; extra fields are dropped.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, &ParseError{Line: errLine(err), Err: err}
	}
	t := newTable(header)

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Line: errLine(err), Err: err}
		}
		t.appendRow(rec)
	}
	return t, nil
}

func newTable(header []string) *Table {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimPrefix(h, "\ufeff")
	}
	return &Table{Columns: cols}
}

// appendRow auto-types rec against the columns, padding short rows with nulls.
func (t *Table) appendRow(rec []string) {
	row := make(Record, len(t.Columns))
	for i, name := range t.Columns {
		if i < len(rec) {
			row[name] = Infer(rec[i])
		} else {
			row[name] = Null()
		}
	}
	t.Rows = append(t.Rows, row)
}

func errLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}

// ParseError reports CSV syntax the reader could not recover from.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse csv: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
