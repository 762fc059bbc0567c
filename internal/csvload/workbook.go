package csvload

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/xuri/excelize/v2"
)

// isWorkbook reports whether source names an .xlsx file, ignoring any URL query.
func isWorkbook(source string) bool {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.HasSuffix(strings.ToLower(p), ".xlsx")
}

// ParseXLSX reads one sheet of a workbook as a table, typing cells the same way
// as Parse. An empty sheet name selects the first sheet.
func ParseXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &ParseError{Err: fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(f.GetSheetList(), ", "))}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}
	t := newTable(rows[0])
	for _, rec := range rows[1:] {
		t.appendRow(rec)
	}
	return t, nil
}
