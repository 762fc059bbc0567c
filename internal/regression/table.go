package regression

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TableOptions selects and formats the cells of a regression table.
type TableOptions struct {
	// Models and Variables pick columns and rows; empty means all, first-seen order.
	Models    []string
	Variables []string
	// SEType defaults to DefaultSEType.
	SEType   string
	// Decimals is the number of decimal places; zero or negative selects 2.
	Decimals int
	ShowCI   bool
}

// Cell is one formatted (variable, model) entry. Found is false when the lookup missed.
type Cell struct {
	Found    bool
	Estimate string // estimate followed by significance stars
	StdError string // "(se)"
	CI       string // "[lo, hi]"
}

// Row is one variable across all selected models.
type Row struct {
	Variable string
	Cells    []Cell
}

// Table is a variables x models grid ready for display.
type Table struct {
	Models []string
	Rows   []Row
	SEType string
	ShowCI bool
}

// BuildTable formats coefficients into a grid. Missing lookups yield blank cells.
func BuildTable(cs []Coefficient, opt TableOptions) (*Table, error) {
	if len(cs) == 0 {
		return nil, ErrNoCoefficients
	}
	seType := opt.SEType
	if seType == "" {
		seType = DefaultSEType
	}
	models := opt.Models
	if len(models) == 0 {
		models = Models(cs)
	}
	vars := opt.Variables
	if len(vars) == 0 {
		vars = Variables(cs)
	}
	dec := opt.Decimals
	if dec <= 0 {
		dec = 2
	}

	t := &Table{Models: models, SEType: seType, ShowCI: opt.ShowCI}
	for _, v := range vars {
		row := Row{Variable: v, Cells: make([]Cell, len(models))}
		for j, m := range models {
			c, ok := Lookup(cs, v, m, seType)
			if !ok {
				continue
			}
			row.Cells[j] = Cell{
				Found:    true,
				Estimate: FmtCoefN(c.Estimate, dec) + SigStars(c.PValue),
				StdError: "(" + FmtCoefN(c.StdError, dec) + ")",
				CI:       fmt.Sprintf("[%s, %s]", FmtCoefN(c.CILower, dec), FmtCoefN(c.CIUpper, dec)),
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// lines returns the display lines for each variable: estimate, (se) and optionally CI.
func (t *Table) lines() [][]string {
	var out [][]string
	for _, r := range t.Rows {
		est := []string{r.Variable}
		se := []string{""}
		ci := []string{""}
		for _, c := range r.Cells {
			est = append(est, c.Estimate)
			se = append(se, c.StdError)
			ci = append(ci, c.CI)
		}
		out = append(out, est, se)
		if t.ShowCI {
			out = append(out, ci)
		}
	}
	return out
}

// Markdown renders the table with a significance legend.
func (t *Table) Markdown() string {
	var b strings.Builder
	b.WriteString("| Variable |")
	for _, m := range t.Models {
		b.WriteString(" ")
		b.WriteString(m)
		b.WriteString(" |")
	}
	b.WriteString("\n|---|")
	for range t.Models {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, line := range t.lines() {
		b.WriteString("|")
		for _, cell := range line {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(cell, "|", "/"))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nStandard errors: %s. * p<0.05, ** p<0.01, *** p<0.001, ns not significant.\n", t.SEType))
	return b.String()
}

const xlsxSheet = "Regression"

// WriteXLSX writes the table as a single-sheet workbook.
func (t *Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []any{"Variable"}
	for _, m := range t.Models {
		header = append(header, m)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, line := range t.lines() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := make([]any, len(line))
		for j, s := range line {
			vals[j] = s
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &vals); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(xlsxSheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
