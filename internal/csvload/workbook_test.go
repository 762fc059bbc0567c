package csvload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	b := writeWorkbook(t, [][]any{
		{"date", "country", "spread_bps"},
		{"2010-03-31", "Greece", 301.5},
		{"2010-03-31", "Germany"},
	})
	tbl, err := ParseXLSX(bytes.NewReader(b), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "country", "spread_bps"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, KindDate, tbl.Rows[0]["date"].Kind)
	assert.Equal(t, 301.5, tbl.Rows[0]["spread_bps"].Num)
	assert.True(t, tbl.Rows[1]["spread_bps"].IsNull())

	_, err = ParseXLSX(bytes.NewReader(b), "Missing")
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestLoaderWorkbookFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "coefs.xlsx")
	require.NoError(t, os.WriteFile(p, writeWorkbook(t, [][]any{
		{"variable", "estimate"},
		{"debt_gdp", 0.5},
	}), 0o644))

	tbl, err := NewLoader(0).Load(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, 0.5, tbl.Rows[0]["estimate"].Num)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, isWorkbook("data/master.XLSX"))
	assert.True(t, isWorkbook("https://example.org/m.xlsx?raw=1"))
	assert.False(t, isWorkbook("data/master.csv"))
}
