package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/spreaddash-cli/internal/csvload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const masterCSV = `date,country,country_group,debt_gdp,deficit_gdp,gdp_growth,unemployment,inflation,spread_bps,bond_yield,ecb_rate,crisis_period,post_omt,giips,year,quarter,period
2010-03-31,Greece,GIIPS,129.7,-11.2,-2.3,11.9,3.1,301.25,6.24,1,1,0,1,2010,1,crisis
2010-03-31,Germany,Core,80.1,-4.1,0.7,7.3,0.9,0,3.12,1,1,0,0,2010,1,crisis
2013-06-30,Italy,GIIPS,,-2.9,-0.4,12.1,1.2,280.3333,4.38,0.5,0,1,1,2013,2,post-omt
`

func parse(t *testing.T, text string) *csvload.Table {
	t.Helper()
	tbl, err := csvload.ParseString(text)
	require.NoError(t, err)
	return tbl
}

func TestDecodeMaster(t *testing.T) {
	rows, err := DecodeMaster(parse(t, masterCSV), DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	gr := rows[0]
	assert.Equal(t, "2010-03-31", gr.Date)
	assert.Equal(t, "Greece", gr.Country)
	assert.Equal(t, "GIIPS", gr.CountryGroup)
	assert.Equal(t, 129.7, gr.DebtGDP)
	assert.Equal(t, 301.25, gr.SpreadBps)
	assert.Equal(t, 2010.0, gr.Year)
	assert.Equal(t, "crisis", gr.Period)

	assert.True(t, math.IsNaN(rows[2].DebtGDP), "empty cell should decode as NaN")
}

func TestDecodeMasterMalformedCell(t *testing.T) {
	text := "country,spread_bps\nGreece,n/a\nSpain,120\n"

	rows, err := DecodeMaster(parse(t, text), DecodeOptions{})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rows[0].SpreadBps))
	assert.Equal(t, 120.0, rows[1].SpreadBps)
	assert.True(t, math.IsNaN(rows[1].DebtGDP), "missing column should decode as NaN")

	_, err = DecodeMaster(parse(t, text), DecodeOptions{Strict: true})
	var ce *CellError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Row)
	assert.Equal(t, "spread_bps", ce.Column)
	assert.Equal(t, "n/a", ce.Raw)
	assert.Contains(t, ce.Error(), `row 1, column "spread_bps"`)
}

func TestMasterRoundTrip(t *testing.T) {
	rows, err := DecodeMaster(parse(t, masterCSV), DecodeOptions{Strict: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMasterCSV(&buf, rows))

	again, err := DecodeMaster(parse(t, buf.String()), DecodeOptions{Strict: true})
	require.NoError(t, err)
	require.Len(t, again, len(rows))
	for i := range rows {
		for _, name := range Indicators() {
			want, _ := rows[i].Indicator(name)
			got, _ := again[i].Indicator(name)
			if math.IsNaN(want) {
				assert.True(t, math.IsNaN(got), "row %d %s", i, name)
				continue
			}
			assert.InDelta(t, want, got, 1e-12, "row %d %s", i, name)
		}
		assert.Equal(t, rows[i].Country, again[i].Country)
		assert.Equal(t, rows[i].Date, again[i].Date)
	}
}

func TestDecodeSpreads(t *testing.T) {
	text := "date,Austria,France,Germany,Greece,Ireland,Italy,Netherlands,Portugal,Spain\n" +
		"2010-01-04,45,30,0,250,150,80,20,110,60\n" +
		"2010-01-05,46,31,0,,152,81,NaN,112,61\n"
	rows, err := DecodeSpreads(parse(t, text), DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	v, ok := rows[0].Spread("Greece")
	assert.True(t, ok)
	assert.Equal(t, 250.0, v)
	assert.Len(t, rows[0].Spreads, 9)

	_, ok = rows[1].Spread("Greece")
	assert.False(t, ok)
	_, ok = rows[1].Spread("Netherlands")
	assert.False(t, ok)

	var buf bytes.Buffer
	require.NoError(t, WriteSpreadsCSV(&buf, rows))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2010-01-05,46,31,0,,152,81,,112,61", lines[2])
}

func TestDecodeSpreadsDropsInfinity(t *testing.T) {
	rows, err := DecodeSpreads(parse(t, "date,Greece,Germany\n2010-01-04,Infinity,0\n2010-01-05,-Infinity,1\n"), DecodeOptions{Strict: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	_, ok := rows[0].Spread("Greece")
	assert.False(t, ok)
	_, ok = rows[1].Spread("Greece")
	assert.False(t, ok)
	assert.Equal(t, map[string]float64{"Germany": 0}, rows[0].Spreads)
}

func TestMarshalJSONNulls(t *testing.T) {
	rows, err := DecodeMaster(parse(t, masterCSV), DecodeOptions{})
	require.NoError(t, err)
	b, err := json.Marshal(rows[2])
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Nil(t, m["debt_gdp"])
	assert.Equal(t, "Italy", m["country"])
	assert.Equal(t, 280.3333, m["spread_bps"])
}

func TestIndicatorFunc(t *testing.T) {
	fn, err := IndicatorFunc("bond_yield")
	require.NoError(t, err)
	assert.Equal(t, 6.24, fn(MasterRow{BondYield: 6.24}))

	_, err = IndicatorFunc("spread")
	assert.Error(t, err)
}

func TestCountryVocabulary(t *testing.T) {
	assert.True(t, IsGIIPS("Portugal"))
	assert.False(t, IsGIIPS("Germany"))
	assert.True(t, IsCore("Austria"))
	assert.Len(t, Countries, len(GIIPS)+len(Core))
	for _, c := range Countries {
		assert.NotEmpty(t, CountryColors[c], c)
	}
}
