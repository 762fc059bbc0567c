package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// MasterRow is one country-quarter observation. Numeric fields are NaN when missing.
type MasterRow struct {
	Date         string
	Country      string
	CountryGroup string
	DebtGDP      float64
	DeficitGDP   float64
	GDPGrowth    float64
	Unemployment float64
	Inflation    float64
	SpreadBps    float64
	BondYield    float64
	ECBRate      float64
	CrisisPeriod float64
	PostOMT      float64
	GIIPS        float64
	Year         float64
	Quarter      float64
	Period       string
}

// SpreadRow is one date's bond spread per country. Countries without a value are absent.
type SpreadRow struct {
	Date    string
	Spreads map[string]float64
}

// Spread returns the spread for country and whether it was present.
func (r SpreadRow) Spread(country string) (float64, bool) {
	v, ok := r.Spreads[country]
	return v, ok
}

type textField struct {
	name string
	ptr  func(*MasterRow) *string
}

type numField struct {
	name string
	ptr  func(*MasterRow) *float64
}

var masterText = []textField{
	{"date", func(r *MasterRow) *string { return &r.Date }},
	{"country", func(r *MasterRow) *string { return &r.Country }},
	{"country_group", func(r *MasterRow) *string { return &r.CountryGroup }},
	{"period", func(r *MasterRow) *string { return &r.Period }},
}

var masterNumeric = []numField{
	{"debt_gdp", func(r *MasterRow) *float64 { return &r.DebtGDP }},
	{"deficit_gdp", func(r *MasterRow) *float64 { return &r.DeficitGDP }},
	{"gdp_growth", func(r *MasterRow) *float64 { return &r.GDPGrowth }},
	{"unemployment", func(r *MasterRow) *float64 { return &r.Unemployment }},
	{"inflation", func(r *MasterRow) *float64 { return &r.Inflation }},
	{"spread_bps", func(r *MasterRow) *float64 { return &r.SpreadBps }},
	{"bond_yield", func(r *MasterRow) *float64 { return &r.BondYield }},
	{"ecb_rate", func(r *MasterRow) *float64 { return &r.ECBRate }},
	{"crisis_period", func(r *MasterRow) *float64 { return &r.CrisisPeriod }},
	{"post_omt", func(r *MasterRow) *float64 { return &r.PostOMT }},
	{"giips", func(r *MasterRow) *float64 { return &r.GIIPS }},
	{"year", func(r *MasterRow) *float64 { return &r.Year }},
	{"quarter", func(r *MasterRow) *float64 { return &r.Quarter }},
}

// MasterColumns lists the master panel columns in file order.
func MasterColumns() []string {
	return []string{
		"date", "country", "country_group", "debt_gdp", "deficit_gdp", "gdp_growth",
		"unemployment", "inflation", "spread_bps", "bond_yield", "ecb_rate",
		"crisis_period", "post_omt", "giips", "year", "quarter", "period",
	}
}

// Indicators lists the numeric master columns.
func Indicators() []string {
	out := make([]string, len(masterNumeric))
	for i, f := range masterNumeric {
		out[i] = f.name
	}
	return out
}

// Indicator returns the named numeric field of r.
func (r MasterRow) Indicator(name string) (float64, bool) {
	for _, f := range masterNumeric {
		if f.name == name {
			return *f.ptr(&r), true
		}
	}
	return math.NaN(), false
}

// Text returns the named categorical field of r.
func (r MasterRow) Text(name string) (string, bool) {
	for _, f := range masterText {
		if f.name == name {
			return *f.ptr(&r), true
		}
	}
	return "", false
}

// IndicatorFunc returns an accessor for a numeric column, for use with stats.Column.
func IndicatorFunc(name string) (func(MasterRow) float64, error) {
	for _, f := range masterNumeric {
		if f.name == name {
			ptr := f.ptr
			return func(r MasterRow) float64 { return *ptr(&r) }, nil
		}
	}
	return nil, fmt.Errorf("unknown indicator %q (have %s)", name, strings.Join(Indicators(), ", "))
}

// MarshalJSON writes missing numbers as null.
func (r MasterRow) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(masterText)+len(masterNumeric))
	for _, f := range masterText {
		m[f.name] = *f.ptr(&r)
	}
	for _, f := range masterNumeric {
		m[f.name] = nullable(*f.ptr(&r))
	}
	return json.Marshal(m)
}

// MarshalJSON writes the date plus every present country.
func (r SpreadRow) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Spreads)+1)
	m["date"] = r.Date
	for k, v := range r.Spreads {
		m[k] = nullable(v)
	}
	return json.Marshal(m)
}

func nullable(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
