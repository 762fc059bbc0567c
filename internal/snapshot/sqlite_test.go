package snapshot

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/spreaddash-cli/internal/csvload"
	"github.com/KaramelBytes/spreaddash-cli/internal/dataset"
	"github.com/KaramelBytes/spreaddash-cli/internal/regression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() Session {
	nan := math.NaN()
	return Session{
		ID: "sess-1",
		Master: []dataset.MasterRow{
			{Date: "2010-03-31", Country: "Greece", CountryGroup: "GIIPS", SpreadBps: 301, DebtGDP: nan, Period: "Crisis"},
			{Date: "2010-03-31", Country: "Germany", CountryGroup: "Core", SpreadBps: 0, DebtGDP: 82.4, Period: "Crisis"},
		},
		Spreads: []dataset.SpreadRow{
			{Date: "2010-01-04", Spreads: map[string]float64{"Greece": 250, "Germany": 0}},
			{Date: "2010-01-05", Spreads: map[string]float64{"Greece": 262}},
		},
		Coefficients: []regression.Coefficient{
			{Variable: "debt_gdp", Model: "m1", SEType: "cluster-robust", Estimate: 0.5, StdError: 0.1, CILower: 0.3, CIUpper: 0.7, PValue: 0.0004},
			{Variable: "post_omt", Model: "m2", SEType: "cluster-robust", Estimate: nan, StdError: nan, CILower: nan, CIUpper: nan, PValue: nan},
		},
	}
}

func TestWriteSession(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteSession(ctx, testSession()))
	c, err := s.SessionCounts(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, Counts{Master: 2, Spreads: 3, Coefficients: 2}, c)

	cs, err := s.Coefficients(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, 0.5, cs[0].Estimate)
	assert.True(t, math.IsNaN(cs[1].Estimate))
}

func TestWriteSessionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snap.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteSession(ctx, testSession()))
	require.NoError(t, s.WriteSession(ctx, testSession()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	c, err := s.SessionCounts(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Master)

	other, err := s.SessionCounts(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, Counts{}, other)
}

func TestWriteSessionDecodedInfinity(t *testing.T) {
	tbl, err := csvload.ParseString("date,Greece,Germany\n2010-01-04,Infinity,0\n")
	require.NoError(t, err)
	spreads, err := dataset.DecodeSpreads(tbl, dataset.DecodeOptions{})
	require.NoError(t, err)

	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	defer s.Close()
	manual := dataset.SpreadRow{Date: "2010-01-05", Spreads: map[string]float64{"Greece": math.Inf(1), "Spain": math.NaN(), "Italy": 80}}
	require.NoError(t, s.WriteSession(ctx, Session{ID: "inf", Spreads: append(spreads, manual)}))

	c, err := s.SessionCounts(ctx, "inf")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Spreads)
}

func TestWriteSessionRequiresID(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	defer s.Close()
	assert.Error(t, s.WriteSession(context.Background(), Session{}))

	_, err = Open("")
	assert.Error(t, err)
}
