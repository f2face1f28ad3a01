package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	for _, m := range Metrics {
		got, err := ParseMetric(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMetric(" Deaths ")
	require.NoError(t, err)
	assert.Equal(t, MetricDeath, got)

	_, err = ParseMetric("hospitalized")
	require.ErrorIs(t, err, ErrUnknownMetric)
}

func TestParseTimeWindow(t *testing.T) {
	for _, w := range TimeWindows {
		got, err := ParseTimeWindow(w.String())
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	aliases := map[string]TimeWindow{"7": WindowWeek, "30": WindowMonth, "all": WindowMax}
	for in, want := range aliases {
		got, err := ParseTimeWindow(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTimeWindow("year")
	require.ErrorIs(t, err, ErrUnknownWindow)
}

func TestTimeWindowDays(t *testing.T) {
	assert.Equal(t, 7, WindowWeek.Days())
	assert.Equal(t, 30, WindowMonth.Days())
	assert.Equal(t, -1, WindowMax.Days())
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("CA", "", "")
	require.NoError(t, err)
	assert.Equal(t, Selection{Scope: "CA", Metric: MetricPositive, Window: WindowMax}, sel)

	sel, err = ParseSelection("", "death", "week")
	require.NoError(t, err)
	assert.Equal(t, Selection{Scope: NationalScope, Metric: MetricDeath, Window: WindowWeek}, sel)

	_, err = ParseSelection("", "bogus", "")
	require.ErrorIs(t, err, ErrUnknownMetric)

	_, err = ParseSelection("", "", "bogus")
	require.ErrorIs(t, err, ErrUnknownWindow)
}

func TestScopeLabel(t *testing.T) {
	assert.Equal(t, NationalLabel, ScopeLabel(NationalScope))
	assert.Equal(t, "NY", ScopeLabel("NY"))
}

func TestMetricValue(t *testing.T) {
	r := Record{NegativeIncrease: 10, PositiveIncrease: 20, DeathIncrease: 3}

	assert.Equal(t, int64(10), MetricNegative.Value(r))
	assert.Equal(t, int64(20), MetricPositive.Value(r))
	assert.Equal(t, int64(3), MetricDeath.Value(r))
	assert.Equal(t, int64(0), Metric(99).Value(r), "unknown metrics read nothing")
}
