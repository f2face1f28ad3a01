package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usDaily = `[
  {"date": 20200305, "state": "", "positiveIncrease": 1234567, "negativeIncrease": 10, "deathIncrease": 3},
  {"date": 20200304, "positiveIncrease": 20, "negativeIncrease": 9, "deathIncrease": 2},
  {"date": 20200303, "positiveIncrease": 10, "negativeIncrease": 8, "deathIncrease": null}
]`

const statesDaily = `[
  {"date": 20200305, "state": "CA", "positiveIncrease": 7},
  {"date": 20200305, "state": "NY", "positiveIncrease": 9},
  {"date": 20200304, "state": "CA", "positiveIncrease": 5},
  {"date": 20200303, "state": "CA", "positiveIncrease": -2}
]`

func feedServer(t *testing.T, states string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/us/daily.json":
			_, _ = w.Write([]byte(usDaily))
		case "/states/daily.json":
			if states == "" {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(states))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestChart_Defaults(t *testing.T) {
	srv := feedServer(t, statesDaily)

	out, err := execute(t, "chart", "--api-url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "All (Nationwide)  positive  max")
	assert.Contains(t, out, "Mar 05, 2020  1,234,567")
	assert.Contains(t, out, "range 10 to 1,234,567 over 3 days")
}

func TestChart_StateScrub(t *testing.T) {
	srv := feedServer(t, statesDaily)

	out, err := execute(t, "chart", "--api-url", srv.URL, "--scope", "CA", "--window", "week", "--scrub", "0")
	require.NoError(t, err)

	assert.Contains(t, out, "CA  positive  week")
	assert.Contains(t, out, "Mar 03, 2020  -2")
}

func TestChart_ScrubOutOfRange(t *testing.T) {
	srv := feedServer(t, statesDaily)

	_, err := execute(t, "chart", "--api-url", srv.URL, "--scrub", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestChart_StatesDownFallsBackToNational(t *testing.T) {
	srv := feedServer(t, "")

	out, err := execute(t, "chart", "--api-url", srv.URL, "--scope", "CA")
	require.NoError(t, err)
	assert.Contains(t, out, "All (Nationwide)")
}

func TestChart_BadMetric(t *testing.T) {
	_, err := execute(t, "chart", "--metric", "hospitalized")
	assert.Error(t, err)
}

func TestRegions(t *testing.T) {
	srv := feedServer(t, statesDaily)

	out, err := execute(t, "regions", "--api-url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "All (Nationwide)")
	assert.Contains(t, out, "CA")
	assert.Contains(t, out, "Mar 03, 2020")
	assert.Contains(t, out, "NY")
}

func TestRegions_StatesUnavailable(t *testing.T) {
	srv := feedServer(t, "")

	_, err := execute(t, "regions", "--api-url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "per-state feed unavailable")
}

func TestFixtureThenValidate(t *testing.T) {
	srv := feedServer(t, statesDaily)
	dir := t.TempDir()

	out, err := execute(t, "fixture", "--api-url", srv.URL, "--out-dir", dir, "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "us_daily.json (2 rows)")
	assert.Contains(t, out, "states_daily.json (3 rows)")

	data, err := os.ReadFile(filepath.Join(dir, "states_daily.json"))
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "NY", rows[1]["state"])

	out, err = execute(t, "validate",
		filepath.Join(dir, "us_daily.json"),
		filepath.Join(dir, "states_daily.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "(3 records, 2 regions)")
}

func TestValidate_ReportsProblems(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[
  {"date": 20200303, "state": "CA"},
  {"date": 20200304, "state": "CA"},
  {"date": 20200304, "state": "CA"},
  {"date": 20201340, "state": "NY"}
]`), 0o644))
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))

	out, err := execute(t, "validate", bad, empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 files failed")
	assert.Contains(t, out, "row 3")
	assert.Contains(t, out, "want newest first")
	assert.Contains(t, out, "duplicate day Mar 04, 2020")
	assert.Contains(t, out, "no records")
}

func TestTrimFeed_KeepsAllWhenDaysZero(t *testing.T) {
	out, rows, err := trimFeed([]byte(usDaily), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Contains(t, string(out), "20200303")
}
