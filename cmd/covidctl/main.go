// Command covidctl inspects the COVID Tracking Project daily feeds from the
// terminal: it charts a selection as a sparkline, lists the tracked regions,
// captures trimmed test fixtures, and validates fixture files.
//
// Usage:
//
//	covidctl chart --scope CA --metric positive --window month
//	covidctl regions
//	covidctl fixture --days 14 --out-dir internal/adapter/covidtracking/testdata
//	covidctl validate testdata/us_daily.json testdata/states_daily.json
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
