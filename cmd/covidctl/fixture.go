package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/covid-tracker-service/internal/adapter/covidtracking"
	"github.com/spf13/cobra"
)

type fixtureOptions struct {
	outDir string
	days   int
}

// fixtureFiles maps each feed path to the file name its fixture is written to.
var fixtureFiles = []struct {
	path string
	file string
}{
	{path: covidtracking.NationalPath, file: "us_daily.json"},
	{path: covidtracking.StatesPath, file: "states_daily.json"},
}

func newFixtureCmd(root *rootOptions) *cobra.Command {
	opts := &fixtureOptions{}
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Fetch both feeds and write trimmed JSON fixtures",
		Long: `fixture downloads the national and per-state feeds and keeps only the
newest --days reporting days of each, preserving the API's row layout so the
files can be served back by test servers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
				return err
			}
			client := root.client()
			for _, f := range fixtureFiles {
				body, err := client.FetchRaw(cmd.Context(), f.path)
				if err != nil {
					return err
				}
				trimmed, rows, err := trimFeed(body, opts.days)
				if err != nil {
					return fmt.Errorf("trim %s: %w", f.path, err)
				}
				out := filepath.Join(opts.outDir, f.file)
				if err := os.WriteFile(out, trimmed, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows)\n", out, rows)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "testdata", "directory to write fixtures to")
	cmd.Flags().IntVar(&opts.days, "days", 30, "newest reporting days to keep; 0 keeps all")
	return cmd
}

// trimFeed keeps the rows whose date is among the newest days distinct dates
// of a raw feed body, in their original order. Rows are passed through
// undecoded apart from their date.
func trimFeed(body []byte, days int) ([]byte, int, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, 0, err
	}

	dates := make([]int, len(rows))
	for i, row := range rows {
		var d struct {
			Date int `json:"date"`
		}
		if err := json.Unmarshal(row, &d); err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", i, err)
		}
		dates[i] = d.Date
	}

	kept := rows
	if days > 0 {
		distinct := slices.Clone(dates)
		slices.Sort(distinct)
		distinct = slices.Compact(distinct)
		var cutoff int
		if len(distinct) > days {
			cutoff = distinct[len(distinct)-days]
		}
		kept = make([]json.RawMessage, 0, len(rows))
		for i, row := range rows {
			if dates[i] >= cutoff {
				kept = append(kept, row)
			}
		}
	}

	out, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		return nil, 0, err
	}
	return append(out, '\n'), len(kept), nil
}
