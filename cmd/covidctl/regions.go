package main

import (
	"io"
	"strconv"

	"github.com/couchcryptid/covid-tracker-service/internal/chart"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func newRegionsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List tracked regions with record counts and date coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := root.load(cmd.Context())
			if !store.StatesReady() {
				return feedUnavailable("per-state", err)
			}
			renderRegions(cmd.OutOrStdout(), store)
			return nil
		},
	}
}

func renderRegions(w io.Writer, store *domain.RecordStore) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	var rows [][]string
	for _, opt := range chart.ScopeOptions(store) {
		_, records := store.Series(opt.Code)
		first, last := "-", "-"
		if len(records) > 0 {
			first = domain.FormatDate(records[0])
			last = domain.FormatDate(records[len(records)-1])
		}
		rows = append(rows, []string{opt.Label, strconv.Itoa(len(records)), first, last})
	}

	table.Header([]string{"Region", "Records", "First", "Last"})
	table.Bulk(rows)
	table.Render()
}
