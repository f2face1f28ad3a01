package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/covid-tracker-service/internal/adapter/terminal"
	"github.com/couchcryptid/covid-tracker-service/internal/chart"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type chartOptions struct {
	scope  string
	metric string
	window string
	scrub  int
	width  int
}

func newChartCmd(root *rootOptions) *cobra.Command {
	opts := &chartOptions{}
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a selection as a sparkline with its info labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChart(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.scope, "scope", "", "region code; empty or unknown charts the national aggregate")
	cmd.Flags().StringVar(&opts.metric, "metric", "positive", "negative, positive, or death")
	cmd.Flags().StringVar(&opts.window, "window", "max", "week, month, or max")
	cmd.Flags().IntVar(&opts.scrub, "scrub", -1, "point index to label; -1 labels the newest point")
	cmd.Flags().IntVar(&opts.width, "width", terminal.DefaultWidth, "sparkline width in columns")
	return cmd
}

func runChart(cmd *cobra.Command, root *rootOptions, opts *chartOptions) error {
	sel, err := domain.ParseSelection(strings.ToUpper(opts.scope), opts.metric, opts.window)
	if err != nil {
		return err
	}

	store, err := root.load(cmd.Context())
	if !store.NationalReady() {
		return feedUnavailable("national", err)
	}
	if err != nil {
		root.logger.Warn("per-state feed unavailable, charting national data", "error", err)
	}

	out := cmd.OutOrStdout()
	spark := terminal.NewSparkline(out, opts.width)

	printHeader(out, sel, store)
	ctrl := chart.NewController(chart.StoreProjector{Store: store},
		chart.WithSelection(sel),
		chart.WithView(spark),
	)
	if opts.scrub >= 0 {
		if _, err := ctrl.Scrub(opts.scrub); err != nil {
			return err
		}
	}
	if ctrl.Selection().Scope != sel.Scope {
		root.logger.Debug("unknown scope, charting national data", "scope", sel.Scope)
	}
	printLabels(out, ctrl.View())
	return nil
}

func printHeader(w io.Writer, sel domain.Selection, store *domain.RecordStore) {
	scope := store.ResolveScope(sel.Scope)
	color.New(color.Bold).Fprintf(w, "%s  %s  %s\n", domain.ScopeLabel(scope), sel.Metric, sel.Window)
}

func printLabels(w io.Writer, v chart.View) {
	if v.Label == nil {
		fmt.Fprintln(w, "no data for this selection")
		return
	}
	fmt.Fprintf(w, "%s  %s\n", v.Label.Date, v.Label.Value)
	fmt.Fprintf(w, "range %s to %s over %d days\n",
		domain.FormatValue(v.Series.Range.Min), domain.FormatValue(v.Series.Range.Max), v.Series.Len())
}
