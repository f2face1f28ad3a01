package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/adapter/covidtracking"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	"github.com/couchcryptid/covid-tracker-service/internal/pipeline"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	apiURL  string
	timeout time.Duration
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "covidctl",
		Short: "Inspect COVID Tracking Project daily data",
		Long: `covidctl fetches the national and per-state daily feeds and works with
them from the terminal.

Example usage:
  covidctl chart                         # National positive increases, all days
  covidctl chart --scope NY --window week --metric death
  covidctl chart --scrub 0               # Label the oldest point instead of the newest
  covidctl regions                       # Table of tracked regions
  covidctl fixture --days 14             # Capture trimmed JSON fixtures
  covidctl validate testdata/*.json      # Check fixture integrity`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url",
		sharedcfg.EnvOrDefault("COVID_API_BASE_URL", "https://api.covidtracking.com/v1"), "COVID Tracking API base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-feed fetch timeout")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging to stderr")

	cmd.AddCommand(
		newChartCmd(opts),
		newRegionsCmd(opts),
		newFixtureCmd(opts),
		newValidateCmd(),
	)
	return cmd
}

func (o *rootOptions) client() *covidtracking.Client {
	return covidtracking.NewClient(o.apiURL, o.timeout, o.logger)
}

// load fetches both feeds into a fresh store. The returned error is the first
// fetch failure; the store may still hold the other feed.
func (o *rootOptions) load(ctx context.Context) (*domain.RecordStore, error) {
	store := domain.NewRecordStore()
	// Unregistered metrics: the CLI exposes no /metrics endpoint.
	r := pipeline.New(o.client(), store, o.logger, observability.NewMetricsForTesting())
	err := r.RefreshOnce(ctx)
	return store, err
}

func feedUnavailable(feed string, err error) error {
	if err == nil {
		return fmt.Errorf("%s feed returned no records", feed)
	}
	return fmt.Errorf("%s feed unavailable: %w", feed, err)
}
