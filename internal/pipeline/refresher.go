package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// Feed names used in logs, metrics, and published messages.
const (
	FeedNational = "national"
	FeedStates   = "states"
)

// DataSource fetches the two raw feeds. Both return records newest first.
type DataSource interface {
	FetchNational(ctx context.Context) ([]domain.Record, error)
	FetchByState(ctx context.Context) ([]domain.Record, error)
}

// RecordPublisher forwards freshly ingested records downstream.
type RecordPublisher interface {
	Publish(ctx context.Context, feed string, records []domain.Record) error
}

// Refresher fetches both feeds into a RecordStore, once or on an interval.
type Refresher struct {
	source    DataSource
	store     *domain.RecordStore
	publisher RecordPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithPublisher publishes every successful ingest. A nil publisher disables publishing.
func WithPublisher(p RecordPublisher) Option {
	return func(r *Refresher) { r.publisher = p }
}

// WithInterval re-fetches both feeds every d. Zero fetches once.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) { r.interval = d }
}

// WithClock replaces the real clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(r *Refresher) { r.clock = c }
}

// New creates a Refresher writing into store.
func New(source DataSource, store *domain.RecordStore, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Refresher {
	r := &Refresher{
		source:  source,
		store:   store,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CheckReadiness returns nil once the national feed has been ingested. The
// chart defaults to the national scope, so nothing is servable before that.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.store.NationalReady() {
		return errors.New("national data has not been fetched yet")
	}
	return nil
}

// Run refreshes immediately and then on every interval tick until ctx is
// cancelled. With no interval it returns after the first refresh. Fetch
// failures are logged and never stop the loop.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	r.metrics.RefreshRunning.Set(1)
	defer r.metrics.RefreshRunning.Set(0)

	r.refreshAndLog(ctx)
	if r.interval <= 0 {
		return nil
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			r.refreshAndLog(ctx)
		}
	}
}

// RefreshOnce fetches both feeds concurrently and ingests each one as soon as
// it arrives. Each fetch writes only its own store slot, so neither waits on
// or cancels the other. In-flight fetches are detached from ctx cancellation
// and finish on their own; the data source's timeout bounds them. It returns
// the first fetch failure, after both fetches have finished.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	fetchCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.Go(func() error {
		return r.load(fetchCtx, FeedNational, r.source.FetchNational, r.store.IngestNational)
	})
	g.Go(func() error {
		return r.load(fetchCtx, FeedStates, r.source.FetchByState, r.store.IngestStates)
	})
	return g.Wait()
}

func (r *Refresher) refreshAndLog(ctx context.Context) {
	if err := r.RefreshOnce(ctx); err != nil {
		r.logger.Debug("refresh finished with errors", "error", err)
	}
}

func (r *Refresher) load(
	ctx context.Context,
	feed string,
	fetch func(context.Context) ([]domain.Record, error),
	ingest func([]domain.Record),
) error {
	start := r.clock.Now()
	records, err := fetch(ctx)
	r.metrics.FetchDuration.WithLabelValues(feed).Observe(r.clock.Since(start).Seconds())

	if err != nil {
		r.metrics.FetchRequests.WithLabelValues(feed, "error").Inc()
		r.logger.Error("fetch failed", "feed", feed, "error", err)
		return err
	}
	if len(records) == 0 {
		r.metrics.FetchRequests.WithLabelValues(feed, "empty").Inc()
		r.logger.Warn("feed returned no records, keeping previous data", "feed", feed)
		return nil
	}

	ingest(records)
	r.metrics.FetchRequests.WithLabelValues(feed, "success").Inc()
	r.metrics.RecordsIngested.WithLabelValues(feed).Add(float64(len(records)))
	if feed == FeedStates {
		r.metrics.RegionsTracked.Set(float64(len(r.store.RegionCodes())))
	}
	r.logger.Info("feed ingested", "feed", feed, "records", len(records), "generation", r.store.Generation())

	r.publish(ctx, feed, records)
	return nil
}

func (r *Refresher) publish(ctx context.Context, feed string, records []domain.Record) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, feed, records); err != nil {
		r.metrics.PublishErrors.Inc()
		r.logger.Warn("publish failed", "feed", feed, "records", len(records), "error", err)
		return
	}
	r.metrics.RecordsPublished.Add(float64(len(records)))
}
