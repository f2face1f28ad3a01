package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	"github.com/couchcryptid/covid-tracker-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	national    []domain.Record
	states      []domain.Record
	nationalErr error
	statesErr   error
	calls       atomic.Int64
	// release, when set, holds FetchNational until closed.
	release chan struct{}
}

func (m *mockSource) FetchNational(ctx context.Context) ([]domain.Record, error) {
	m.calls.Add(1)
	if m.release != nil {
		<-m.release
	}
	return m.national, m.nationalErr
}

func (m *mockSource) FetchByState(_ context.Context) ([]domain.Record, error) {
	return m.states, m.statesErr
}

type mockPublisher struct {
	mu        sync.Mutex
	published map[string]int
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, feed string, records []domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.published == nil {
		m.published = make(map[string]int)
	}
	m.published[feed] += len(records)
	return nil
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func newestFirst(state string, n int) []domain.Record {
	start := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Record, n)
	for i := range n {
		out[i] = domain.Record{
			Date:             start.AddDate(0, 0, n-1-i),
			State:            state,
			PositiveIncrease: int64(n - i),
		}
	}
	return out
}

func statesFeed() []domain.Record {
	return append(newestFirst("CA", 4), newestFirst("NY", 2)...)
}

// --- tests ---

func TestRefresher_RefreshOnce_IngestsBothFeeds(t *testing.T) {
	store := domain.NewRecordStore()
	metrics := newTestMetrics()
	src := &mockSource{national: newestFirst("", 5), states: statesFeed()}

	r := pipeline.New(src, store, slog.Default(), metrics)
	require.NoError(t, r.RefreshOnce(context.Background()))

	national, ok := store.National()
	require.True(t, ok)
	require.Len(t, national, 5)
	assert.True(t, national[0].Date.Before(national[4].Date), "store keeps oldest first")

	assert.Equal(t, []string{"CA", "NY"}, store.RegionCodes())
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RegionsTracked), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(metrics.RecordsIngested.WithLabelValues(pipeline.FeedNational)), 0)
	assert.InDelta(t, 6, testutil.ToFloat64(metrics.RecordsIngested.WithLabelValues(pipeline.FeedStates)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues(pipeline.FeedNational, "success")), 0)
}

func TestRefresher_RefreshOnce_OneFeedFailsOtherIngests(t *testing.T) {
	store := domain.NewRecordStore()
	metrics := newTestMetrics()
	src := &mockSource{
		nationalErr: domain.ErrFetchFailed,
		states:      statesFeed(),
	}

	r := pipeline.New(src, store, slog.Default(), metrics)
	err := r.RefreshOnce(context.Background())
	require.ErrorIs(t, err, domain.ErrFetchFailed)

	assert.False(t, store.NationalReady())
	assert.True(t, store.StatesReady())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues(pipeline.FeedNational, "error")), 0)
	assert.Error(t, r.CheckReadiness(context.Background()))
}

func TestRefresher_RefreshOnce_FailureKeepsPreviousData(t *testing.T) {
	store := domain.NewRecordStore()
	src := &mockSource{national: newestFirst("", 3), states: statesFeed()}
	r := pipeline.New(src, store, slog.Default(), newTestMetrics())
	require.NoError(t, r.RefreshOnce(context.Background()))

	src.national = nil
	src.nationalErr = errors.New("boom")
	src.states = nil
	require.Error(t, r.RefreshOnce(context.Background()))

	national, ok := store.National()
	require.True(t, ok)
	assert.Len(t, national, 3)
	assert.Equal(t, []string{"CA", "NY"}, store.RegionCodes())
}

func TestRefresher_RefreshOnce_EmptyFeedIsNoop(t *testing.T) {
	store := domain.NewRecordStore()
	metrics := newTestMetrics()
	r := pipeline.New(&mockSource{}, store, slog.Default(), metrics)

	require.NoError(t, r.RefreshOnce(context.Background()))
	assert.False(t, store.NationalReady())
	assert.False(t, store.StatesReady())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues(pipeline.FeedStates, "empty")), 0)
}

func TestRefresher_RefreshOnce_Publishes(t *testing.T) {
	metrics := newTestMetrics()
	pub := &mockPublisher{}
	src := &mockSource{national: newestFirst("", 5), states: statesFeed()}

	r := pipeline.New(src, domain.NewRecordStore(), slog.Default(), metrics, pipeline.WithPublisher(pub))
	require.NoError(t, r.RefreshOnce(context.Background()))

	assert.Equal(t, map[string]int{pipeline.FeedNational: 5, pipeline.FeedStates: 6}, pub.published)
	assert.InDelta(t, 11, testutil.ToFloat64(metrics.RecordsPublished), 0)
}

func TestRefresher_RefreshOnce_PublishErrorDoesNotFailIngest(t *testing.T) {
	store := domain.NewRecordStore()
	metrics := newTestMetrics()
	pub := &mockPublisher{err: errors.New("broker down")}
	src := &mockSource{national: newestFirst("", 2), states: statesFeed()}

	r := pipeline.New(src, store, slog.Default(), metrics, pipeline.WithPublisher(pub))
	require.NoError(t, r.RefreshOnce(context.Background()))

	assert.True(t, store.NationalReady())
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.PublishErrors), 0)
}

func TestRefresher_RefreshOnce_CancelledContextStillCompletes(t *testing.T) {
	store := domain.NewRecordStore()
	src := &mockSource{national: newestFirst("", 2), release: make(chan struct{})}
	r := pipeline.New(src, store, slog.Default(), newTestMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.RefreshOnce(ctx) }()

	cancel()
	close(src.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RefreshOnce did not return")
	}
	assert.True(t, store.NationalReady())
}

func TestRefresher_CheckReadiness(t *testing.T) {
	store := domain.NewRecordStore()
	r := pipeline.New(&mockSource{national: newestFirst("", 1)}, store, slog.Default(), newTestMetrics())

	require.Error(t, r.CheckReadiness(context.Background()))
	require.NoError(t, r.RefreshOnce(context.Background()))
	assert.NoError(t, r.CheckReadiness(context.Background()))
}

func TestRefresher_Run_NoIntervalFetchesOnce(t *testing.T) {
	src := &mockSource{national: newestFirst("", 1)}
	metrics := newTestMetrics()
	r := pipeline.New(src, domain.NewRecordStore(), slog.Default(), metrics)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, int64(1), src.calls.Load())
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.RefreshRunning), 0)
}

func TestRefresher_Run_RefreshesOnTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &mockSource{national: newestFirst("", 1)}
	r := pipeline.New(src, domain.NewRecordStore(), slog.Default(), newTestMetrics(),
		pipeline.WithClock(clock),
		pipeline.WithInterval(time.Hour),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, int64(1), src.calls.Load())

	clock.Advance(time.Hour)
	require.Eventually(t, func() bool { return src.calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
