package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the tracker.
type Metrics struct {
	// Data source metrics.
	FetchRequests   *prometheus.CounterVec   // labels: feed={national,states}, outcome={success,error,empty}
	FetchDuration   *prometheus.HistogramVec // labels: feed
	RecordsIngested *prometheus.CounterVec   // labels: feed
	RegionsTracked  prometheus.Gauge
	RefreshRunning  prometheus.Gauge

	// Chart metrics.
	SeriesCache    *prometheus.CounterVec // labels: result={hit,miss}
	SeriesRequests *prometheus.CounterVec // labels: outcome={ok,unavailable,bad_request,out_of_range,error}

	// Record publishing metrics.
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all tracker metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "fetch_requests_total",
			Help:      "Data source fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "covid_tracker",
			Name:      "fetch_duration_seconds",
			Help:      "Data source fetch duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		RecordsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "records_ingested_total",
			Help:      "Records stored per feed across all refreshes.",
		}, []string{"feed"}),
		RegionsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_tracker",
			Name:      "regions_tracked",
			Help:      "Number of region codes in the latest per-state feed.",
		}),
		RefreshRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_tracker",
			Name:      "refresher_running",
			Help:      "1 when the refresher is active, 0 when shut down.",
		}),
		SeriesCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "series_cache_total",
			Help:      "Series projection cache lookups by result.",
		}, []string{"result"}),
		SeriesRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "series_requests_total",
			Help:      "Series API requests by outcome.",
		}, []string{"outcome"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "records_published_total",
			Help:      "Records written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
	}

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.RecordsIngested,
		m.RegionsTracked,
		m.RefreshRunning,
		m.SeriesCache,
		m.SeriesRequests,
		m.RecordsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "covid_tracker", Name: "fetch_requests_total"}, []string{"feed", "outcome"}),
		FetchDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "covid_tracker", Name: "fetch_duration_seconds"}, []string{"feed"}),
		RecordsIngested:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "covid_tracker", Name: "records_ingested_total"}, []string{"feed"}),
		RegionsTracked:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "covid_tracker", Name: "regions_tracked"}),
		RefreshRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "covid_tracker", Name: "refresher_running"}),
		SeriesCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "covid_tracker", Name: "series_cache_total"}, []string{"result"}),
		SeriesRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "covid_tracker", Name: "series_requests_total"}, []string{"outcome"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "covid_tracker", Name: "records_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "covid_tracker", Name: "publish_errors_total"}),
	}
}
