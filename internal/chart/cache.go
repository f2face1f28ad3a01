package chart

import (
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey identifies one projection of one store generation. Entries from an
// older generation are never looked up again and age out of the LRU.
type cacheKey struct {
	generation uint64
	sel        domain.Selection
}

// SeriesCache is a Projector that memoizes projections in an LRU cache.
type SeriesCache struct {
	store   *domain.RecordStore
	cache   *lru.Cache[cacheKey, domain.Series]
	metrics *observability.Metrics
}

// NewSeriesCache creates a cache holding up to maxEntries projections.
func NewSeriesCache(store *domain.RecordStore, maxEntries int, metrics *observability.Metrics) (*SeriesCache, error) {
	cache, err := lru.New[cacheKey, domain.Series](maxEntries)
	if err != nil {
		return nil, err
	}
	return &SeriesCache{store: store, cache: cache, metrics: metrics}, nil
}

func (c *SeriesCache) Project(sel domain.Selection) (domain.Selection, []domain.Record, domain.Series) {
	scope, records, gen := c.store.Snapshot(sel.Scope)
	sel.Scope = scope

	key := cacheKey{generation: gen, sel: sel}
	if series, ok := c.cache.Get(key); ok {
		c.metrics.SeriesCache.WithLabelValues("hit").Inc()
		return sel, records, series
	}
	c.metrics.SeriesCache.WithLabelValues("miss").Inc()

	series := domain.Project(records, sel.Metric, sel.Window)
	// Nothing is cached before the first ingest so the key space stays clean.
	if gen != 0 {
		c.cache.Add(key, series)
	}
	return sel, records, series
}

// Len returns the number of cached projections.
func (c *SeriesCache) Len() int {
	return c.cache.Len()
}
