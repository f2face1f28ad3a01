// Package domain models daily COVID statistics and the view-model engine that
// turns them into chartable series.
//
// # Data Source
//
// Records originate from the COVID Tracking Project v1 API
// (https://api.covidtracking.com/v1/). Two feeds are consumed:
//
//	us/daily.json      national aggregate, one record per day
//	states/daily.json  one record per state (and territory) per day
//
// Both feeds are delivered newest-first. Ingestion reverses them so every
// stored series runs oldest to newest.
//
// # Scopes
//
// A scope is either the national aggregate, represented by the empty region
// code [NationalScope], or a two-letter region code such as "CA". A scope that
// does not name a stored region resolves to the national aggregate rather than
// failing; the scope picker's "All (Nationwide)" entry relies on this.
//
// # Metrics and Windows
//
// Three metrics are charted, each read straight from the daily increase
// columns of the feed:
//
//	negative  negativeIncrease  new negative test results
//	positive  positiveIncrease  new positive test results
//	death     deathIncrease     new deaths
//
// Upstream corrections occasionally publish negative increases. They are
// passed through unmodified.
//
// Three time windows are offered: the last 7 entries, the last 30 entries, or
// the whole series. A window larger than the series yields the whole series.
//
// # Projection and Scrubbing
//
// [Project] is a pure function from (series, metric, window) to the points to
// chart and their value range. [Resolve] maps a scrubbed index in a projected
// series back to its source [Record] and formats the labels shown beneath the
// chart: the value with en-US grouping separators and the date as
// "Mar 14, 2020".
package domain
