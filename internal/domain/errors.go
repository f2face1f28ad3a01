package domain

import "errors"

var (
	// ErrFetchFailed reports that a data source call failed or returned no body.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrOutOfRange reports a scrub index outside the projected series.
	ErrOutOfRange = errors.New("index out of range")

	// ErrSeriesMismatch reports a projected series that is not a suffix of its source.
	ErrSeriesMismatch = errors.New("projected series does not match source")

	// ErrUnknownMetric reports a metric name ParseMetric does not recognise.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrUnknownWindow reports a time window name ParseTimeWindow does not recognise.
	ErrUnknownWindow = errors.New("unknown time window")
)
