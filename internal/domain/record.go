package domain

import (
	"fmt"
	"strings"
	"time"
)

// NationalScope is the region code of the national aggregate series.
const NationalScope = ""

// NationalLabel is how the national scope is presented in the scope picker.
const NationalLabel = "All (Nationwide)"

// Record holds one day's statistics for one region.
type Record struct {
	Date             time.Time `json:"date"`  // UTC midnight of the reporting day
	State            string    `json:"state"` // NationalScope for the national aggregate
	NegativeIncrease int64     `json:"negative_increase"`
	PositiveIncrease int64     `json:"positive_increase"`
	DeathIncrease    int64     `json:"death_increase"`
}

// Metric selects which daily increase column is charted.
type Metric int

const (
	MetricNegative Metric = iota
	MetricPositive
	MetricDeath
)

// Metrics lists every metric in picker order.
var Metrics = []Metric{MetricNegative, MetricPositive, MetricDeath}

func (m Metric) String() string {
	switch m {
	case MetricNegative:
		return "negative"
	case MetricPositive:
		return "positive"
	case MetricDeath:
		return "death"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Value extracts the metric's raw daily increase from a record.
func (m Metric) Value(r Record) int64 {
	switch m {
	case MetricNegative:
		return r.NegativeIncrease
	case MetricPositive:
		return r.PositiveIncrease
	case MetricDeath:
		return r.DeathIncrease
	default:
		return 0
	}
}

// ParseMetric accepts the metric names used by String, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "negative":
		return MetricNegative, nil
	case "positive":
		return MetricPositive, nil
	case "death", "deaths":
		return MetricDeath, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
}

// TimeWindow selects how many of the most recent days are charted.
type TimeWindow int

const (
	WindowWeek TimeWindow = iota
	WindowMonth
	WindowMax
)

// TimeWindows lists every window in picker order.
var TimeWindows = []TimeWindow{WindowWeek, WindowMonth, WindowMax}

// Days returns the number of entries the window keeps, or -1 when unbounded.
func (w TimeWindow) Days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	default:
		return -1
	}
}

func (w TimeWindow) String() string {
	switch w {
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	case WindowMax:
		return "max"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

// ParseTimeWindow accepts "week", "month", "max" and the aliases "7", "30", "all".
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "7":
		return WindowWeek, nil
	case "month", "30":
		return WindowMonth, nil
	case "max", "all":
		return WindowMax, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
}
