package domain

import "time"

// Point is one charted value.
type Point struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}

// Range bounds the values of a projected series for axis scaling.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Series is a projected, chart-ready view of a record series.
type Series struct {
	Metric Metric
	Window TimeWindow
	Points []Point
	Range  Range
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Points) }

// Empty reports whether there is nothing to render.
func (s Series) Empty() bool { return len(s.Points) == 0 }

// Project windows an ascending record series and extracts one metric from it.
// The result keeps the last n records (all of them for WindowMax or when the
// series is shorter than n) in their original order. An empty input yields no
// points and a zero range.
func Project(records []Record, metric Metric, window TimeWindow) Series {
	visible := windowed(records, window)

	series := Series{
		Metric: metric,
		Window: window,
		Points: make([]Point, len(visible)),
	}
	for i, r := range visible {
		v := metric.Value(r)
		series.Points[i] = Point{Date: r.Date, Value: v}
		if i == 0 || v < series.Range.Min {
			series.Range.Min = v
		}
		if i == 0 || v > series.Range.Max {
			series.Range.Max = v
		}
	}
	return series
}

func windowed(records []Record, window TimeWindow) []Record {
	n := window.Days()
	if n < 0 || n >= len(records) {
		return records
	}
	return records[len(records)-n:]
}
