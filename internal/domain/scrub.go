package domain

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout formats label dates, e.g. "Mar 14, 2020".
const DateLayout = "Jan 02, 2006"

// labelPrinter formats label values with en-US grouping separators.
var labelPrinter = message.NewPrinter(language.AmericanEnglish)

// Label is the text shown for a scrubbed point.
type Label struct {
	Index  int    `json:"index"`
	Value  string `json:"value"`
	Date   string `json:"date"`
	Record Record `json:"-"`
}

// Resolve maps an index in a projected series back to its source record and
// formats its labels. The projected series must be a suffix of source, which
// is what Project produces. Indexes outside the series fail with
// ErrOutOfRange.
func Resolve(series Series, index int, source []Record, metric Metric) (Label, error) {
	if index < 0 || index >= len(series.Points) {
		return Label{}, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, index, len(series.Points))
	}
	offset := len(source) - len(series.Points)
	if offset < 0 {
		return Label{}, fmt.Errorf("%w: %d points from %d records", ErrSeriesMismatch, len(series.Points), len(source))
	}

	rec := source[offset+index]
	if !rec.Date.Equal(series.Points[index].Date) {
		return Label{}, fmt.Errorf("%w: point %d is %s, record is %s", ErrSeriesMismatch,
			index, series.Points[index].Date.Format(isoDate), rec.Date.Format(isoDate))
	}

	return Label{
		Index:  index,
		Value:  FormatValue(metric.Value(rec)),
		Date:   FormatDate(rec),
		Record: rec,
	}, nil
}

// FormatValue renders an integer with thousands separators, e.g. 1234567 -> "1,234,567".
func FormatValue(v int64) string {
	return labelPrinter.Sprintf("%d", v)
}

// FormatDate renders a record's date for labels.
func FormatDate(r Record) string {
	return r.Date.Format(DateLayout)
}

const isoDate = "2006-01-02"
