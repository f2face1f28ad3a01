// Package terminal renders projected series as coloured sparklines.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/covid-tracker-service/internal/chart"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/fatih/color"
)

var ticks = []rune("▁▂▃▄▅▆▇█")

// DefaultWidth is the sparkline width in columns when none is given.
const DefaultWidth = 60

// Sparkline is a chart.ChartView that draws one line of block characters per
// render. Series wider than the configured width are sampled down to it.
type Sparkline struct {
	out   io.Writer
	width int

	// points is the length of the series last rendered.
	points int
}

// NewSparkline creates a sparkline writing to out. A width below 1 uses DefaultWidth.
func NewSparkline(out io.Writer, width int) *Sparkline {
	if width < 1 {
		width = DefaultWidth
	}
	return &Sparkline{out: out, width: width}
}

// Render draws points in the palette colour closest to lineColor.
func (s *Sparkline) Render(points []domain.Point, lineColor string) {
	s.points = len(points)
	if len(points) == 0 {
		fmt.Fprintln(s.out, "(no data)")
		return
	}
	fmt.Fprintln(s.out, colorFor(lineColor).Sprint(s.Line(points)))
}

// Line returns the uncoloured sparkline for points.
func (s *Sparkline) Line(points []domain.Point) string {
	cols := min(len(points), s.width)
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}

	var b strings.Builder
	for col := range cols {
		v := points[sampleIndex(col, cols, len(points))].Value
		level := 0
		if hi > lo {
			level = int((v - lo) * int64(len(ticks)-1) / (hi - lo))
		}
		b.WriteRune(ticks[level])
	}
	return b.String()
}

// IndexAt maps a column of the last rendered line back to a point index, for
// reporting scrubs to chart.Controller.Scrub. It returns -1 outside the line.
func (s *Sparkline) IndexAt(col int) int {
	cols := min(s.points, s.width)
	if col < 0 || col >= cols {
		return -1
	}
	return sampleIndex(col, cols, s.points)
}

func sampleIndex(col, cols, n int) int {
	if cols <= 1 {
		return n - 1
	}
	return col * (n - 1) / (cols - 1)
}

func colorFor(lineColor string) *color.Color {
	switch lineColor {
	case chart.ColorNegative:
		return color.New(color.FgGreen)
	case chart.ColorDeath:
		return color.New(color.FgRed)
	case chart.ColorPositive:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Reset)
	}
}
