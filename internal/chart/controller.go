package chart

import (
	"fmt"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
)

// ChartView renders a projected series. It reports scrubs back by calling
// Controller.Scrub with an index into the points it was last given.
type ChartView interface {
	Render(points []domain.Point, lineColor string)
}

// View is the derived state of a controller after its latest transition.
type View struct {
	Selection domain.Selection
	Series    domain.Series
	LineColor string
	// Label is nil when the series is empty.
	Label *domain.Label
}

// Controller owns one chart's selection. Each setter re-projects, pushes the
// new series to the attached view, and re-resolves the info labels: at the
// last scrubbed index when it still fits the new series, else at the newest
// point. A Controller is not safe for concurrent use; drive it from a single
// event path.
type Controller struct {
	projector Projector
	view      ChartView

	sel    domain.Selection
	source []domain.Record
	series domain.Series
	label  *domain.Label

	scrubIndex int
	scrubbed   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithView attaches a chart view that receives every re-projection.
func WithView(v ChartView) Option {
	return func(c *Controller) { c.view = v }
}

// WithSelection overrides the initial selection.
func WithSelection(sel domain.Selection) Option {
	return func(c *Controller) { c.sel = sel }
}

// NewController creates a controller with the default selection and projects
// it once.
func NewController(p Projector, opts ...Option) *Controller {
	c := &Controller{
		projector: p,
		sel:       domain.DefaultSelection(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reproject()
	return c
}

// SetScope selects a region code. Unknown codes resolve to the national scope.
func (c *Controller) SetScope(scope string) View {
	c.sel.Scope = scope
	c.reproject()
	return c.View()
}

// SetMetric selects the charted metric.
func (c *Controller) SetMetric(m domain.Metric) View {
	c.sel.Metric = m
	c.reproject()
	return c.View()
}

// SetWindow selects the time window.
func (c *Controller) SetWindow(w domain.TimeWindow) View {
	c.sel.Window = w
	c.reproject()
	return c.View()
}

// Reload re-projects the current selection, e.g. after a new fetch landed.
func (c *Controller) Reload() View {
	c.reproject()
	return c.View()
}

// Scrub resolves the point at index and makes it the labelled point. On error
// the controller is left unchanged.
func (c *Controller) Scrub(index int) (domain.Label, error) {
	label, err := domain.Resolve(c.series, index, c.source, c.sel.Metric)
	if err != nil {
		return domain.Label{}, fmt.Errorf("scrub %s/%s/%s: %w",
			domain.ScopeLabel(c.sel.Scope), c.sel.Metric, c.sel.Window, err)
	}
	c.scrubIndex = index
	c.scrubbed = true
	c.label = &label
	return label, nil
}

// View returns the current derived state.
func (c *Controller) View() View {
	return View{
		Selection: c.sel,
		Series:    c.series,
		LineColor: LineColor(c.sel.Metric),
		Label:     c.label,
	}
}

// Selection returns the effective selection, with the scope already resolved.
func (c *Controller) Selection() domain.Selection {
	return c.sel
}

func (c *Controller) reproject() {
	c.sel, c.source, c.series = c.projector.Project(c.sel)
	if c.view != nil {
		c.view.Render(c.series.Points, LineColor(c.sel.Metric))
	}

	c.label = nil
	if c.series.Empty() {
		return
	}
	index := c.series.Len() - 1
	if c.scrubbed {
		if c.scrubIndex < c.series.Len() {
			index = c.scrubIndex
		} else {
			// Reset to newest sticks until the next scrub.
			c.scrubbed = false
		}
	}
	// Resolve only fails here if the projector broke the suffix contract.
	if label, err := domain.Resolve(c.series, index, c.source, c.sel.Metric); err == nil {
		c.label = &label
	}
}
