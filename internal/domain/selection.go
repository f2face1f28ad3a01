package domain

// Selection is the user's current choice on the three independent picker axes.
type Selection struct {
	Scope  string     `json:"scope"`
	Metric Metric     `json:"metric"`
	Window TimeWindow `json:"window"`
}

// DefaultSelection is what the chart shows after the national feed first loads.
func DefaultSelection() Selection {
	return Selection{
		Scope:  NationalScope,
		Metric: MetricPositive,
		Window: WindowMax,
	}
}

// ParseSelection builds a selection from picker strings. Empty metric or
// window strings keep the defaults; the scope is taken as given and resolved
// against the store later.
func ParseSelection(scope, metric, window string) (Selection, error) {
	sel := DefaultSelection()
	sel.Scope = scope
	if metric != "" {
		m, err := ParseMetric(metric)
		if err != nil {
			return Selection{}, err
		}
		sel.Metric = m
	}
	if window != "" {
		w, err := ParseTimeWindow(window)
		if err != nil {
			return Selection{}, err
		}
		sel.Window = w
	}
	return sel, nil
}

// ScopeLabel returns the picker text for a resolved scope.
func ScopeLabel(scope string) string {
	if scope == NationalScope {
		return NationalLabel
	}
	return scope
}
