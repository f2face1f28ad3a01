package chart

import "github.com/couchcryptid/covid-tracker-service/internal/domain"

// Line colours per metric, as #RRGGBB.
const (
	ColorNegative = "#388E3C"
	ColorPositive = "#F57C00"
	ColorDeath    = "#D32F2F"
)

// LineColor returns the chart line colour for a metric, or "" for an unknown one.
func LineColor(m domain.Metric) string {
	switch m {
	case domain.MetricNegative:
		return ColorNegative
	case domain.MetricPositive:
		return ColorPositive
	case domain.MetricDeath:
		return ColorDeath
	default:
		return ""
	}
}

// ScopeOption is one entry of the scope picker.
type ScopeOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ScopeOptions lists the scope picker entries: the national aggregate first,
// then every stored region code in sorted order. It returns nil until the
// per-state feed has been ingested.
func ScopeOptions(store *domain.RecordStore) []ScopeOption {
	codes := store.RegionCodes()
	if codes == nil {
		return nil
	}
	opts := make([]ScopeOption, 0, len(codes)+1)
	opts = append(opts, ScopeOption{Code: domain.NationalScope, Label: domain.NationalLabel})
	for _, code := range codes {
		opts = append(opts, ScopeOption{Code: code, Label: code})
	}
	return opts
}
