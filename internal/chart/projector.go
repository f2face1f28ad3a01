// Package chart owns the selection state machine that sits between the
// record store and a chart view: it re-projects on every picker change,
// hands the result to the view, and keeps the scrub labels in step.
package chart

import "github.com/couchcryptid/covid-tracker-service/internal/domain"

// Projector turns a selection into the records it resolves to and the series
// to chart. Implementations resolve unknown scopes to the national aggregate.
type Projector interface {
	Project(sel domain.Selection) (resolved domain.Selection, source []domain.Record, series domain.Series)
}

// StoreProjector projects straight from a record store without caching.
type StoreProjector struct {
	Store *domain.RecordStore
}

func (p StoreProjector) Project(sel domain.Selection) (domain.Selection, []domain.Record, domain.Series) {
	scope, records := p.Store.Series(sel.Scope)
	sel.Scope = scope
	return sel, records, domain.Project(records, sel.Metric, sel.Window)
}
