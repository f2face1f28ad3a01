package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/chart"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
)

// Series request outcomes, used as the metrics label.
const (
	outcomeOK          = "ok"
	outcomeBadRequest  = "bad_request"
	outcomeOutOfRange  = "out_of_range"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

type chartAPI struct {
	store     *domain.RecordStore
	projector chart.Projector
	metrics   *observability.Metrics
	logger    *slog.Logger
}

type regionsResponse struct {
	Regions    []chart.ScopeOption `json:"regions"`
	IngestedAt time.Time           `json:"ingested_at"`
}

type seriesResponse struct {
	Scope      string         `json:"scope"`
	ScopeLabel string         `json:"scope_label"`
	Metric     string         `json:"metric"`
	Window     string         `json:"window"`
	LineColor  string         `json:"line_color"`
	Range      domain.Range   `json:"range"`
	Points     []domain.Point `json:"points"`
	Label      *domain.Label  `json:"label"`
	IngestedAt time.Time      `json:"ingested_at"`
}

func (a *chartAPI) handleRegions(w http.ResponseWriter, _ *http.Request) {
	regions := chart.ScopeOptions(a.store)
	if regions == nil {
		writeError(w, http.StatusServiceUnavailable, "per-state data has not been fetched yet")
		return
	}
	writeJSON(w, http.StatusOK, regionsResponse{
		Regions:    regions,
		IngestedAt: a.store.StatesIngestedAt(),
	})
}

// handleSeries projects one selection. Each request drives its own
// Controller over the shared projector, so the scrub index only lives for
// the request.
func (a *chartAPI) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !a.store.NationalReady() {
		a.metrics.SeriesRequests.WithLabelValues(outcomeUnavailable).Inc()
		writeError(w, http.StatusServiceUnavailable, "national data has not been fetched yet")
		return
	}

	q := r.URL.Query()
	sel, err := domain.ParseSelection(strings.ToUpper(q.Get("scope")), q.Get("metric"), q.Get("window"))
	if err != nil {
		a.metrics.SeriesRequests.WithLabelValues(outcomeBadRequest).Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var index int
	scrub := q.Has("index")
	if scrub {
		index, err = strconv.Atoi(q.Get("index"))
		if err != nil {
			a.metrics.SeriesRequests.WithLabelValues(outcomeBadRequest).Inc()
			writeError(w, http.StatusBadRequest, "index must be an integer")
			return
		}
	}

	ctrl := chart.NewController(a.projector, chart.WithSelection(sel))
	if scrub {
		if _, err := ctrl.Scrub(index); err != nil {
			if errors.Is(err, domain.ErrOutOfRange) {
				a.metrics.SeriesRequests.WithLabelValues(outcomeOutOfRange).Inc()
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			a.metrics.SeriesRequests.WithLabelValues(outcomeError).Inc()
			a.logger.Error("scrub failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	view := ctrl.View()
	if view.Selection.Scope != sel.Scope {
		a.logger.Debug("unknown scope, charting national data", "scope", sel.Scope)
	}
	a.metrics.SeriesRequests.WithLabelValues(outcomeOK).Inc()
	writeJSON(w, http.StatusOK, seriesResponse{
		Scope:      view.Selection.Scope,
		ScopeLabel: domain.ScopeLabel(view.Selection.Scope),
		Metric:     view.Selection.Metric.String(),
		Window:     view.Selection.Window.String(),
		LineColor:  view.LineColor,
		Range:      view.Series.Range,
		Points:     view.Series.Points,
		Label:      view.Label,
		IngestedAt: a.store.NationalIngestedAt(),
	})
}
