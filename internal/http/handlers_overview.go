package http

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"spendlog/internal/charts"
	"spendlog/internal/core"
	"spendlog/internal/ledger"
	applog "spendlog/internal/log"
)

// recordView is one expense row in the overview table.
type recordView struct {
	ID          int64
	Date        string
	Category    string
	Description string
	Amount      string
}

// overviewView carries everything the overview partial renders: the
// filtered records, the insights summary and the chart fragments.
type overviewView struct {
	Category   string
	Period     string
	Categories []string
	Periods    []string

	Records []recordView

	Total       string
	TopCategory string
	WeekSpan    int
	AvgWeekly   string
	Suggestion  string

	BarChart   template.HTML
	TrendChart template.HTML
	PieChart   template.HTML
}

// parseCriteria reads the filter from query parameters. An absent or
// empty category means no category filter.
func parseCriteria(r *http.Request) core.FilterCriteria {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		category = core.CategoryAll
	}
	return core.FilterCriteria{
		Category: category,
		Period:   core.ParsePeriod(r.URL.Query().Get("period")),
	}
}

// filterCategories lists the category filter options: the sentinel
// first, then every category in first-seen order.
func (s *Server) filterCategories() []string {
	return append([]string{core.CategoryAll}, s.ledger.Categories()...)
}

// getOverview returns the cached view for the criteria, computing it at
// most once per key across concurrent requests.
func (s *Server) getOverview(ctx context.Context, criteria core.FilterCriteria) (overviewView, error) {
	key := s.cacheKey(criteria)

	if view, found := s.overviewCache.Get(key); found {
		s.recordCacheHit()
		slog.DebugContext(ctx, "Overview cache hit", "category", criteria.Category, "period", criteria.Period)
		return view, nil
	}
	s.recordCacheMiss()

	result, err, _ := s.overviewGroup.Do(key, func() (interface{}, error) {
		view, err := s.buildOverview(criteria)
		if err != nil {
			return overviewView{}, err
		}
		s.overviewCache.Set(key, view)
		return view, nil
	})
	if err != nil {
		return overviewView{}, err
	}

	view := result.(overviewView)
	slog.DebugContext(ctx, "Overview computed",
		"category", criteria.Category,
		"period", criteria.Period,
		"records", len(view.Records))
	return view, nil
}

// buildOverview queries the ledger, summarizes the filtered records,
// derives the chart series and renders the charts through the deck.
func (s *Server) buildOverview(criteria core.FilterCriteria) (overviewView, error) {
	records := s.ledger.Query(criteria)
	summary := ledger.Summarize(records)
	series := ledger.BuildChartSeries(records)

	s.deckMu.Lock()
	defer s.deckMu.Unlock()

	if err := s.deck.Render(series); err != nil {
		return overviewView{}, fmt.Errorf("render charts: %w", err)
	}

	view := overviewView{
		Category:    criteria.Category,
		Period:      string(criteria.Period),
		Categories:  s.filterCategories(),
		Periods:     []string{"all", "weekly", "monthly"},
		Total:       summary.TotalSpend.String(),
		TopCategory: summary.TopCategory,
		WeekSpan:    summary.WeekSpan,
		AvgWeekly:   summary.AverageWeeklySpend.String(),
		Suggestion:  summary.Suggestion,
	}

	for _, rec := range records {
		view.Records = append(view.Records, recordView{
			ID:          rec.ID,
			Date:        rec.Date.String(),
			Category:    rec.Category,
			Description: rec.Description,
			Amount:      rec.Amount.String(),
		})
	}

	if frag, ok := s.renderer.Fragment(charts.TargetBar); ok {
		view.BarChart = frag
	}
	if frag, ok := s.renderer.Fragment(charts.TargetTrend); ok {
		view.TrendChart = frag
	}
	if frag, ok := s.renderer.Fragment(charts.TargetPie); ok {
		view.PieChart = frag
	}

	return view, nil
}

// handleOverview renders the overview partial for the requested filter.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	criteria := parseCriteria(r)

	view, err := s.getOverview(r.Context(), criteria)
	if err != nil {
		fields := applog.NewFields().
			WithError(err).
			WithFilter(criteria.Category, string(criteria.Period))
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Overview error", fields.ToSlice()...)
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Could not load the overview</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Total: ` +
			template.HTMLEscapeString(view.Total) + `</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "overview.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "overview.html")
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Could not render the overview</div></section>`))
	}
}

// handleSeries returns the chart series for the requested filter as JSON.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	criteria := parseCriteria(r)
	key := s.cacheKey(criteria)

	series, found := s.seriesCache.Get(key)
	if found {
		s.recordCacheHit()
	} else {
		s.recordCacheMiss()
		series = ledger.BuildChartSeries(s.ledger.Query(criteria))
		s.seriesCache.Set(key, series)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(series); err != nil {
		slog.ErrorContext(r.Context(), "Series encode error", "error", err,
			"category", criteria.Category, "period", criteria.Period)
	}
}
