package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlog/internal/core"
	"spendlog/internal/ledger"
	"spendlog/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, seed ...core.ExpenseRecord) *Server {
	t.Helper()

	store := storage.NewMemoryStore(seed...)
	led, err := ledger.New(context.Background(), store, &ledger.FixedClock{FixedNow: testNow})
	require.NoError(t, err)

	srv := NewServer(":0", led, Options{CacheTTL: time.Minute})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func postExpense(srv *Server, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateExpense(t *testing.T) {
	srv := newTestServer(t)

	rec := postExpense(srv, url.Values{
		"amount":      {"12.50"},
		"date":        {"2024-03-14"},
		"category":    {"Food"},
		"description": {"lunch"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lunch")
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "expense:created")
	assert.Equal(t, 1, srv.ledger.Len())
}

func TestCreateExpenseDefaultsDateToToday(t *testing.T) {
	srv := newTestServer(t)

	rec := postExpense(srv, url.Values{
		"amount":   {"5"},
		"category": {"Food"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	records := srv.ledger.Query(core.AllRecords())
	require.Len(t, records, 1)
}

func TestCreateExpenseRejectsBadAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"empty", ""},
		{"zero", "0"},
		{"negative", "-5"},
		{"not a number", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			rec := postExpense(srv, url.Values{
				"amount":   {tt.amount},
				"category": {"Food"},
			})
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, 0, srv.ledger.Len())
		})
	}
}

func TestCreateExpenseRejectsBadDate(t *testing.T) {
	srv := newTestServer(t)

	rec := postExpense(srv, url.Values{
		"amount":   {"5"},
		"date":     {"14/03/2024"},
		"category": {"Food"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateExpenseRejectsReservedCategory(t *testing.T) {
	srv := newTestServer(t)

	rec := postExpense(srv, url.Values{
		"amount":   {"5"},
		"category": {"All"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, srv.ledger.Len())
}

func TestCreateExpenseMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/expenses")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func seedRecords() []core.ExpenseRecord {
	return []core.ExpenseRecord{
		{ID: 1, Amount: core.Money{Cents: 10000}, Date: core.NewDate(2024, 3, 10), Category: "Food"},
		{ID: 2, Amount: core.Money{Cents: 5000}, Date: core.NewDate(2024, 3, 12), Category: "Transport"},
		{ID: 3, Amount: core.Money{Cents: 2000}, Date: core.NewDate(2024, 1, 5), Category: "Food"},
	}
}

func TestOverviewRendersSummary(t *testing.T) {
	srv := newTestServer(t, seedRecords()...)

	rec := get(srv, "/ui/overview")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "170.00") // total of all three records
	assert.Contains(t, body, "Food")   // top category
}

func TestOverviewFiltersByCategory(t *testing.T) {
	srv := newTestServer(t, seedRecords()...)

	rec := get(srv, "/ui/overview?category=Transport")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "50.00")
	assert.NotContains(t, body, "100.00")
}

func TestOverviewMonthlyPeriod(t *testing.T) {
	srv := newTestServer(t, seedRecords()...)

	// Monthly window from 2024-02-15 excludes the January record.
	rec := get(srv, "/ui/overview?period=monthly")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "150.00")
}

func TestOverviewEmptyLedger(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/ui/overview")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "0.00")
	assert.Contains(t, body, "-") // top category placeholder
}

func TestOverviewCacheInvalidatedByCreate(t *testing.T) {
	srv := newTestServer(t)

	first := get(srv, "/ui/overview")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "0.00")

	rec := postExpense(srv, url.Values{
		"amount":   {"25"},
		"date":     {"2024-03-14"},
		"category": {"Food"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	second := get(srv, "/ui/overview")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "25.00")
}

func TestSeriesJSON(t *testing.T) {
	srv := newTestServer(t, seedRecords()...)

	rec := get(srv, "/api/series")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `"categoryLabels"`)
	assert.Contains(t, body, `"trendDates"`)
	assert.Contains(t, body, `"Food"`)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestReadyEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready"`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, seedRecords()...)

	// Touch the overview so cache counters move.
	get(srv, "/ui/overview")
	get(srv, "/ui/overview")

	rec := get(srv, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ledger_records 3")
	assert.Contains(t, body, "cache_hits_total 1")
	assert.Contains(t, body, "cache_misses_total 1")
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, seedRecords()...)

	rec := get(srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "spendlog")
	assert.Contains(t, body, "All")
	assert.Contains(t, body, "Food")
}

func TestIndexNotFoundForUnknownPath(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/unknown")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  lunch  ", "lunch"},
		{"a\x00b", "ab"},
		{"line\nbreak", "line\nbreak"},
	}

	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
