package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

// handleCreateExpense accepts the expense form, validates it and appends
// the record to the ledger. Responses are HTML fragments for HTMX swaps.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "path", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	dateStr := strings.TrimSpace(r.Form.Get("date"))
	category := sanitizeInput(r.Form.Get("category"))
	desc := sanitizeInput(r.Form.Get("description"))

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Amount must be a positive number</div>`))
		return
	}

	date := core.DateOf(time.Now().UTC())
	if dateStr != "" {
		date, err = core.ParseDate(dateStr)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Date must be in YYYY-MM-DD format</div>`))
			return
		}
	}

	rec := core.ExpenseRecord{
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    category,
		Description: desc,
	}
	if err := rec.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid expense: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	saved, err := s.ledger.Add(r.Context(), rec)
	if err != nil {
		s.slogger.LogError(r.Context(), "Expense append error", err,
			applog.ComponentLedger, applog.OpAppend,
			applog.NewFields().WithExpense(rec.ID, rec.Description, rec.Amount.Cents, rec.Category))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Could not save the expense</div>`))
		return
	}

	s.slogger.LogExpenseRecorded(r.Context(), saved.ID, saved.Description, saved.Amount.Cents, saved.Category)
	atomic.AddInt64(&s.metrics.totalExpenses, 1)
	s.invalidateViews()

	w.Header().Set("HX-Trigger", `{"expense:created": {"id": `+strconv.FormatInt(saved.ID, 10)+`}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded #` + strconv.FormatInt(saved.ID, 10) + `: ` +
		template.HTMLEscapeString(saved.Description) +
		` — ` + template.HTMLEscapeString(saved.Amount.String()) +
		` (` + template.HTMLEscapeString(saved.Category) + `)</div>`))
}
