// Package ledger implements the expense ledger: the append-only record
// sequence owned by the session, and the pure projections over it
// (filtering, insights, chart series).
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"spendlog/internal/core"
)

// Ledger owns the ordered sequence of expense records. Insertion order
// is entry order and is independent of the date field. Records are
// loaded once at construction and persisted through the Store after
// every Add; all other operations are read-only projections.
type Ledger struct {
	mu      sync.RWMutex
	store   Store
	clock   Clock
	records []core.ExpenseRecord
	nextID  int64
}

// New loads the ledger from the store. A nil clock defaults to the
// system clock.
func New(ctx context.Context, store Store, clock Clock) (*Ledger, error) {
	if clock == nil {
		clock = SystemClock{}
	}

	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	var nextID int64 = 1
	for _, r := range records {
		if r.ID >= nextID {
			nextID = r.ID + 1
		}
	}

	slog.InfoContext(ctx, "Ledger loaded", "records", len(records))

	return &Ledger{
		store:   store,
		clock:   clock,
		records: records,
		nextID:  nextID,
	}, nil
}

// Add appends a record to the end of the owned sequence and persists
// it. A zero ID is replaced with the next monotonically increasing one.
// No validation happens here; callers validate before construction.
func (l *Ledger) Add(ctx context.Context, rec core.ExpenseRecord) (core.ExpenseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.ID == 0 {
		rec.ID = l.nextID
	}
	if rec.ID >= l.nextID {
		l.nextID = rec.ID + 1
	}

	// Persist first so the in-memory sequence never holds a record the
	// store has not seen.
	if err := l.store.Append(ctx, rec); err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("persist expense: %w", err)
	}
	l.records = append(l.records, rec)

	slog.InfoContext(ctx, "Expense added",
		"id", rec.ID,
		"amount_cents", rec.Amount.Cents,
		"date", rec.Date.String(),
		"category", rec.Category)

	return rec, nil
}

// Query returns the records matching the criteria, sorted by date
// descending. Records sharing a date keep their insertion order (the
// sort is stable). The owned sequence is never mutated; identical
// criteria on an unchanged ledger yield identical output.
func (l *Ledger) Query(criteria core.FilterCriteria) []core.ExpenseRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cutoff, hasCutoff := l.periodCutoff(criteria.Period)

	out := make([]core.ExpenseRecord, 0, len(l.records))
	for _, r := range l.records {
		if criteria.Category != core.CategoryAll && r.Category != criteria.Category {
			continue
		}
		if hasCutoff && r.Date.Before(cutoff.Time) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// periodCutoff resolves a period to its inclusive lower date bound,
// relative to the clock's current date.
func (l *Ledger) periodCutoff(p core.Period) (core.Date, bool) {
	today := core.DateOf(l.clock.Now())
	switch p {
	case core.PeriodWeekly:
		return core.Date{Time: today.AddDate(0, 0, -7)}, true
	case core.PeriodMonthly:
		// Calendar-aware month subtraction, not a fixed 30-day window.
		return core.Date{Time: today.AddDate(0, -1, 0)}, true
	default:
		return core.Date{}, false
	}
}

// Categories returns the distinct category labels present in the
// ledger, in first-seen order. The "All" sentinel is never included;
// the UI layer prepends it.
func (l *Ledger) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]struct{}, len(l.records))
	out := make([]string, 0, len(l.records))
	for _, r := range l.records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// Len reports the number of records in the ledger.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
