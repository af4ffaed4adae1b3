package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlog/internal/core"
)

// stubStore keeps records in memory and can be told to fail.
type stubStore struct {
	records   []core.ExpenseRecord
	loadErr   error
	appendErr error
}

func (s *stubStore) Load(_ context.Context) ([]core.ExpenseRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]core.ExpenseRecord(nil), s.records...), nil
}

func (s *stubStore) Append(_ context.Context, rec core.ExpenseRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.records = append(s.records, rec)
	return nil
}

var testClock = &FixedClock{FixedNow: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}

func newTestLedger(t *testing.T, records ...core.ExpenseRecord) (*Ledger, *stubStore) {
	t.Helper()
	store := &stubStore{records: records}
	l, err := New(context.Background(), store, testClock)
	require.NoError(t, err)
	return l, store
}

func record(id int64, cents int64, date core.Date, category string) core.ExpenseRecord {
	return core.ExpenseRecord{ID: id, Amount: core.Money{Cents: cents}, Date: date, Category: category}
}

func TestAddAssignsMonotonicIDs(t *testing.T) {
	l, store := newTestLedger(t)

	first, err := l.Add(context.Background(), record(0, 1000, core.NewDate(2024, 3, 1), "Food"))
	require.NoError(t, err)
	second, err := l.Add(context.Background(), record(0, 2000, core.NewDate(2024, 3, 2), "Travel"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Len(t, store.records, 2)
}

func TestAddContinuesAfterLoadedIDs(t *testing.T) {
	l, _ := newTestLedger(t, record(7, 500, core.NewDate(2024, 3, 1), "Food"))

	added, err := l.Add(context.Background(), record(0, 500, core.NewDate(2024, 3, 2), "Food"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), added.ID)
}

func TestAddPersistFailureLeavesLedgerUnchanged(t *testing.T) {
	l, store := newTestLedger(t)
	store.appendErr = errors.New("disk full")

	_, err := l.Add(context.Background(), record(0, 500, core.NewDate(2024, 3, 1), "Food"))
	assert.Error(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestNewPropagatesLoadError(t *testing.T) {
	store := &stubStore{loadErr: errors.New("locked")}
	_, err := New(context.Background(), store, testClock)
	assert.Error(t, err)
}

func TestQueryFiltersByCategory(t *testing.T) {
	l, _ := newTestLedger(t,
		record(1, 100, core.NewDate(2024, 3, 1), "Food"),
		record(2, 200, core.NewDate(2024, 3, 2), "Travel"),
		record(3, 300, core.NewDate(2024, 3, 3), "food"), // case matters
	)

	got := l.Query(core.FilterCriteria{Category: "Food", Period: core.PeriodAll})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	all := l.Query(core.AllRecords())
	assert.Len(t, all, 3)
}

func TestQueryWeeklyWindow(t *testing.T) {
	// Clock is fixed at 2024-03-15; the weekly cutoff is 2024-03-08,
	// inclusive.
	l, _ := newTestLedger(t,
		record(1, 100, core.NewDate(2024, 3, 8), "Food"),
		record(2, 200, core.NewDate(2024, 3, 7), "Food"),
		record(3, 300, core.NewDate(2024, 3, 15), "Food"),
	)

	got := l.Query(core.FilterCriteria{Category: core.CategoryAll, Period: core.PeriodWeekly})
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestQueryMonthlyWindowIsCalendarAware(t *testing.T) {
	// One calendar month before 2024-03-15 is 2024-02-15, not a fixed
	// 30-day window.
	l, _ := newTestLedger(t,
		record(1, 100, core.NewDate(2024, 2, 15), "Food"),
		record(2, 200, core.NewDate(2024, 2, 14), "Food"),
		record(3, 300, core.NewDate(2024, 3, 1), "Food"),
	)

	got := l.Query(core.FilterCriteria{Category: core.CategoryAll, Period: core.PeriodMonthly})
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestQuerySortsDescendingWithStableTies(t *testing.T) {
	sameDay := core.NewDate(2024, 3, 10)
	l, _ := newTestLedger(t,
		record(1, 100, sameDay, "Food"),
		record(2, 200, core.NewDate(2024, 3, 12), "Food"),
		record(3, 300, sameDay, "Food"),
	)

	got := l.Query(core.AllRecords())
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].ID)
	// Equal dates keep insertion order.
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, int64(3), got[2].ID)
}

func TestQueryIsIdempotent(t *testing.T) {
	l, _ := newTestLedger(t,
		record(1, 100, core.NewDate(2024, 3, 1), "Food"),
		record(2, 200, core.NewDate(2024, 3, 2), "Travel"),
	)

	criteria := core.FilterCriteria{Category: "Travel", Period: core.PeriodAll}
	assert.Equal(t, l.Query(criteria), l.Query(criteria))
}

func TestQueryDoesNotMutateLedger(t *testing.T) {
	l, _ := newTestLedger(t,
		record(1, 100, core.NewDate(2024, 3, 2), "Food"),
		record(2, 200, core.NewDate(2024, 3, 1), "Food"),
	)

	_ = l.Query(core.AllRecords()) // sorts a copy, not the owned sequence

	cats := l.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, 2, l.Len())
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	l, _ := newTestLedger(t,
		record(1, 100, core.NewDate(2024, 3, 3), "Travel"),
		record(2, 200, core.NewDate(2024, 3, 1), "Food"),
		record(3, 300, core.NewDate(2024, 3, 2), "Travel"),
	)

	assert.Equal(t, []string{"Travel", "Food"}, l.Categories())
}

func TestAddThenQuerySingleRecord(t *testing.T) {
	l, _ := newTestLedger(t)

	added, err := l.Add(context.Background(), record(0, 4200, core.NewDate(2024, 3, 10), "Books"))
	require.NoError(t, err)

	got := l.Query(core.AllRecords())
	require.Len(t, got, 1)
	assert.Equal(t, added, got[0])
	assert.Equal(t, []string{"Books"}, l.Categories())
}
