package ledger

import (
	"testing"

	"spendlog/internal/core"
)

func rec(cents int64, date core.Date, category string) core.ExpenseRecord {
	return core.ExpenseRecord{Amount: core.Money{Cents: cents}, Date: date, Category: category}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.TotalSpend.Cents != 0 {
		t.Fatalf("expected zero total, got %d", got.TotalSpend.Cents)
	}
	if got.TopCategory != "-" {
		t.Fatalf("expected placeholder top category, got %q", got.TopCategory)
	}
	if got.AverageWeeklySpend.Cents != 0 {
		t.Fatalf("expected zero weekly average, got %d", got.AverageWeeklySpend.Cents)
	}
	if got.Suggestion != getStartedSuggestion {
		t.Fatalf("unexpected suggestion %q", got.Suggestion)
	}
}

func TestSummarizeWeekSpan(t *testing.T) {
	// Two records one week apart span two inclusive weeks:
	// total 150.00 over weekSpan ((7/7)+1)=2 gives 75.00/week.
	records := []core.ExpenseRecord{
		rec(10000, core.NewDate(2024, 1, 1), "Food"),
		rec(5000, core.NewDate(2024, 1, 8), "Food"),
	}
	got := Summarize(records)
	if got.TotalSpend.Cents != 15000 {
		t.Fatalf("expected total 15000, got %d", got.TotalSpend.Cents)
	}
	if got.TopCategory != "Food" {
		t.Fatalf("expected Food, got %q", got.TopCategory)
	}
	if got.WeekSpan != 2 {
		t.Fatalf("expected week span 2, got %d", got.WeekSpan)
	}
	if got.AverageWeeklySpend.Cents != 7500 {
		t.Fatalf("expected weekly average 7500, got %d", got.AverageWeeklySpend.Cents)
	}
}

func TestSummarizeSingleDaySpansOneWeek(t *testing.T) {
	records := []core.ExpenseRecord{
		rec(1000, core.NewDate(2024, 5, 5), "Food"),
		rec(2000, core.NewDate(2024, 5, 5), "Travel"),
	}
	got := Summarize(records)
	if got.WeekSpan != 1 {
		t.Fatalf("expected week span 1, got %d", got.WeekSpan)
	}
	if got.AverageWeeklySpend.Cents != 3000 {
		t.Fatalf("expected weekly average 3000, got %d", got.AverageWeeklySpend.Cents)
	}
}

func TestSummarizeTopCategoryTieBreak(t *testing.T) {
	// Travel and Food tie at 3000; the first-seen category wins.
	records := []core.ExpenseRecord{
		rec(3000, core.NewDate(2024, 5, 1), "Travel"),
		rec(1000, core.NewDate(2024, 5, 2), "Food"),
		rec(2000, core.NewDate(2024, 5, 3), "Food"),
	}
	if got := Summarize(records); got.TopCategory != "Travel" {
		t.Fatalf("expected Travel, got %q", got.TopCategory)
	}
}

func TestSummarizeTotalIsOrderIndependent(t *testing.T) {
	a := []core.ExpenseRecord{
		rec(100, core.NewDate(2024, 5, 1), "Food"),
		rec(250, core.NewDate(2024, 5, 3), "Travel"),
		rec(999, core.NewDate(2024, 5, 2), "Rent"),
	}
	b := []core.ExpenseRecord{a[2], a[0], a[1]}
	if Summarize(a).TotalSpend != Summarize(b).TotalSpend {
		t.Fatalf("total depends on input order")
	}
}

func TestSummarizeToleratesNonPositiveAmounts(t *testing.T) {
	// Amounts that slipped past validation must not corrupt the sum.
	records := []core.ExpenseRecord{
		rec(1000, core.NewDate(2024, 5, 1), "Food"),
		rec(0, core.NewDate(2024, 5, 2), "Food"),
		rec(-200, core.NewDate(2024, 5, 3), "Travel"),
	}
	if got := Summarize(records); got.TotalSpend.Cents != 800 {
		t.Fatalf("expected total 800, got %d", got.TotalSpend.Cents)
	}
}
