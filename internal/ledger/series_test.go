package ledger

import (
	"testing"

	"spendlog/internal/core"
)

func TestBuildChartSeriesEmpty(t *testing.T) {
	got := BuildChartSeries(nil)
	if got.CategoryLabels == nil || got.TrendDates == nil {
		t.Fatalf("expected non-nil empty sequences")
	}
	if len(got.CategoryLabels) != 0 || len(got.TrendDates) != 0 {
		t.Fatalf("expected empty series, got %+v", got)
	}
}

func TestBuildChartSeriesCategoryTotals(t *testing.T) {
	records := []core.ExpenseRecord{
		rec(1000, core.NewDate(2024, 5, 2), "Travel"),
		rec(500, core.NewDate(2024, 5, 1), "Food"),
		rec(2500, core.NewDate(2024, 5, 3), "Travel"),
	}
	got := BuildChartSeries(records)

	if len(got.CategoryLabels) != 2 || got.CategoryLabels[0] != "Travel" || got.CategoryLabels[1] != "Food" {
		t.Fatalf("expected first-seen label order, got %v", got.CategoryLabels)
	}
	if got.CategoryTotals[0].Cents != 3500 || got.CategoryTotals[1].Cents != 500 {
		t.Fatalf("unexpected category totals %v", got.CategoryTotals)
	}
}

func TestBuildChartSeriesTrendAscendingByDay(t *testing.T) {
	day := core.NewDate(2024, 5, 2)
	records := []core.ExpenseRecord{
		rec(1000, core.NewDate(2024, 5, 9), "Food"),
		rec(300, day, "Food"),
		rec(700, day, "Travel"), // same calendar day aggregates
		rec(100, core.NewDate(2024, 5, 5), "Food"),
	}
	got := BuildChartSeries(records)

	if len(got.TrendDates) != 3 {
		t.Fatalf("expected 3 trend points, got %d", len(got.TrendDates))
	}
	for i := 1; i < len(got.TrendDates); i++ {
		if got.TrendDates[i].Before(got.TrendDates[i-1].Time) {
			t.Fatalf("trend dates not ascending: %v", got.TrendDates)
		}
	}
	if got.TrendDates[0] != day || got.TrendTotals[0].Cents != 1000 {
		t.Fatalf("expected 2024-05-02 total 1000, got %v %v", got.TrendDates[0], got.TrendTotals[0])
	}
	if got.TrendTotals[1].Cents != 100 || got.TrendTotals[2].Cents != 1000 {
		t.Fatalf("unexpected trend totals %v", got.TrendTotals)
	}
}
