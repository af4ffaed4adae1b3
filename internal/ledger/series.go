package ledger

import (
	"sort"

	"spendlog/internal/core"
)

// BuildChartSeries derives the chart inputs from a record set: category
// totals in first-seen order for the bar and pie charts, and totals
// aggregated by calendar date, ascending, for the trend line. Pure
// function; an empty input yields empty (non-nil) sequences.
func BuildChartSeries(records []core.ExpenseRecord) core.ChartSeries {
	catTotals := make(map[string]int64, len(records))
	catOrder := make([]string, 0, len(records))
	dayTotals := make(map[string]int64, len(records))

	for _, r := range records {
		if _, seen := catTotals[r.Category]; !seen {
			catOrder = append(catOrder, r.Category)
		}
		catTotals[r.Category] += r.Amount.Cents

		day := r.Date.String()
		dayTotals[day] += r.Amount.Cents
	}

	series := core.ChartSeries{
		CategoryLabels: make([]string, 0, len(catOrder)),
		CategoryTotals: make([]core.Money, 0, len(catOrder)),
		TrendDates:     make([]core.Date, 0, len(dayTotals)),
		TrendTotals:    make([]core.Money, 0, len(dayTotals)),
	}

	for _, cat := range catOrder {
		series.CategoryLabels = append(series.CategoryLabels, cat)
		series.CategoryTotals = append(series.CategoryTotals, core.Money{Cents: catTotals[cat]})
	}

	// YYYY-MM-DD keys sort lexicographically in chronological order.
	days := make([]string, 0, len(dayTotals))
	for day := range dayTotals {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		date, err := core.ParseDate(day)
		if err != nil {
			continue
		}
		series.TrendDates = append(series.TrendDates, date)
		series.TrendTotals = append(series.TrendTotals, core.Money{Cents: dayTotals[day]})
	}

	return series
}
