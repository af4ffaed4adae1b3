package ledger

import (
	"fmt"

	"spendlog/internal/core"
)

const getStartedSuggestion = "Add your first expense to start tracking where your money goes."

// Summarize computes the insight statistics for a record set. It is a
// pure function of its input, not of the ledger's state, so it can be
// tested without persistence.
//
// topCategory ties are broken in favor of the category that appears
// first in record order; this is a deliberate deterministic choice.
func Summarize(records []core.ExpenseRecord) core.InsightsSummary {
	if len(records) == 0 {
		return core.InsightsSummary{
			TopCategory: "-",
			Suggestion:  getStartedSuggestion,
		}
	}

	var totalCents int64
	totals := make(map[string]int64, len(records))
	order := make([]string, 0, len(records))
	minDate, maxDate := records[0].Date, records[0].Date

	for _, r := range records {
		totalCents += r.Amount.Cents
		if _, seen := totals[r.Category]; !seen {
			order = append(order, r.Category)
		}
		totals[r.Category] += r.Amount.Cents
		if r.Date.Before(minDate.Time) {
			minDate = r.Date
		}
		if r.Date.After(maxDate.Time) {
			maxDate = r.Date
		}
	}

	top := order[0]
	for _, cat := range order[1:] {
		if totals[cat] > totals[top] {
			top = cat
		}
	}

	// Inclusive span: a single day, or all records on one date, counts
	// as one week, so the average never divides by zero.
	weekSpan := minDate.DaysUntil(maxDate)/7 + 1
	if weekSpan < 1 {
		weekSpan = 1
	}

	return core.InsightsSummary{
		TotalSpend:         core.Money{Cents: totalCents},
		TopCategory:        top,
		WeekSpan:           weekSpan,
		AverageWeeklySpend: core.Money{Cents: totalCents / int64(weekSpan)},
		Suggestion:         fmt.Sprintf("Most of your spending goes to %s. Consider setting a budget for it.", top),
	}
}
