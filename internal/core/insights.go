package core

// CategoryAmount is an amount aggregated by category label.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// InsightsSummary carries the derived statistics for a filtered record
// set. It is computed on demand and never stored.
type InsightsSummary struct {
	TotalSpend         Money
	TopCategory        string
	WeekSpan           int
	AverageWeeklySpend Money
	Suggestion         string
}

// ChartSeries holds the labeled numeric sequences handed to chart
// rendering: category totals for the bar and pie charts, and per-date
// totals sorted ascending for the trend line.
type ChartSeries struct {
	CategoryLabels []string `json:"categoryLabels"`
	CategoryTotals []Money  `json:"categoryTotals"`
	TrendDates     []Date   `json:"trendDates"`
	TrendTotals    []Money  `json:"trendTotals"`
}
