package core

import (
	"errors"
	"strings"
)

// CategoryAll is the reserved filter sentinel meaning "every category".
// It must never appear as the category of a real record.
const CategoryAll = "All"

const (
	PeriodAll     Period = "all"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

type (
	// Period selects the time window of a filter, relative to "now"
	// at evaluation time (not to the newest record's date).
	Period string

	// ExpenseRecord is one user-entered spending event.
	ExpenseRecord struct {
		ID          int64  `json:"id"`
		Amount      Money  `json:"amount"`
		Date        Date   `json:"date"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}

	// FilterCriteria is the (category, period) pair selecting a subset
	// of the ledger for display.
	FilterCriteria struct {
		Category string
		Period   Period
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrReservedCategory = errors.New("category name is reserved")
)

// ParsePeriod maps a request value to a Period, case-insensitively.
// Unknown or empty values fall back to PeriodAll.
func ParsePeriod(s string) Period {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly":
		return PeriodWeekly
	case "monthly":
		return PeriodMonthly
	default:
		return PeriodAll
	}
}

func (p Period) IsValid() bool {
	switch p {
	case PeriodAll, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// Validate checks a record before it enters the ledger. The ledger
// itself never validates; rejection of bad input is the UI adapter's
// responsibility.
func (r ExpenseRecord) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	cat := strings.TrimSpace(r.Category)
	if cat == "" {
		return ErrEmptyCategory
	}
	if cat == CategoryAll {
		return ErrReservedCategory
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// AllRecords is the criteria that selects the entire ledger.
func AllRecords() FilterCriteria {
	return FilterCriteria{Category: CategoryAll, Period: PeriodAll}
}
