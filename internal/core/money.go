// Package core holds the expense tracker's domain model: records,
// filter criteria, money and date handling, and the derived insight
// and chart-series types.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency-agnostic magnitude held in cents to avoid
// floating-point drift in aggregation.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the whole-unit value as a float64 for display purposes.
// Use cents for calculations.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount as a plain decimal, e.g. "12.34".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON encodes the amount as a decimal JSON number ("12.34"),
// matching the persisted snapshot contract.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a decimal number or a numeric string. Unlike
// ParseDecimalToCents it tolerates zero and negative values, so a
// malformed-but-parsable snapshot never fails to load; aggregation
// simply sums whatever cents come out.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	cents, err := parseSignedCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

// ParseDecimalToCents converts a user-entered decimal string to cents
// with half-up rounding on the third decimal place. It accepts both
// dot (12.34) and comma (12,34) separators and rejects non-positive
// amounts; this is the strict parser used for form input.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	cents, err := parseSignedCents(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// parseSignedCents parses a dot-separated decimal into cents, allowing
// a leading minus and zero values.
func parseSignedCents(s string) (int64, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	// Take the first two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}
