package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-08")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 8 {
		t.Fatalf("unexpected date %v", d)
	}

	for _, bad := range []string{"", "08/01/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	a := NewDate(2024, 1, 1)
	b := NewDate(2024, 1, 8)
	if got := a.DaysUntil(b); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := b.DaysUntil(a); got != -7 {
		t.Fatalf("expected -7, got %d", got)
	}
	if got := a.DaysUntil(a); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestDateOf(t *testing.T) {
	instant := time.Date(2024, 6, 15, 23, 45, 12, 0, time.UTC)
	if got := DateOf(instant); got != NewDate(2024, 6, 15) {
		t.Fatalf("expected 2024-06-15, got %v", got)
	}
}
