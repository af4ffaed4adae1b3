package ledger

import "time"

// Clock abstracts "now" so that period filtering is testable without
// wall-clock coupling.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock returns a preset instant.
type FixedClock struct {
	FixedNow time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.FixedNow
}

func (c *FixedClock) SetNow(now time.Time) {
	c.FixedNow = now
}
