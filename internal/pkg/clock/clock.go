package clock

import "time"

// Clock abstracts time.Now so services under test can run against fixed
// timestamps when checking lateness, overtime and token expiry boundaries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns the wall clock, in UTC.
func System() Clock {
	return systemClock{}
}

// Fixed is a Clock pinned to a settable instant.
type Fixed struct {
	Instant time.Time
}

func (f *Fixed) Now() time.Time {
	return f.Instant
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.Instant = f.Instant.Add(d)
}

// NewFixed returns a Fixed clock starting at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{Instant: t}
}
