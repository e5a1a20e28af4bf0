// Package clock provides an abstraction for time operations to improve testability.
// Scoring and planning code never calls time.Now() directly; it takes a Clock
// (or an explicit time value) so tests can pin "today" to a known date.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock pinned to a single instant, for tests and replay.
type Fixed struct {
	Time time.Time
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time {
	return f.Time
}

// At returns a Clock pinned to t.
func At(t time.Time) Clock {
	return Fixed{Time: t}
}

// Ensure implementations satisfy Clock.
var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
)
