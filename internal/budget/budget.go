// Package budget provides the shared deadline every stress worker polls to
// know when to stop.
package budget

import "time"

// Budget is an immutable time allowance shared read-only by all workers of a
// run. The zero value is expired.
type Budget struct {
	start    time.Time
	duration time.Duration
}

// New captures the current time as the budget's start. Negative durations are
// clamped to zero.
func New(duration time.Duration) Budget {
	if duration < 0 {
		duration = 0
	}
	return Budget{start: time.Now(), duration: duration}
}

// Expired reports whether the budget's duration has elapsed since construction.
// Once true it stays true for this instance. Safe for concurrent use: the
// budget is a read-only value.
func (b Budget) Expired() bool {
	return time.Since(b.start) >= b.duration
}

// Remaining returns the time left before expiry, or zero if already expired.
func (b Budget) Remaining() time.Duration {
	left := b.duration - time.Since(b.start)
	if left < 0 {
		return 0
	}
	return left
}

// Duration returns the total allowance the budget was created with.
func (b Budget) Duration() time.Duration {
	return b.duration
}
