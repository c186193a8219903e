package app

import "time"

// FrameLimiter caps how often a periodic action runs.
//
// The caller passes the current time on every check, which keeps the
// limiter independent of the wall clock in tests.
type FrameLimiter struct {
	interval time.Duration
	last     time.Time
	started  bool
}

// NewFrameLimiter allows at most fps actions per second. A non-positive
// fps allows every check.
func NewFrameLimiter(fps int) *FrameLimiter {
	var interval time.Duration
	if fps > 0 {
		interval = time.Second / time.Duration(fps)
	}
	return &FrameLimiter{interval: interval}
}

// Interval returns the minimum time between two allowed actions.
func (l *FrameLimiter) Interval() time.Duration { return l.interval }

// Allow reports whether at least one interval has passed since the last
// allowed action, and if so records now as the last action. The first
// call always succeeds.
func (l *FrameLimiter) Allow(now time.Time) bool {
	if l.started && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	l.started = true
	return true
}

// Reset forgets the last action so the next Allow succeeds.
func (l *FrameLimiter) Reset() {
	l.started = false
	l.last = time.Time{}
}
