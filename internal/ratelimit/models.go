package ratelimit

import "time"

// Result reports the outcome of a rate-limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfterSeconds is the hint returned with every 429. The window slides,
// so a fixed full-window hint is the safe upper bound.
func (r Result) RetryAfterSeconds(window time.Duration) int {
	return int(window / time.Second)
}
