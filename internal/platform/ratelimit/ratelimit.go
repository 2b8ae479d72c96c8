// Package ratelimit caps how often one user may hit the location endpoints.
// Counting uses a sliding window so a burst cannot straddle a fixed window
// boundary to get twice the limit.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Store counts requests per key.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

func retryAfter(resetAt, now time.Time) time.Duration {
	d := resetAt.Sub(now)
	if d < time.Second {
		return time.Second
	}
	return d
}
