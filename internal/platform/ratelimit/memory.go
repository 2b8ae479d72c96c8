package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps windows in process. Limits are per instance.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string][]time.Time), now: time.Now}
}

func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := prune(s.windows[key], now.Add(-window))

	if len(stamps) >= limit {
		s.windows[key] = stamps
		resetAt := stamps[0].Add(window)
		return Result{
			Allowed:    false,
			Limit:      limit,
			ResetAt:    resetAt,
			RetryAfter: retryAfter(resetAt, now),
		}, nil
	}

	stamps = append(stamps, now)
	s.windows[key] = stamps
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(stamps),
		ResetAt:   stamps[0].Add(window),
	}, nil
}

// prune drops timestamps at or before cutoff. stamps is sorted.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	if i == len(stamps) {
		return nil
	}
	return stamps[i:]
}
