package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "clockgeo:ratelimit:"

// slidingWindow trims the sorted set, counts it and records the request
// only when under the limit. Scores are unix milliseconds.
// Returns {allowed, count, oldestScore}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
  count = count + 1
  allowed = 1
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local first = now
if oldest[2] then
  first = tonumber(oldest[2])
end
return {allowed, count, first}
`)

// RedisStore shares windows across instances.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := s.now()
	vals, err := slidingWindow.Run(ctx, s.client, []string{redisKeyPrefix + key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("rate limit %s: unexpected reply %v", key, vals)
	}

	resetAt := time.UnixMilli(vals[2]).Add(window)
	res := Result{
		Allowed: vals[0] == 1,
		Limit:   limit,
		ResetAt: resetAt,
	}
	if res.Allowed {
		res.Remaining = limit - int(vals[1])
	} else {
		res.RetryAfter = retryAfter(resetAt, now)
	}
	return res, nil
}
