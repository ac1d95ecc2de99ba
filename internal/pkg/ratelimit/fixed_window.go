package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// FixedWindowLimiter counts hits per key in fixed windows shared through Redis.
type FixedWindowLimiter struct {
	limit  int
	window time.Duration
	rdb    redis.Scripter
	prefix string
	now    func() time.Time
}

func NewFixedWindowLimiter(rdb redis.Scripter, prefix string, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if rdb == nil {
		return nil, errors.New("rate limiter requires a redis client")
	}
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "sf:ratelimit"
	}
	return &FixedWindowLimiter{
		limit:  limit,
		window: window,
		rdb:    rdb,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

// Result describes one Allow decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Allow counts a hit for key. Redis errors are returned with Allowed=false so callers
// can decide to fail open.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	windowMs := l.window.Milliseconds()
	nowMs := l.now().UTC().UnixMilli()
	slot := nowMs / windowMs
	reset := time.Duration((slot+1)*windowMs-nowMs) * time.Millisecond

	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)
	count, err := fixedWindowScript.Run(ctx, l.rdb, []string{redisKey}, windowMs).Int64()
	if err != nil {
		return Result{ResetIn: reset}, fmt.Errorf("rate limit script: %w", err)
	}
	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: count <= int64(l.limit), Remaining: remaining, ResetIn: reset}, nil
}

func (l *FixedWindowLimiter) Limit() int { return l.limit }
