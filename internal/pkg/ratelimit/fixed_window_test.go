package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, limit int) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	l, err := NewFixedWindowLimiter(rdb, "test:ratelimit", limit, time.Minute)
	require.NoError(t, err)
	return l, mr
}

func TestFixedWindowLimiter_Allow(t *testing.T) {
	l, _ := newLimiter(t, 2)
	ctx := context.Background()

	r, err := l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
	assert.Equal(t, 1, r.Remaining)

	r, err = l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
	assert.Equal(t, 0, r.Remaining)

	r, err = l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, r.Allowed)

	// other keys have their own window
	r, err = l.Allow(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
}

func TestFixedWindowLimiter_WindowRollover(t *testing.T) {
	l, _ := newLimiter(t, 1)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	r, err := l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
	r, err = l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, r.Allowed)

	l.now = func() time.Time { return base.Add(time.Minute) }
	r, err = l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
}

func TestFixedWindowLimiter_RedisDown(t *testing.T) {
	l, mr := newLimiter(t, 1)
	mr.Close()

	r, err := l.Allow(context.Background(), "user-1")
	assert.Error(t, err)
	assert.False(t, r.Allowed)
}

func TestNewFixedWindowLimiter_Validation(t *testing.T) {
	_, err := NewFixedWindowLimiter(nil, "", 1, time.Second)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	_, err = NewFixedWindowLimiter(rdb, "", 0, time.Second)
	assert.Error(t, err)
}
