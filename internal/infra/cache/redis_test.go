package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/saas-factory/api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := New(&config.Config{Redis: config.RedisCfg{Addr: mr.Addr(), PoolSize: 2}})
	require.NoError(t, err)
	defer Close(rdb)

	_, err = New(&config.Config{Redis: config.RedisCfg{Addr: "127.0.0.1:1"}})
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	type payload struct {
		Total int `json:"total"`
	}
	var got payload
	hit, err := GetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, SetJSON(ctx, rdb, "k", payload{Total: 7}, time.Minute))
	hit, err = GetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, got.Total)

	mr.FastForward(2 * time.Minute)
	hit, err = GetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
