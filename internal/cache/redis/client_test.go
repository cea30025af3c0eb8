package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oggyb/chuanglan-sms/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithCmdable(rdb), mr
}

func TestClient_SetGetDel(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, err := c.Get(ctx, "quota:remaining")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "quota:remaining", "1000|1700000000", time.Minute))
	v, err := c.Get(ctx, "quota:remaining")
	require.NoError(t, err)
	assert.Equal(t, "1000|1700000000", v)
	assert.Equal(t, time.Minute, mr.TTL("quota:remaining"))

	require.NoError(t, c.Del(ctx, "quota:remaining"))
	_, err = c.Get(ctx, "quota:remaining")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestClient_IncrBy(t *testing.T) {
	testCases := []struct {
		name    string
		ttl     time.Duration
		wantTTL time.Duration
	}{
		{name: "with ttl", ttl: 48 * time.Hour, wantTTL: 48 * time.Hour},
		{name: "without ttl", ttl: 0, wantTTL: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, mr := newTestClient(t)
			ctx := context.Background()
			key := "sent_messages:20250101"

			n, err := c.IncrBy(ctx, key, 190, tc.ttl)
			require.NoError(t, err)
			assert.Equal(t, int64(190), n)

			n, err = c.IncrBy(ctx, key, 10, tc.ttl)
			require.NoError(t, err)
			assert.Equal(t, int64(200), n)

			v, err := mr.Get(key)
			require.NoError(t, err)
			assert.Equal(t, "200", v)
			assert.Equal(t, tc.wantTTL, mr.TTL(key))
		})
	}
}

func TestClient_IncrByExpires(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	_, err := c.IncrBy(ctx, "sent_messages:20250101", 5, time.Hour)
	require.NoError(t, err)

	mr.FastForward(time.Hour + time.Second)

	_, err = c.Get(ctx, "sent_messages:20250101")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
