package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*JSONCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "crm"), mr
}

func TestSetGetRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "snapshot", payload{Name: "Acme", Count: 3}, time.Minute))
	assert.True(t, mr.Exists("crm:snapshot"))

	var got payload
	require.NoError(t, c.Get(ctx, "snapshot", &got))
	assert.Equal(t, payload{Name: "Acme", Count: 3}, got)
}

func TestGetMissAfterExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "snapshot", payload{}, time.Second))
	mr.FastForward(2 * time.Second)

	var got payload
	assert.ErrorIs(t, c.Get(ctx, "snapshot", &got), ErrMiss)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Delete(ctx, "a", "missing"))

	var n int
	assert.ErrorIs(t, c.Get(ctx, "a", &n), ErrMiss)
	assert.NoError(t, c.Delete(ctx))
}

func TestSetNXClaimsOnce(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	first, err := c.SetNX(ctx, "alert:untouched:L1", time.Hour)
	require.NoError(t, err)
	second, err := c.SetNX(ctx, "alert:untouched:L1", time.Hour)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("not a url", false)
	assert.Error(t, err)
}

func TestSetIfVersionRejectsBumpedVersion(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	v, err := c.Version(ctx, "snapshot:version")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	stored, err := c.SetIfVersion(ctx, "snapshot:version", v, "snapshot", payload{Name: "old"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)

	require.NoError(t, c.Bump(ctx, "snapshot:version", "snapshot"))
	assert.False(t, mr.Exists("crm:snapshot"))

	stored, err = c.SetIfVersion(ctx, "snapshot:version", v, "snapshot", payload{Name: "stale"}, time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("crm:snapshot"))

	v, err = c.Version(ctx, "snapshot:version")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	stored, err = c.SetIfVersion(ctx, "snapshot:version", v, "snapshot", payload{Name: "fresh"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
}
