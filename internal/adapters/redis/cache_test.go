package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "ko_lake_villa/internal/adapters/redis"
	"ko_lake_villa/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	want := []domain.NormalizedMediaRecord{{ID: 1, URL: "/a.jpg", Title: "Pool & Deck Area", Category: "pool-deck", IsValid: true}}
	require.NoError(t, c.Set(ctx, "gallery:v1", want, 60))
	assert.True(t, mr.Exists("kolake:gallery:v1"))

	var got []domain.NormalizedMediaRecord
	ok, err := c.Get(ctx, "gallery:v1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want[0].Title, got[0].Title)

	require.NoError(t, c.Del(ctx, "gallery:v1"))
	ok, err = c.Get(ctx, "gallery:v1", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "rooms", []string{"KNP"}, 10))
	mr.FastForward(11 * time.Second)

	var got []string
	ok, err := c.Get(ctx, "rooms", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_UnmarshalableValue(t *testing.T) {
	c, _ := newCache(t)
	assert.Error(t, c.Set(context.Background(), "bad", make(chan int), 10))
}

func TestCache_Ping(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, c.Ping(context.Background()))
	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
