package cache

import (
	"context"
	"inventory-platform/app/domain"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestItemCache_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	c := NewItemCache(client, time.Minute)

	item := domain.Item{ID: 424242, Name: "Cached", Quantity: 7, CategoryID: 2}
	t.Cleanup(func() { client.Del(ctx, key(item.ID)) })

	require.NoError(t, c.Set(ctx, item))

	got, err := c.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	ttl, err := client.TTL(ctx, key(item.ID)).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, c.Delete(ctx, item.ID))
	_, err = c.Get(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemCache_Miss(t *testing.T) {
	client := getRedisClient(t)
	c := NewItemCache(client, time.Minute)

	_, err := c.Get(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "inventory:item:15", key(15))
}

func TestItemCache_AddKeepsNewerValueAndTombstone(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	c := NewItemCache(client, time.Minute)

	fresh := domain.Item{ID: 434343, Name: "Cached", Quantity: 3, CategoryID: 2}
	stale := fresh
	stale.Quantity = 30
	t.Cleanup(func() { client.Del(ctx, key(fresh.ID)) })

	require.NoError(t, c.Set(ctx, fresh))
	require.NoError(t, c.Add(ctx, stale))
	got, err := c.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)

	require.NoError(t, c.Delete(ctx, fresh.ID))
	require.NoError(t, c.Add(ctx, stale))
	_, err = c.Get(ctx, fresh.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, c.Set(ctx, fresh))
	got, err = c.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}
