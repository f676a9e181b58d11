package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"inventory-platform/app/domain"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "inventory:item:"

// tombstone marks a deleted or invalidated item.
const tombstone = "-"

type itemCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewItemCache(client *redis.Client, ttl time.Duration) domain.ItemCache {
	return &itemCache{client: client, ttl: ttl}
}

func key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func (c *itemCache) Get(ctx context.Context, id int64) (domain.Item, error) {
	var item domain.Item

	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return item, domain.ErrNotFound
		}
		return item, err
	}
	if string(data) == tombstone {
		return item, domain.ErrNotFound
	}
	if err := json.Unmarshal(data, &item); err != nil {
		return item, fmt.Errorf("decode cached item %d: %w", id, err)
	}
	return item, nil
}

// Add stores item only when the key is absent. A tombstone counts as present.
func (c *itemCache) Add(ctx context.Context, item domain.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, key(item.ID), data, c.ttl).Err()
}

func (c *itemCache) Set(ctx context.Context, item domain.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(item.ID), data, c.ttl).Err()
}

func (c *itemCache) Delete(ctx context.Context, id int64) error {
	return c.client.Set(ctx, key(id), tombstone, c.ttl).Err()
}
