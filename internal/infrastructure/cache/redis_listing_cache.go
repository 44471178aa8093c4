package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/redis/go-redis/v9"
)

const listingCacheKey = "brokerage:listing:default"

// RedisListingCache caches the default property listing in Redis, sharing it
// across instances. The payload is the JSON-encoded enriched listing.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisListingCache creates a Redis-backed listing cache with the given TTL
func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{client: client, ttl: ttl}
}

// Get returns the cached listing, or nil when the key is absent
func (c *RedisListingCache) Get(ctx context.Context) ([]listing.PropertyWithAddress, error) {
	payload, err := c.client.Get(ctx, listingCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var items []listing.PropertyWithAddress
	if err := json.Unmarshal(payload, &items); err != nil {
		// A corrupt payload reads as a miss; the next Set overwrites it
		return nil, nil
	}
	if items == nil {
		items = []listing.PropertyWithAddress{}
	}
	return items, nil
}

// Set stores the listing under the cache key with the configured TTL
func (c *RedisListingCache) Set(ctx context.Context, items []listing.PropertyWithAddress) error {
	if items == nil {
		items = []listing.PropertyWithAddress{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingCacheKey, payload, c.ttl).Err()
}

// Clear drops the cached listing
func (c *RedisListingCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, listingCacheKey).Err()
}
