package cache

import (
	"context"
	"sync"
	"time"

	"github.com/brokerage/backend/internal/domain/listing"
)

// InMemoryListingCache caches the default property listing in process memory.
// It guards its state with its own mutex, independent of the per-entity lock
// table, so cache reads never contend with store writes.
type InMemoryListingCache struct {
	mu        sync.Mutex
	items     []listing.PropertyWithAddress
	populated bool
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemoryListingCache creates a listing cache with the given TTL
func NewInMemoryListingCache(ttl time.Duration) *InMemoryListingCache {
	return &InMemoryListingCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached listing, or nil when the cache is empty or expired
func (c *InMemoryListingCache) Get(ctx context.Context) ([]listing.PropertyWithAddress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.populated || c.now().After(c.expiresAt) {
		return nil, nil
	}

	// Hand out a copy so callers cannot mutate the cached slice
	out := make([]listing.PropertyWithAddress, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Set stores the listing, resetting the TTL window
func (c *InMemoryListingCache) Set(ctx context.Context, items []listing.PropertyWithAddress) error {
	stored := make([]listing.PropertyWithAddress, len(items))
	copy(stored, items)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = stored
	c.populated = true
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

// Clear drops the cached listing. An empty cached listing stays a valid
// cache entry; only Clear forces the next read back to the store.
func (c *InMemoryListingCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.populated = false
	return nil
}
