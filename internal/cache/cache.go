// Package cache provides size-bounded caches whose entries expire after a fixed TTL.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mmcdole/marquee/internal/domain"
)

// Cache is a TTL cache keyed by string
type Cache[V any] struct {
	lru *expirable.LRU[string, V]
}

// New creates a cache holding at most size entries, each living for ttl.
// A zero ttl keeps entries until they are evicted by size.
func New[V any](size int, ttl time.Duration) *Cache[V] {
	if size <= 0 {
		size = 128
	}
	return &Cache[V]{lru: expirable.NewLRU[string, V](size, nil, ttl)}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

func (c *Cache[V]) Add(key string, value V) {
	c.lru.Add(key, value)
}

func (c *Cache[V]) Remove(key string) {
	c.lru.Remove(key)
}

// Purge drops every entry
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// ItemCache holds item details primed ahead of navigation
type ItemCache = Cache[domain.Item]

var _ domain.ItemCache = (*ItemCache)(nil)

// NewItemCache creates an item detail cache
func NewItemCache(size int, ttl time.Duration) *ItemCache {
	return New[domain.Item](size, ttl)
}
