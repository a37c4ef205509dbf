// Package cache provides a generic TTL cache backed by an LRU store.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultSize = 1024

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a size-bounded cache whose entries expire after a TTL.
type Cache[K comparable, V any] struct {
	store *lru.Cache[K, entry[V]]
	ttl   time.Duration
	now   func() time.Time
}

// New creates a Cache with the given TTL and the default size bound.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return NewWithSize[K, V](ttl, defaultSize)
}

// NewWithSize creates a Cache with the given TTL and maximum entry count.
func NewWithSize[K comparable, V any](ttl time.Duration, size int) *Cache[K, V] {
	if size < 1 {
		size = defaultSize
	}
	store, err := lru.New[K, entry[V]](size)
	if err != nil {
		// lru.New only fails on non-positive size.
		panic(err)
	}
	return &Cache[K, V]{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zero V
	e, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.store.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *Cache[K, V]) Set(ctx context.Context, key K, value V) {
	c.store.Add(key, entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	})
}

// Remove evicts key from the cache.
func (c *Cache[K, V]) Remove(key K) {
	c.store.Remove(key)
}

// Purge removes all entries.
func (c *Cache[K, V]) Purge() {
	c.store.Purge()
}

// Len returns the number of stored entries, including any not yet expired.
func (c *Cache[K, V]) Len() int {
	return c.store.Len()
}
