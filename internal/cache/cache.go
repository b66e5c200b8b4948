// Package cache provides a bounded, concurrency-safe result cache keyed by
// document content and configuration fingerprint.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a fixed-capacity LRU map from content keys to immutable values.
// Entries are never mutated after insertion, so concurrent readers need no
// coordination beyond what the underlying LRU provides.
type Cache[V any] struct {
	lru *lru.Cache[string, V]
}

// New creates a cache holding at most size entries
func New[V any](size int) (*Cache[V], error) {
	l, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: l}, nil
}

// Key derives a stable cache key from document content and a configuration
// fingerprint. Two documents with identical text but different configs never
// collide.
func Key(content, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte{0})
	h.Write([]byte(fingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for key, if present
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Put stores a value, evicting the least recently used entry when full
func (c *Cache[V]) Put(key string, value V) {
	c.lru.Add(key, value)
}

// Clear drops all entries
func (c *Cache[V]) Clear() {
	c.lru.Purge()
}

// Len reports the number of cached entries
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
