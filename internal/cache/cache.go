// internal/cache/cache.go

// Package cache is the in-process memo layer that sits above the engine.
// Entries are invalidated purely by overwrite or LRU eviction; callers are
// responsible for deriving a fresh key when their inputs change.
package cache

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memo is a fixed-capacity LRU keyed by composite strings.
type Memo[V any] struct {
	c *lru.Cache[string, V]
}

// NewMemo creates a memo bounded to capacity entries.
func NewMemo[V any](capacity int) (*Memo[V], error) {
	c, err := lru.New[string, V](capacity)
	if err != nil {
		return nil, err
	}
	return &Memo[V]{c: c}, nil
}

// Get returns the cached value for key, if present.
func (m *Memo[V]) Get(key string) (V, bool) {
	return m.c.Get(key)
}

// Put stores v under key, evicting the least recently used entry when full.
func (m *Memo[V]) Put(key string, v V) {
	m.c.Add(key, v)
}

// Len returns the number of live entries.
func (m *Memo[V]) Len() int {
	return m.c.Len()
}

// Key builds a composite cache key from input identifiers.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}
