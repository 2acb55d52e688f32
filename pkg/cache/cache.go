package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	// DefaultTTL matches the read-through window used by the relational stores.
	DefaultTTL = 30 * time.Second
	// DefaultCapacity bounds memory use when no capacity is configured.
	DefaultCapacity = 10000
)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe LRU cache with per-entry expiry.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	now      func() time.Time
	items    map[K]*list.Element
	order    *list.List
	gen      uint64
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithTTL sets the lifetime of every entry. Non-positive values are ignored.
func WithTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCapacity bounds the number of entries. Non-positive values are ignored.
func WithCapacity[K comparable, V any](capacity int) Option[K, V] {
	return func(c *Cache[K, V]) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithClock replaces the time source.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *Cache[K, V]) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache.
func New[K comparable, V any](opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		now:      time.Now,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[K, V])
	if !c.now().Before(e.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return e.value, true
}

// Set stores value under key, replacing any previous entry and resetting its TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// Must be called with lock held.
func (c *Cache[K, V]) set(key K, value V) {
	expiresAt := c.now().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})

	if c.order.Len() > c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Generation returns a counter advanced by every Delete, DeleteFunc and Clear.
// Read-through callers take it before fetching and fill with SetIfGeneration.
func (c *Cache[K, V]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration stores value under key unless an invalidation happened since
// gen was taken. It reports whether the value was stored.
func (c *Cache[K, V]) SetIfGeneration(key K, value V, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.set(key, value)
	return true
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	return true
}

// DeleteFunc removes every entry for which fn returns true.
func (c *Cache[K, V]) DeleteFunc(fn func(key K, value V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*entry[K, V])
		if fn(e.key, e.value) {
			c.removeElement(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	clear(c.items)
	c.order.Init()
}

// Len returns the number of entries, including expired ones not yet dropped.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Must be called with lock held.
func (c *Cache[K, V]) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry[K, V]).key)
}
