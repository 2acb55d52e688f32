// Package cache provides a generic, thread-safe, size-bounded cache whose
// entries expire after a fixed time-to-live.
//
// It is used as an advisory read-through layer in front of slower stores:
// correctness never depends on it, and writers invalidate entries
// synchronously before returning.
//
// # Usage
//
//	c := cache.New[string, *client.Client](
//		cache.WithTTL[string, *client.Client](30*time.Second),
//		cache.WithCapacity[string, *client.Client](1000),
//	)
//
//	c.Set(id, cl)
//	if cl, ok := c.Get(id); ok {
//		// fresh hit
//	}
//	c.Delete(id)
//
// # Expiry
//
// Expired entries are dropped lazily on Get, so the cache never starts a
// background goroutine and needs no Close. When the capacity is reached the
// least recently used entry is evicted.
//
// Time is read through a clock function that tests can replace with
// WithClock.
package cache
