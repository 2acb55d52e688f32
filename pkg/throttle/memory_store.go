package throttle

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	value     int64
	expiresAt time.Time
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired counters are dropped.
// Zero disables the background cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates a store and starts its cleanup goroutine.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		counters:        make(map[string]*counter),
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

func (ms *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	c, ok := ms.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &counter{}
		ms.counters[key] = c
	}
	c.value++
	c.expiresAt = now.Add(window)

	return c.value, nil
}

func (ms *MemoryStore) Count(_ context.Context, key string) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	c, ok := ms.counters[key]
	if !ok || !ms.now().Before(c.expiresAt) {
		return 0, nil
	}
	return c.value, nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.counters, key)
	return nil
}

func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.removeExpired()
		case <-ms.stopCleanup:
			return
		}
	}
}

func (ms *MemoryStore) removeExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, c := range ms.counters {
		if !now.Before(c.expiresAt) {
			delete(ms.counters, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	ms.closeOnce.Do(func() { close(ms.stopCleanup) })
}
