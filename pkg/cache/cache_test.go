package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/smaug/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newCache(clock *fakeClock, capacity int) *cache.Cache[string, int] {
	return cache.New(
		cache.WithTTL[string, int](30*time.Second),
		cache.WithCapacity[string, int](capacity),
		cache.WithClock[string, int](clock.Now),
	)
}

func TestCache_Basic(t *testing.T) {
	clock := &fakeClock{now: time.Now()}

	t.Run("set and get", func(t *testing.T) {
		c := newCache(clock, 3)
		c.Set("a", 1)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("get missing", func(t *testing.T) {
		c := newCache(clock, 3)

		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, val)
	})

	t.Run("overwrite", func(t *testing.T) {
		c := newCache(clock, 3)
		c.Set("a", 1)
		c.Set("a", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("delete", func(t *testing.T) {
		c := newCache(clock, 3)
		c.Set("a", 1)

		assert.True(t, c.Delete("a"))
		assert.False(t, c.Delete("a"))

		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("delete func", func(t *testing.T) {
		c := newCache(clock, 5)
		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("c", 3)

		removed := c.DeleteFunc(func(_ string, v int) bool { return v%2 == 1 })
		assert.Equal(t, 2, removed)

		_, ok := c.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("clear", func(t *testing.T) {
		c := newCache(clock, 3)
		c.Set("a", 1)
		c.Set("b", 2)
		c.Clear()

		assert.Equal(t, 0, c.Len())
		_, ok := c.Get("a")
		assert.False(t, ok)
	})
}

func TestCache_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newCache(clock, 3)

	c.Set("a", 1)
	clock.Advance(29 * time.Second)

	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Second)

	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	t.Run("set refreshes ttl", func(t *testing.T) {
		c.Set("b", 1)
		clock.Advance(20 * time.Second)
		c.Set("b", 2)
		clock.Advance(20 * time.Second)

		val, ok := c.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
	})
}

func TestCache_Eviction(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newCache(clock, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a becomes most recently used
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_Defaults(t *testing.T) {
	c := cache.New[string, int](
		cache.WithTTL[string, int](-1),
		cache.WithCapacity[string, int](0),
	)
	c.Set("a", 1)

	val, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)
}

func TestCache_SetIfGeneration(t *testing.T) {
	clock := &fakeClock{now: time.Now()}

	t.Run("fills when nothing was invalidated", func(t *testing.T) {
		c := newCache(clock, 3)
		gen := c.Generation()

		assert.True(t, c.SetIfGeneration("a", 1, gen))
		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
	})

	t.Run("delete of an absent key still blocks the fill", func(t *testing.T) {
		c := newCache(clock, 3)
		gen := c.Generation()

		assert.False(t, c.Delete("a"))
		assert.False(t, c.SetIfGeneration("a", 1, gen))
		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("delete func and clear advance the generation", func(t *testing.T) {
		c := newCache(clock, 3)

		gen := c.Generation()
		c.DeleteFunc(func(string, int) bool { return false })
		assert.False(t, c.SetIfGeneration("a", 1, gen))

		gen = c.Generation()
		c.Clear()
		assert.False(t, c.SetIfGeneration("a", 1, gen))

		assert.True(t, c.SetIfGeneration("a", 1, c.Generation()))
	})

	t.Run("set does not advance the generation", func(t *testing.T) {
		c := newCache(clock, 3)
		gen := c.Generation()
		c.Set("b", 2)

		assert.True(t, c.SetIfGeneration("a", 1, gen))
	})
}

func TestCache_Concurrent(t *testing.T) {
	c := cache.New[int, int]()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(3)
		go func(v int) {
			defer wg.Done()
			c.Set(v, v*2)
		}(i)
		go func(v int) {
			defer wg.Done()
			c.Get(v)
		}(i)
		go func(v int) {
			defer wg.Done()
			if v%2 == 0 {
				c.Delete(v)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 100)
}

func BenchmarkCache_Mixed(b *testing.B) {
	c := cache.New[int, int](cache.WithCapacity[int, int](1000))

	b.ResetTimer()
	for i := range b.N {
		if i%2 == 0 {
			c.Set(i%2000, i)
		} else {
			c.Get(i % 2000)
		}
	}
}
