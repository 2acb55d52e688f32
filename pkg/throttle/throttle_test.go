package throttle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smaug/pkg/throttle"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newMemory(t *testing.T) (*throttle.MemoryStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := throttle.NewMemoryStore(throttle.WithClock(clock.Now), throttle.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	return store, clock
}

func TestThrottle_BanAfterLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newMemory(t)
	th := throttle.New(store)

	for i := 1; i <= throttle.DefaultLimit; i++ {
		s, err := th.RegisterFailure(ctx, "user@710100")
		require.NoError(t, err)
		assert.Equal(t, int64(i), s.Failures)

		banned, err := th.IsBanned(ctx, "user@710100")
		require.NoError(t, err)
		assert.False(t, banned, "failure %d must not ban", i)
	}

	s, err := th.RegisterFailure(ctx, "user@710100")
	require.NoError(t, err)
	assert.True(t, s.Banned())

	banned, err := th.IsBanned(ctx, "user@710100")
	require.NoError(t, err)
	assert.True(t, banned)

	banned, err = th.IsBanned(ctx, "other@710100")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestThrottle_RollingWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, clock := newMemory(t)
	th := throttle.New(store, throttle.WithLimit(1), throttle.WithWindow(time.Minute))

	_, err := th.RegisterFailure(ctx, "u")
	require.NoError(t, err)

	clock.Advance(50 * time.Second)
	_, err = th.RegisterFailure(ctx, "u")
	require.NoError(t, err)

	// Second failure extended the window past the first one's expiry.
	clock.Advance(50 * time.Second)
	banned, err := th.IsBanned(ctx, "u")
	require.NoError(t, err)
	assert.True(t, banned)

	clock.Advance(11 * time.Second)
	banned, err = th.IsBanned(ctx, "u")
	require.NoError(t, err)
	assert.False(t, banned)

	s, err := th.RegisterFailure(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Failures)
}

func TestThrottle_Reset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newMemory(t)
	th := throttle.New(store, throttle.WithLimit(1))

	for range 3 {
		_, err := th.RegisterFailure(ctx, "u")
		require.NoError(t, err)
	}
	require.NoError(t, th.Reset(ctx, "u"))

	s, err := th.Status(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Failures)
	assert.False(t, s.Banned())
}

func TestThrottle_InvalidConfig(t *testing.T) {
	store, _ := newMemory(t)
	assert.Panics(t, func() { throttle.New(store, throttle.WithLimit(0)) })
	assert.Panics(t, func() { throttle.New(store, throttle.WithWindow(0)) })
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Count(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestThrottle_KeysAndStoreErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	down := errors.New("connection refused")

	store := &mockStore{}
	store.On("Incr", ctx, "throttle_auth_failure:alice@1", 30*time.Minute).Return(int64(0), down)
	store.On("Count", ctx, "throttle_auth_failure:alice@1").Return(int64(0), down)
	store.On("Reset", ctx, "throttle_auth_failure:alice@1").Return(down)

	th := throttle.New(store)

	_, err := th.RegisterFailure(ctx, "alice@1")
	assert.ErrorIs(t, err, throttle.ErrStoreUnavailable)
	assert.ErrorIs(t, err, down)

	_, err = th.IsBanned(ctx, "alice@1")
	assert.ErrorIs(t, err, throttle.ErrStoreUnavailable)

	assert.ErrorIs(t, th.Reset(ctx, "alice@1"), throttle.ErrStoreUnavailable)
	store.AssertExpectations(t)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := throttle.NewMemoryStore()
	defer store.Close()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Incr(ctx, "k", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := store.Count(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)

	store.Close()
	store.Close()
}
