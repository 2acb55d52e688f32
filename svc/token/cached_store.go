package token

import (
	"context"
	"time"

	"github.com/dmitrymomot/smaug/pkg/cache"
)

// CachedStore caches positive reads of another Store.
type CachedStore struct {
	Store
	cache *cache.Cache[string, AccessToken]
	now   func() time.Time
}

type CacheOption func(*CachedStore)

// WithCacheClock replaces time.Now for expiry checks on cache hits.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(s *CachedStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewCachedStore wraps inner with a read cache. A non-positive ttl uses cache.DefaultTTL.
func NewCachedStore(inner Store, ttl time.Duration, opts ...CacheOption) *CachedStore {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	s := &CachedStore{Store: inner, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = cache.New(
		cache.WithTTL[string, AccessToken](ttl),
		cache.WithClock[string, AccessToken](s.now),
	)
	return s
}

func (s *CachedStore) StoreAccessToken(ctx context.Context, token, clientID string, expires time.Time, userID string) error {
	err := s.Store.StoreAccessToken(ctx, token, clientID, expires, userID)
	s.cache.Delete(token)
	return err
}

func (s *CachedStore) GetAccessToken(ctx context.Context, token string) (*AccessToken, error) {
	if t, ok := s.cache.Get(token); ok {
		if t.ValidAt(s.now()) {
			return &t, nil
		}
		s.cache.Delete(token)
		return nil, ErrNotFound
	}

	gen := s.cache.Generation()
	t, err := s.Store.GetAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}
	// A revoke that raced the fetch wins; the stale read is not cached.
	s.cache.SetIfGeneration(token, *t, gen)
	return t, nil
}

func (s *CachedStore) RevokeToken(ctx context.Context, token string) (int64, error) {
	n, err := s.Store.RevokeToken(ctx, token)
	s.cache.Delete(token)
	return n, err
}

func (s *CachedStore) ClearAccessTokensForUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.Store.ClearAccessTokensForUser(ctx, userID)
	s.cache.DeleteFunc(func(_ string, t AccessToken) bool { return t.UserID == userID })
	return n, err
}
