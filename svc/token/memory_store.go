package token

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]AccessToken
	byUser map[string]map[string]struct{}
	now    func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

type MemoryOption func(*MemoryStore)

// WithMemoryClock replaces time.Now.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates a store and, for a positive sweepInterval, a goroutine
// that removes expired tokens. Call Close to stop it.
func NewMemoryStore(sweepInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		tokens: make(map[string]AccessToken),
		byUser: make(map[string]map[string]struct{}),
		now:    time.Now,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if sweepInterval > 0 {
		go m.sweepLoop(sweepInterval)
	}
	return m
}

func (m *MemoryStore) StoreAccessToken(_ context.Context, token, clientID string, expires time.Time, userID string) error {
	if err := validateInput(token, clientID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.tokens[token]; ok {
		m.unindex(old)
	}
	m.tokens[token] = AccessToken{Token: token, ClientID: clientID, UserID: userID, Expires: expires}
	set, ok := m.byUser[userID]
	if !ok {
		set = make(map[string]struct{})
		m.byUser[userID] = set
	}
	set[token] = struct{}{}
	return nil
}

func (m *MemoryStore) GetAccessToken(_ context.Context, token string) (*AccessToken, error) {
	m.mu.RLock()
	t, ok := m.tokens[token]
	m.mu.RUnlock()

	if !ok || !t.ValidAt(m.now()) {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *MemoryStore) RevokeToken(_ context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[token]
	if !ok {
		return 0, nil
	}
	delete(m.tokens, token)
	m.unindex(t)
	return 1, nil
}

func (m *MemoryStore) ClearAccessTokensForUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for tok := range m.byUser[userID] {
		if _, ok := m.tokens[tok]; ok {
			delete(m.tokens, tok)
			n++
		}
	}
	delete(m.byUser, userID)
	return n, nil
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// DeleteExpired removes expired tokens and returns how many were dropped.
func (m *MemoryStore) DeleteExpired(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var n int64
	for tok, t := range m.tokens {
		if !t.ValidAt(now) {
			delete(m.tokens, tok)
			m.unindex(t)
			n++
		}
	}
	return n, nil
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (m *MemoryStore) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

func (m *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}

// unindex must be called with mu held.
func (m *MemoryStore) unindex(t AccessToken) {
	set := m.byUser[t.UserID]
	delete(set, t.Token)
	if len(set) == 0 {
		delete(m.byUser, t.UserID)
	}
}
