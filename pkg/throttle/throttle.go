package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultLimit     = 5
	DefaultWindow    = 30 * time.Minute
	DefaultKeyPrefix = "throttle_auth_failure:"
)

// Status describes the failure counter of one username.
type Status struct {
	Failures int64
	Limit    int64
}

// Banned reports whether the counter is above the limit.
func (s Status) Banned() bool {
	return s.Failures > s.Limit
}

// Throttle tracks failed logins per username.
type Throttle struct {
	store  Store
	limit  int64
	window time.Duration
	prefix string
}

type Option func(*Throttle)

// WithLimit sets how many failures are tolerated before a ban.
func WithLimit(n int64) Option {
	return func(t *Throttle) { t.limit = n }
}

// WithWindow sets the rolling window each failure extends.
func WithWindow(d time.Duration) Option {
	return func(t *Throttle) { t.window = d }
}

// WithKeyPrefix replaces the counter key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(t *Throttle) { t.prefix = prefix }
}

// New creates a Throttle over store. It panics on a non-positive limit or window.
func New(store Store, opts ...Option) *Throttle {
	t := &Throttle{
		store:  store,
		limit:  DefaultLimit,
		window: DefaultWindow,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.limit <= 0 || t.window <= 0 {
		panic(fmt.Errorf("%w: limit=%d window=%s", ErrInvalidConfig, t.limit, t.window))
	}
	return t
}

// RegisterFailure records a failed login and returns the updated status.
func (t *Throttle) RegisterFailure(ctx context.Context, username string) (Status, error) {
	n, err := t.store.Incr(ctx, t.key(username), t.window)
	if err != nil {
		return Status{}, errors.Join(ErrStoreUnavailable, err)
	}
	return Status{Failures: n, Limit: t.limit}, nil
}

// IsBanned reports whether username has exceeded the failure limit.
func (t *Throttle) IsBanned(ctx context.Context, username string) (bool, error) {
	s, err := t.Status(ctx, username)
	if err != nil {
		return false, err
	}
	return s.Banned(), nil
}

// Status returns the current counter of username without changing it.
func (t *Throttle) Status(ctx context.Context, username string) (Status, error) {
	n, err := t.store.Count(ctx, t.key(username))
	if err != nil {
		return Status{}, errors.Join(ErrStoreUnavailable, err)
	}
	return Status{Failures: n, Limit: t.limit}, nil
}

// Reset clears the counter of username, lifting any ban.
func (t *Throttle) Reset(ctx context.Context, username string) error {
	if err := t.store.Reset(ctx, t.key(username)); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (t *Throttle) key(username string) string {
	return t.prefix + username
}
