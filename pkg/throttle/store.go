package throttle

import (
	"context"
	"time"
)

// Store keeps expiring failure counters.
type Store interface {
	// Incr increments the counter at key, sets its expiry to window from now
	// and returns the new value.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	// Count returns the current value, or 0 when the key is absent or expired.
	Count(ctx context.Context, key string) (int64, error)

	// Reset removes the counter.
	Reset(ctx context.Context, key string) error
}
