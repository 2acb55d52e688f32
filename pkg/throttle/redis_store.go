package throttle

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis so counters are shared between processes.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix namespaces every key, e.g. per deployment.
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) { rs.prefix = prefix }
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{client: client}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

func (rs *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = rs.prefix + key

	var incr *redis.IntCmd
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (rs *RedisStore) Count(ctx context.Context, key string) (int64, error) {
	n, err := rs.client.Get(ctx, rs.prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	return rs.client.Del(ctx, rs.prefix+key).Err()
}
