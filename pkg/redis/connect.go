package redis

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

// Connect creates a client for cfg.ConnectionURL and waits until the server
// answers a ping. Returns ErrFailedToParseRedisConnString for a malformed URL
// and ErrRedisNotReady when every attempt fails.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	client := redis.NewClient(opts)

	expBackoff := backoff.NewExponentialBackOff()
	if cfg.RetryInterval > 0 {
		expBackoff.InitialInterval = cfg.RetryInterval
	}
	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	_, err = backoff.Retry(ctx, func() (string, error) {
		return client.Ping(ctx).Result()
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(attempts),
	)
	if err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	return client, nil
}
