package mongo

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// New creates a client and waits until the server answers a ping.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(
		options.Client().
			ApplyURI(cfg.ConnectionURL).
			SetConnectTimeout(cfg.ConnectTimeout).
			SetMaxPoolSize(cfg.MaxPoolSize).
			SetMinPoolSize(cfg.MinPoolSize).
			SetMaxConnIdleTime(cfg.MaxConnIdleTime).
			SetRetryWrites(cfg.RetryWrites).
			SetRetryReads(cfg.RetryReads),
	)
	if err != nil {
		return nil, errors.Join(ErrFailedToConnectToMongo, err)
	}

	expBackoff := backoff.NewExponentialBackOff()
	if cfg.RetryInterval > 0 {
		expBackoff.InitialInterval = cfg.RetryInterval
	}
	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, client.Ping(ctx, nil)
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(attempts),
	)
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, errors.Join(ErrFailedToConnectToMongo, err)
	}

	return client, nil
}

// NewWithDatabase connects and returns the handle of cfg.Database.
func NewWithDatabase(ctx context.Context, cfg Config) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}
