package pg

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect establishes a PostgreSQL connection pool, retrying with exponential
// backoff until a ping succeeds.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	expBackoff := backoff.NewExponentialBackOff()
	if cfg.RetryInterval > 0 {
		expBackoff.InitialInterval = cfg.RetryInterval
	}

	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	pool, err := backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			return nil, err
		}
		// Ping catches authentication and permission problems early.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(attempts),
	)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}

	return pool, nil
}
