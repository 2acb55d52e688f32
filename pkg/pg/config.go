package pg

import "time"

type Config struct {
	ConnectionString  string        `env:"PG_CONN_URL,required" validate:"required"`
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10" validate:"gt=0"`
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5" validate:"gte=0,ltefield=MaxOpenConns"`
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts uint          `env:"PG_RETRY_ATTEMPTS" envDefault:"3" validate:"gt=0"`
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"1s"`

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations" validate:"required"`
}
