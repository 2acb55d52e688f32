package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" validate:"required"` // redis://:password@localhost:6379/0
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX"`
	RetryAttempts  uint          `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" validate:"gt=0"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s" validate:"gt=0"`
}
