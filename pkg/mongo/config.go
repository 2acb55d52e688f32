package mongo

import "time"

type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL,required" validate:"required"`
	Database        string        `env:"MONGODB_DATABASE" envDefault:"smaug" validate:"required"`
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`
	RetryAttempts   uint          `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3" validate:"gt=0"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"1s"`
}
