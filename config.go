package smaug

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/smaug/pkg/config"
	"github.com/dmitrymomot/smaug/pkg/mongo"
	"github.com/dmitrymomot/smaug/pkg/pg"
	"github.com/dmitrymomot/smaug/pkg/redis"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config selects and configures the backends of a Service.
type Config struct {
	ClientBackend  string        `env:"SMAUG_CLIENT_BACKEND" envDefault:"memory" validate:"oneof=memory postgres"`
	ClientCacheTTL time.Duration `env:"SMAUG_CLIENT_CACHE_TTL" envDefault:"30s" validate:"gte=0"`

	TokenBackend       string        `env:"SMAUG_TOKEN_BACKEND" envDefault:"memory" validate:"oneof=memory redis postgres mongo"`
	TokenCacheTTL      time.Duration `env:"SMAUG_TOKEN_CACHE_TTL" envDefault:"0s" validate:"gte=0"` // 0 disables the read cache
	TokenSweepInterval time.Duration `env:"SMAUG_TOKEN_SWEEP_INTERVAL" envDefault:"1m" validate:"gte=0"`
	TokenLifetime      time.Duration `env:"SMAUG_TOKEN_LIFETIME" envDefault:"720h" validate:"gt=0"`

	ThrottleBackend string        `env:"SMAUG_THROTTLE_BACKEND" envDefault:"memory" validate:"oneof=memory redis"`
	ThrottleLimit   int64         `env:"SMAUG_THROTTLE_LIMIT" envDefault:"5" validate:"gt=0"`
	ThrottleWindow  time.Duration `env:"SMAUG_THROTTLE_WINDOW" envDefault:"30m" validate:"gt=0"`

	DefaultLibrary string `env:"SMAUG_DEFAULT_LIBRARY_ID"`
	HierarchyPath  string `env:"SMAUG_CONFIG_PATH"`
	AgenciesPath   string `env:"SMAUG_AGENCIES_PATH"`
	UsersPath      string `env:"SMAUG_USERS_PATH"`

	PatronCheckURL string `env:"SMAUG_PATRON_CHECK_URL" validate:"omitempty,url"`
	LDAPURL        string `env:"SMAUG_LDAP_URL" validate:"omitempty,url"`
	LDAPDNTemplate string `env:"SMAUG_LDAP_DN_TEMPLATE"`

	HealthTimeout time.Duration `env:"SMAUG_HEALTH_TIMEOUT" envDefault:"5s" validate:"gt=0"`

	// Connection settings, loaded only for the backends selected above.
	Postgres *pg.Config
	Redis    *redis.Config
	Mongo    *mongo.Config
}

func (c Config) uses(backend string) bool {
	return c.ClientBackend == backend || c.TokenBackend == backend || c.ThrottleBackend == backend
}

// validateBackends rejects combinations the schemas cannot serve: the postgres
// tokens table references the postgres clients table.
func (c Config) validateBackends() error {
	if c.TokenBackend == BackendPostgres && c.ClientBackend != BackendPostgres {
		return fmt.Errorf("%w: token backend %q requires client backend %q, got %q",
			ErrIncompatibleBackends, BackendPostgres, BackendPostgres, c.ClientBackend)
	}
	return nil
}

// LoadConfig reads Config from the environment, then the connection settings
// of every selected backend that cfg does not already carry.
func LoadConfig(cfg *Config) error {
	if err := config.Load(cfg); err != nil {
		return err
	}
	if err := cfg.validateBackends(); err != nil {
		return err
	}
	if cfg.uses(BackendPostgres) && cfg.Postgres == nil {
		cfg.Postgres = &pg.Config{}
		if err := config.Load(cfg.Postgres); err != nil {
			return err
		}
	}
	if cfg.uses(BackendRedis) && cfg.Redis == nil {
		cfg.Redis = &redis.Config{}
		if err := config.Load(cfg.Redis); err != nil {
			return err
		}
	}
	if cfg.uses(BackendMongo) && cfg.Mongo == nil {
		cfg.Mongo = &mongo.Config{}
		if err := config.Load(cfg.Mongo); err != nil {
			return err
		}
	}
	return nil
}
