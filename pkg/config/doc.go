// Package config loads typed configuration from environment variables.
//
// A .env file in the working directory is read once on first use (a missing
// file is fine), then the target struct is populated with caarlos0/env and
// checked against its `validate` struct tags with go-playground/validator.
//
// Load caches the result per configuration type, so repeated calls anywhere in
// the process are cheap and return the same values. Parse skips the cache and
// is meant for code that builds several configurations of one type, and for
// tests.
//
// # Usage
//
//	type Config struct {
//		RedisURL string        `env:"REDIS_URL" validate:"required,url"`
//		TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h" validate:"gt=0"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// # Errors
//
// ErrParsingConfig wraps env parsing failures (missing required variables,
// malformed values). ErrInvalidConfig wraps validation failures; use
// ValidationFields to list the offending fields.
package config
