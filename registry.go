package smaug

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/smaug/pkg/mongo"
	"github.com/dmitrymomot/smaug/pkg/pg"
	"github.com/dmitrymomot/smaug/pkg/redis"
	"github.com/dmitrymomot/smaug/pkg/throttle"
	"github.com/dmitrymomot/smaug/svc/client"
	"github.com/dmitrymomot/smaug/svc/token"
)

// connections opens each shared connection at most once and remembers how to
// probe and close it.
type connections struct {
	cfg Config
	svc *Service

	pgOnce sync.Once
	pool   *pgxpool.Pool
	pgErr  error

	redisOnce sync.Once
	redis     goredis.UniversalClient
	redisErr  error

	mongoOnce sync.Once
	mongo     *mongodriver.Database
	mongoErr  error
}

func (c *connections) postgres(ctx context.Context) (*pgxpool.Pool, error) {
	c.pgOnce.Do(func() {
		if c.pool == nil {
			if c.cfg.Postgres == nil {
				c.pgErr = fmt.Errorf("%w: postgres", ErrMissingConfig)
				return
			}
			pool, err := pg.Connect(ctx, *c.cfg.Postgres)
			if err != nil {
				c.pgErr = err
				return
			}
			c.pool = pool
			c.svc.onClose(func() error { pool.Close(); return nil })
		}

		migrations := pg.Config{MigrationsTable: "schema_migrations"}
		if c.cfg.Postgres != nil {
			migrations = *c.cfg.Postgres
		}
		if err := pg.Migrate(ctx, c.pool, migrations, c.svc.logger); err != nil {
			c.pgErr = err
			return
		}
		c.svc.addProbe(BackendPostgres, pg.Healthcheck(c.pool))
	})
	return c.pool, c.pgErr
}

func (c *connections) redisClient(ctx context.Context) (goredis.UniversalClient, error) {
	c.redisOnce.Do(func() {
		if c.redis == nil {
			if c.cfg.Redis == nil {
				c.redisErr = fmt.Errorf("%w: redis", ErrMissingConfig)
				return
			}
			rc, err := redis.Connect(ctx, *c.cfg.Redis)
			if err != nil {
				c.redisErr = err
				return
			}
			c.redis = rc
			c.svc.onClose(rc.Close)
		}
		c.svc.addProbe(BackendRedis, redis.Healthcheck(c.redis))
	})
	return c.redis, c.redisErr
}

func (c *connections) mongoDatabase(ctx context.Context) (*mongodriver.Database, error) {
	c.mongoOnce.Do(func() {
		if c.mongo == nil {
			if c.cfg.Mongo == nil {
				c.mongoErr = fmt.Errorf("%w: mongo", ErrMissingConfig)
				return
			}
			db, err := mongo.NewWithDatabase(ctx, *c.cfg.Mongo)
			if err != nil {
				c.mongoErr = err
				return
			}
			c.mongo = db
			c.svc.onClose(func() error { return db.Client().Disconnect(context.Background()) })
		}
		c.svc.addProbe(BackendMongo, mongo.Healthcheck(c.mongo.Client()))
	})
	return c.mongo, c.mongoErr
}

func (c *connections) redisPrefix() string {
	if c.cfg.Redis == nil {
		return ""
	}
	return c.cfg.Redis.KeyPrefix
}

type (
	clientFactory   func(ctx context.Context, c *connections) (client.Backend, error)
	tokenFactory    func(ctx context.Context, c *connections) (token.Store, error)
	throttleFactory func(ctx context.Context, c *connections) (throttle.Store, error)
)

var clientBackends = map[string]clientFactory{
	BackendMemory: func(context.Context, *connections) (client.Backend, error) {
		return client.NewMemoryBackend(), nil
	},
	BackendPostgres: func(ctx context.Context, c *connections) (client.Backend, error) {
		pool, err := c.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return client.NewPostgresBackend(pool), nil
	},
}

var tokenBackends = map[string]tokenFactory{
	BackendMemory: func(_ context.Context, c *connections) (token.Store, error) {
		s := token.NewMemoryStore(c.cfg.TokenSweepInterval)
		c.svc.onClose(func() error { s.Close(); return nil })
		return s, nil
	},
	BackendRedis: func(ctx context.Context, c *connections) (token.Store, error) {
		rc, err := c.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return token.NewRedisStore(rc, token.WithRedisKeyPrefix(c.redisPrefix())), nil
	},
	BackendPostgres: func(ctx context.Context, c *connections) (token.Store, error) {
		pool, err := c.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return token.NewPostgresStore(pool), nil
	},
	BackendMongo: func(ctx context.Context, c *connections) (token.Store, error) {
		db, err := c.mongoDatabase(ctx)
		if err != nil {
			return nil, err
		}
		s := token.NewMongoStore(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return s, nil
	},
}

var throttleBackends = map[string]throttleFactory{
	BackendMemory: func(_ context.Context, c *connections) (throttle.Store, error) {
		s := throttle.NewMemoryStore()
		c.svc.onClose(func() error { s.Close(); return nil })
		return s, nil
	},
	BackendRedis: func(ctx context.Context, c *connections) (throttle.Store, error) {
		rc, err := c.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return throttle.NewRedisStore(rc, throttle.WithRedisKeyPrefix(c.redisPrefix())), nil
	},
}

func lookup[F any](registry map[string]F, kind, name string) (F, error) {
	f, ok := registry[name]
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s backend %q", ErrUnknownBackend, kind, name)
	}
	return f, nil
}
