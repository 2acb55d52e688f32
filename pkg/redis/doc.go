// Package redis connects to Redis with go-redis/v9.
//
// Connect parses a redis:// URL, then pings the server with exponential
// backoff until it answers or the attempts run out. Healthcheck adapts any
// redis.UniversalClient to the func(context.Context) error probe shape.
//
// The token store and the failure throttle share one client; KeyPrefix in
// Config namespaces their keys when several deployments share a database.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
package redis
