// Package pg connects to PostgreSQL with pgx/v5 and owns the schema of the
// client and token tables.
//
// Connect opens a *pgxpool.Pool and retries with exponential backoff
// (cenkalti/backoff) until the database answers a ping or the attempts run out.
// Migrate applies the goose migrations embedded in this package, so a binary
// never depends on a migrations directory being present at runtime.
// Healthcheck adapts the pool to the func(context.Context) error shape used by
// the service health probe.
//
// # Usage
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
//
// # Error Handling
//
// IsNotFoundError, IsDuplicateKeyError and IsForeignKeyViolationError classify
// pgx errors so store implementations can map them to their own sentinels.
package pg
