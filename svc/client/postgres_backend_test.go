package client_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smaug/pkg/logger"
	"github.com/dmitrymomot/smaug/pkg/pg"
	"github.com/dmitrymomot/smaug/svc/client"
)

func TestIntegration_PostgresBackend(t *testing.T) {
	url := os.Getenv("PG_CONN_URL")
	if url == "" {
		t.Skip("PG_CONN_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{
		ConnectionString: url,
		MaxOpenConns:     4,
		RetryAttempts:    3,
		RetryInterval:    100 * time.Millisecond,
		MigrationsTable:  "schema_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, pg.Migrate(ctx, pool, cfg, slog.Default()))

	s := client.NewStore(client.NewPostgresBackend(pool), client.WithLogger(logger.Discard()))
	require.NoError(t, s.Ping(ctx))

	c, err := s.Create(ctx, validPatch())
	require.NoError(t, err)
	defer func() { _ = s.Delete(ctx, c.ID) }()

	got, err := s.GetAndValidate(ctx, c.ID, c.Secret)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.Config, got.Config)
	assert.Equal(t, c.Contact, got.Contact)
	assert.Equal(t, client.DefaultBackend, got.Backend())

	updated, err := s.Update(ctx, c.ID, client.Patch{"auth": "borchk"})
	require.NoError(t, err)
	assert.Equal(t, "borchk", updated.AuthBackend)

	_, err = s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, client.ErrNotFound)
	_, err = s.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, client.ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}
