package client

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/smaug/pkg/pg"
)

const clientColumns = `id::text, secret, name, config, contact, auth, created_at, updated_at`

// PostgresBackend stores clients in the clients table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

func (b *PostgresBackend) Insert(ctx context.Context, c *Client) error {
	_, err := b.pool.Exec(ctx, `
		INSERT INTO clients (id, secret, name, config, contact, auth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Secret, c.Name, configOrEmpty(c.Config), contactOrEmpty(c.Contact),
		nullable(c.AuthBackend), c.CreatedAt, c.UpdatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Get(ctx context.Context, id string) (*Client, error) {
	row := b.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id::text = $1`, id)
	c, err := scanClient(row)
	if pg.IsNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (b *PostgresBackend) Update(ctx context.Context, c *Client) error {
	tag, err := b.pool.Exec(ctx, `
		UPDATE clients
		SET name = $2, config = $3, contact = $4, auth = $5, updated_at = $6
		WHERE id::text = $1`,
		c.ID, c.Name, configOrEmpty(c.Config), contactOrEmpty(c.Contact),
		nullable(c.AuthBackend), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (b *PostgresBackend) Delete(ctx context.Context, id string) error {
	tag, err := b.pool.Exec(ctx, `DELETE FROM clients WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (b *PostgresBackend) List(ctx context.Context) ([]*Client, error) {
	rows, err := b.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return out, nil
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return pg.Healthcheck(b.pool)(ctx)
}

func scanClient(row pgx.Row) (*Client, error) {
	var (
		c    Client
		auth *string
	)
	err := row.Scan(&c.ID, &c.Secret, &c.Name, &c.Config, &c.Contact, &auth, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if auth != nil {
		c.AuthBackend = *auth
	}
	return &c, nil
}

func configOrEmpty(cfg map[string]any) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return cfg
}

func contactOrEmpty(contact map[string]Contact) map[string]Contact {
	if contact == nil {
		return map[string]Contact{}
	}
	return contact
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
