package token

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/smaug/pkg/pg"
)

// PostgresStore keeps tokens in the tokens table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) StoreAccessToken(ctx context.Context, token, clientID string, expires time.Time, userID string) error {
	if err := validateInput(token, clientID); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tokens (id, client_id, user_id, expires)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET client_id = EXCLUDED.client_id, user_id = EXCLUDED.user_id, expires = EXCLUDED.expires`,
		token, clientID, userID, expires,
	)
	if pg.IsForeignKeyViolationError(err) {
		return ErrUnknownClient
	}
	if err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAccessToken(ctx context.Context, token string) (*AccessToken, error) {
	var t AccessToken
	err := s.pool.QueryRow(ctx, `
		SELECT id, client_id::text, user_id, expires
		FROM tokens
		WHERE id = $1 AND expires > now()`,
		token,
	).Scan(&t.Token, &t.ClientID, &t.UserID, &t.Expires)
	if pg.IsNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) RevokeToken(ctx context.Context, token string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tokens WHERE id = $1`, token)
	if err != nil {
		return 0, fmt.Errorf("revoke access token: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) ClearAccessTokensForUser(ctx context.Context, userID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear access tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpired removes expired rows and returns how many were dropped.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tokens WHERE expires <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired access tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return pg.Healthcheck(s.pool)(ctx)
}
