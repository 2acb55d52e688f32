package token

import (
	"context"
	"time"
)

// Store persists access tokens.
type Store interface {
	// StoreAccessToken saves or replaces a token.
	StoreAccessToken(ctx context.Context, token, clientID string, expires time.Time, userID string) error

	// GetAccessToken returns a live token or ErrNotFound.
	GetAccessToken(ctx context.Context, token string) (*AccessToken, error)

	// RevokeToken deletes a token and returns how many were removed (0 or 1).
	RevokeToken(ctx context.Context, token string) (int64, error)

	// ClearAccessTokensForUser deletes every token of userID and returns how many were removed.
	ClearAccessTokensForUser(ctx context.Context, userID string) (int64, error)

	Ping(ctx context.Context) error
}

func validateInput(token, clientID string) error {
	if token == "" || clientID == "" {
		return ErrInvalidToken
	}
	return nil
}
