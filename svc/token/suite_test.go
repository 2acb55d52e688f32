package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smaug/svc/token"
)

const testClientID = "0b7c4f3e-6f1a-4d8e-9b2c-3a4d5e6f7a8b"

// runStoreSuite exercises the behaviour every Store must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) token.Store) {
	t.Helper()

	t.Run("store and get", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		tok, err := token.Generate()
		require.NoError(t, err)
		expires := time.Now().Add(time.Hour)

		require.NoError(t, s.StoreAccessToken(ctx, tok, testClientID, expires, "alice@710100"))

		got, err := s.GetAccessToken(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, tok, got.Token)
		assert.Equal(t, testClientID, got.ClientID)
		assert.Equal(t, "alice@710100", got.UserID)
		assert.WithinDuration(t, expires, got.Expires, 2*time.Second)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := newStore(t).GetAccessToken(context.Background(), "missing")
		assert.ErrorIs(t, err, token.ErrNotFound)
	})

	t.Run("expired token is never returned", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.StoreAccessToken(ctx, "expired", testClientID, time.Now().Add(-time.Minute), "bob@710100"))

		_, err := s.GetAccessToken(ctx, "expired")
		assert.ErrorIs(t, err, token.ErrNotFound)
	})

	t.Run("revoke", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.StoreAccessToken(ctx, "revoke-me", testClientID, time.Now().Add(time.Hour), "carol@710100"))

		n, err := s.RevokeToken(ctx, "revoke-me")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = s.GetAccessToken(ctx, "revoke-me")
		assert.ErrorIs(t, err, token.ErrNotFound)

		n, err = s.RevokeToken(ctx, "revoke-me")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("clear tokens for user", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		expires := time.Now().Add(time.Hour)
		require.NoError(t, s.StoreAccessToken(ctx, "d1", testClientID, expires, "dave@710100"))
		require.NoError(t, s.StoreAccessToken(ctx, "d2", testClientID, expires, "dave@710100"))
		require.NoError(t, s.StoreAccessToken(ctx, "e1", testClientID, expires, "erin@710100"))

		n, err := s.ClearAccessTokensForUser(ctx, "dave@710100")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		_, err = s.GetAccessToken(ctx, "d1")
		assert.ErrorIs(t, err, token.ErrNotFound)
		_, err = s.GetAccessToken(ctx, "d2")
		assert.ErrorIs(t, err, token.ErrNotFound)

		_, err = s.GetAccessToken(ctx, "e1")
		assert.NoError(t, err)

		n, err = s.ClearAccessTokensForUser(ctx, "dave@710100")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("anonymous user", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.StoreAccessToken(ctx, "anon", testClientID, time.Now().Add(time.Hour), "@"))

		got, err := s.GetAccessToken(ctx, "anon")
		require.NoError(t, err)
		assert.Equal(t, "@", got.UserID)
	})

	t.Run("invalid input", func(t *testing.T) {
		s := newStore(t)
		err := s.StoreAccessToken(context.Background(), "", testClientID, time.Now().Add(time.Hour), "u@1")
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
