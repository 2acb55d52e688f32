package userauth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smaug/pkg/logger"
	"github.com/dmitrymomot/smaug/svc/userauth"
)

type mockBinder struct {
	mock.Mock
}

func (m *mockBinder) Bind(ctx context.Context, dn, password string) error {
	return m.Called(ctx, dn, password).Error(0)
}

func TestDirectory_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	const tmpl = "uid={username},ou=people,dc=example,dc=org"

	t.Run("bind succeeds", func(t *testing.T) {
		b := &mockBinder{}
		b.On("Bind", ctx, "uid=alice,ou=people,dc=example,dc=org", "pw").Return(nil)
		d := userauth.NewDirectory(b, tmpl, userauth.WithDirectoryLogger(logger.Discard()))

		u, err := d.Authenticate(ctx, "alice", "pw")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.ID)
		b.AssertExpectations(t)
	})

	t.Run("username is escaped", func(t *testing.T) {
		b := &mockBinder{}
		b.On("Bind", ctx, `uid=a\,b,ou=people,dc=example,dc=org`, "pw").Return(nil)
		d := userauth.NewDirectory(b, tmpl, userauth.WithDirectoryLogger(logger.Discard()))

		_, err := d.Authenticate(ctx, "a,b", "pw")
		require.NoError(t, err)
		b.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		b := &mockBinder{}
		b.On("Bind", ctx, mock.Anything, mock.Anything).Return(userauth.ErrInvalidCredentials)
		d := userauth.NewDirectory(b, tmpl, userauth.WithDirectoryLogger(logger.Discard()))

		_, err := d.Authenticate(ctx, "alice", "bad")
		assert.ErrorIs(t, err, userauth.ErrInvalidCredentials)
	})

	t.Run("server failure", func(t *testing.T) {
		b := &mockBinder{}
		b.On("Bind", ctx, mock.Anything, mock.Anything).Return(errors.New("connection reset"))
		d := userauth.NewDirectory(b, tmpl, userauth.WithDirectoryLogger(logger.Discard()))

		_, err := d.Authenticate(ctx, "alice", "pw")
		assert.ErrorIs(t, err, userauth.ErrBackendUnavailable)
	})

	t.Run("empty password never binds", func(t *testing.T) {
		b := &mockBinder{}
		d := userauth.NewDirectory(b, tmpl, userauth.WithDirectoryLogger(logger.Discard()))

		_, err := d.Authenticate(ctx, "alice", "")
		assert.ErrorIs(t, err, userauth.ErrInvalidCredentials)
		b.AssertNotCalled(t, "Bind", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no template binds bare username", func(t *testing.T) {
		b := &mockBinder{}
		b.On("Bind", ctx, "alice@example.org", "pw").Return(nil)
		d := userauth.NewDirectory(b, "", userauth.WithDirectoryLogger(logger.Discard()))

		_, err := d.Authenticate(ctx, "alice@example.org", "pw")
		require.NoError(t, err)
		b.AssertExpectations(t)
	})
}

func TestLDAPBinder_Unreachable(t *testing.T) {
	t.Parallel()
	b := userauth.NewLDAPBinder("ldap://127.0.0.1:1", time.Second)

	err := b.Bind(context.Background(), "uid=alice", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, userauth.ErrInvalidCredentials)
	assert.ErrorIs(t, b.Ping(context.Background()), userauth.ErrBackendUnavailable)

	d := userauth.NewDirectory(b, "", userauth.WithDirectoryLogger(logger.Discard()))
	assert.ErrorIs(t, d.Ping(context.Background()), userauth.ErrBackendUnavailable)
}
