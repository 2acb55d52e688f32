package userauth

import (
	"context"
)

// User is an authenticated end user. ID is the encoded username.
type User struct {
	ID string `json:"id"`
}

// Authenticator validates a username and password.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*User, error)
}

// Pinger is implemented by authenticators that depend on a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, username, password string) (*User, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, username, password string) (*User, error) {
	return f(ctx, username, password)
}

// AllowAll accepts every username.
type AllowAll struct{}

func (AllowAll) Authenticate(_ context.Context, username, _ string) (*User, error) {
	return &User{ID: username}, nil
}

// DenyAll rejects every username.
type DenyAll struct{}

func (DenyAll) Authenticate(context.Context, string, string) (*User, error) {
	return nil, ErrInvalidCredentials
}
