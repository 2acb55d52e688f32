package userauth

import "errors"

var (
	ErrInvalidCredentials = errors.New("userauth: invalid credentials")
	ErrUnknownBackend     = errors.New("userauth: unknown authentication backend")
	ErrBackendUnavailable = errors.New("userauth: authentication backend unavailable")
)
