package smaug

import "errors"

var (
	ErrBackendUnavailable   = errors.New("smaug: backend unavailable")
	ErrUnknownBackend       = errors.New("smaug: unknown backend")
	ErrMissingConfig        = errors.New("smaug: missing backend configuration")
	ErrIncompatibleBackends = errors.New("smaug: incompatible backends")
)
