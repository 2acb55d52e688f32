package throttle

import "errors"

var (
	// ErrInvalidConfig indicates a non-positive limit or window.
	ErrInvalidConfig = errors.New("throttle: invalid configuration")

	// ErrStoreUnavailable wraps failures of the counter backend.
	ErrStoreUnavailable = errors.New("throttle: store unavailable")
)
