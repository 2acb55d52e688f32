package tenantconfig

import "errors"

var (
	ErrNotFound                     = errors.New("configuration tier not found")
	ErrMissingProfile               = errors.New("resolved configuration has no search.profile")
	ErrMissingCollectionIdentifiers = errors.New("client configuration has no search.collectionidentifiers")
	ErrAsymmetricOverride           = errors.New("paired override fields must be set together")
)

// IsTerminal reports whether err is a configuration error that retrying cannot fix.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrMissingProfile) ||
		errors.Is(err, ErrMissingCollectionIdentifiers) ||
		errors.Is(err, ErrAsymmetricOverride)
}
