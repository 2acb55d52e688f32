package userauth

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/dmitrymomot/smaug/pkg/logger"
)

// Backend names understood by clients.
const (
	BackendDefault     = "default"
	BackendAllowAll    = "allowAll"
	BackendDenyAll     = "denyAll"
	BackendPatronCheck = "borchk"
	BackendLDAP        = "ldap"
)

// Router dispatches authentication to the backend a client names.
type Router struct {
	backends map[string]Authenticator
	logger   *slog.Logger
}

type RouterOption func(*Router)

func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates a Router over a fixed set of named backends. Nil
// authenticators are skipped.
func NewRouter(backends map[string]Authenticator, opts ...RouterOption) *Router {
	r := &Router{
		backends: make(map[string]Authenticator, len(backends)),
		logger:   slog.Default(),
	}
	for name, a := range backends {
		if a != nil {
			r.backends[name] = a
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backend returns the authenticator registered under name. An empty name
// selects BackendDefault.
func (r *Router) Backend(name string) (Authenticator, error) {
	if name == "" {
		name = BackendDefault
	}
	a, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return a, nil
}

// Authenticate validates username and password with the named backend.
func (r *Router) Authenticate(ctx context.Context, backend, username, password string) (*User, error) {
	a, err := r.Backend(backend)
	if err != nil {
		r.logger.ErrorContext(ctx, "authentication backend not registered",
			logger.Backend(backend),
			logger.Username(username),
		)
		return nil, err
	}
	return a.Authenticate(ctx, username, password)
}

// Names returns the registered backend names in sorted order.
func (r *Router) Names() []string {
	return slices.Sorted(maps.Keys(r.backends))
}

// Ping probes every backend that implements Pinger, keyed by backend name.
func (r *Router) Ping(ctx context.Context) map[string]error {
	out := make(map[string]error)
	for name, a := range r.backends {
		if p, ok := a.(Pinger); ok {
			out[name] = p.Ping(ctx)
		}
	}
	return out
}
