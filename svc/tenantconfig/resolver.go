package tenantconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/smaug/pkg/logger"
	"github.com/dmitrymomot/smaug/pkg/tenantuser"
	"github.com/dmitrymomot/smaug/svc/agency"
	"github.com/dmitrymomot/smaug/svc/client"
	"github.com/dmitrymomot/smaug/svc/token"
)

// ClientSource returns registered clients.
type ClientSource interface {
	Get(ctx context.Context, id string) (*client.Client, error)
}

// TokenSource returns live access tokens.
type TokenSource interface {
	GetAccessToken(ctx context.Context, token string) (*token.AccessToken, error)
}

// Resolver computes the configuration of a (user, client) pair.
type Resolver struct {
	store          Store
	agencies       agency.Store
	clients        ClientSource
	tokens         TokenSource
	defaultLibrary string
	logger         *slog.Logger
}

type Option func(*Resolver)

// WithDefaultLibrary qualifies anonymous users that name no library.
func WithDefaultLibrary(libraryID string) Option {
	return func(r *Resolver) { r.defaultLibrary = libraryID }
}

// WithTokens enables ResolveToken.
func WithTokens(tokens TokenSource) Option {
	return func(r *Resolver) { r.tokens = tokens }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewResolver(store Store, agencies agency.Store, clients ClientSource, opts ...Option) *Resolver {
	r := &Resolver{
		store:    store,
		agencies: agencies,
		clients:  clients,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the configuration for user requesting through clientID.
func (r *Resolver) Resolve(ctx context.Context, user tenantuser.User, clientID string) (map[string]any, error) {
	raw := user
	if user.IsAnonymous() {
		user = user.WithLibrary(r.defaultLibrary)
	}

	cfg, tier, err := r.selectTier(ctx, user, raw, clientID)
	if err != nil {
		return nil, err
	}
	r.logger.DebugContext(ctx, "configuration tier selected",
		logger.Component("tenantconfig"),
		logger.Username(user.String()),
		logger.ClientID(clientID),
		slog.String("tier", string(tier)),
	)

	a, err := r.agency(ctx, user.LibraryID)
	if err != nil {
		return nil, err
	}
	if err := applyAgency(cfg, a); err != nil {
		return nil, err
	}

	c, err := r.clients.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("resolve configuration: %w", err)
	}
	cfg, overridden, err := applyClient(cfg, c.Config)
	if err != nil {
		return nil, err
	}

	if err := finalize(cfg, user.LibraryID, overridden); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveToken looks up bearer and resolves the configuration of its owner.
func (r *Resolver) ResolveToken(ctx context.Context, bearer string) (map[string]any, error) {
	if r.tokens == nil {
		return nil, token.ErrNotFound
	}
	t, err := r.tokens.GetAccessToken(ctx, bearer)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, tenantuser.Decode(t.UserID), t.ClientID)
}

func (r *Resolver) selectTier(ctx context.Context, user, raw tenantuser.User, clientID string) (map[string]any, Tier, error) {
	keys := []string{user.String()}
	if raw != user {
		keys = append(keys, raw.String())
	}

	type candidate struct {
		tier Tier
		key  string
	}
	var candidates []candidate
	for _, k := range keys {
		candidates = append(candidates, candidate{TierUser, k})
	}
	if user.LibraryID != "" {
		candidates = append(candidates, candidate{TierLibrary, user.LibraryID})
	}
	candidates = append(candidates,
		candidate{TierClient, clientID},
		candidate{TierDefault, ""},
	)

	for _, c := range candidates {
		cfg, err := r.store.Get(ctx, c.tier, c.key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return cfg, c.tier, nil
	}
	return map[string]any{}, TierDefault, nil
}

func (r *Resolver) agency(ctx context.Context, libraryID string) (*agency.Agency, error) {
	if r.agencies == nil || libraryID == "" {
		return nil, nil
	}
	a, err := r.agencies.Get(ctx, libraryID)
	if errors.Is(err, agency.ErrNotFound) {
		return nil, nil
	}
	return a, err
}
