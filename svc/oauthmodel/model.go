package oauthmodel

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/smaug/pkg/logger"
	"github.com/dmitrymomot/smaug/pkg/tenantuser"
	"github.com/dmitrymomot/smaug/pkg/throttle"
	"github.com/dmitrymomot/smaug/svc/client"
	"github.com/dmitrymomot/smaug/svc/token"
	"github.com/dmitrymomot/smaug/svc/userauth"
)

// Grant types a client may use.
const (
	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
)

// DefaultTokenLifetime is the lifetime of tokens issued by IssueToken.
const DefaultTokenLifetime = 30 * 24 * time.Hour

// ClientSource looks up and authenticates clients.
type ClientSource interface {
	Get(ctx context.Context, id string) (*client.Client, error)
	GetAndValidate(ctx context.Context, id, secret string) (*client.Client, error)
}

// UserAuthenticator authenticates users with a named backend.
type UserAuthenticator interface {
	Authenticate(ctx context.Context, backend, username, password string) (*userauth.User, error)
}

// Model implements the grant engine hooks.
type Model struct {
	clients       ClientSource
	users         UserAuthenticator
	tokens        token.Store
	throttle      *throttle.Throttle
	grants        []string
	tokenLifetime time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

type Option func(*Model)

// WithThrottle enables failure throttling of GetUser.
func WithThrottle(t *throttle.Throttle) Option {
	return func(m *Model) { m.throttle = t }
}

// WithTokenLifetime sets the lifetime of tokens issued by IssueToken.
func WithTokenLifetime(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.tokenLifetime = d
		}
	}
}

// WithGrantTypes replaces the allowed grant types.
func WithGrantTypes(grants ...string) Option {
	return func(m *Model) { m.grants = grants }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

func New(clients ClientSource, users UserAuthenticator, tokens token.Store, opts ...Option) *Model {
	m := &Model{
		clients:       clients,
		users:         users,
		tokens:        tokens,
		grants:        []string{GrantPassword, GrantClientCredentials},
		tokenLifetime: DefaultTokenLifetime,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetClient authenticates a client by id and secret.
func (m *Model) GetClient(ctx context.Context, id, secret string) (*client.Client, error) {
	c, err := m.clients.GetAndValidate(ctx, id, secret)
	if err != nil {
		m.logger.InfoContext(ctx, "client authentication failed",
			logger.Component("oauthmodel"),
			logger.ClientID(id),
			logger.Error(err),
		)
		return nil, ErrAuthenticationFailed
	}
	return c.Public(), nil
}

// GetUser authenticates an end user with the backend configured on the client.
// Banned usernames are rejected without consulting the backend.
func (m *Model) GetUser(ctx context.Context, clientID, username, password string) (*userauth.User, error) {
	log := m.logger.With(
		logger.Component("oauthmodel"),
		logger.ClientID(clientID),
		logger.Username(username),
	)

	if m.throttle != nil {
		banned, err := m.throttle.IsBanned(ctx, username)
		if err != nil {
			log.ErrorContext(ctx, "throttle lookup failed", logger.Error(err))
			return nil, ErrAuthenticationFailed
		}
		if banned {
			log.WarnContext(ctx, "user is throttled")
			return nil, ErrAuthenticationFailed
		}
	}

	c, err := m.clients.Get(ctx, clientID)
	if err != nil {
		log.InfoContext(ctx, "unknown client", logger.Error(err))
		return nil, ErrAuthenticationFailed
	}

	user, err := m.users.Authenticate(ctx, c.Backend(), username, password)
	if err != nil {
		log.InfoContext(ctx, "user authentication failed", logger.Backend(c.Backend()), logger.Error(err))
		if errors.Is(err, userauth.ErrInvalidCredentials) {
			m.registerFailure(ctx, log, username)
		}
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

func (m *Model) registerFailure(ctx context.Context, log *slog.Logger, username string) {
	if m.throttle == nil {
		return
	}
	status, err := m.throttle.RegisterFailure(ctx, username)
	if err != nil {
		log.ErrorContext(ctx, "failed to register authentication failure", logger.Error(err))
		return
	}
	if status.Banned() {
		log.WarnContext(ctx, "user banned after repeated failures", slog.Int64("failures", status.Failures))
	}
}

// SaveAccessToken persists a token issued to user through clientID.
func (m *Model) SaveAccessToken(ctx context.Context, tok, clientID string, expires time.Time, user *userauth.User) error {
	if user == nil {
		return token.ErrInvalidToken
	}
	return m.tokens.StoreAccessToken(ctx, tok, clientID, expires, user.ID)
}

// GetAccessToken returns a live token.
func (m *Model) GetAccessToken(ctx context.Context, tok string) (*token.AccessToken, error) {
	return m.tokens.GetAccessToken(ctx, tok)
}

// GrantTypeAllowed reports whether clientID may use grant.
func (m *Model) GrantTypeAllowed(_ string, grant string) bool {
	return slices.Contains(m.grants, grant)
}

// GetUserFromClient returns the user a client-credentials grant acts as: the
// anonymous user.
func (m *Model) GetUserFromClient(context.Context, *client.Client) (*userauth.User, error) {
	return &userauth.User{ID: tenantuser.Anonymous}, nil
}

// IssueToken generates and saves a token for user with the configured lifetime.
func (m *Model) IssueToken(ctx context.Context, clientID string, user *userauth.User) (*token.AccessToken, error) {
	tok, err := token.Generate()
	if err != nil {
		return nil, err
	}
	expires := m.now().Add(m.tokenLifetime)
	if err := m.SaveAccessToken(ctx, tok, clientID, expires, user); err != nil {
		return nil, err
	}
	return &token.AccessToken{
		Token:    tok,
		ClientID: clientID,
		UserID:   user.ID,
		Expires:  expires,
	}, nil
}
