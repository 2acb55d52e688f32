package smaug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/smaug/pkg/logger"
	"github.com/dmitrymomot/smaug/pkg/throttle"
	"github.com/dmitrymomot/smaug/svc/agency"
	"github.com/dmitrymomot/smaug/svc/client"
	"github.com/dmitrymomot/smaug/svc/oauthmodel"
	"github.com/dmitrymomot/smaug/svc/tenantconfig"
	"github.com/dmitrymomot/smaug/svc/token"
	"github.com/dmitrymomot/smaug/svc/userauth"
)

// Service holds every store and service built from a Config.
type Service struct {
	Clients  *client.Store
	Tokens   token.Store
	Agencies agency.Store
	Configs  tenantconfig.Store
	Resolver *tenantconfig.Resolver
	Users    *userauth.Router
	Throttle *throttle.Throttle
	Model    *oauthmodel.Model

	logger        *slog.Logger
	healthTimeout time.Duration

	mu      sync.Mutex
	probes  []probe
	closers []func() error
}

type options struct {
	logger      *slog.Logger
	pool        *pgxpool.Pool
	redis       goredis.UniversalClient
	mongo       *mongodriver.Database
	credentials *userauth.CredentialStore
	extraAuth   map[string]userauth.Authenticator
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPostgresPool uses pool instead of connecting with Config.Postgres.
// The caller keeps ownership of pool.
func WithPostgresPool(pool *pgxpool.Pool) Option {
	return func(o *options) { o.pool = pool }
}

// WithRedisClient uses rc instead of connecting with Config.Redis.
// The caller keeps ownership of rc.
func WithRedisClient(rc goredis.UniversalClient) Option {
	return func(o *options) { o.redis = rc }
}

// WithMongoDatabase uses db instead of connecting with Config.Mongo.
// The caller keeps ownership of db.
func WithMongoDatabase(db *mongodriver.Database) Option {
	return func(o *options) { o.mongo = db }
}

// WithCredentialStore replaces the credential store behind the default
// authentication backend.
func WithCredentialStore(s *userauth.CredentialStore) Option {
	return func(o *options) { o.credentials = s }
}

// WithAuthenticator registers an extra authentication backend under name.
func WithAuthenticator(name string, a userauth.Authenticator) Option {
	return func(o *options) {
		if o.extraAuth == nil {
			o.extraAuth = make(map[string]userauth.Authenticator)
		}
		o.extraAuth[name] = a
	}
}

// New builds a Service. On error every resource opened so far is released.
func New(ctx context.Context, cfg Config, opts ...Option) (_ *Service, err error) {
	if err := cfg.validateBackends(); err != nil {
		return nil, err
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Service{
		logger:        o.logger,
		healthTimeout: cfg.HealthTimeout,
	}
	if s.healthTimeout <= 0 {
		s.healthTimeout = 5 * time.Second
	}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	conns := &connections{cfg: cfg, svc: s, pool: o.pool, redis: o.redis, mongo: o.mongo}

	if err := s.buildClients(ctx, cfg, conns); err != nil {
		return nil, err
	}
	if err := s.buildTokens(ctx, cfg, conns); err != nil {
		return nil, err
	}
	if err := s.buildThrottle(ctx, cfg, conns); err != nil {
		return nil, err
	}
	if err := s.buildConfig(cfg); err != nil {
		return nil, err
	}
	if err := s.buildUsers(ctx, cfg, o); err != nil {
		return nil, err
	}

	s.Resolver = tenantconfig.NewResolver(s.Configs, s.Agencies, s.Clients,
		tenantconfig.WithDefaultLibrary(cfg.DefaultLibrary),
		tenantconfig.WithTokens(s.Tokens),
		tenantconfig.WithLogger(s.logger),
	)
	s.Model = oauthmodel.New(s.Clients, s.Users, s.Tokens,
		oauthmodel.WithThrottle(s.Throttle),
		oauthmodel.WithTokenLifetime(cfg.TokenLifetime),
		oauthmodel.WithLogger(s.logger),
	)

	s.logger.InfoContext(ctx, "service initialized",
		logger.Component("smaug"),
		slog.String("client_backend", cfg.ClientBackend),
		slog.String("token_backend", cfg.TokenBackend),
		slog.String("throttle_backend", cfg.ThrottleBackend),
		slog.Any("auth_backends", s.Users.Names()),
	)
	return s, nil
}

func (s *Service) buildClients(ctx context.Context, cfg Config, conns *connections) error {
	factory, err := lookup(clientBackends, "client", cfg.ClientBackend)
	if err != nil {
		return err
	}
	backend, err := factory(ctx, conns)
	if err != nil {
		return fmt.Errorf("client store: %w", err)
	}

	opts := []client.Option{client.WithLogger(s.logger)}
	// The memory backend is already a map lookup.
	if cfg.ClientBackend != BackendMemory && cfg.ClientCacheTTL > 0 {
		opts = append(opts, client.WithCache(cfg.ClientCacheTTL))
	}
	s.Clients = client.NewStore(backend, opts...)
	s.addProbe("clients", s.Clients.Ping)
	return nil
}

func (s *Service) buildTokens(ctx context.Context, cfg Config, conns *connections) error {
	factory, err := lookup(tokenBackends, "token", cfg.TokenBackend)
	if err != nil {
		return err
	}
	store, err := factory(ctx, conns)
	if err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	if cfg.TokenCacheTTL > 0 {
		store = token.NewCachedStore(store, cfg.TokenCacheTTL)
	}
	s.Tokens = store
	s.addProbe("tokens", s.Tokens.Ping)
	return nil
}

func (s *Service) buildThrottle(ctx context.Context, cfg Config, conns *connections) error {
	factory, err := lookup(throttleBackends, "throttle", cfg.ThrottleBackend)
	if err != nil {
		return err
	}
	store, err := factory(ctx, conns)
	if err != nil {
		return fmt.Errorf("throttle store: %w", err)
	}

	limit, window := cfg.ThrottleLimit, cfg.ThrottleWindow
	if limit <= 0 {
		limit = throttle.DefaultLimit
	}
	if window <= 0 {
		window = throttle.DefaultWindow
	}
	s.Throttle = throttle.New(store, throttle.WithLimit(limit), throttle.WithWindow(window))
	return nil
}

func (s *Service) buildConfig(cfg Config) error {
	configs := tenantconfig.NewMemoryStore(tenantconfig.Hierarchy{})
	if cfg.HierarchyPath != "" {
		loaded, err := tenantconfig.LoadFile(cfg.HierarchyPath)
		if err != nil {
			return err
		}
		configs = loaded
	}
	s.Configs = configs
	s.addProbe("config", s.Configs.Ping)

	agencies := agency.NewMemoryStore()
	if cfg.AgenciesPath != "" {
		loaded, err := agency.LoadFile(cfg.AgenciesPath)
		if err != nil {
			return err
		}
		agencies = loaded
	}
	s.Agencies = agencies
	s.addProbe("agencies", s.Agencies.Ping)
	return nil
}

func (s *Service) buildUsers(ctx context.Context, cfg Config, o options) error {
	creds := o.credentials
	if creds == nil {
		creds = userauth.NewCredentialStore()
	}
	if cfg.UsersPath != "" {
		if err := creds.LoadCredentialsFile(ctx, cfg.UsersPath); err != nil {
			return err
		}
	}

	backends := map[string]userauth.Authenticator{
		userauth.BackendDefault:  creds,
		userauth.BackendAllowAll: userauth.AllowAll{},
		userauth.BackendDenyAll:  userauth.DenyAll{},
	}
	if cfg.PatronCheckURL != "" {
		backends[userauth.BackendPatronCheck] = userauth.NewPatronCheck(cfg.PatronCheckURL,
			userauth.WithPatronLogger(s.logger),
		)
	}
	if cfg.LDAPURL != "" {
		backends[userauth.BackendLDAP] = userauth.NewDirectory(
			userauth.NewLDAPBinder(cfg.LDAPURL, 0),
			cfg.LDAPDNTemplate,
			userauth.WithDirectoryLogger(s.logger),
		)
	}
	for name, a := range o.extraAuth {
		backends[name] = a
	}

	s.Users = userauth.NewRouter(backends, userauth.WithRouterLogger(s.logger))
	for _, name := range s.Users.Names() {
		a, _ := s.Users.Backend(name)
		if p, ok := a.(userauth.Pinger); ok {
			s.addProbe("auth:"+name, p.Ping)
		}
	}
	return nil
}

func (s *Service) addProbe(name string, fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes = append(s.probes, probe{name: name, check: fn})
}

func (s *Service) onClose(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, fn)
}

// Close releases every resource the Service opened, in reverse order.
func (s *Service) Close() error {
	s.mu.Lock()
	closers := slices.Clone(s.closers)
	s.closers = nil
	s.mu.Unlock()

	var errs []error
	for _, fn := range slices.Backward(closers) {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
