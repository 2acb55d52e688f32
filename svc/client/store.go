package client

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/smaug/pkg/cache"
	"github.com/dmitrymomot/smaug/pkg/logger"
)

// SecretBytes is the amount of randomness in a generated client secret.
const SecretBytes = 32

// Store is the client service.
type Store struct {
	backend Backend
	cache   *cache.Cache[string, *Client]
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Store)

// WithCache enables a read-through cache with the given TTL.
// A non-positive ttl uses cache.DefaultTTL.
func WithCache(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl <= 0 {
			ttl = cache.DefaultTTL
		}
		s.cache = cache.New(cache.WithTTL[string, *Client](ttl))
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates p, generates the id and secret and stores the client.
// The returned client includes the secret; it is never shown again by List.
func (s *Store) Create(ctx context.Context, p Patch) (*Client, error) {
	if _, ok := p[FieldID]; ok {
		return nil, ErrImmutableField
	}
	if _, ok := p[FieldSecret]; ok {
		return nil, ErrImmutableField
	}
	if err := p.Validate(true); err != nil {
		return nil, err
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &Client{
		ID:        uuid.NewString(),
		Secret:    secret,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.apply(c)

	if err := s.backend.Insert(ctx, c); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "client created", logger.ClientID(c.ID), slog.String("name", c.Name))
	return c.Clone(), nil
}

// Seed stores a fully specified client, keeping its id and secret, or replaces
// the mutable fields of an existing client with the same id.
func (s *Store) Seed(ctx context.Context, c *Client) error {
	if c == nil || c.ID == "" || c.Secret == "" {
		return fmt.Errorf("seed client: %w", ErrImmutableField)
	}

	now := s.now().UTC()
	seeded := c.Clone()
	if seeded.CreatedAt.IsZero() {
		seeded.CreatedAt = now
	}
	seeded.UpdatedAt = now

	existing, err := s.backend.Get(ctx, c.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		err = s.backend.Insert(ctx, seeded)
	case err != nil:
		return err
	default:
		if subtle.ConstantTimeCompare([]byte(existing.Secret), []byte(c.Secret)) != 1 {
			return fmt.Errorf("seed client %s: %w", c.ID, ErrImmutableField)
		}
		seeded.CreatedAt = existing.CreatedAt
		err = s.backend.Update(ctx, seeded)
	}
	if err != nil {
		return err
	}

	s.invalidate(c.ID)
	return nil
}

// Get returns the client with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Client, error) {
	if s.cache != nil {
		if c, ok := s.cache.Get(id); ok {
			return c.Clone(), nil
		}
	}

	var gen uint64
	if s.cache != nil {
		gen = s.cache.Generation()
	}
	c, err := s.backend.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Skipped when an update or delete ran during the fetch.
		s.cache.SetIfGeneration(id, c.Clone(), gen)
	}
	return c, nil
}

// GetAndValidate returns the client when secret matches.
// Unknown ids and wrong secrets both yield ErrUnauthorized.
func (s *Store) GetAndValidate(ctx context.Context, id, secret string) (*Client, error) {
	c, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(c.Secret), []byte(secret)) != 1 {
		return nil, ErrUnauthorized
	}
	return c, nil
}

// Update applies p to the client with the given id. A patch carrying a
// secret, or an id other than the target, fails with ErrImmutableField.
func (s *Store) Update(ctx context.Context, id string, p Patch) (*Client, error) {
	if _, ok := p[FieldSecret]; ok {
		return nil, ErrImmutableField
	}
	if v, ok := p[FieldID]; ok && v != id {
		return nil, ErrImmutableField
	}
	if err := p.Validate(false); err != nil {
		return nil, err
	}

	c, err := s.backend.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.apply(c)
	c.UpdatedAt = s.now().UTC()

	if err := s.backend.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(id)

	s.logger.InfoContext(ctx, "client updated", logger.ClientID(id))
	return c, nil
}

// Delete removes the client with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)

	s.logger.InfoContext(ctx, "client deleted", logger.ClientID(id))
	return nil
}

// List returns every client without secrets.
func (s *Store) List(ctx context.Context) ([]*Client, error) {
	clients, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Client, len(clients))
	for i, c := range clients {
		out[i] = c.Public()
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) invalidate(id string) {
	if s.cache != nil {
		s.cache.Delete(id)
	}
}

func generateSecret() (string, error) {
	b := make([]byte, SecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate client secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
