package userauth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/smaug/pkg/tenantuser"
)

// CredentialStore authenticates users against stored bcrypt password hashes.
type CredentialStore struct {
	mu         sync.RWMutex
	hashes     map[string][]byte
	bcryptCost int
}

type CredentialOption func(*CredentialStore)

// WithBcryptCost sets the cost used when hashing stored passwords.
func WithBcryptCost(cost int) CredentialOption {
	return func(s *CredentialStore) {
		s.bcryptCost = cost
	}
}

func NewCredentialStore(opts ...CredentialOption) *CredentialStore {
	s := &CredentialStore{
		hashes:     make(map[string][]byte),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StoreUser sets the password of username, replacing any previous one.
func (s *CredentialStore) StoreUser(_ context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	s.hashes[username] = hash
	s.mu.Unlock()
	return nil
}

// Authenticate checks password against the stored hash. Anonymous users are
// valid when the password equals the username.
func (s *CredentialStore) Authenticate(_ context.Context, username, password string) (*User, error) {
	if tenantuser.Decode(username).IsAnonymous() {
		if subtle.ConstantTimeCompare([]byte(username), []byte(password)) == 1 {
			return &User{ID: username}, nil
		}
		return nil, ErrInvalidCredentials
	}

	s.mu.RLock()
	hash, ok := s.hashes[username]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &User{ID: username}, nil
}

func (s *CredentialStore) Ping(context.Context) error {
	return nil
}

// LoadCredentials reads a YAML map of username to plain-text password and
// stores every entry.
func (s *CredentialStore) LoadCredentials(ctx context.Context, data []byte) error {
	var users map[string]string
	if err := yaml.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}
	for username, password := range users {
		if err := s.StoreUser(ctx, username, password); err != nil {
			return err
		}
	}
	return nil
}

// LoadCredentialsFile is LoadCredentials over the contents of path.
func (s *CredentialStore) LoadCredentialsFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	return s.LoadCredentials(ctx, data)
}
