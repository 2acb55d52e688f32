// Package agency looks up per-library settings that tailor resolved
// configuration: the library's search profile and the credential pair used
// against the library's external agency service.
package agency

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("agency not found")

// Agency holds the settings of one library.
type Agency struct {
	LibraryID       string `yaml:"-" json:"library_id"`
	SearchProfile   string `yaml:"search_profile" json:"search_profile,omitempty"`
	ServiceAPI      string `yaml:"service_api" json:"service_api,omitempty"`
	ServicePassword string `yaml:"service_password" json:"-"`
}

// HasServiceCredentials reports whether the credential pair is set.
func (a Agency) HasServiceCredentials() bool {
	return a.ServiceAPI != "" && a.ServicePassword != ""
}

// Store looks agencies up by library id.
type Store interface {
	Get(ctx context.Context, libraryID string) (*Agency, error)
	Ping(ctx context.Context) error
}

// MemoryStore is a Store backed by a map, typically seeded from YAML.
type MemoryStore struct {
	mu       sync.RWMutex
	agencies map[string]Agency
}

func NewMemoryStore(agencies ...Agency) *MemoryStore {
	s := &MemoryStore{agencies: make(map[string]Agency, len(agencies))}
	for _, a := range agencies {
		s.agencies[a.LibraryID] = a
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, libraryID string) (*Agency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.agencies[libraryID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, libraryID)
	}
	return &a, nil
}

// Put adds or replaces an agency.
func (s *MemoryStore) Put(a Agency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agencies[a.LibraryID] = a
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Parse reads agencies from YAML keyed by library id:
//
//	"710100":
//	  search_profile: opac
//	  service_api: https://agency.example/710100
//	  service_password: secret
func Parse(data []byte) ([]Agency, error) {
	var raw map[string]Agency
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse agencies: %w", err)
	}

	out := make([]Agency, 0, len(raw))
	for id, a := range raw {
		a.LibraryID = id
		out = append(out, a)
	}
	return out, nil
}

// LoadFile reads agencies from a YAML file into a new MemoryStore.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agencies: %w", err)
	}
	agencies, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(agencies...), nil
}
