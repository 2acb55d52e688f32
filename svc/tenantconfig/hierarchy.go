package tenantconfig

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/smaug/svc/client"
)

// Tier names one level of the configuration hierarchy.
type Tier string

const (
	TierUser    Tier = "users"
	TierLibrary Tier = "libraries"
	TierClient  Tier = "clients"
	TierDefault Tier = "default"
)

// Hierarchy is the full tiered configuration.
type Hierarchy struct {
	Default   map[string]any            `yaml:"default" json:"default"`
	Libraries map[string]map[string]any `yaml:"libraries" json:"libraries"`
	Clients   map[string]map[string]any `yaml:"clients" json:"clients"`
	Users     map[string]map[string]any `yaml:"users" json:"users"`
}

// ParseHierarchy reads a Hierarchy from YAML.
func ParseHierarchy(data []byte) (*Hierarchy, error) {
	var h Hierarchy
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse configuration hierarchy: %w", err)
	}
	return &h, nil
}

// LoadFile reads a Hierarchy from a YAML file into a new MemoryStore.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration hierarchy: %w", err)
	}
	h, err := ParseHierarchy(data)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(*h), nil
}

// Store returns tier configurations. Implementations return deep copies and
// ErrNotFound for absent entries.
type Store interface {
	Get(ctx context.Context, tier Tier, key string) (map[string]any, error)
	Ping(ctx context.Context) error
}

// MemoryStore serves a Hierarchy held in memory.
type MemoryStore struct {
	mu sync.RWMutex
	h  Hierarchy
}

func NewMemoryStore(h Hierarchy) *MemoryStore {
	return &MemoryStore{h: h}
}

// Replace swaps the whole hierarchy, e.g. after a configuration reload.
func (s *MemoryStore) Replace(h Hierarchy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = h
}

func (s *MemoryStore) Get(_ context.Context, tier Tier, key string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		cfg map[string]any
		ok  bool
	)
	switch tier {
	case TierUser:
		cfg, ok = s.h.Users[key]
	case TierLibrary:
		cfg, ok = s.h.Libraries[key]
	case TierClient:
		cfg, ok = s.h.Clients[key]
	case TierDefault:
		cfg, ok = s.h.Default, true
	}
	if !ok {
		return nil, ErrNotFound
	}
	if cfg == nil {
		return map[string]any{}, nil
	}
	return client.CloneConfig(cfg), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
