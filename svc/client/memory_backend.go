package client

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryBackend keeps clients in process memory.
type MemoryBackend struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{clients: make(map[string]*Client)}
}

func (m *MemoryBackend) Insert(_ context.Context, c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c.ID]; ok {
		return ErrAlreadyExists
	}
	m.clients[c.ID] = c.Clone()
	return nil
}

func (m *MemoryBackend) Get(_ context.Context, id string) (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (m *MemoryBackend) Update(_ context.Context, c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c.ID]; !ok {
		return ErrNotFound
	}
	m.clients[c.ID] = c.Clone()
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

// List returns clients ordered by creation time, then id.
func (m *MemoryBackend) List(_ context.Context) ([]*Client, error) {
	m.mu.RLock()
	out := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c.Clone())
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Client) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryBackend) Ping(context.Context) error {
	return nil
}
