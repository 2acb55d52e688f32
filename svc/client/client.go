package client

import (
	"maps"
	"time"

	"github.com/mitchellh/copystructure"
)

// DefaultBackend is the authentication backend of clients that name none.
const DefaultBackend = "default"

// Contact is one named contact of a client.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Client is a registered OAuth client.
type Client struct {
	ID          string             `json:"id"`
	Secret      string             `json:"secret,omitempty"`
	Name        string             `json:"name"`
	Config      map[string]any     `json:"config"`
	Contact     map[string]Contact `json:"contact"`
	AuthBackend string             `json:"auth_backend,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Backend returns the authentication backend name, DefaultBackend when unset.
func (c *Client) Backend() string {
	if c.AuthBackend == "" {
		return DefaultBackend
	}
	return c.AuthBackend
}

// Public returns a copy without the secret.
func (c *Client) Public() *Client {
	cp := c.Clone()
	cp.Secret = ""
	return cp
}

// Clone returns a deep copy.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Config = CloneConfig(c.Config)
	cp.Contact = maps.Clone(c.Contact)
	return &cp
}

// CloneConfig deep-copies a configuration fragment.
func CloneConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return nil
	}
	cp, err := copystructure.Copy(cfg)
	if err != nil {
		// Only JSON-shaped values are ever stored, which always copy.
		panic(err)
	}
	return cp.(map[string]any)
}
