package client

import "context"

// Backend persists clients. Implementations return ErrNotFound for unknown ids
// and ErrAlreadyExists when inserting a duplicate id.
type Backend interface {
	Insert(ctx context.Context, c *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Client, error)
	Ping(ctx context.Context) error
}
