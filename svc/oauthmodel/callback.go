package oauthmodel

import (
	"context"
	"time"

	"github.com/dmitrymomot/smaug/svc/client"
	"github.com/dmitrymomot/smaug/svc/token"
	"github.com/dmitrymomot/smaug/svc/userauth"
)

// CallbackAdapter exposes a Model in callback form. Each method runs the
// operation and then invokes cb exactly once, on the calling goroutine.
type CallbackAdapter struct {
	model *Model
}

func NewCallbackAdapter(m *Model) *CallbackAdapter {
	return &CallbackAdapter{model: m}
}

func (a *CallbackAdapter) GetClient(ctx context.Context, id, secret string, cb func(err error, c *client.Client)) {
	c, err := a.model.GetClient(ctx, id, secret)
	cb(err, c)
}

func (a *CallbackAdapter) GetUser(ctx context.Context, clientID, username, password string, cb func(err error, u *userauth.User)) {
	u, err := a.model.GetUser(ctx, clientID, username, password)
	cb(err, u)
}

func (a *CallbackAdapter) SaveAccessToken(ctx context.Context, tok, clientID string, expires time.Time, user *userauth.User, cb func(err error)) {
	cb(a.model.SaveAccessToken(ctx, tok, clientID, expires, user))
}

func (a *CallbackAdapter) GetAccessToken(ctx context.Context, tok string, cb func(err error, t *token.AccessToken)) {
	t, err := a.model.GetAccessToken(ctx, tok)
	cb(err, t)
}

func (a *CallbackAdapter) GrantTypeAllowed(clientID, grant string, cb func(err error, allowed bool)) {
	cb(nil, a.model.GrantTypeAllowed(clientID, grant))
}

func (a *CallbackAdapter) GetUserFromClient(ctx context.Context, c *client.Client, cb func(err error, u *userauth.User)) {
	u, err := a.model.GetUserFromClient(ctx, c)
	cb(err, u)
}
