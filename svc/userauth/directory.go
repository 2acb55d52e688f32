package userauth

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/dmitrymomot/smaug/pkg/logger"
)

// UsernamePlaceholder is replaced by the escaped username in a DN template.
const UsernamePlaceholder = "{username}"

// Binder verifies a distinguished name and password against a directory.
type Binder interface {
	Bind(ctx context.Context, dn, password string) error
}

// Directory authenticates users by binding to a directory service.
type Directory struct {
	binder     Binder
	dnTemplate string
	logger     *slog.Logger
}

type DirectoryOption func(*Directory)

func WithDirectoryLogger(l *slog.Logger) DirectoryOption {
	return func(d *Directory) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDirectory creates a Directory. dnTemplate must contain UsernamePlaceholder,
// e.g. "uid={username},ou=people,dc=example,dc=org". An empty template binds
// with the bare username.
func NewDirectory(binder Binder, dnTemplate string, opts ...DirectoryOption) *Directory {
	d := &Directory{
		binder:     binder,
		dnTemplate: dnTemplate,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) Authenticate(ctx context.Context, username, password string) (*User, error) {
	// An empty password would be an unauthenticated bind, which servers accept.
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	dn := username
	if d.dnTemplate != "" {
		dn = strings.ReplaceAll(d.dnTemplate, UsernamePlaceholder, ldap.EscapeDN(username))
	}

	if err := d.binder.Bind(ctx, dn, password); err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			d.logger.WarnContext(ctx, "directory bind failed",
				logger.Component("directory"),
				logger.Username(username),
				logger.Error(err),
			)
			return nil, errors.Join(ErrBackendUnavailable, err)
		}
		return nil, ErrInvalidCredentials
	}
	return &User{ID: username}, nil
}

func (d *Directory) Ping(ctx context.Context) error {
	if p, ok := d.binder.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// LDAPBinder binds against an LDAP server, one connection per bind.
type LDAPBinder struct {
	url     string
	timeout time.Duration
}

func NewLDAPBinder(url string, timeout time.Duration) *LDAPBinder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LDAPBinder{url: url, timeout: timeout}
}

func (b *LDAPBinder) dial(ctx context.Context) (*ldap.Conn, error) {
	dialer := &net.Dialer{Timeout: b.timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	conn, err := ldap.DialURL(b.url, ldap.DialWithDialer(dialer))
	if err != nil {
		return nil, err
	}
	conn.SetTimeout(b.timeout)
	return conn, nil
}

// Bind returns ErrInvalidCredentials when the server rejects dn and password.
func (b *LDAPBinder) Bind(ctx context.Context, dn, password string) error {
	conn, err := b.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Bind(dn, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

func (b *LDAPBinder) Ping(ctx context.Context) error {
	conn, err := b.dial(ctx)
	if err != nil {
		return errors.Join(ErrBackendUnavailable, err)
	}
	conn.Close()
	return nil
}
