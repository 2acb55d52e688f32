package userauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/dmitrymomot/smaug/pkg/logger"
	"github.com/dmitrymomot/smaug/pkg/tenantuser"
)

// Patron-check request statuses.
const (
	StatusOK               = "ok"
	StatusBorrowerNotFound = "borrower_not_found"
	StatusNotAllowed       = "borrowercheck_not_allowed"
)

// LibraryCodePrefix is prepended to the library id in patron-check requests.
const LibraryCodePrefix = "DK-"

type patronRequest struct {
	UserID      string `json:"userId"`
	Pin         string `json:"pin"`
	LibraryCode string `json:"libraryCode"`
}

type patronResponse struct {
	RequestStatus string `json:"requestStatus"`
}

// PatronCheck authenticates library patrons against a remote patron-check service.
type PatronCheck struct {
	endpoint      string
	client        *http.Client
	maxTries      uint
	retryInterval time.Duration
	logger        *slog.Logger
}

type PatronOption func(*PatronCheck)

func WithHTTPClient(c *http.Client) PatronOption {
	return func(p *PatronCheck) {
		if c != nil {
			p.client = c
		}
	}
}

// WithRetries sets how many times a request is attempted on transport errors.
func WithRetries(tries uint, interval time.Duration) PatronOption {
	return func(p *PatronCheck) {
		p.maxTries = max(tries, 1)
		p.retryInterval = interval
	}
}

func WithPatronLogger(l *slog.Logger) PatronOption {
	return func(p *PatronCheck) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPatronCheck(endpoint string, opts ...PatronOption) *PatronCheck {
	p := &PatronCheck{
		endpoint:      endpoint,
		client:        &http.Client{Timeout: 10 * time.Second},
		maxTries:      3,
		retryInterval: 200 * time.Millisecond,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Authenticate asks the patron-check service whether password is the pin of
// the decoded user. A borrower_not_found reply is accepted for anonymous users
// presenting their own username as password.
func (p *PatronCheck) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user := tenantuser.Decode(username)

	status, err := p.check(ctx, patronRequest{
		UserID:      user.ID,
		Pin:         password,
		LibraryCode: LibraryCodePrefix + user.LibraryID,
	})
	if err != nil {
		p.logger.WarnContext(ctx, "patron check failed",
			logger.Component("patroncheck"),
			logger.Username(username),
			logger.Error(err),
		)
		return nil, errors.Join(ErrBackendUnavailable, err)
	}

	ok := status == StatusOK ||
		(status == StatusBorrowerNotFound && tenantuser.MatchesAnonymousPassword(username, password))

	p.logger.InfoContext(ctx, "patron check",
		logger.Component("patroncheck"),
		logger.Username(username),
		slog.String("status", status),
		slog.Bool("authenticated", ok),
	)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &User{ID: username}, nil
}

func (p *PatronCheck) check(ctx context.Context, req patronRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode patron request: %w", err)
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = p.retryInterval

	return backoff.Retry(ctx, func() (string, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
		if err != nil {
			return "", backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")

		resp, err := p.client.Do(httpReq)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			_, _ = io.Copy(io.Discard, resp.Body)
			return "", fmt.Errorf("patron check: unexpected status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return "", backoff.Permanent(fmt.Errorf("patron check: unexpected status %d", resp.StatusCode))
		}

		var out patronResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", backoff.Permanent(fmt.Errorf("decode patron response: %w", err))
		}
		return out.RequestStatus, nil
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(p.maxTries),
	)
}

// Ping checks that the patron-check endpoint answers at all.
func (p *PatronCheck) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Join(ErrBackendUnavailable, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}
	return nil
}
