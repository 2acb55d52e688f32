package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// TokenBytes is the amount of randomness in a generated token.
const TokenBytes = 20

// TypeBearer is the only token type issued.
const TypeBearer = "Bearer"

// AccessToken is a stored bearer token.
type AccessToken struct {
	Token    string    `json:"access_token" bson:"_id"`
	ClientID string    `json:"client_id" bson:"clientId"`
	UserID   string    `json:"user_id" bson:"userId"`
	Expires  time.Time `json:"expires" bson:"expires"`
}

// ValidAt reports whether the token has not expired at now.
func (t *AccessToken) ValidAt(now time.Time) bool {
	return t != nil && now.Before(t.Expires)
}

// OAuth2 converts the token for transport in an OAuth2 token response.
func (t *AccessToken) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: t.Token,
		TokenType:   TypeBearer,
		Expiry:      t.Expires,
	}
}

// Generate returns a new opaque random token.
func Generate() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
