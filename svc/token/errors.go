package token

import "errors"

var (
	ErrNotFound      = errors.New("access token not found or expired")
	ErrUnknownClient = errors.New("access token references an unknown client")
	ErrInvalidToken  = errors.New("invalid access token")
)
