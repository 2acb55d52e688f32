package client

import "errors"

var (
	ErrNotFound       = errors.New("client not found")
	ErrUnauthorized   = errors.New("client authentication failed")
	ErrImmutableField = errors.New("client id and secret cannot be changed")
	ErrAlreadyExists  = errors.New("client already exists")
)
