package oauthmodel

import "errors"

var ErrAuthenticationFailed = errors.New("oauthmodel: authentication failed")
