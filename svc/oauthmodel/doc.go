// Package oauthmodel bridges an external OAuth2 grant engine to the client,
// token and user stores.
//
// Model exposes the hooks a grant engine calls while running the password and
// client-credentials grants: GetClient, GetUser, SaveAccessToken and
// GetAccessToken, plus GrantTypeAllowed and GetUserFromClient. Every failure
// of GetClient and GetUser is reported as ErrAuthenticationFailed; the cause
// is logged, never returned.
//
// GetUser consults a throttle before authenticating and records every
// rejected password, so repeated guessing bans the username for a while.
//
// CallbackAdapter presents the same hooks in callback form for engines that
// expect fn(args..., cb).
package oauthmodel
