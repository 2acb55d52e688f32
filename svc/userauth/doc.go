// Package userauth authenticates end users against pluggable backends.
//
// Every backend implements Authenticator. A Router maps backend names, as
// configured on a client, to the Authenticator that handles them. The set of
// backends is fixed when the Router is built.
//
// Backends:
//
//   - CredentialStore checks bcrypt hashes of stored passwords.
//   - PatronCheck asks a remote patron-check service over HTTP.
//   - Directory binds against a directory service (see LDAPBinder).
//   - AllowAll and DenyAll accept or reject everyone.
//
// Anonymous users, whose encoded username carries no user id, authenticate by
// presenting their own encoded username as the password.
//
// All rejections return ErrInvalidCredentials regardless of cause.
package userauth
