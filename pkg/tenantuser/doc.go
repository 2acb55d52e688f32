// Package tenantuser encodes and decodes the tenant-qualified identity carried
// by end-user credentials and access tokens.
//
// A tenant user is a pair of library id and user id packed into a single
// string: the user id, an "@" separator and the library id. The user id is
// empty for anonymous users, and the library id may be empty when the caller
// did not name one.
//
//	tenantuser.Encode("710100", "donald") // "donald@710100"
//	tenantuser.Encode("710100", "")       // "@710100"
//	tenantuser.Encode("", "")             // "@" (the anonymous sentinel)
//
// Decode splits on the last separator so user ids that themselves contain an
// "@" (e-mail style logins) survive a round trip:
//
//	u := tenantuser.Decode("jane@example.org@710100")
//	// u.ID == "jane@example.org", u.LibraryID == "710100"
//
// Anonymous users authenticate with a password equal to their own encoded
// username; see User.IsAnonymous and MatchesAnonymousPassword.
package tenantuser
