package tenantuser

import "strings"

// Separator joins the user id and the library id.
const Separator = "@"

// Anonymous is the encoding of a user with neither user id nor library id.
const Anonymous = Separator

// User is a decoded tenant identity.
type User struct {
	ID        string `json:"id,omitempty"`
	LibraryID string `json:"library_id"`
}

// Encode packs a library id and a user id into a single username.
func Encode(libraryID, userID string) string {
	return userID + Separator + libraryID
}

// Decode unpacks a username produced by Encode.
// A username without a separator names a library with no user.
func Decode(username string) User {
	idx := strings.LastIndex(username, Separator)
	if idx < 0 {
		return User{LibraryID: username}
	}
	return User{
		ID:        username[:idx],
		LibraryID: username[idx+len(Separator):],
	}
}

// String returns the encoded form of the user.
func (u User) String() string {
	return Encode(u.LibraryID, u.ID)
}

// IsAnonymous reports whether the user carries no explicit user id.
func (u User) IsAnonymous() bool {
	return u.ID == ""
}

// WithLibrary returns a copy of u whose empty library id is replaced with libraryID.
// A user that already names a library is returned unchanged.
func (u User) WithLibrary(libraryID string) User {
	if u.LibraryID == "" {
		u.LibraryID = libraryID
	}
	return u
}

// MatchesAnonymousPassword reports whether username decodes to an anonymous
// user presenting its own encoded username as the password.
func MatchesAnonymousPassword(username, password string) bool {
	return Decode(username).IsAnonymous() && username == password
}
