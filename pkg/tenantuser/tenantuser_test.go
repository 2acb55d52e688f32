package tenantuser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/smaug/pkg/tenantuser"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		libraryID string
		userID    string
		want      string
	}{
		{"user in library", "000000", "donald", "donald@000000"},
		{"anonymous sentinel", "", "", tenantuser.Anonymous},
		{"anonymous in library", "710100", "", "@710100"},
		{"user without library", "", "donald", "donald@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tenantuser.Encode(tt.libraryID, tt.userID))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		pairs := [][2]string{
			{"000000", "donald"},
			{"", ""},
			{"710100", ""},
			{"", "donald"},
			{"123456", "jane@example.org"},
		}
		for _, p := range pairs {
			u := tenantuser.Decode(tenantuser.Encode(p[0], p[1]))
			assert.Equal(t, tenantuser.User{LibraryID: p[0], ID: p[1]}, u)
		}
	})

	t.Run("splits on last separator", func(t *testing.T) {
		t.Parallel()
		u := tenantuser.Decode("jane@example.org@710100")
		assert.Equal(t, "jane@example.org", u.ID)
		assert.Equal(t, "710100", u.LibraryID)
	})

	t.Run("no separator names a library", func(t *testing.T) {
		t.Parallel()
		u := tenantuser.Decode("710100")
		assert.Empty(t, u.ID)
		assert.Equal(t, "710100", u.LibraryID)
		assert.True(t, u.IsAnonymous())
		assert.Equal(t, "@710100", u.String())
	})

	t.Run("empty string is the anonymous sentinel", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, tenantuser.User{}, tenantuser.Decode(""))
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		assert.True(t, tenantuser.Decode("@").IsAnonymous())
		assert.True(t, tenantuser.Decode("@710100").IsAnonymous())
		assert.False(t, tenantuser.Decode("donald@710100").IsAnonymous())
	})
}

func TestUser_WithLibrary(t *testing.T) {
	t.Parallel()

	u := tenantuser.Decode("@").WithLibrary("190101")
	assert.Equal(t, "@190101", u.String())

	u = tenantuser.Decode("@710100").WithLibrary("190101")
	assert.Equal(t, "@710100", u.String())
}

func TestMatchesAnonymousPassword(t *testing.T) {
	t.Parallel()

	assert.True(t, tenantuser.MatchesAnonymousPassword("@710100", "@710100"))
	assert.False(t, tenantuser.MatchesAnonymousPassword("@710100", "secret"))
	assert.False(t, tenantuser.MatchesAnonymousPassword("donald@710100", "donald@710100"))
}
