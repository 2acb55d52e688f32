package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smaug/pkg/validator"
	"github.com/dmitrymomot/smaug/svc/client"
)

func validPatch() client.Patch {
	return client.Patch{
		"name": "opensearch app",
		"config": map[string]any{
			"search": map[string]any{
				"agency":                "190101",
				"profile":               "default",
				"collectionidentifiers": "",
			},
		},
		"contact": map[string]any{
			"owner": map[string]any{"name": "Jane", "phone": "12345678", "email": "jane@example.com"},
		},
	}
}

func TestPatch_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		patch  func() client.Patch
		full   bool
		fields []string
	}{
		{
			name:  "valid full patch",
			patch: validPatch,
			full:  true,
		},
		{
			name:   "missing required fields",
			patch:  func() client.Patch { return client.Patch{} },
			full:   true,
			fields: []string{"name", "config", "contact"},
		},
		{
			name:  "partial patch skips required checks",
			patch: func() client.Patch { return client.Patch{"name": "renamed"} },
		},
		{
			name: "name must be a string",
			patch: func() client.Patch {
				p := validPatch()
				p["name"] = 12
				return p
			},
			full:   true,
			fields: []string{"name"},
		},
		{
			name: "config must not be a list",
			patch: func() client.Patch {
				p := validPatch()
				p["config"] = []any{"a"}
				return p
			},
			full:   true,
			fields: []string{"config"},
		},
		{
			name: "search keys must be strings",
			patch: func() client.Patch {
				p := validPatch()
				p["config"] = map[string]any{"search": map[string]any{"agency": 190101, "profile": true}}
				return p
			},
			fields: []string{"config.search.agency", "config.search.profile"},
		},
		{
			name: "search must be an object",
			patch: func() client.Patch {
				return client.Patch{"config": map[string]any{"search": "x"}}
			},
			fields: []string{"config.search"},
		},
		{
			name: "owner contact required",
			patch: func() client.Patch {
				return client.Patch{"contact": map[string]any{
					"tech": map[string]any{"name": "a", "phone": "b", "email": "c"},
				}}
			},
			fields: []string{"contact"},
		},
		{
			name: "contact entries need exactly name phone email",
			patch: func() client.Patch {
				return client.Patch{"contact": map[string]any{
					"owner": map[string]any{"name": "a", "email": "c"},
					"tech":  map[string]any{"name": "a", "phone": "b", "email": "c", "fax": "d"},
				}}
			},
			fields: []string{"contact.owner", "contact.tech"},
		},
		{
			name: "contact entry must be an object",
			patch: func() client.Patch {
				return client.Patch{"contact": map[string]any{"owner": "jane"}}
			},
			fields: []string{"contact.owner"},
		},
		{
			name:  "auth may be cleared",
			patch: func() client.Patch { return client.Patch{"auth": nil} },
		},
		{
			name:   "auth must be a string",
			patch:  func() client.Patch { return client.Patch{"auth": 1} },
			fields: []string{"auth"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.patch().Validate(tt.full)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verrs := validator.ExtractValidationErrors(err)
			require.NotNil(t, verrs)
			assert.ElementsMatch(t, tt.fields, verrs.Fields())
		})
	}
}
