package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/smaug/pkg/validator"
)

func TestIsObject(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"map", map[string]any{"a": 1}, true},
		{"empty map", map[string]any{}, true},
		{"string map", map[string]string{"a": "b"}, true},
		{"nil map", map[string]any(nil), false},
		{"slice", []any{1, 2}, false},
		{"string", "object", false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.IsObject("config", tt.value).Check())
		})
	}
}

func TestHasKeys(t *testing.T) {
	obj := map[string]any{"owner": map[string]any{}}

	assert.True(t, validator.HasKeys("contact", obj, "owner").Check())
	assert.False(t, validator.HasKeys("contact", obj, "owner", "billing").Check())
}

func TestExactKeys(t *testing.T) {
	full := map[string]any{"name": "a", "phone": "1", "email": "a@b.c"}
	missing := map[string]any{"name": "a", "email": "a@b.c"}
	extra := map[string]any{"name": "a", "phone": "1", "email": "a@b.c", "fax": "2"}

	assert.True(t, validator.ExactKeys("c", full, "name", "phone", "email").Check())
	assert.False(t, validator.ExactKeys("c", missing, "name", "phone", "email").Check())
	assert.False(t, validator.ExactKeys("c", extra, "name", "phone", "email").Check())
}

func TestEach(t *testing.T) {
	obj := map[string]any{"b": 1, "a": "x"}

	rules := validator.Each(obj, func(key string, v any) []validator.Rule {
		return []validator.Rule{validator.IsString(key, v)}
	})

	err := validator.Apply(rules...)
	assert.Equal(t, []string{"b"}, validator.ExtractValidationErrors(err).Fields())
	assert.Len(t, rules, 2)
	assert.Equal(t, "a", rules[0].Error.Field)
}
