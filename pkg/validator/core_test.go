package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smaug/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Run("returns default message when no errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		assert.Equal(t, "validation failed", errs.Error())
	})

	t.Run("returns formatted message with single error", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "name", Message: "is required"})
		assert.Equal(t, "validation failed: name: is required", errs.Error())
	})

	t.Run("returns formatted message with multiple errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "name", Message: "is required"})
		errs.Add(validator.ValidationError{Field: "contact", Message: "must contain: owner"})

		msg := errs.Error()
		assert.Contains(t, msg, "name: is required")
		assert.Contains(t, msg, "contact: must contain: owner")
	})
}

func TestValidationErrors_Accessors(t *testing.T) {
	errs := validator.ValidationErrors{
		{Field: "config", Message: "must be a plain object"},
		{Field: "contact.owner", Message: "must contain exactly: name, phone, email"},
		{Field: "config", Message: "other"},
	}

	assert.True(t, errs.Has("config"))
	assert.False(t, errs.Has("name"))
	assert.Equal(t, []string{"must be a plain object", "other"}, errs.Get("config"))
	assert.Equal(t, []string{"config", "contact.owner"}, errs.Fields())
	assert.False(t, errs.IsEmpty())
}

func TestApply(t *testing.T) {
	t.Run("no failures", func(t *testing.T) {
		err := validator.Apply(
			validator.IsString("name", "app"),
			validator.Required("name", true),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		err := validator.Apply(
			validator.IsString("name", 42),
			validator.IsObject("config", []any{"a"}),
			validator.Required("contact", false),
		)
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		require.Len(t, verrs, 3)
		assert.Equal(t, []string{"name", "config", "contact"}, verrs.Fields())
		assert.True(t, errors.Is(err, validator.ErrValidationFailed))
	})
}

func TestExtractValidationErrors(t *testing.T) {
	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("plain")))

	wrapped := fmt.Errorf("create client: %w", validator.Apply(validator.Required("name", false)))
	assert.True(t, validator.IsValidationError(wrapped))
	assert.Len(t, validator.ExtractValidationErrors(wrapped), 1)
	assert.False(t, validator.IsValidationError(nil))
}
