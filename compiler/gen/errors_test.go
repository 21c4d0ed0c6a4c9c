package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Stack", "soap", "unsupported stack")

		assert.Contains(t, err.Error(), "scaffold: config error")
		assert.Contains(t, err.Error(), "Stack")
		assert.Contains(t, err.Error(), "soap")
		assert.Contains(t, err.Error(), "unsupported stack")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Root", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Root")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Root", nil, "missing")
		assert.ErrorIs(t, err, ErrMissingConfig)
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", NewConfigError("Root", nil, "missing"))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewGenerationError(KindModel, "internal/models/post.go", "write", cause)

		assert.Equal(t, "scaffold: generation error in model (file: internal/models/post.go): write: disk full", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewGenerationError(KindRoutes, "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("IsGenerationError helper", func(t *testing.T) {
		assert.True(t, IsGenerationError(NewGenerationError(KindMigration, "", "", nil)))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("Post", "status", "enum without values")
	assert.Equal(t, "scaffold: validation error on Post field status: enum without values", err.Error())
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(ErrNoFields))
}
