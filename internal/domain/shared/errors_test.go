package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel through details copy", func(t *testing.T) {
		err := ErrNotFound.WithDetails(map[string]interface{}{"id": "x"})
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, "x", err.Details["id"])
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading item: %w", ErrAccessDenied.WithMessage("employees cannot delete items"))
		assert.True(t, errors.Is(err, ErrAccessDenied))
		assert.False(t, errors.Is(err, ErrNotFound))

		var de *DomainError
		assert.True(t, errors.As(err, &de))
		assert.Equal(t, "employees cannot delete items", de.Message)
	})

	t.Run("does not mutate sentinel", func(t *testing.T) {
		_ = ErrInvalidInput.WithMessage("changed")
		assert.Equal(t, "Invalid input provided", ErrInvalidInput.Message)
		assert.Nil(t, ErrInvalidInput.Details)
	})
}
