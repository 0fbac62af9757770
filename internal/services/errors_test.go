package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, Validation("title is %s", "required"), ErrValidation)
	assert.EqualError(t, Validation("title is %s", "required"), "title is required")
	assert.ErrorIs(t, Forbidden("no"), ErrForbidden)
	assert.ErrorIs(t, NotFound("no"), ErrNotFound)
	assert.ErrorIs(t, Conflict("no"), ErrConflict)

	for _, err := range []error{ErrInvalidCredential, ErrCredentialMissing, ErrCredentialMalformed, ErrCredentialExpired} {
		assert.ErrorIs(t, err, ErrUnauthorized)
	}

	wrapped := fmt.Errorf("outer: %w", NotFound("room not found"))
	var svcErr *Error
	assert.True(t, errors.As(wrapped, &svcErr))
	assert.Equal(t, "room not found", svcErr.Message)
}
