package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKind(t *testing.T) {
	err := NotFound("product not found")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(nil, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestIsKind_Wrapped(t *testing.T) {
	inner := Conflict("email already registered")
	wrapped := fmt.Errorf("creating account: %w", inner)
	assert.True(t, IsKind(wrapped, KindConflict))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindForbidden, KindOf(Forbidden("not your order")))
	assert.Equal(t, KindInternal, KindOf(errors.New("disk on fire")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("index failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "index failed")
}
