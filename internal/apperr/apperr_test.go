package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, KindValidation, KindOf(Validation("The name field is required.")))
	assert.Equal(t, KindUnauthenticated, KindOf(fmt.Errorf("gate: %w", Unauthenticated(cause))))
	assert.Equal(t, KindNotFound, KindOf(NotFound(cause)))
	assert.Equal(t, KindUnexpected, KindOf(Unexpected("insert user", cause)))
	assert.Equal(t, KindUnexpected, KindOf(cause))
	assert.Equal(t, KindUnexpected, KindOf(nil))
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Validation("The email has already been taken."))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Unexpected("insert item", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "insert item: disk full", err.Error())
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "The name field is required.", MessageOf(fmt.Errorf("x: %w", Validation("The name field is required."))))
	assert.Empty(t, MessageOf(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "unauthenticated", KindUnauthenticated.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unexpected", KindUnexpected.String())
}
