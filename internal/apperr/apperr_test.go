package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		Validation:    http.StatusBadRequest,
		NotFound:      http.StatusNotFound,
		Conflict:      http.StatusConflict,
		NoOp:          http.StatusOK,
		WorkflowState: http.StatusConflict,
		Internal:      http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, New(kind, "x").Status())
	}
}

func TestFromAndWrap(t *testing.T) {
	cause := errors.New("connexion perdue")

	wrapped := Wrap(cause, "Internal server error")
	assert.Equal(t, Internal, wrapped.Kind)
	assert.ErrorIs(t, wrapped, cause)

	same := From(wrapped)
	assert.Equal(t, wrapped, same)

	normalized := From(cause)
	assert.Equal(t, Internal, normalized.Kind)
	assert.Equal(t, "Internal server error", normalized.Message)
}

func TestIsKind(t *testing.T) {
	err := New(NotFound, "Cart not found")
	assert.True(t, IsKind(err, NotFound))
	assert.False(t, IsKind(err, Validation))
	assert.False(t, IsKind(errors.New("autre"), NotFound))
}
