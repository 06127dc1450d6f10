package bridge

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromResponseMapsExceptionTypes(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		exceptionType string
		wantKind      Kind
	}{
		{"constraint violation by type", http.StatusConflict, "ConstraintViolationException", KindConstraintViolation},
		{"not found by type", http.StatusNotFound, "EntityNotFoundException", KindNotFound},
		{"constraint violation by status", http.StatusConflict, "", KindConstraintViolation},
		{"not found by status", http.StatusNotFound, "", KindNotFound},
		{"unauthorized by status", http.StatusUnauthorized, "", KindUnauthorized},
		{"forbidden maps to unauthorized", http.StatusForbidden, "", KindUnauthorized},
		{"bad request by status", http.StatusBadRequest, "", KindBadRequest},
		{"server error is transport", http.StatusInternalServerError, "", KindTransport},
		{"type wins over status", http.StatusBadRequest, "EntityNotFoundException", KindNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FromResponse(tc.statusCode, tc.exceptionType, "boom")
			assert.Equal(t, tc.wantKind, err.Kind)
			assert.Equal(t, tc.statusCode, err.StatusCode)
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	cv := NewError(KindConstraintViolation, "two configs match")
	nf := NewError(KindNotFound, "nothing matches")

	assert.True(t, IsConstraintViolation(cv))
	assert.False(t, IsConstraintViolation(nf))
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsNotFound(cv))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := NewError(KindNotFound, "nothing matches")
	wrapped := WrapError(inner, "selection failed")
	doubly := fmt.Errorf("request: %w", wrapped)

	assert.True(t, IsNotFound(wrapped))
	assert.True(t, IsNotFound(doubly))

	var be *Error
	assert.True(t, errors.As(doubly, &be))
	assert.Equal(t, KindNotFound, be.Kind)
}

func TestWrapErrorPreservesKindAndStatus(t *testing.T) {
	inner := NewError(KindConstraintViolation, "conflict")
	wrapped := WrapError(inner, "update failed")

	var be *Error
	assert.True(t, errors.As(wrapped, &be))
	assert.Equal(t, KindConstraintViolation, be.Kind)
	assert.Equal(t, http.StatusConflict, be.StatusCode)
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapErrorOnForeignErrorBecomesTransport(t *testing.T) {
	wrapped := WrapError(errors.New("connection refused"), "GET failed")
	assert.True(t, IsKind(wrapped, KindTransport))
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))
}

func TestExceptionTypeNames(t *testing.T) {
	assert.Equal(t, "ConstraintViolationException", NewError(KindConstraintViolation, "x").ExceptionType())
	assert.Equal(t, "EntityNotFoundException", NewError(KindNotFound, "x").ExceptionType())
}
