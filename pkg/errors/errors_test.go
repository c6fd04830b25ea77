package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest},
		{"authentication", NewAuthenticationError("no token"), http.StatusUnauthorized},
		{"authorization", NewAuthorizationError("not yours"), http.StatusForbidden},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"conflict", NewConflictError("already voted"), http.StatusConflict},
		{"internal", NewInternalError("boom", fmt.Errorf("cause")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NewNotFoundError("Room not found")
	assert.Same(t, appErr, AsAppError(appErr))

	wrapped := fmt.Errorf("service: %w", appErr)
	assert.Same(t, appErr, AsAppError(wrapped))

	plain := AsAppError(fmt.Errorf("connection refused"))
	assert.Equal(t, ErrorTypeInternal, plain.Type)
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode)
	assert.EqualError(t, plain.Unwrap(), "connection refused")
}
