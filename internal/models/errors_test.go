package models

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", NewValidationError("bad input"), fiber.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("no token"), fiber.StatusUnauthorized},
		{"forbidden", NewForbiddenError("not yours"), fiber.StatusForbidden},
		{"not found", NewNotFoundError("User", 42), fiber.StatusNotFound},
		{"precondition", NewPreconditionError("skill not offered"), fiber.StatusPreconditionFailed},
		{"conflict", NewConflictError("no longer pending"), fiber.StatusConflict},
		{"invalid transition", NewInvalidTransitionError(SwapStatusAccepted, SwapStatusRejected), fiber.StatusConflict},
		{"internal", NewInternalError(errors.New("db down")), fiber.StatusInternalServerError},
		{"plain error", errors.New("anything"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusForError(tt.err))
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	appErr := NewInternalError(cause)

	assert.Equal(t, "Internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, cause)
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := NewNotFoundError("Swap request", 7)
	assert.Equal(t, "Swap request with ID 7 not found", err.Error())
}
