package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("paper", "10.1000/xyz")

	assert.EqualError(t, err, "paper not found: 10.1000/xyz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("email", "Email address is invalid")

	assert.EqualError(t, err, "validation error: email: Email address is invalid")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAPIError(t *testing.T) {
	cause := errors.New("boom")
	err := NewAPIError(502, "upstream failed", cause)

	assert.EqualError(t, err, "backend API error (status 502): upstream failed")
	assert.ErrorIs(t, err, cause)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "nil error",
			err:      nil,
			fallback: "something went wrong",
			want:     "",
		},
		{
			name:     "prefers server detail",
			err:      NewAPIError(400, "Search query cannot be empty", nil),
			fallback: "Search failed",
			want:     "Search query cannot be empty",
		},
		{
			name:     "wrapped API error still found",
			err:      fmt.Errorf("searching: %w", NewAPIError(500, "internal error", nil)),
			fallback: "Search failed",
			want:     "internal error",
		},
		{
			name:     "empty detail falls back",
			err:      NewAPIError(500, "", nil),
			fallback: "Search failed",
			want:     "Search failed",
		},
		{
			name:     "validation error message",
			err:      NewValidationError("name", "List name is required"),
			fallback: "Invalid input",
			want:     "List name is required",
		},
		{
			name:     "plain error without fallback",
			err:      errors.New("connection refused"),
			fallback: "",
			want:     "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}
