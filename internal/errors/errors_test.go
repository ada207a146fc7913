package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := &AppError{Code: ErrValidation, Message: "win text cannot be empty"}
	assert.Equal(t, "VALIDATION: win text cannot be empty", err.Error())

	cause := stderrors.New("disk full")
	wrapped := NewPersistence("write wins", cause)
	assert.Equal(t, "PERSISTENCE: failed to write wins: disk full", wrapped.Error())
}

func TestNewTextTooLong(t *testing.T) {
	err := NewTextTooLong(280, 281)

	assert.Equal(t, ErrValidation, err.Code)
	assert.Equal(t, 280, err.Details["max_chars"])
	assert.Equal(t, 281, err.Details["actual_chars"])
}

func TestNewHourOutOfRange(t *testing.T) {
	err := NewHourOutOfRange(26)

	assert.Equal(t, ErrValidation, err.Code)
	assert.Equal(t, 26, err.Details["hour"])
	assert.Contains(t, err.Message, "26")
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct match", NewTextEmpty(), ErrValidation, true},
		{"code mismatch", NewTextEmpty(), ErrPersistence, false},
		{"wrapped match", fmt.Errorf("saving: %w", NewPersistence("write", nil)), ErrPersistence, true},
		{"plain error", stderrors.New("boom"), ErrValidation, false},
		{"nil", nil, ErrValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Is(tt.err, tt.code))
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewScheduling("register reminder", cause)

	require.ErrorIs(t, err, cause)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "Error: boom", Format(stderrors.New("boom")))
}
