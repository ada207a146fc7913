package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/smallwins/internal/logger"
)

// ErrorCode classifies an AppError.
type ErrorCode string

const (
	ErrValidation  ErrorCode = "VALIDATION"  // bad input, rejected before any state change
	ErrPersistence ErrorCode = "PERSISTENCE" // underlying store read/write failed
	ErrScheduling  ErrorCode = "SCHEDULING"  // notification platform refused a registration
)

// AppError is a structured error with a code, a message and an optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation creates an error for input that failed validation.
func NewValidation(field, msg string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: msg,
		Details: map[string]any{"field": field},
	}
}

// NewTextEmpty is returned when a win has no content after trimming.
func NewTextEmpty() *AppError {
	return NewValidation("text", "win text cannot be empty")
}

// NewTextTooLong is returned when a win exceeds the character limit.
func NewTextTooLong(max, actual int) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("win text exceeds maximum length: %d chars (max %d)", actual, max),
		Details: map[string]any{"field": "text", "max_chars": max, "actual_chars": actual},
	}
}

// NewHourOutOfRange is returned when a reminder hour is not in [0,23].
func NewHourOutOfRange(hour int) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("reminder hour must be between 0 and 23, got %d", hour),
		Details: map[string]any{"field": "hour", "hour": hour},
	}
}

// NewPersistence wraps a failed store operation.
func NewPersistence(op string, err error) *AppError {
	return &AppError{
		Code:    ErrPersistence,
		Message: fmt.Sprintf("failed to %s", op),
		Details: map[string]any{"op": op},
		Err:     err,
	}
}

// NewScheduling wraps a failed notification platform call.
func NewScheduling(op string, err error) *AppError {
	return &AppError{
		Code:    ErrScheduling,
		Message: fmt.Sprintf("failed to %s", op),
		Details: map[string]any{"op": op},
		Err:     err,
	}
}

// Is reports whether err (or anything it wraps) is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
