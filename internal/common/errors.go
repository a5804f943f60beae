package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error taxonomy. Normalization errors (decode/schema) abort before
// any connection is opened; persistence errors imply a full rollback.
var (
	ErrDecode       = errors.New("malformed invoice json")
	ErrSchema       = errors.New("required field missing")
	ErrConnection   = errors.New("store unreachable")
	ErrPersistence  = errors.New("invoice persistence failed")
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// SchemaErrorf reports a missing required field by name.
func SchemaErrorf(key string) error {
	return fmt.Errorf("%w: %s", ErrSchema, key)
}
