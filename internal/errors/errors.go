package errors

import "fmt"

// ErrorCode represents the CLI error codes
type ErrorCode int

const (
	// CodeGeneric represents a generic failure (code 1)
	CodeGeneric ErrorCode = 1
	// CodeValidation represents rejected options or arguments (code 2)
	CodeValidation ErrorCode = 2
	// CodeRuntime represents Docker runtime call failures (code 3)
	CodeRuntime ErrorCode = 3
	// CodeNotFound represents operations against a container that does not exist (code 4)
	CodeNotFound ErrorCode = 4
)

// CLIError represents a CLI error with a specific error code
type CLIError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewGenericError creates a new generic error (code 1)
func NewGenericError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeGeneric,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a new validation error (code 2)
func NewValidationError(message string) *CLIError {
	return &CLIError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewRuntimeError creates a new runtime call error (code 3)
func NewRuntimeError(message string, cause error) *CLIError {
	return &CLIError{
		Code:    CodeRuntime,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a new not-found error (code 4)
func NewNotFoundError(message string) *CLIError {
	return &CLIError{
		Code:    CodeNotFound,
		Message: message,
	}
}
