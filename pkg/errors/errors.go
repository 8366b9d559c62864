package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Rule construction errors
	ErrPatternInvalid  ErrorCode = "PATTERN_INVALID"
	ErrTemplateInvalid ErrorCode = "TEMPLATE_INVALID"
	ErrRuleInvalid     ErrorCode = "RULE_INVALID"

	// Rules file errors
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"

	// Host input errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
)

// RepathError represents a structured error with code and details
type RepathError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RepathError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RepathError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RepathError) Is(target error) bool {
	var targetErr *RepathError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RepathError with the given code and message
func New(code ErrorCode, message string) *RepathError {
	return &RepathError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RepathError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RepathError {
	return &RepathError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RepathError
func Wrap(err error, code ErrorCode, message string) *RepathError {
	if err == nil {
		return nil
	}
	return &RepathError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RepathError {
	if err == nil {
		return nil
	}
	return &RepathError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RepathError) WithDetail(key string, value interface{}) *RepathError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var repathErr *RepathError
	if errors.As(err, &repathErr) {
		return repathErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RepathError
func GetErrorCode(err error) ErrorCode {
	var repathErr *RepathError
	if errors.As(err, &repathErr) {
		return repathErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RepathError
func GetErrorDetails(err error) map[string]interface{} {
	var repathErr *RepathError
	if errors.As(err, &repathErr) {
		return repathErr.Details
	}
	return nil
}
