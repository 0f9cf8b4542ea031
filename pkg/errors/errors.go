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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Toolchain errors
	ErrToolNotFound    ErrorCode = "TOOL_NOT_FOUND"
	ErrBuildFailed     ErrorCode = "BUILD_FAILED"
	ErrMetadata        ErrorCode = "METADATA"
	ErrMalformedOutput ErrorCode = "MALFORMED_OUTPUT"

	// Resource resolution errors
	ErrMissingResource   ErrorCode = "MISSING_RESOURCE"
	ErrAmbiguousResource ErrorCode = "AMBIGUOUS_RESOURCE"

	// Staging and packaging errors
	ErrStaging    ErrorCode = "STAGING"
	ErrPackaging  ErrorCode = "PACKAGING"
	ErrFileAccess ErrorCode = "FILE_ACCESS"
)

// AcapError represents a structured error with code and details
type AcapError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AcapError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AcapError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AcapError) Is(target error) bool {
	var targetErr *AcapError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AcapError with the given code and message
func New(code ErrorCode, message string) *AcapError {
	return &AcapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AcapError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AcapError {
	return &AcapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AcapError.
// Callers returning the result as a plain error must check err first:
// a nil *AcapError stored in an error interface is not nil.
func Wrap(err error, code ErrorCode, message string) *AcapError {
	if err == nil {
		return nil
	}
	return &AcapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AcapError {
	if err == nil {
		return nil
	}
	return &AcapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AcapError) WithDetail(key string, value interface{}) *AcapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *AcapError) WithDetails(details map[string]interface{}) *AcapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var acapErr *AcapError
	if errors.As(err, &acapErr) {
		return acapErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AcapError
func GetErrorCode(err error) ErrorCode {
	var acapErr *AcapError
	if errors.As(err, &acapErr) {
		return acapErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AcapError
func GetErrorDetails(err error) map[string]interface{} {
	var acapErr *AcapError
	if errors.As(err, &acapErr) {
		return acapErr.Details
	}
	return nil
}
