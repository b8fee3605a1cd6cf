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

	// Manifest errors
	ErrManifestLoad  ErrorCode = "MANIFEST_LOAD"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Local action errors
	ErrCopy ErrorCode = "COPY"
	ErrLink ErrorCode = "LINK"
	ErrRun  ErrorCode = "RUN"

	// Staging and transfer errors
	ErrStagingCreate ErrorCode = "STAGING_CREATE"
	ErrPathResolve   ErrorCode = "PATH_RESOLVE"
	ErrStage         ErrorCode = "STAGE"
	ErrTransfer      ErrorCode = "TRANSFER"
	ErrRemoteRun     ErrorCode = "REMOTE_RUN"
)

// LaresError represents a structured error with code and details
type LaresError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LaresError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

// Unwrap implements the errors.Unwrap interface
func (e *LaresError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LaresError) Is(target error) bool {
	var targetErr *LaresError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LaresError with the given code and message
func New(code ErrorCode, message string) *LaresError {
	return &LaresError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LaresError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LaresError {
	return &LaresError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LaresError
func Wrap(err error, code ErrorCode, message string) *LaresError {
	if err == nil {
		return nil
	}
	return &LaresError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LaresError {
	if err == nil {
		return nil
	}
	return &LaresError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LaresError) WithDetail(key string, value interface{}) *LaresError {
	e.Details[key] = value
	return e
}

// GetCode extracts the error code from an error, returning ErrUnknown for
// errors that are not LaresErrors
func GetCode(err error) ErrorCode {
	var laresErr *LaresError
	if errors.As(err, &laresErr) {
		return laresErr.Code
	}
	return ErrUnknown
}

// IsCode checks whether an error carries the given code
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
