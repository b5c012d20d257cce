package errors

import (
	"errors"
	"fmt"
)

// Code represents an error code for categorizing errors
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller passed an invalid argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested record was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates an attempt to create a record that already exists
	CodeAlreadyExists Code = "already_exists"

	// CodeInternal indicates internal system error
	CodeInternal Code = "internal"

	// CodeInvalidSelection indicates an out of range or duplicate menu choice.
	// Always recoverable by prompting again.
	CodeInvalidSelection Code = "invalid_selection"

	// CodeAbilityCapExceeded indicates an ability increase that would pass the cap
	CodeAbilityCapExceeded Code = "ability_cap_exceeded"

	// CodeCorruptRecord indicates a persisted record that cannot be decoded
	CodeCorruptRecord Code = "corrupt_record"
)

// Error represents an application error with code and metadata
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta contains additional context
	Meta map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	// If it's already our error type, preserve the code
	var sheetErr *Error
	if errors.As(err, &sheetErr) {
		return &Error{
			Code:    sheetErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(sheetErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// Helper functions for common error types

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// InvalidSelection creates an invalid selection error
func InvalidSelection(message string) *Error {
	return New(CodeInvalidSelection, message)
}

// InvalidSelectionf creates a formatted invalid selection error
func InvalidSelectionf(format string, args ...any) *Error {
	return Newf(CodeInvalidSelection, format, args...)
}

// AbilityCapExceededf creates a formatted ability cap error
func AbilityCapExceededf(format string, args ...any) *Error {
	return Newf(CodeAbilityCapExceeded, format, args...)
}

// CorruptRecordf creates a formatted corrupt record error
func CorruptRecordf(format string, args ...any) *Error {
	return Newf(CodeCorruptRecord, format, args...)
}

// Error checking functions

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var sheetErr *Error
	if errors.As(err, &sheetErr) {
		return sheetErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return Is(err, CodeAlreadyExists)
}

// IsInvalidSelection checks if the error is a recoverable selection error
func IsInvalidSelection(err error) bool {
	return Is(err, CodeInvalidSelection)
}

// IsAbilityCapExceeded checks if the error is an ability cap error
func IsAbilityCapExceeded(err error) bool {
	return Is(err, CodeAbilityCapExceeded)
}

// IsCorruptRecord checks if the error is a corrupt record error
func IsCorruptRecord(err error) bool {
	return Is(err, CodeCorruptRecord)
}

// IsRecoverable reports whether the error only requires asking the user again
func IsRecoverable(err error) bool {
	return IsInvalidSelection(err) || IsAbilityCapExceeded(err)
}

// GetCode returns the error code
func GetCode(err error) Code {
	var sheetErr *Error
	if errors.As(err, &sheetErr) {
		return sheetErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var sheetErr *Error
	if errors.As(err, &sheetErr) {
		return sheetErr.Meta
	}
	return nil
}

// copyMeta creates a copy of the metadata map
func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
