// Package errors provides structured error types for diagramkit.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages that name the offending id
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Composition failures are caller errors: the model references something
// that does not exist. They carry the offending id so the input can be
// fixed. Non-fatal conditions (an unknown style category, a truncated
// label) use the same codes but are reported as [Warning] values instead
// of returned errors.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNodeReference, "edge %s->%s: unknown node %q", from, to, to)
//	if errors.Is(err, errors.ErrCodeUnknownNodeReference) {
//	    // Fix the model
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidModel, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Composition errors (fatal)
	ErrCodeUnknownNodeReference Code = "UNKNOWN_NODE_REFERENCE"
	ErrCodeMissingLaneForActor  Code = "MISSING_LANE_FOR_ACTOR"
	ErrCodeDuplicateID          Code = "DUPLICATE_ID"
	ErrCodeInvalidModel         Code = "INVALID_MODEL"

	// Composition diagnostics (never fatal)
	ErrCodeStyleCategoryUnresolved Code = "STYLE_CATEGORY_UNRESOLVED"
	ErrCodeLabelOverflow           Code = "LABEL_OVERFLOW"
	ErrCodeSelfLoop                Code = "SELF_LOOP"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Ref     string // Offending id (node, actor, category), if any
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewRef creates a new Error that names the offending id.
func NewRef(code Code, ref string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Ref:     ref,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetRef extracts the offending id from an error, if available.
func GetRef(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Ref
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Warning is a non-fatal diagnostic produced during composition.
type Warning struct {
	Code    Code   `json:"code" bson:"code"`
	Ref     string `json:"ref,omitempty" bson:"ref,omitempty"`
	Message string `json:"message" bson:"message"`
}

// String formats the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// Warn creates a warning naming the offending id.
func Warn(code Code, ref string, format string, args ...any) Warning {
	return Warning{Code: code, Ref: ref, Message: fmt.Sprintf(format, args...)}
}
