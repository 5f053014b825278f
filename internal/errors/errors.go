// Package errors defines the structured error type used across sensorpanel.
//
// Every error carries a code so callers can tell a recoverable transport
// failure (ErrComm) from a fatal startup problem (ErrConfig) without string
// matching.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	// ErrConfig marks invalid construction parameters. Fatal before polling starts.
	ErrConfig = "CONFIG"
	// ErrComm marks a transport open or read failure. The driver retries next tick.
	ErrComm = "COMM"
	// ErrExec marks CLI misuse or a failure of the program itself.
	ErrExec = "EXEC"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrComm code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrComm,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Configf builds an ErrConfig error with a formatted message.
func Configf(suggestion, format string, args ...interface{}) *Error {
	return New(ErrConfig, fmt.Sprintf(format, args...), suggestion)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns a single-line rendering: the message followed by the cause, if any.
// Used where the multi-line form does not fit, like a status line.
func (e *Error) Short() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + firstLine(e.Cause)
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var spErr *Error
	if errors.As(err, &spErr) {
		return spErr.Code == code
	}
	return false
}

// OneLine renders any error on a single line, using Short for structured errors.
func OneLine(err error) string {
	if err == nil {
		return ""
	}
	var spErr *Error
	if errors.As(err, &spErr) {
		return spErr.Short()
	}
	return firstLine(err)
}

func firstLine(err error) string {
	var spErr *Error
	if errors.As(err, &spErr) {
		return spErr.Short()
	}
	msg := err.Error()
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = msg[:idx]
	}
	return strings.TrimSpace(msg)
}
