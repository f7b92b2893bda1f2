// Package errors provides error types with user-facing messages and
// actionable suggestions for pulse. Every error returned by the API client
// carries a Kind so callers can branch on the failure class with errors.Is.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrAuth indicates the backend rejected the session (401/403).
	ErrAuth = errors.New("authentication error")
	// ErrValidation indicates input was rejected before any request was made.
	ErrValidation = errors.New("validation error")
	// ErrUpstream indicates the backend or the AI service answered with an error status.
	ErrUpstream = errors.New("upstream error")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
	// ErrNetwork indicates no response was received.
	ErrNetwork = errors.New("network error")
	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("timeout error")
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrSession indicates there is no usable local session.
	ErrSession = errors.New("session error")
)

// Error is the base error type for pulse errors.
// Message is always safe to show to a user: it never contains markup.
type Error struct {
	// Kind is the category of error (e.g., ErrAuth, ErrUpstream).
	Kind error
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., method, path).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error's Kind matches the target.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with details and suggestions.
func (e *Error) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, e.Details[k]))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n💡 Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *Error) WithDetails(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// New creates a new Error with the given kind and message.
func New(kind error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// UserMessage returns the message to show for err.
// For pulse errors this is the sanitized Message without the cause chain.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status
	}
	return 0
}

// Is is a re-export of errors.Is so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a re-export of errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
