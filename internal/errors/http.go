package errors

import (
	"fmt"
	"net/http"
)

// Messages shown when the backend cannot be reached at all.
const (
	MsgNetwork    = "Network error. Please check your connection and try again."
	MsgTimeout    = "Request timed out. The AI service may be processing your request. Please try again."
	MsgUnexpected = "An unexpected error occurred. Please try again."
)

// MsgCredentialsRequired is shown when login is attempted with a blank field.
const MsgCredentialsRequired = "Email and password are required"

// StatusMessage maps an HTTP status code to a canned user-facing phrase.
// It is used whenever the response body offers nothing readable.
func StatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid request. Please check your input and try again."
	case http.StatusUnauthorized:
		return "Authentication required. Please log in again."
	case http.StatusForbidden:
		return "You don't have permission to perform this action."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusRequestTimeout:
		return "Request timed out. Please try again."
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	case http.StatusBadGateway:
		return "AI service is temporarily unavailable. Please try again in a moment."
	case http.StatusServiceUnavailable:
		return "AI service is currently busy processing requests. Please try again shortly."
	case http.StatusGatewayTimeout:
		return "AI service took too long to respond. The analysis may require more time. Please try again."
	default:
		return "An error occurred. Please try again later."
	}
}

// KindForStatus classifies an HTTP error status.
func KindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrUpstream
	}
}

// HTTPStatus creates an error for a non-2xx response.
// message must already be sanitized.
func HTTPStatus(status int, message string) *Error {
	if message == "" {
		message = StatusMessage(status)
	}
	err := &Error{
		Kind:    KindForStatus(status),
		Status:  status,
		Message: message,
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		err.Suggestion = "Your session has ended. Sign in again with: pulse login"
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		err.Suggestion = "The AI backend may be starting up. Wait a moment and resubmit."
	}
	return err
}

// NetworkUnavailable creates an error for requests that got no response.
func NetworkUnavailable(host string, cause error) *Error {
	err := &Error{
		Kind:    ErrNetwork,
		Message: MsgNetwork,
		Cause:   cause,
		Suggestion: `Check your network connection and the configured API URL:

  pulse config init        # writes a config file you can edit
  export PULSE_API_BASE_URL=https://...`,
	}
	if host != "" {
		err.Details = map[string]string{"host": host}
	}
	return err
}

// RequestTimeout creates an error for requests that exceeded the client timeout.
func RequestTimeout(cause error) *Error {
	return &Error{
		Kind:       ErrTimeout,
		Message:    MsgTimeout,
		Cause:      cause,
		Suggestion: "Raise api.timeout in the config file if analyses regularly take longer.",
	}
}

// Validation creates an error for input rejected before any request was made.
func Validation(field, message string) *Error {
	err := &Error{
		Kind:    ErrValidation,
		Message: message,
	}
	if field != "" {
		err.Details = map[string]string{"field": field}
	}
	return err
}

// NotLoggedIn creates an error for commands that need a session.
func NotLoggedIn() *Error {
	return &Error{
		Kind:       ErrSession,
		Message:    "not logged in",
		Suggestion: "Sign in first: pulse login --email you@company.com",
	}
}

// SessionExpired creates the error reported after a 401/403 cleared the session.
func SessionExpired(status int) *Error {
	return &Error{
		Kind:       ErrAuth,
		Status:     status,
		Message:    fmt.Sprintf("session expired (HTTP %d)", status),
		Suggestion: "Sign in again: pulse login",
	}
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	return Is(err, ErrAuth)
}

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	return Is(err, ErrValidation)
}

// IsConnectivity reports whether err is a network or timeout failure.
func IsConnectivity(err error) bool {
	return Is(err, ErrNetwork) || Is(err, ErrTimeout)
}
