package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "simple message",
			err:      New(ErrAuth, "authentication failed"),
			expected: "authentication failed",
		},
		{
			name: "with cause",
			err: &Error{
				Kind:    ErrConfig,
				Message: "config error",
				Cause:   errors.New("parse error"),
			},
			expected: "config error: parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrNetwork, "wrapped error")

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Without cause, should return Kind
	errNoWrap := New(ErrAuth, "no cause")
	if !errors.Is(errors.Unwrap(errNoWrap), ErrAuth) {
		t.Errorf("Unwrap() should return Kind when no cause")
	}
}

func TestError_Is(t *testing.T) {
	err := New(ErrAuth, "auth failed")

	if !errors.Is(err, ErrAuth) {
		t.Error("errors.Is should return true for matching Kind")
	}
	if errors.Is(err, ErrConfig) {
		t.Error("errors.Is should return false for non-matching Kind")
	}

	wrapped := fmt.Errorf("loading companies: %w", err)
	if !IsAuth(wrapped) {
		t.Error("IsAuth should see through fmt.Errorf wrapping")
	}
}

func TestError_Format(t *testing.T) {
	err := &Error{
		Kind:       ErrUpstream,
		Message:    "Server error. Please try again later.",
		Suggestion: "Try again",
		Details: map[string]string{
			"path":   "/companies",
			"method": "GET",
		},
	}

	formatted := err.Format()

	for _, want := range []string{
		"Error: Server error. Please try again later.",
		"💡 Suggestion: Try again",
		"method: GET",
		"path: /companies",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
	if strings.Index(formatted, "method") > strings.Index(formatted, "path") {
		t.Error("Format() should list details in key order")
	}
}

func TestError_WithDetails(t *testing.T) {
	err := New(ErrConfig, "config error")
	err.WithDetails("file", "config.yaml").WithDetails("line", "42")

	if err.Details["file"] != "config.yaml" {
		t.Error("WithDetails should set key")
	}
	if err.Details["line"] != "42" {
		t.Error("WithDetails should allow chaining")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), "boom"},
		{"pulse error hides cause", Wrap(errors.New("dial tcp: refused"), ErrNetwork, MsgNetwork), MsgNetwork},
		{"wrapped pulse error", fmt.Errorf("ctx: %w", HTTPStatus(404, "")), StatusMessage(404)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(HTTPStatus(503, "")); got != 503 {
		t.Errorf("StatusOf() = %d, want 503", got)
	}
	if got := StatusOf(errors.New("x")); got != 0 {
		t.Errorf("StatusOf() = %d, want 0", got)
	}
}
