package errors

import (
	"fmt"
	"strings"
)

// Configuration-related error constructors.

// ConfigNotFound creates an error for a missing configuration file.
func ConfigNotFound(configPath string) *Error {
	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("configuration file not found: %s", configPath),
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Create a default configuration:
  pulse config init

Or point to an existing file:
  pulse --config /path/to/config.yaml`,
	}
}

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *Error {
	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check config.yaml for YAML syntax errors:
  - indentation uses spaces, not tabs
  - durations are written like 180s or 3m`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *Error {
	suggestion := fmt.Sprintf("Fix the %q field in config.yaml", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}
