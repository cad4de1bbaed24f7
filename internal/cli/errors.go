package cli

import (
	"fmt"
	"strings"
)

// CLIError represents a user-friendly error with context and suggestions.
type CLIError struct {
	Message    string
	Suggestion string
	Cause      error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	if e.Suggestion != "" {
		sb.WriteString("\n\nSuggestion: ")
		sb.WriteString(e.Suggestion)
	}
	return sb.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLIError with a message and suggestion.
func NewCLIError(message, suggestion string) *CLIError {
	return &CLIError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapError wraps an existing error with additional context.
func WrapError(cause error, message, suggestion string) *CLIError {
	return &CLIError{
		Message:    message,
		Suggestion: suggestion,
		Cause:      cause,
	}
}

// =============================================================================
// Common CLI Errors
// =============================================================================

// ErrDaemonNotRunning returns an error when the daemon is not running.
func ErrDaemonNotRunning(addr string) *CLIError {
	return &CLIError{
		Message:    fmt.Sprintf("GoatMinify daemon is not running at %s", addr),
		Suggestion: "Start the daemon with 'gmd', or check daemon.host and daemon.port with 'gm config get daemon'",
	}
}

// ErrDaemonConnectionFailed returns an error when connection to daemon fails.
func ErrDaemonConnectionFailed(cause error) *CLIError {
	return &CLIError{
		Message:    "Cannot connect to GoatMinify daemon",
		Suggestion: "Is the daemon running? Check with 'gm status' or start it with 'gmd'",
		Cause:      cause,
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(cause error) *CLIError {
	return &CLIError{
		Message:    "Configuration file is invalid",
		Suggestion: "Check .goatminify/config.yaml for syntax errors, or delete it and run 'gm init' to recreate",
		Cause:      cause,
	}
}

// ErrInvalidProjectRoot returns an error for invalid project directory.
func ErrInvalidProjectRoot(path string) *CLIError {
	return &CLIError{
		Message:    fmt.Sprintf("Invalid project root: %s", path),
		Suggestion: "Ensure the path exists and is a directory. Use --project to specify a different path",
	}
}

// ErrInvalidLevel returns an error for a minification level outside 1-4.
func ErrInvalidLevel(level int) *CLIError {
	return &CLIError{
		Message:    fmt.Sprintf("Invalid minification level: %d", level),
		Suggestion: "Valid levels are 1 (trim), 2 (blank lines), 3 (comments) and 4 (aggressive)",
	}
}

// ErrInvalidType returns an error for an unknown content type.
func ErrInvalidType(name string, validTypes []string) *CLIError {
	return &CLIError{
		Message:    fmt.Sprintf("Invalid content type: %s", name),
		Suggestion: fmt.Sprintf("Valid types are: auto, %s", strings.Join(validTypes, ", ")),
	}
}

// ErrUnsupportedFile returns an error for an input file with an unknown extension.
func ErrUnsupportedFile(path string, accepted []string) *CLIError {
	return &CLIError{
		Message:    fmt.Sprintf("Unsupported file type: %s", path),
		Suggestion: fmt.Sprintf("Accepted extensions are: %s. Use --type to force a type, or pipe the content on stdin", strings.Join(accepted, ", ")),
	}
}

// ErrInputRead returns an error when the input cannot be read.
func ErrInputRead(cause error) *CLIError {
	return &CLIError{
		Message:    "Failed to read input",
		Suggestion: "Pass a readable file path, or pipe content on stdin",
		Cause:      cause,
	}
}

// ErrUnknownPref returns an error for an unknown preference key.
func ErrUnknownPref(key string, known []string) *CLIError {
	return &CLIError{
		Message:    fmt.Sprintf("Unknown preference: %s", key),
		Suggestion: fmt.Sprintf("Known preferences are: %s", strings.Join(known, ", ")),
	}
}
