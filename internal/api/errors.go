package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError represents a structured error response from the goatminify API.
// It provides clear information about what went wrong, why it might have happened,
// and how to fix it.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    string `json:"details,omitempty"`
}

// Error implements the error interface for APIError.
func (e APIError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %s. %s", e.Code, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetails returns a copy of the error with additional details.
func (e APIError) WithDetails(details string) APIError {
	e.Details = details
	return e
}

// =============================================================================
// Request Errors
// =============================================================================

var (
	// ErrInvalidJSON is returned when the request body contains invalid JSON.
	ErrInvalidJSON = APIError{
		Code:       "INVALID_JSON",
		Message:    "Request body contains invalid JSON",
		Suggestion: "Check your JSON syntax and ensure all strings are properly quoted",
	}

	// ErrInputTooLarge is returned when the request body exceeds the size limit.
	ErrInputTooLarge = APIError{
		Code:       "INPUT_TOO_LARGE",
		Message:    "Request body exceeds the maximum size",
		Suggestion: "Split the document, or use 'gm minify' locally for very large files",
	}

	// ErrInvalidType is returned when the requested type override is not a known content type.
	ErrInvalidType = APIError{
		Code:       "INVALID_TYPE",
		Message:    "Unknown content type",
		Suggestion: "Use 'auto' or one of: js, json, css, html, svg, xml, yaml, toml, md, none",
	}
)

// =============================================================================
// Server Errors
// =============================================================================

// ErrInternal is returned when a handler panics.
var ErrInternal = APIError{
	Code:       "INTERNAL_ERROR",
	Message:    "Internal server error",
	Suggestion: "Retry the request; if it keeps failing, run gmd with logging.level=debug and check its log",
}

// =============================================================================
// HTTP Response Helpers
// =============================================================================

// WriteError writes an APIError as a JSON response with the appropriate status code.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(err)
}

// WriteBadRequest writes a 400 Bad Request response with the given error.
func WriteBadRequest(w http.ResponseWriter, err APIError) {
	WriteError(w, http.StatusBadRequest, err)
}

// WriteInternalError writes a 500 Internal Server Error response with the given error.
func WriteInternalError(w http.ResponseWriter, err APIError) {
	WriteError(w, http.StatusInternalServerError, err)
}

// WriteTooLarge writes a 413 Request Entity Too Large response with the given error.
func WriteTooLarge(w http.ResponseWriter, err APIError) {
	WriteError(w, http.StatusRequestEntityTooLarge, err)
}
