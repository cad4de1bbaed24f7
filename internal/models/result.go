package models

import "strings"

// HeaderBodySplit separates a single preserved leading block from the rest
// of the text. Header+Body is always the original text.
type HeaderBodySplit struct {
	Header string
	Body   string
}

// Join reassembles the original text.
func (s HeaderBodySplit) Join() string {
	return s.Header + s.Body
}

// HasHeader reports whether a leading block was found.
func (s HeaderBodySplit) HasHeader() bool {
	return s.Header != ""
}

// MinificationResult is the body-only outcome of a minifier adapter, before
// the header is reattached.
type MinificationResult struct {
	Output       string
	UsedFallback bool
	Err          error
}

// ErrorMessage returns the failure description, or "" when the engine succeeded.
func (r MinificationResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Severity classifies a Notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a transient, non-fatal message meant for the user interface.
type Notice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// PipelineResult is the outcome of one pipeline invocation.
type PipelineResult struct {
	Output           string
	EffectiveType    ContentType
	AutoDetectedType ContentType
	Level            Level
	UsedFallback     bool
	// Recovered is set when an unexpected failure forced the original input
	// to be returned unchanged.
	Recovered bool
	Notices   []Notice
	Seq       uint64
}

// FormatOutput joins a header and a minified body. The header keeps its
// leading whitespace; the body is trimmed on both sides.
func FormatOutput(header, body string) string {
	h := strings.TrimRight(header, " \t\r\n\f\v")
	b := strings.TrimSpace(body)

	switch {
	case h == "" && b == "":
		return ""
	case h == "":
		return b
	case b == "":
		return h
	default:
		return h + "\n" + b
	}
}
