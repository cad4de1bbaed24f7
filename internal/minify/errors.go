package minify

import (
	"errors"
	"fmt"

	"github.com/goatminify/goatminify/internal/models"
)

var (
	// ErrEngineUnavailable is returned when an engine could not be loaded.
	ErrEngineUnavailable = errors.New("minification engine unavailable")
	// ErrEngineDisabled is returned when engines are turned off by configuration.
	ErrEngineDisabled = errors.New("minification engines disabled")
	// ErrEmptyResult is returned when an engine produced no output for non-empty input.
	ErrEmptyResult = errors.New("engine returned an empty result")
)

// FailureReason classifies why an engine call did not produce usable output.
type FailureReason string

const (
	ReasonUnavailable FailureReason = "unavailable"
	ReasonDisabled    FailureReason = "disabled"
	ReasonError       FailureReason = "error"
	ReasonPanic       FailureReason = "panic"
	ReasonTimeout     FailureReason = "timeout"
	ReasonEmpty       FailureReason = "empty"
	// ReasonGate marks a body the JS gate refused to hand to the engine.
	ReasonGate FailureReason = "gate"
)

// EngineError describes an engine failure that forced the fallback path.
type EngineError struct {
	Family models.Family
	Reason FailureReason
	Cause  error
}

func (e *EngineError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s engine %s", e.Family, e.Reason)
	}
	return fmt.Sprintf("%s engine %s: %v", e.Family, e.Reason, e.Cause)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// ReasonOf returns the failure reason carried by err, or "" if err is not
// an engine failure.
func ReasonOf(err error) FailureReason {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Reason
	}
	return ""
}
