package entities

import (
	"errors"
	"fmt"
)

// ErrWagerNotFound is returned when a message ID does not resolve to a wager.
var ErrWagerNotFound = errors.New("wager not found")

// ErrStateConflict is returned when a conditional status transition finds the
// wager in a different state than expected. It reflects a legitimate race
// (another actor committed first) and is absorbed as a no-op, never surfaced
// to the user as an error.
var ErrStateConflict = errors.New("wager state conflict")

// ValidationError reports a request that can never succeed, such as a
// self-wager or a response from someone other than the challenged opponent.
// It is surfaced verbatim to the requesting user and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// OracleError wraps a failed oracle call: transport error, timeout, or an
// empty response. It terminates the resolution pipeline with a Failed commit.
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle call failed: %v", e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

// VerdictParseError reports an oracle response with no recognizable winner
// marker, or a winner matching neither participant nor draw/none. Like
// OracleError it terminates the pipeline with a Failed commit.
type VerdictParseError struct {
	Response string
}

func (e *VerdictParseError) Error() string {
	return "could not parse a verdict from the oracle response"
}
