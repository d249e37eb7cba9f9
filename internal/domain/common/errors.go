// Package common provides shared domain types and value objects.
package common

import "errors"

// =============================================================================
// Error Behavior Interfaces
// =============================================================================
// The CLI inspects these behaviours to decide how an error is presented.
// Domain packages attach them without knowing about the presentation layer.

// RecoverableError is implemented by errors that suggest a recovery action.
type RecoverableError interface {
	error
	RecoveryHint() string
}

// HintedError wraps an error with a recovery hint.
type HintedError struct {
	Err  error
	Hint string
}

// WithHint attaches a recovery hint to err. A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &HintedError{Err: err, Hint: hint}
}

func (e *HintedError) Error() string { return e.Err.Error() }

func (e *HintedError) Unwrap() error { return e.Err }

// RecoveryHint implements RecoverableError.
func (e *HintedError) RecoveryHint() string { return e.Hint }

// =============================================================================
// Error Checking Utilities
// =============================================================================

// GetRecoveryHint extracts a recovery hint from an error chain.
// Returns empty string if no hint is available.
func GetRecoveryHint(err error) string {
	var re RecoverableError
	if errors.As(err, &re) {
		return re.RecoveryHint()
	}
	return ""
}
