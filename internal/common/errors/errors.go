// Package errors provides standardized error handling for the discovery pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Source failures: transient network/parse errors from one capability.
	// Logged per source; that source's contribution is empty, the run continues.
	ErrCodeSourceFailure ErrorCode = "SOURCE_FAILURE"
	ErrCodeSourceTimeout ErrorCode = "SOURCE_TIMEOUT"

	// Configuration: a source reports unconfigured and is skipped silently.
	ErrCodeConfigurationMissing ErrorCode = "CONFIGURATION_MISSING"
	ErrCodeConfigurationInvalid ErrorCode = "CONFIGURATION_INVALID"

	// Budget: soft limit reached; remaining optional phases are skipped.
	ErrCodeBudgetExceeded ErrorCode = "BUDGET_EXCEEDED"

	// Validation rejections are recorded decisions, never raised errors,
	// but the code is used for observability labels.
	ErrCodeValidationRejected ErrorCode = "VALIDATION_REJECTED"

	// Cache/infra errors degrade to a cache miss; the run continues.
	ErrCodeCacheFailure ErrorCode = "CACHE_FAILURE"
)

// PipelineError represents a structured application error.
type PipelineError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Source    string    `json:"source,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *PipelineError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("PipelineError[%s] source=%s: %s", e.Code, e.Source, e.Message)
	}
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.cause
}

// NewSourceFailure wraps a transient error from a single data source.
func NewSourceFailure(source string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeSourceFailure,
		Message:   "data source search failed",
		Details:   err.Error(),
		Source:    source,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSourceTimeout marks a source call that exceeded its deadline.
func NewSourceTimeout(source string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeSourceTimeout,
		Message:   "data source call timed out",
		Source:    source,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationMissing marks an unconfigured source (skip, not fatal).
func NewConfigurationMissing(source string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeConfigurationMissing,
		Message:   "source not configured (missing API key or credentials)",
		Source:    source,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationInvalid marks a malformed configuration document.
func NewConfigurationInvalid(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeConfigurationInvalid,
		Message:   "invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBudgetExceeded marks the soft time budget as spent. Callers skip
// remaining optional phases; a run already in progress is never aborted.
func NewBudgetExceeded(elapsed, budget time.Duration) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeBudgetExceeded,
		Message:   "time budget exceeded",
		Details:   fmt.Sprintf("elapsed: %s, budget: %s", elapsed, budget),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailure wraps a cache backend error. Treated as a miss.
func NewCacheFailure(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeCacheFailure,
		Message:   "cache operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf extracts the ErrorCode from an error chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsRetryable reports whether the error chain carries a retryable code.
func IsRetryable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
