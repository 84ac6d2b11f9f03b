package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures.
var (
	ErrEmptyQuery  = errors.New("empty query")
	ErrInvalidTopK = errors.New("topK must be at least 1")
)

// Failure classes for the two outbound calls. Classification happens at the
// component boundary (retriever, responder); the orchestrator only maps a
// class to a caller-facing status and message, never re-interprets it.
var (
	// ErrRetrievalUnavailable marks any store or embedder communication
	// failure, so callers can tell "system unavailable" from "no match".
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrUpstreamQuota marks an insufficient-balance response (HTTP 402)
	// from the hosted model.
	ErrUpstreamQuota = errors.New("hosted model quota exhausted")

	// ErrUpstreamTimeout marks a hosted-model call that exceeded the
	// request timeout.
	ErrUpstreamTimeout = errors.New("hosted model did not respond in time")

	// ErrUpstreamGeneric marks any other non-2xx hosted-model response.
	ErrUpstreamGeneric = errors.New("hosted model request failed")
)

// UpstreamError carries the status and body of a generic hosted-model
// failure for diagnostics. The body never contains credentials; only the
// upstream response is captured.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("hosted model: status %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstreamGeneric }

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
