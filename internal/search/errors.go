package search

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited indicates the provider rejected the call for rate
	// reasons; transient.
	ErrRateLimited = errors.New("search rate limited")
	// ErrQuotaExhausted indicates the daily request budget is spent;
	// not transient, callers should degrade rather than retry.
	ErrQuotaExhausted = errors.New("search daily quota exhausted")
	// ErrBadCredentials indicates the API key or engine ID was rejected.
	ErrBadCredentials = errors.New("search credentials rejected")
)

// SearchError wraps a provider-level search failure with enough context to
// decide retryability.
type SearchError struct {
	Op     string // operation, e.g. "google.search"
	Status int    // HTTP status, 0 for transport failures
	Err    error
}

func (e *SearchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is worth another attempt.
// Transport failures, rate limiting and server errors are transient;
// rejected credentials and exhausted quota are not.
func (e *SearchError) Retryable() bool {
	if errors.Is(e.Err, ErrQuotaExhausted) || errors.Is(e.Err, ErrBadCredentials) {
		return false
	}
	if errors.Is(e.Err, ErrRateLimited) {
		return true
	}
	return e.Status == 0 || e.Status >= 500
}
