package embed

import (
	"errors"
	"fmt"
)

// ErrNoEmbedder indicates no usable embedding variant exists: the remote
// provider is down or misconfigured and the lexical fallback is disabled.
// Surfaced at construction, never per call.
var ErrNoEmbedder = errors.New("no embedding variant available")

// ErrUnknownProvider indicates a provider name the factory does not know.
var ErrUnknownProvider = errors.New("unknown embedding provider")

// EmbeddingError wraps a remote embedding failure (timeout, quota, auth).
// The pipeline reacts by switching the current run to the lexical variant.
type EmbeddingError struct {
	Provider string
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("%s embedding: %v", e.Provider, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }
