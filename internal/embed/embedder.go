// Package embed turns texts into fixed-length vectors for semantic
// comparison. Two variants exist: remote semantic providers (OpenAI,
// Ollama) and a local lexical fallback. The variant is chosen once per
// pipeline via an availability probe, never per call.
package embed

import "context"

// Variant tags which implementation produced a vector. Vectors from
// different variants are never comparable, and one evidence set never mixes
// them.
type Variant string

const (
	RemoteSemantic  Variant = "remote_semantic"
	LexicalFallback Variant = "lexical_fallback"
)

// Embedder produces one vector per input text. Vectors from a single call
// share a dimension; the same text embedded twice by the same instance
// yields the same vector.
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Variant reports which embedding family this provider belongs to
	Variant() Variant

	// EmbedTexts embeds all texts in one batch. Implementations batch the
	// whole input into as few service calls as possible.
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}
