package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/factlab/veracity/internal/model"
)

// New builds the configured embedding provider and probes its availability.
// An unreachable or misconfigured remote falls back to the lexical variant
// when fallback is enabled; with fallback disabled, construction fails with
// ErrNoEmbedder. Unknown provider names always fail.
func New(ctx context.Context, cfg model.EmbeddingConfig, transport http.RoundTripper, logger *slog.Logger) (Embedder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// No remote configured means lexical-only operation, not degradation
	if cfg.Provider == "" || cfg.Provider == "lexical" {
		return NewLexicalEmbedder(), nil
	}

	remote, err := newRemote(cfg, transport)
	if err != nil {
		// A provider typo is a configuration bug, never a degraded mode
		if errors.Is(err, ErrUnknownProvider) {
			return nil, err
		}
		if !cfg.FallbackEnabled {
			return nil, fmt.Errorf("embedding provider %q: %v: %w", cfg.Provider, err, ErrNoEmbedder)
		}
		logger.Warn("embedding provider misconfigured, using lexical fallback",
			"provider", cfg.Provider,
			"error", err)
		return NewLexicalEmbedder(), nil
	}

	if !remote.IsAvailable(ctx) {
		if !cfg.FallbackEnabled {
			return nil, fmt.Errorf("embedding provider %q failed availability probe: %w", cfg.Provider, ErrNoEmbedder)
		}
		logger.Warn("embedding provider unavailable, using lexical fallback",
			"provider", remote.Name())
		return NewLexicalEmbedder(), nil
	}

	logger.Debug("embedding provider ready",
		"provider", remote.Name(),
		"variant", string(remote.Variant()))
	return remote, nil
}

// newRemote constructs the named remote provider without probing it.
func newRemote(cfg model.EmbeddingConfig, transport http.RoundTripper) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(cfg)
	case "ollama":
		return NewOllamaEmbedder(cfg, transport), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
