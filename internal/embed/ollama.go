package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/factlab/veracity/internal/model"
)

// OllamaEmbedder implements Embedder against a local Ollama server.
type OllamaEmbedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Ollama API structures
type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaEmbedder creates an Ollama embedding provider. A nil transport
// uses the default.
func NewOllamaEmbedder(cfg model.EmbeddingConfig, transport http.RoundTripper) *OllamaEmbedder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	embeddingModel := cfg.Model
	if embeddingModel == "" {
		embeddingModel = "nomic-embed-text"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second // local models can be slower on first load
	}

	return &OllamaEmbedder{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   embeddingModel,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Name returns the provider name
func (e *OllamaEmbedder) Name() string { return "ollama" }

// Variant reports the embedding family
func (e *OllamaEmbedder) Variant() Variant { return RemoteSemantic }

// IsAvailable checks if the Ollama server is running.
func (e *OllamaEmbedder) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// EmbedTexts embeds all texts in one API call.
func (e *OllamaEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(ollamaEmbedRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, &EmbeddingError{Provider: "ollama", Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, &EmbeddingError{Provider: "ollama", Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &EmbeddingError{Provider: "ollama", Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &EmbeddingError{Provider: "ollama", Err: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, &EmbeddingError{Provider: "ollama", Err: fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)}
		}
		return nil, &EmbeddingError{Provider: "ollama", Err: fmt.Errorf("API error (%d)", httpResp.StatusCode)}
	}

	var resp ollamaEmbedResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &EmbeddingError{Provider: "ollama", Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, &EmbeddingError{
			Provider: "ollama",
			Err:      fmt.Errorf("expected %d vectors, got %d", len(texts), len(resp.Embeddings)),
		}
	}

	return resp.Embeddings, nil
}
