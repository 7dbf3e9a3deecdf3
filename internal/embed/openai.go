package embed

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/factlab/veracity/internal/model"
)

// OpenAIEmbedder implements Embedder against the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	timeout    time.Duration
}

// NewOpenAIEmbedder creates an OpenAI embedding provider.
func NewOpenAIEmbedder(cfg model.EmbeddingConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai embedder: API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	embeddingModel := cfg.Model
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      embeddingModel,
		dimensions: cfg.Dimensions,
		timeout:    timeout,
	}, nil
}

// Name returns the provider name
func (e *OpenAIEmbedder) Name() string { return "openai" }

// Variant reports the embedding family
func (e *OpenAIEmbedder) Variant() Variant { return RemoteSemantic }

// IsAvailable checks if the API is reachable with the configured key.
func (e *OpenAIEmbedder) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := e.client.ListModels(ctx)
	return err == nil
}

// EmbedTexts embeds all texts in one API call and returns vectors in input
// order.
func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, &EmbeddingError{Provider: "openai", Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &EmbeddingError{
			Provider: "openai",
			Err:      fmt.Errorf("expected %d vectors, got %d", len(texts), len(resp.Data)),
		}
	}

	// Place vectors by response index; the API reports the input position
	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, &EmbeddingError{
				Provider: "openai",
				Err:      fmt.Errorf("vector index %d out of range", item.Index),
			}
		}
		vec := make([]float64, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float64(v)
		}
		vectors[item.Index] = vec
	}

	return vectors, nil
}
