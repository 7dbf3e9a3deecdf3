// Package pipeline wires search, embedding, reranking and scoring into
// the claim verification flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/factlab/veracity/internal/embed"
	"github.com/factlab/veracity/internal/model"
	"github.com/factlab/veracity/internal/rank"
	"github.com/factlab/veracity/internal/score"
	"github.com/factlab/veracity/internal/search"
	"github.com/factlab/veracity/internal/worker"
)

// Checker runs the verification pipeline for one claim: search, embed,
// rerank, aggregate, classify. External failures degrade the run rather
// than surfacing as errors; only invalid input errors out.
type Checker struct {
	search     search.Client
	embedder   embed.Embedder
	fallback   *embed.LexicalEmbedder
	reranker   *rank.Reranker
	aggregator *score.Aggregator
	classifier *score.Classifier
	authority  *score.AuthorityClassifier
	limiter    *worker.Limiter
	logger     *slog.Logger

	numResults      int
	fallbackEnabled bool
}

// Deps holds the external collaborators of a Checker. Search and
// Embedder are required; Limiter and Logger default when nil.
type Deps struct {
	Search   search.Client
	Embedder embed.Embedder
	Limiter  *worker.Limiter
	Logger   *slog.Logger
}

// NewChecker builds a checker from configuration and dependencies.
func NewChecker(cfg *model.Config, deps Deps) (*Checker, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if deps.Search == nil {
		return nil, errors.New("pipeline: search client is required")
	}
	if deps.Embedder == nil {
		return nil, fmt.Errorf("pipeline: %w", embed.ErrNoEmbedder)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Checker{
		search:          deps.Search,
		embedder:        deps.Embedder,
		fallback:        embed.NewLexicalEmbedder(),
		reranker:        rank.NewReranker(cfg.Batch.TopK),
		aggregator:      score.NewAggregator(cfg.Score),
		classifier:      score.NewClassifier(cfg.Score),
		authority:       score.NewAuthorityClassifier(cfg.Authority),
		limiter:         deps.Limiter,
		logger:          logger,
		numResults:      search.MaxResults,
		fallbackEnabled: cfg.Embedding.FallbackEnabled,
	}, nil
}

// Check verifies a single claim. It returns an error only for invalid
// input (empty claim text); search and embedding failures resolve to an
// INSUFFICIENT_EVIDENCE result instead.
func (c *Checker) Check(ctx context.Context, text string) (model.ClaimResult, error) {
	started := time.Now()

	claim, err := model.NewClaim(text)
	if err != nil {
		return model.ClaimResult{}, err
	}

	result := model.ClaimResult{
		Claim:   claim,
		Variant: string(c.embedder.Variant()),
	}

	docs, searchErr := c.search.Search(ctx, claim.Text, c.numResults)
	if searchErr != nil {
		c.logger.Warn("proceeding without search results",
			"claim", claim.Text,
			"error", searchErr)
		docs = nil
		result.Degraded = true
	}

	if len(docs) == 0 {
		result.Result = c.classifier.Classify(score.Aggregation{}, nil)
		result.Elapsed = time.Since(started)
		return result, nil
	}

	vectors, variant, fellBack, embedErr := c.embedAll(ctx, claim.Text, docs)
	result.Variant = string(variant)
	if fellBack {
		result.Degraded = true
	}
	if embedErr != nil {
		c.logger.Error("embedding unavailable, resolving without evidence",
			"claim", claim.Text,
			"error", embedErr)
		result.Degraded = true
		result.Result = c.classifier.Classify(score.Aggregation{}, nil)
		result.Elapsed = time.Since(started)
		return result, nil
	}

	evidence := c.reranker.Rerank(vectors[0], docs, vectors[1:])
	c.authority.Annotate(evidence)

	result.Result = c.classifier.Classify(c.aggregator.Aggregate(evidence), evidence)
	result.Elapsed = time.Since(started)
	return result, nil
}

// embedAll embeds the claim and every document snippet in one batch so
// all vectors share a dimension. On a remote provider failure the whole
// batch is re-embedded with the lexical fallback; an evidence set never
// mixes variants.
func (c *Checker) embedAll(ctx context.Context, claimText string, docs []model.Document) ([][]float64, embed.Variant, bool, error) {
	texts := make([]string, 0, len(docs)+1)
	texts = append(texts, claimText)
	for _, doc := range docs {
		texts = append(texts, documentText(doc))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, worker.ServiceEmbedding); err != nil {
			return nil, c.embedder.Variant(), false, err
		}
	}

	vectors, err := c.embedder.EmbedTexts(ctx, texts)
	if err == nil {
		return vectors, c.embedder.Variant(), false, nil
	}
	if ctx.Err() != nil || !c.fallbackEnabled || c.embedder.Variant() != embed.RemoteSemantic {
		return nil, c.embedder.Variant(), false, err
	}

	c.logger.Warn("embedding degraded to lexical fallback",
		"provider", c.embedder.Name(),
		"error", err)

	vectors, err = c.fallback.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, embed.LexicalFallback, true, err
	}
	return vectors, embed.LexicalFallback, true, nil
}

// documentText is the text embedded for a document. Snippets carry the
// evidence; the title stands in when the provider omits one.
func documentText(doc model.Document) string {
	if snippet := strings.TrimSpace(doc.Snippet); snippet != "" {
		return snippet
	}
	return strings.TrimSpace(doc.Title)
}
