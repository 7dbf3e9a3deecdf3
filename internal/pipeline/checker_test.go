package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/factlab/veracity/internal/embed"
	"github.com/factlab/veracity/internal/model"
)

const venusClaim = "Venus rotates on its axis so slowly and in the opposite direction to most planets"

// fakeSearch returns canned documents, or an error when set. Per-query
// delays let batch tests scramble completion order.
type fakeSearch struct {
	docs   []model.Document
	err    error
	delays map[string]time.Duration
	calls  int32 // atomic
}

func (f *fakeSearch) Search(ctx context.Context, query string, numResults int) ([]model.Document, error) {
	atomic.AddInt32(&f.calls, 1)
	if delay, ok := f.delays[query]; ok {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.docs) > numResults {
		return f.docs[:numResults], nil
	}
	return f.docs, nil
}

// fakeEmbedder hands out positional vectors: index 0 is the claim, the
// rest follow document order. failErr fails every call; failOn fails only
// the batch whose first text matches.
type fakeEmbedder struct {
	vectors [][]float64
	failErr error
	failOn  string
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) Variant() embed.Variant { return embed.RemoteSemantic }

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	if f.failOn != "" && len(texts) > 0 && texts[0] == f.failOn {
		return nil, &embed.EmbeddingError{Provider: f.Name(), Err: errors.New("provider went away")}
	}
	if len(texts) != len(f.vectors) {
		return nil, fmt.Errorf("fake embedder prepared for %d texts, got %d", len(f.vectors), len(texts))
	}
	return f.vectors, nil
}

func (f *fakeEmbedder) IsAvailable(ctx context.Context) bool { return f.failErr == nil }

// unitVector returns a 2D vector whose cosine against (1,0) is exactly sim.
func unitVector(sim float64) []float64 {
	return []float64{sim, math.Sqrt(1 - sim*sim)}
}

// venusFixture builds 10 search results in non-sorted similarity order.
// The top five similarities are 0.97, 0.95, 0.90, 0.85, 0.80 across four
// distinct hosts, giving relevance 0.894 and credibility 0.8564 under
// the default weights.
func venusFixture() (*fakeSearch, *fakeEmbedder) {
	sims := []float64{0.5, 0.97, 0.3, 0.90, 0.85, 0.1, 0.95, 0.2, 0.80, 0.4}
	hosts := []string{
		"forum.example.com",
		"nasa.gov",
		"blog.example.net",
		"space.com",
		"esa.int",
		"random.example.org",
		"en.wikipedia.org",
		"chat.example.io",
		"nasa.gov",
		"misc.example.dev",
	}

	docs := make([]model.Document, len(sims))
	vectors := make([][]float64, 0, len(sims)+1)
	vectors = append(vectors, unitVector(1.0))
	for i, sim := range sims {
		docs[i] = model.Document{
			Title:       fmt.Sprintf("Venus result %d", i),
			Link:        fmt.Sprintf("https://%s/venus/%d", hosts[i], i),
			Snippet:     fmt.Sprintf("Venus rotation fact %d", i),
			DisplayLink: hosts[i],
		}
		vectors = append(vectors, unitVector(sim))
	}
	return &fakeSearch{docs: docs}, &fakeEmbedder{vectors: vectors}
}

func newTestChecker(t *testing.T, searchClient *fakeSearch, embedder embed.Embedder) *Checker {
	t.Helper()
	checker, err := NewChecker(nil, Deps{Search: searchClient, Embedder: embedder})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return checker
}

func TestChecker_Check_VerifiableClaim(t *testing.T) {
	searchClient, embedder := venusFixture()
	checker := newTestChecker(t, searchClient, embedder)

	got, err := checker.Check(context.Background(), venusClaim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Result.Verdict != model.VerdictVerifiable {
		t.Errorf("expected VERIFIABLE, got %s", got.Result.Verdict)
	}
	if got.Result.Confidence != model.ConfidenceHigh {
		t.Errorf("expected HIGH confidence, got %s", got.Result.Confidence)
	}
	if math.Abs(got.Result.Relevance-0.894) > 1e-6 {
		t.Errorf("expected relevance 0.894, got %.6f", got.Result.Relevance)
	}
	if math.Abs(got.Result.Credibility-0.8564) > 1e-6 {
		t.Errorf("expected credibility 0.8564, got %.6f", got.Result.Credibility)
	}
	if len(got.Result.Evidence) != 5 {
		t.Fatalf("expected 5 evidence items, got %d", len(got.Result.Evidence))
	}
	if got.Result.Evidence[0].DisplayLink != "nasa.gov" {
		t.Errorf("expected nasa.gov as top evidence, got %s", got.Result.Evidence[0].DisplayLink)
	}
	for i := 1; i < len(got.Result.Evidence); i++ {
		if got.Result.Evidence[i].Similarity > got.Result.Evidence[i-1].Similarity {
			t.Errorf("evidence not sorted at %d", i)
		}
	}
	if got.Degraded {
		t.Error("expected a clean run, got degraded")
	}
	if got.Variant != string(embed.RemoteSemantic) {
		t.Errorf("expected remote variant, got %s", got.Variant)
	}
	if got.Elapsed <= 0 {
		t.Error("expected elapsed time to be recorded")
	}
}

func TestChecker_Check_AnnotatesAuthority(t *testing.T) {
	searchClient, embedder := venusFixture()
	checker := newTestChecker(t, searchClient, embedder)

	got, err := checker.Check(context.Background(), venusClaim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Result.Evidence[0].Authority != model.TierPrimary {
		t.Errorf("expected primary tier for nasa.gov, got %s", got.Result.Evidence[0].Authority)
	}
}

func TestChecker_Check_NoResults(t *testing.T) {
	checker := newTestChecker(t, &fakeSearch{}, &fakeEmbedder{})

	got, err := checker.Check(context.Background(), "Some claim nothing indexes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Result.Verdict != model.VerdictInsufficientEvidence {
		t.Errorf("expected INSUFFICIENT_EVIDENCE, got %s", got.Result.Verdict)
	}
	if got.Result.Confidence != model.ConfidenceLow {
		t.Errorf("expected LOW confidence, got %s", got.Result.Confidence)
	}
	if len(got.Result.Evidence) != 0 {
		t.Errorf("expected empty evidence, got %d items", len(got.Result.Evidence))
	}
	if got.Degraded {
		t.Error("zero genuine results is not a degraded run")
	}
}

func TestChecker_Check_SearchFailureDegrades(t *testing.T) {
	checker := newTestChecker(t, &fakeSearch{err: errors.New("search exploded")}, &fakeEmbedder{})

	got, err := checker.Check(context.Background(), "Claim behind a broken search")
	if err != nil {
		t.Fatalf("search failure must not surface as an error, got %v", err)
	}
	if got.Result.Verdict != model.VerdictInsufficientEvidence {
		t.Errorf("expected INSUFFICIENT_EVIDENCE, got %s", got.Result.Verdict)
	}
	if !got.Degraded {
		t.Error("expected degraded run after search failure")
	}
}

func TestChecker_Check_EmbeddingFallback(t *testing.T) {
	searchClient, _ := venusFixture()
	embedder := &fakeEmbedder{failErr: &embed.EmbeddingError{Provider: "fake", Err: errors.New("connection refused")}}
	checker := newTestChecker(t, searchClient, embedder)

	got, err := checker.Check(context.Background(), venusClaim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Degraded {
		t.Error("expected degraded run after embedding fallback")
	}
	if got.Variant != string(embed.LexicalFallback) {
		t.Errorf("expected lexical fallback variant, got %s", got.Variant)
	}
	// The lexical vectors still cover claim and documents, so evidence exists.
	if len(got.Result.Evidence) == 0 {
		t.Error("expected evidence from the fallback embedder")
	}
	for _, sd := range got.Result.Evidence {
		if sd.Similarity < 0 || sd.Similarity > 1 {
			t.Errorf("similarity %.4f out of [0,1]", sd.Similarity)
		}
	}
}

func TestChecker_Check_EmbeddingFailureNoFallback(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Embedding.FallbackEnabled = false

	searchClient, _ := venusFixture()
	embedder := &fakeEmbedder{failErr: &embed.EmbeddingError{Provider: "fake", Err: errors.New("down")}}
	checker, err := NewChecker(cfg, Deps{Search: searchClient, Embedder: embedder})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := checker.Check(context.Background(), venusClaim)
	if err != nil {
		t.Fatalf("embedding failure must not surface as an error, got %v", err)
	}
	if got.Result.Verdict != model.VerdictInsufficientEvidence {
		t.Errorf("expected INSUFFICIENT_EVIDENCE, got %s", got.Result.Verdict)
	}
	if !got.Degraded {
		t.Error("expected degraded run")
	}
}

func TestChecker_Check_EmptyClaim(t *testing.T) {
	checker := newTestChecker(t, &fakeSearch{}, &fakeEmbedder{})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := checker.Check(context.Background(), text)
		if !errors.Is(err, model.ErrEmptyClaim) {
			t.Errorf("text %q: expected ErrEmptyClaim, got %v", text, err)
		}
	}
}

func TestNewChecker_MissingDeps(t *testing.T) {
	if _, err := NewChecker(nil, Deps{Embedder: &fakeEmbedder{}}); err == nil {
		t.Error("expected error without a search client")
	}

	_, err := NewChecker(nil, Deps{Search: &fakeSearch{}})
	if !errors.Is(err, embed.ErrNoEmbedder) {
		t.Errorf("expected ErrNoEmbedder, got %v", err)
	}
}
