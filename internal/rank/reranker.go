// Package rank orders search results by semantic similarity to a claim.
package rank

import (
	"math"
	"sort"

	"github.com/factlab/veracity/internal/model"
)

// DefaultTopK is the number of documents kept after reranking.
const DefaultTopK = 5

// Reranker scores candidate documents against a claim vector and keeps
// the most similar ones.
type Reranker struct {
	topK int
}

// NewReranker creates a reranker that keeps the top k documents.
func NewReranker(topK int) *Reranker {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Reranker{topK: topK}
}

// Rerank computes cosine similarity between the claim vector and each
// document vector, then returns the documents ordered by descending
// similarity, truncated to the configured top k. Ties keep the original
// search order. Pure function of its inputs.
func (r *Reranker) Rerank(claimVec []float64, docs []model.Document, docVecs [][]float64) model.EvidenceSet {
	n := len(docs)
	if len(docVecs) < n {
		n = len(docVecs)
	}
	if n == 0 {
		return nil
	}

	scored := make(model.EvidenceSet, 0, n)
	for i := 0; i < n; i++ {
		scored = append(scored, model.ScoredDocument{
			Document:   docs[i],
			Similarity: cosine(claimVec, docVecs[i]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > r.topK {
		scored = scored[:r.topK]
	}
	return scored
}

// cosine returns the cosine similarity of two vectors clipped to [0, 1].
// A zero-norm vector on either side yields 0 so degenerate embeddings
// read as non-evidence instead of erroring.
func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
