// Package score turns reranked evidence into credibility scores and verdicts.
package score

import (
	"github.com/factlab/veracity/internal/model"
)

// Default aggregation weights. Relevance dominates but source diversity
// keeps a single strong match from maxing out credibility on its own.
const (
	DefaultRelevanceWeight = 0.6
	DefaultDiversityWeight = 0.4
)

// Aggregation holds the pooled quality measures of one claim's evidence.
type Aggregation struct {
	Relevance   float64 // Mean similarity across the evidence set
	Diversity   float64 // Distinct hosts / evidence count
	Credibility float64 // Weighted combination, clipped to [0,1]
}

// Aggregator folds an evidence set into an Aggregation using the
// configured weights.
type Aggregator struct {
	relevanceWeight float64
	diversityWeight float64
}

// NewAggregator creates an aggregator from the score configuration.
// Zero-valued weights fall back to the documented defaults.
func NewAggregator(cfg model.ScoreConfig) *Aggregator {
	wr, wd := cfg.RelevanceWeight, cfg.DiversityWeight
	if wr == 0 && wd == 0 {
		wr, wd = DefaultRelevanceWeight, DefaultDiversityWeight
	}
	return &Aggregator{relevanceWeight: wr, diversityWeight: wd}
}

// Aggregate computes relevance, diversity and credibility for the given
// evidence. An empty set yields all zeros.
func (a *Aggregator) Aggregate(evidence model.EvidenceSet) Aggregation {
	if len(evidence) == 0 {
		return Aggregation{}
	}

	var sum float64
	for _, sd := range evidence {
		sum += sd.Similarity
	}
	relevance := sum / float64(len(evidence))
	diversity := float64(evidence.DistinctHosts()) / float64(len(evidence))

	credibility := a.relevanceWeight*relevance + a.diversityWeight*diversity
	if credibility < 0 {
		credibility = 0
	}
	if credibility > 1 {
		credibility = 1
	}

	return Aggregation{
		Relevance:   relevance,
		Diversity:   diversity,
		Credibility: credibility,
	}
}
