package score

import (
	"fmt"

	"github.com/factlab/veracity/internal/model"
)

// Default credibility thresholds for the verdict decision table.
const (
	DefaultHighCredibility   = 0.85
	DefaultMediumCredibility = 0.60
	DefaultLowCredibility    = 0.35
)

// Classifier maps an aggregation onto a verdict through a state-free
// decision table over (evidence count, credibility).
type Classifier struct {
	high   float64
	medium float64
	low    float64
}

// NewClassifier creates a classifier from the score configuration.
// All-zero thresholds fall back to the defaults.
func NewClassifier(cfg model.ScoreConfig) *Classifier {
	high, medium, low := cfg.HighCredibility, cfg.MediumCredibility, cfg.LowCredibility
	if high == 0 && medium == 0 && low == 0 {
		high, medium, low = DefaultHighCredibility, DefaultMediumCredibility, DefaultLowCredibility
	}
	return &Classifier{high: high, medium: medium, low: low}
}

// Classify produces the verdict for a claim given its aggregation and the
// evidence backing it. CONTRADICTED is never produced here; it is reserved
// for explicit negation detection.
func (c *Classifier) Classify(agg Aggregation, evidence model.EvidenceSet) model.VerdictResult {
	result := model.VerdictResult{
		Relevance:   agg.Relevance,
		Credibility: agg.Credibility,
		Evidence:    evidence,
	}

	count := len(evidence)
	switch {
	case count == 0:
		result.Verdict = model.VerdictInsufficientEvidence
		result.Confidence = model.ConfidenceLow
		result.Reasoning = "No evidence found to support or refute this claim"
	case agg.Credibility >= c.high:
		result.Verdict = model.VerdictVerifiable
		result.Confidence = model.ConfidenceHigh
		result.Reasoning = fmt.Sprintf("Sufficient evidence found with %.2f credibility score", agg.Credibility)
	case agg.Credibility >= c.medium:
		result.Verdict = model.VerdictVerifiable
		result.Confidence = model.ConfidenceMedium
		result.Reasoning = fmt.Sprintf("Evidence supports the claim with %.2f credibility score across %d sources", agg.Credibility, count)
	case agg.Credibility >= c.low:
		result.Verdict = model.VerdictUnverifiable
		result.Confidence = model.ConfidenceLow
		result.Reasoning = fmt.Sprintf("Evidence found but credibility %.2f is insufficient for verification", agg.Credibility)
	default:
		result.Verdict = model.VerdictUnverifiable
		result.Confidence = model.ConfidenceLow
		result.Reasoning = fmt.Sprintf("Only weak evidence found (%.2f credibility) across %d sources", agg.Credibility, count)
	}

	return result
}
