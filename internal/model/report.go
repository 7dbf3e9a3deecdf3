package model

import (
	"fmt"
	"time"
)

// ClaimResult pairs a claim with its verdict, plus run metadata.
type ClaimResult struct {
	Claim    Claim         `json:"claim"`
	Result   VerdictResult `json:"result"`
	Variant  string        `json:"variant,omitempty"`  // Embedding variant used ("remote_semantic", "lexical_fallback")
	Degraded bool          `json:"degraded,omitempty"` // True if any step fell back during the run
	Elapsed  time.Duration `json:"elapsed_ns,omitempty"`
}

// Report is the complete output of a batch or scan run.
type Report struct {
	Source        string        `json:"source,omitempty"` // Input file or "stdin"
	CheckedAt     time.Time     `json:"checked_at"`
	ClaimsChecked int           `json:"claims_checked"`
	Results       []ClaimResult `json:"results"`
	Summary       string        `json:"summary"`
}

// Summarize fills ClaimsChecked and Summary from Results.
func (r *Report) Summarize() {
	r.ClaimsChecked = len(r.Results)
	counts := make(map[Verdict]int)
	for _, cr := range r.Results {
		counts[cr.Result.Verdict]++
	}
	r.Summary = fmt.Sprintf("%d verifiable, %d unverifiable, %d insufficient evidence",
		counts[VerdictVerifiable],
		counts[VerdictUnverifiable]+counts[VerdictContradicted],
		counts[VerdictInsufficientEvidence])
}
