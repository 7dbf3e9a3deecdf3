package model

// Verdict is the categorical outcome of fact-checking a claim.
type Verdict string

const (
	VerdictVerifiable   Verdict = "VERIFIABLE"
	VerdictUnverifiable Verdict = "UNVERIFIABLE"
	// VerdictContradicted is a defined terminal state reserved for explicit
	// negation detection. No current rule produces it.
	VerdictContradicted         Verdict = "CONTRADICTED"
	VerdictInsufficientEvidence Verdict = "INSUFFICIENT_EVIDENCE"
)

// Confidence expresses how strongly the evidence supports the verdict.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// VerdictResult is the outcome of verifying one claim.
//
// Invariants: Relevance and Credibility are in [0,1]; Evidence is sorted
// non-increasing by similarity; an empty Evidence forces
// VerdictInsufficientEvidence.
type VerdictResult struct {
	Verdict     Verdict     `json:"verdict"`
	Confidence  Confidence  `json:"confidence"`
	Relevance   float64     `json:"relevance"`
	Credibility float64     `json:"credibility"`
	Reasoning   string      `json:"reasoning"`
	Evidence    EvidenceSet `json:"evidence"`
}
