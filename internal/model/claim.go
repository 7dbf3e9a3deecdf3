package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyClaim is returned when a claim has no text after trimming.
var ErrEmptyClaim = errors.New("claim text is empty")

// Claim represents a factual assertion to be verified
type Claim struct {
	Text      string `json:"text"`                // The claim text itself
	Heuristic string `json:"heuristic,omitempty"` // Which extraction rule matched (e.g., "keyword:originated")
	Sentence  int    `json:"sentence,omitempty"`  // Sentence index in source (0-based)
}

// NewClaim validates raw text and returns a Claim. Text is trimmed;
// empty or whitespace-only input fails with ErrEmptyClaim.
func NewClaim(text string) (Claim, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Claim{}, fmt.Errorf("new claim: %w", ErrEmptyClaim)
	}
	return Claim{Text: trimmed}, nil
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeOrigin      ClaimType = "origin"      // Claims about origin/first occurrence
	ClaimTypeAttribution ClaimType = "attribution" // Claims about who did/created something
	ClaimTypeAuthority   ClaimType = "authority"   // Claims about legal/official status
	ClaimTypeExistence   ClaimType = "existence"   // Claims about something existing
	ClaimTypeDefinition  ClaimType = "definition"  // Definitional claims
)
