// Package extract pulls checkable claims out of prose.
package extract

import (
	"strings"

	"github.com/factlab/veracity/internal/model"
)

// Sentence length bounds. Shorter fragments rarely carry a checkable
// assertion; longer ones are usually run-on scraping artifacts.
const (
	minSentenceLen = 30
	maxSentenceLen = 500
)

// keywordGroup ties a claim category to the markers that signal it.
type keywordGroup struct {
	claimType model.ClaimType
	keywords  []string
}

// ClaimExtractor finds checkable factual assertions in plain text using
// sentence splitting and keyword heuristics.
type ClaimExtractor struct {
	groups []keywordGroup
}

// NewClaimExtractor creates an extractor with the built-in keyword groups.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		groups: []keywordGroup{
			{model.ClaimTypeOrigin, []string{
				"originated", "origin", "first", "introduced", "invented", "discovered",
			}},
			{model.ClaimTypeAttribution, []string{
				"according to", "created", "developed", "founded", "established",
			}},
			{model.ClaimTypeAuthority, []string{
				"is legally", "under the law", "under this act", "shall", "must", "is required",
			}},
			{model.ClaimTypeDefinition, []string{
				"is defined as", "refers to", "is known as",
			}},
			{model.ClaimTypeExistence, []string{
				"exists", "there is no", "there are no",
			}},
		},
	}
}

// Extract returns the deduplicated claims found in text. Each claim
// records which keyword group matched and its sentence position.
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	sentences := splitSentences(text)

	var claims []model.Claim
	for i, sentence := range sentences {
		lower := strings.ToLower(sentence)
		if claimType, keyword, ok := e.match(lower); ok {
			claims = append(claims, model.Claim{
				Text:      strings.TrimSpace(sentence),
				Heuristic: string(claimType) + ":" + keyword,
				Sentence:  i,
			})
		}
	}

	return dedupeClaims(claims)
}

// match finds the first keyword group hit in a lowercased sentence.
// Only one keyword matches per sentence.
func (e *ClaimExtractor) match(lower string) (model.ClaimType, string, bool) {
	for _, group := range e.groups {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.claimType, keyword, true
			}
		}
	}
	return "", "", false
}

// splitSentences splits text on sentence terminators, keeping only
// sentences within the length bounds.
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Terminator followed by whitespace ends the sentence; mid-token
			// periods (abbreviations, decimals, URLs) do not.
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				if sentence := strings.TrimSpace(current.String()); withinBounds(sentence) {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if current.Len() > 0 {
		if sentence := strings.TrimSpace(current.String()); withinBounds(sentence) {
			sentences = append(sentences, sentence)
		}
	}

	return sentences
}

func withinBounds(sentence string) bool {
	return len(sentence) >= minSentenceLen && len(sentence) <= maxSentenceLen
}

// dedupeClaims removes duplicate claims, comparing case-insensitively.
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
