package model

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Document represents one web search result. Fields map directly to the
// search API response; missing fields are empty strings. A Document is
// immutable once retrieved.
type Document struct {
	Title       string `json:"title"`                  // Result title
	Link        string `json:"link"`                   // Full URL
	Snippet     string `json:"snippet"`                // Text excerpt
	DisplayLink string `json:"display_link,omitempty"` // Host as shown by the search provider
}

// Host returns the document's source host: DisplayLink when the provider
// supplied it, otherwise the host parsed from Link.
func (d Document) Host() string {
	if d.DisplayLink != "" {
		return strings.ToLower(d.DisplayLink)
	}
	parsed, err := url.Parse(d.Link)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// ScoredDocument pairs a document with its similarity to the claim.
// Similarity is cosine similarity clipped to [0,1].
type ScoredDocument struct {
	Document
	Similarity float64       `json:"similarity"`
	Authority  AuthorityTier `json:"authority,omitempty"` // Report annotation only, never scored
}

// EvidenceSet is an ordered list of scored documents, non-increasing by
// similarity, ties preserving original search rank.
type EvidenceSet []ScoredDocument

// DistinctHosts counts the distinct source hosts in the set.
func (e EvidenceSet) DistinctHosts() int {
	seen := make(map[string]struct{}, len(e))
	for _, sd := range e {
		seen[sd.Host()] = struct{}{}
	}
	return len(seen)
}

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Laws, statutes, academic papers, official documents
	TierSecondary AuthorityTier = 2 // Encyclopedias, major publishers, reputable media
	TierTertiary  AuthorityTier = 3 // Blogs, personal websites, tourism sites
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the tier name rather than its numeric value.
func (t AuthorityTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *AuthorityTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "primary":
		*t = TierPrimary
	case "secondary":
		*t = TierSecondary
	case "tertiary":
		*t = TierTertiary
	default:
		*t = TierUnknown
	}
	return nil
}
