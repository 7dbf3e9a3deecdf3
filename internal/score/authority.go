package score

import (
	"net/url"
	"strings"

	"github.com/factlab/veracity/internal/model"
)

// AuthorityClassifier assigns an authority tier to each evidence source.
// Tiers annotate reports for human readers; they never feed the
// credibility score.
type AuthorityClassifier struct {
	domainMap    map[string]string
	primaryMap   map[string]bool
	secondaryMap map[string]bool
}

// NewAuthorityClassifier creates a classifier from the authority
// configuration. An empty configuration uses the built-in domain lists.
func NewAuthorityClassifier(cfg model.AuthorityConfig) *AuthorityClassifier {
	if len(cfg.PrimaryDomains) == 0 && len(cfg.SecondaryDomains) == 0 && len(cfg.DomainMap) == 0 {
		cfg = model.DefaultConfig().Authority
	}

	classifier := &AuthorityClassifier{
		domainMap:    make(map[string]string, len(cfg.DomainMap)),
		primaryMap:   make(map[string]bool, len(cfg.PrimaryDomains)),
		secondaryMap: make(map[string]bool, len(cfg.SecondaryDomains)),
	}
	for domain, tier := range cfg.DomainMap {
		classifier.domainMap[strings.ToLower(domain)] = tier
	}
	for _, domain := range cfg.PrimaryDomains {
		classifier.primaryMap[strings.ToLower(domain)] = true
	}
	for _, domain := range cfg.SecondaryDomains {
		classifier.secondaryMap[strings.ToLower(domain)] = true
	}
	return classifier
}

// Classify maps a URL to an authority tier.
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.TierTertiary
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		// Search providers sometimes report bare hosts rather than URLs.
		host = strings.ToLower(strings.TrimSpace(rawURL))
	}
	if host == "" {
		return model.TierTertiary
	}

	// Explicit overrides win over everything else.
	if tier, ok := a.domainMap[host]; ok {
		return parseTier(tier)
	}

	if a.matchesDomain(host, a.primaryMap) {
		return model.TierPrimary
	}
	if a.matchesDomain(host, a.secondaryMap) {
		return model.TierSecondary
	}

	// Government and academic TLDs carry authority on their own.
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".ac.uk") {
		return model.TierPrimary
	}

	return model.TierTertiary
}

// Annotate stamps every evidence item with its source tier.
func (a *AuthorityClassifier) Annotate(evidence model.EvidenceSet) {
	for i := range evidence {
		target := evidence[i].Link
		if target == "" {
			target = evidence[i].DisplayLink
		}
		evidence[i].Authority = a.Classify(target)
	}
}

// matchesDomain reports whether host equals a configured domain or is a
// subdomain of one (docs.nasa.gov matches nasa.gov).
func (a *AuthorityClassifier) matchesDomain(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// parseTier converts a configured tier name to its enum value.
func parseTier(tier string) model.AuthorityTier {
	switch strings.ToLower(tier) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}
