package trust

import (
	"net/url"
	"strings"

	"github.com/ppiankov/factlens/internal/model"
)

// DomainSet is an immutable allowlist of trusted evidence domains
type DomainSet struct {
	domains []model.TrustedDomain
}

// NewDomainSet builds a set from config entries; nil falls back to the built-in list.
// Patterns are lower-cased and blank entries dropped.
func NewDomainSet(domains []model.TrustedDomain) *DomainSet {
	if domains == nil {
		domains = model.DefaultTrustedDomains()
	}

	set := &DomainSet{domains: make([]model.TrustedDomain, 0, len(domains))}
	for _, d := range domains {
		pattern := strings.ToLower(strings.TrimSpace(d.Pattern))
		if pattern == "" {
			continue
		}
		set.domains = append(set.domains, model.TrustedDomain{Pattern: pattern, Category: d.Category})
	}

	return set
}

// Len returns the number of patterns in the set
func (s *DomainSet) Len() int {
	return len(s.domains)
}

// Domains returns a copy of the set's entries
func (s *DomainSet) Domains() []model.TrustedDomain {
	out := make([]model.TrustedDomain, len(s.domains))
	copy(out, s.domains)
	return out
}

// MatchText reports the first trusted pattern that occurs anywhere in text
func (s *DomainSet) MatchText(text string) (model.TrustedDomain, bool) {
	lower := strings.ToLower(text)
	for _, d := range s.domains {
		if strings.Contains(lower, d.Pattern) {
			return d, true
		}
	}
	return model.TrustedDomain{}, false
}

// MatchURL reports the trusted entry covering a URL's host.
// Patterns with a leading dot match as host suffixes (".gov"); others
// match the host itself or any subdomain of it.
func (s *DomainSet) MatchURL(rawURL string) (model.TrustedDomain, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.TrustedDomain{}, false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return model.TrustedDomain{}, false
	}

	for _, d := range s.domains {
		switch {
		case strings.HasPrefix(d.Pattern, "."):
			if strings.HasSuffix(host, d.Pattern) {
				return d, true
			}
		case !strings.Contains(d.Pattern, "."):
			// Bare names like "pubmed" match any host label
			if strings.Contains(host, d.Pattern) {
				return d, true
			}
		case host == d.Pattern || strings.HasSuffix(host, "."+d.Pattern):
			return d, true
		case strings.HasPrefix(host, d.Pattern+"."):
			// "scholar.google" covers scholar.google.com and scholar.google.co.uk
			return d, true
		}
	}

	return model.TrustedDomain{}, false
}
