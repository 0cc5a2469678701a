package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// listMarkerRe matches a leading bullet (*, -, •) or numeric list marker ("3.")
	listMarkerRe = regexp.MustCompile(`^\s*(?:[*\-•]+|\d+\.)\s*`)

	// fourDigitRe flags list headers that carry a fact ("Key events of 1969:")
	fourDigitRe = regexp.MustCompile(`\d{4}`)

	// sentenceRe matches a non-empty span followed by its terminators
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

	yearRe    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	digitRe   = regexp.MustCompile(`\d`)
	capWordRe = regexp.MustCompile(`[A-Z][a-z]+`)
)

const maxHeaderLength = 100

// DefaultBlocklist holds conversational openers that never start a claim
var DefaultBlocklist = []string{
	"I ", "Here", "Sure", "Please", "The user", "As an AI", "Note", "This",
}

// Statements splits a message's text into candidate statements, in order of appearance
func Statements(raw string) []string {
	var statements []string

	for _, line := range strings.Split(raw, "\n") {
		line = listMarkerRe.ReplaceAllString(strings.TrimRight(line, "\r"), "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isListHeader(line) {
			continue
		}

		statements = append(statements, splitSentences(line)...)
	}

	return statements
}

// isListHeader reports whether a line introduces a list and carries no fact of its own
func isListHeader(line string) bool {
	return strings.HasSuffix(line, ":") &&
		utf8.RuneCountInString(line) < maxHeaderLength &&
		!fourDigitRe.MatchString(line)
}

// splitSentences splits a line on sentence terminators, keeping each terminator.
// Text after the last terminator is dropped; a line with no terminator is one unit.
func splitSentences(line string) []string {
	locs := sentenceRe.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return []string{line}
	}

	var sentences []string
	for _, loc := range locs {
		if s := strings.TrimSpace(line[loc[0]:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

// ClaimFilter selects the candidate statements worth verifying
type ClaimFilter struct {
	minLength int
	maxClaims int
	blocklist []string
}

// NewClaimFilter creates a filter; non-positive limits fall back to 20 characters and 4 claims
func NewClaimFilter(minLength, maxClaims int) *ClaimFilter {
	if minLength <= 0 {
		minLength = 20
	}
	if maxClaims <= 0 {
		maxClaims = 4
	}

	return &ClaimFilter{
		minLength: minLength,
		maxClaims: maxClaims,
		blocklist: DefaultBlocklist,
	}
}

// Filter returns the first accepted statements, trimmed, in their original order
func (f *ClaimFilter) Filter(statements []string) []string {
	claims := make([]string, 0, f.maxClaims)

	for _, s := range statements {
		if len(claims) == f.maxClaims {
			break
		}
		clean := strings.TrimSpace(s)
		if f.Accept(clean) {
			claims = append(claims, clean)
		}
	}

	return claims
}

// Accept applies the per-statement rules to a trimmed statement
func (f *ClaimFilter) Accept(clean string) bool {
	if utf8.RuneCountInString(clean) < f.minLength {
		return false
	}

	for _, opener := range f.blocklist {
		if strings.HasPrefix(clean, opener) {
			return false
		}
	}

	return hasFactSignal(clean)
}

// hasFactSignal looks for a year, or a number alongside a capitalized word
func hasFactSignal(s string) bool {
	if yearRe.MatchString(s) {
		return true
	}
	return digitRe.MatchString(s) && capWordRe.MatchString(s)
}

// ExtractClaims runs Statements and Filter over raw message text
func (f *ClaimFilter) ExtractClaims(raw string) []string {
	return f.Filter(Statements(raw))
}
