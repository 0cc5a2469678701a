package verify

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var integerRe = regexp.MustCompile(`\b\d+\b`)

// skippedElements hold no visible text
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
}

// VisibleText strips markup from an HTML document, dropping script and style
// content. Text nodes are joined by single spaces.
func VisibleText(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))

	var (
		b     strings.Builder
		depth int // nesting inside skipped elements
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or a read error on an in-memory reader which cannot happen
			return strings.Join(strings.Fields(b.String()), " ")

		case html.StartTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] {
				depth++
			}
			b.WriteByte(' ')

		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] && depth > 0 {
				depth--
			}
			b.WriteByte(' ')

		case html.SelfClosingTagToken:
			b.WriteByte(' ')

		case html.TextToken:
			if depth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// ClaimIntegers returns the integer tokens in claim, normalised the way a
// numeric parse would print them ("007" becomes "7").
func ClaimIntegers(claim string) []string {
	matches := integerRe.FindAllString(claim, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		n := strings.TrimLeft(m, "0")
		if n == "" {
			n = "0"
		}
		out = append(out, n)
	}
	return out
}

// containsAll reports whether every token occurs in text
func containsAll(text string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}

// leadingRunes returns at most n runes from the start of s
func leadingRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
