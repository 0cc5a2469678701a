package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/factlens/internal/model"
)

// sourceMarkerRe matches a whole "source" or "citation" word inside one
// attribute token: "source-link" and "webpage-citation" do, "resource-link" does not
var sourceMarkerRe = regexp.MustCompile(`(?i)(^|[^a-z])(source|citation)s?($|[^a-z])`)

// headerSelectors are the elements that may carry a "Sources" heading
const headerSelectors = "p, div, span, strong, b, li, h1, h2, h3, h4, h5, h6"

// CitationScanner finds native citations in a rendered assistant message
type CitationScanner struct {
	maxCitations int
}

// NewCitationScanner creates a scanner keeping at most maxCitations (default 5)
func NewCitationScanner(maxCitations int) *CitationScanner {
	if maxCitations <= 0 {
		maxCitations = 5
	}
	return &CitationScanner{maxCitations: maxCitations}
}

// Scan returns the citations embedded in messageHTML.
// Links with an explicit source marker win; the "Sources" heading strategy
// runs only when there are none.
func (s *CitationScanner) Scan(messageHTML string) ([]model.Citation, error) {
	if strings.TrimSpace(messageHTML) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(messageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse message html: %w", err)
	}

	citations := explicitCitations(doc)
	if len(citations) == 0 {
		citations = headerCitations(doc)
	}

	citations = dedupeCitations(citations)
	if len(citations) > s.maxCitations {
		citations = citations[:s.maxCitations]
	}

	return citations, nil
}

// explicitCitations collects links that are marked as sources
func explicitCitations(doc *goquery.Document) []model.Citation {
	var citations []model.Citation

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		if !hasSourceMarker(link) && !hasSourceMarker(link.Parent()) {
			return
		}
		if c, ok := citationFromLink(link); ok {
			citations = append(citations, c)
		}
	})

	return citations
}

// headerCitations collects every link next to an element reading exactly "Sources"
func headerCitations(doc *goquery.Document) []model.Citation {
	var citations []model.Citation

	doc.Find(headerSelectors).Each(func(_ int, el *goquery.Selection) {
		if strings.TrimSpace(el.Text()) != "Sources" {
			return
		}
		el.Parent().Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			if c, ok := citationFromLink(link); ok {
				citations = append(citations, c)
			}
		})
	})

	return citations
}

// hasSourceMarker checks class, aria-label and data-* attributes for a source marker
func hasSourceMarker(sel *goquery.Selection) bool {
	if sel.Length() == 0 {
		return false
	}

	for _, attr := range sel.Nodes[0].Attr {
		if attr.Key != "class" && attr.Key != "aria-label" && !strings.HasPrefix(attr.Key, "data-") {
			continue
		}
		for _, token := range strings.Fields(attr.Val) {
			if sourceMarkerRe.MatchString(token) {
				return true
			}
		}
	}

	return false
}

// citationFromLink builds a citation from an anchor with an absolute http(s) URL
func citationFromLink(link *goquery.Selection) (model.Citation, bool) {
	href, _ := link.Attr("href")
	href = strings.TrimSpace(href)

	parsed, err := url.Parse(href)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return model.Citation{}, false
	}

	title, _ := link.Attr("title")
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.Join(strings.Fields(link.Text()), " ")
	}
	if title == "" {
		title = model.DefaultCitationTitle
	}

	return model.Citation{URL: parsed.String(), Title: title}, true
}

// dedupeCitations removes repeated URLs, keeping the first occurrence
func dedupeCitations(citations []model.Citation) []model.Citation {
	seen := make(map[string]bool)
	var unique []model.Citation

	for _, c := range citations {
		if !seen[c.URL] {
			seen[c.URL] = true
			unique = append(unique, c)
		}
	}

	return unique
}
