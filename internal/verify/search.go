package verify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/trust"
	"go.uber.org/zap"
)

const (
	trustedConfidence   = 70
	untrustedConfidence = 30
	defaultContextChars = 2000
)

// PageFetcher retrieves a search results page as HTML
type PageFetcher interface {
	FetchHTML(ctx context.Context, rawURL string) (string, error)
}

// SearchVerifier is the secondary verifier: it looks for trusted domains in
// web search results and checks that the claim's numbers appear near the top.
type SearchVerifier struct {
	fetcher      PageFetcher
	domains      *trust.DomainSet
	urlTemplate  string
	contextChars int
	logger       *zap.Logger
}

// NewSearchVerifier creates the secondary verifier
func NewSearchVerifier(fetcher PageFetcher, domains *trust.DomainSet, cfg model.SearchConfig, logger *zap.Logger) *SearchVerifier {
	if domains == nil {
		domains = trust.NewDomainSet(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl := cfg.URLTemplate
	if tmpl == "" {
		tmpl = model.DefaultConfig().Search.URLTemplate
	}
	contextChars := cfg.ContextChars
	if contextChars <= 0 {
		contextChars = defaultContextChars
	}

	return &SearchVerifier{
		fetcher:      fetcher,
		domains:      domains,
		urlTemplate:  tmpl,
		contextChars: contextChars,
		logger:       logger,
	}
}

// QueryURL builds the search URL for claim. The claim is escaped like a URI
// component (spaces become %20).
func (v *SearchVerifier) QueryURL(claim string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(claim), "+", "%20")
	if !strings.Contains(v.urlTemplate, "%s") {
		return v.urlTemplate + escaped
	}
	return strings.Replace(v.urlTemplate, "%s", escaped, 1)
}

// Verify searches for claim. Fetch failures are returned as *NetworkError.
func (v *SearchVerifier) Verify(ctx context.Context, claim string) (model.Verdict, error) {
	searchURL := v.QueryURL(claim)

	page, err := v.fetcher.FetchHTML(ctx, searchURL)
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			return model.Verdict{}, err
		}
		return model.Verdict{}, &NetworkError{Op: "search", Err: err}
	}

	text := strings.ToLower(VisibleText(page))
	verdict := v.judge(claim, text)
	verdict.SourceURL = searchURL

	v.logger.Debug("search verdict",
		zap.String("claim", claim),
		zap.Bool("verified", verdict.Verified),
		zap.Bool("warning", verdict.Warning))

	return verdict, nil
}

// judge applies the trusted-domain and number checks to lower-cased page text.
// warning and verified are mutually exclusive: verified is read after demotion.
func (v *SearchVerifier) judge(claim, text string) model.Verdict {
	domain, trusted := v.domains.MatchText(text)

	verdict := model.Verdict{
		Claim:      claim,
		Status:     model.StatusSuccess,
		Verified:   trusted,
		Confidence: untrustedConfidence,
		Source:     model.SourceFallback,
	}

	if !trusted {
		verdict.Explanation = "No trusted source found in search results."
		return verdict
	}

	verdict.Confidence = trustedConfidence
	verdict.Explanation = fmt.Sprintf("Search results reference a trusted source (%s).", domain.Pattern)

	numbers := ClaimIntegers(claim)
	if len(numbers) > 0 && !containsAll(leadingRunes(text, v.contextChars), numbers) {
		verdict.Warning = true
		verdict.Verified = false
		verdict.Details = model.MismatchDetails
	}

	return verdict
}
