package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/factlens/internal/cache"
	"github.com/ppiankov/factlens/internal/extract"
	"github.com/ppiankov/factlens/internal/llm"
	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/platform"
	"github.com/ppiankov/factlens/internal/trust"
	"github.com/ppiankov/factlens/internal/verify"
	"github.com/ppiankov/factlens/internal/worker"
	"go.uber.org/zap"
)

const (
	// NativeDetails marks pseudo-verdicts built from citations the platform embedded
	NativeDetails = "confirmed by platform"

	failedDetails = "Verification failed: no verification source could be reached."
)

// Verifier judges a single claim. Errors mean the verifier could not run.
type Verifier interface {
	Verify(ctx context.Context, claim string) (model.Verdict, error)
}

// Options wires a Pipeline from already-built parts
type Options struct {
	Primary   Verifier
	Secondary Verifier
	Platforms *platform.Registry
	Domains   *trust.DomainSet
	Cache     cache.VerdictCache // nil disables caching
	Config    model.PipelineConfig
	Logger    *zap.Logger
}

// Pipeline orchestrates claim extraction and verification for assistant messages
type Pipeline struct {
	primary      Verifier
	secondary    Verifier
	platforms    *platform.Registry
	domains      *trust.DomainSet
	claims       *extract.ClaimFilter
	citations    *extract.CitationScanner
	cache        cache.VerdictCache
	runner       *worker.BatchRunner
	claimTimeout time.Duration
	logger       *zap.Logger
}

// New creates a pipeline from its parts
func New(opts Options) *Pipeline {
	if opts.Platforms == nil {
		opts.Platforms = platform.NewRegistry(nil)
	}
	if opts.Domains == nil {
		opts.Domains = trust.NewDomainSet(nil)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	claimTimeout := opts.Config.ClaimTimeout
	if claimTimeout <= 0 {
		claimTimeout = 30 * time.Second
	}

	p := &Pipeline{
		primary:      opts.Primary,
		secondary:    opts.Secondary,
		platforms:    opts.Platforms,
		domains:      opts.Domains,
		claims:       extract.NewClaimFilter(opts.Config.MinClaimLength, opts.Config.MaxClaims),
		citations:    extract.NewCitationScanner(opts.Config.MaxCitations),
		cache:        opts.Cache,
		claimTimeout: claimTimeout,
		logger:       opts.Logger,
	}
	p.runner = worker.NewBatchRunner(p, opts.Logger)

	return p
}

// NewFromConfig builds the full pipeline: LLM primary verifier, search
// fallback, platform registry, trusted domains and verdict cache.
// A missing LLM credential is not an error; claims then go straight to search.
func NewFromConfig(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var provider llm.Provider
	built, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.Proxy, logger))
	switch {
	case errors.Is(err, llm.ErrNoCredential):
		logger.Warn("LLM API key not configured, using search verification only",
			zap.String("provider", cfg.LLM.Provider))
	case err != nil:
		return nil, fmt.Errorf("llm provider: %w", err)
	case built != nil:
		provider = built
	}

	domains := trust.NewDomainSet(cfg.Trust.Domains)
	fetcher := NewFetcher(cfg.Search, cfg.Proxy, logger)

	opts := Options{
		Primary:   verify.NewLLMVerifier(provider, cfg.LLM, logger),
		Secondary: verify.NewSearchVerifier(fetcher, domains, cfg.Search, logger),
		Platforms: platform.NewRegistry(cfg.Platforms),
		Domains:   domains,
		Config:    cfg.Pipeline,
		Logger:    logger,
	}
	if cfg.Pipeline.CacheEnabled {
		opts.Cache = cache.NewMemoryCache(cfg.Pipeline.CacheTTL)
	}

	return New(opts), nil
}

// Platforms returns the platform accuracy registry
func (p *Pipeline) Platforms() *platform.Registry {
	return p.platforms
}

// Verify verifies one claim. It never fails: every problem is reported
// as a status=error verdict. The verdict's claim is the trimmed input.
func (p *Pipeline) Verify(ctx context.Context, claim, platformID string) (verdict model.Verdict) {
	claim = strings.TrimSpace(claim)
	accuracy := p.platforms.Lookup(platformID)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("verification panicked", zap.String("claim", claim), zap.Any("panic", r))
			verdict = model.ErrorVerdict(claim, model.SourcePrimary, failedDetails)
			verdict.Platform = accuracy
		}
	}()

	if claim == "" {
		verdict = model.ErrorVerdict(claim, model.SourcePrimary, "Verification failed: empty claim.")
		verdict.Platform = accuracy
		return verdict
	}

	if p.cache != nil {
		if cached, ok := p.cache.Get(platformID, claim); ok {
			cached.Platform = accuracy
			return cached
		}
	}

	verdict = p.verifyUncached(ctx, claim)
	verdict.Claim = claim
	verdict.Platform = accuracy

	// Fallback verdicts are weaker; let the next call retry the primary verifier
	if p.cache != nil && verdict.Status == model.StatusSuccess && verdict.Source == model.SourcePrimary {
		p.cache.Set(platformID, claim, verdict)
	}

	return verdict
}

// verifyUncached runs the primary verifier and falls back to search when it cannot run
func (p *Pipeline) verifyUncached(ctx context.Context, claim string) model.Verdict {
	log := p.logger.With(zap.String("claim", claim))

	if p.primary != nil {
		verdict, err := p.withTimeout(ctx, p.primary, claim)
		if err == nil {
			return verdict
		}
		if ctx.Err() != nil {
			return model.ErrorVerdict(claim, model.SourcePrimary, "Verification cancelled.")
		}
		log.Info("primary verifier failed, falling back to search", zap.Error(err))
	}

	if p.secondary == nil {
		return model.ErrorVerdict(claim, model.SourceFallback, failedDetails)
	}

	verdict, err := p.withTimeout(ctx, p.secondary, claim)
	if err != nil {
		log.Warn("search verifier failed", zap.Error(err))
		return model.ErrorVerdict(claim, model.SourceFallback, failedDetails)
	}
	return verdict
}

// withTimeout bounds one verifier call by the per-claim timeout
func (p *Pipeline) withTimeout(ctx context.Context, v Verifier, claim string) (model.Verdict, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.claimTimeout)
	defer cancel()
	return v.Verify(callCtx, claim)
}

// VerifyClaim adapts Verify to worker.ClaimVerifier. A context that ended
// during verification means the requester is gone.
func (p *Pipeline) VerifyClaim(ctx context.Context, claim, platformID string) (model.Verdict, error) {
	verdict := p.Verify(ctx, claim, platformID)
	if err := ctx.Err(); err != nil {
		return verdict, fmt.Errorf("%w: %v", model.ErrCollaboratorUnavailable, err)
	}
	return verdict, nil
}

// VerifyMessage extracts claims and citations from an assistant message.
// Native citations short-circuit verification: each becomes a
// "confirmed by platform" verdict and no verifier is called.
// Otherwise claims are verified in order, stopping at the first claim whose
// requester has gone away.
func (p *Pipeline) VerifyMessage(ctx context.Context, msg model.Message) model.MessageResult {
	text := msg.Text
	if strings.TrimSpace(text) == "" {
		text = extract.PlainText(msg.HTML)
	}

	result := model.MessageResult{
		Claims:    p.claims.ExtractClaims(text),
		Citations: []model.Citation{},
		Verdicts:  []model.Verdict{},
	}

	citations, err := p.citations.Scan(msg.HTML)
	if err != nil {
		p.logger.Warn("citation scan failed", zap.Error(err))
	}
	if len(citations) > 0 {
		result.Citations = citations
		result.Verdicts = p.nativeVerdicts(citations, msg.Platform)
		return result
	}

	accuracy := p.platforms.Lookup(msg.Platform)
	for _, verdict := range p.runner.Run(ctx, result.Claims, msg.Platform) {
		verdict.Platform = accuracy
		result.Verdicts = append(result.Verdicts, verdict)
	}

	return result
}

// nativeVerdicts turns platform citations into pseudo-verdicts
func (p *Pipeline) nativeVerdicts(citations []model.Citation, platformID string) []model.Verdict {
	accuracy := p.platforms.Lookup(platformID)
	verdicts := make([]model.Verdict, 0, len(citations))

	for _, c := range citations {
		explanation := "Source cited by the platform."
		if d, ok := p.domains.MatchURL(c.URL); ok {
			explanation = fmt.Sprintf("Source cited by the platform; %s is a trusted %s source.", d.Pattern, d.Category)
		}

		verdicts = append(verdicts, model.Verdict{
			Claim:       c.Title,
			Status:      model.StatusSuccess,
			Verified:    true,
			Confidence:  100,
			Explanation: explanation,
			SourceURL:   c.URL,
			Source:      model.SourceNative,
			Details:     NativeDetails,
			Platform:    accuracy,
		})
	}

	return verdicts
}
