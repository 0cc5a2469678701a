package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	"github.com/ppiankov/factlens/internal/llm"
	"github.com/ppiankov/factlens/internal/model"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// maxExplanationRunes bounds explanations taken from unstructured output
const maxExplanationRunes = 300

// LLMVerifier is the primary verifier: one fact-checking chat completion per claim
type LLMVerifier struct {
	provider llm.Provider
	model    string
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

// llmVerdict is the structured output requested from the model
type llmVerdict struct {
	Verified    *bool    `json:"verified"`
	Confidence  *float64 `json:"confidence"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
}

// NewLLMVerifier creates the primary verifier. A nil provider is allowed:
// every call then fails with a NetworkError wrapping llm.ErrNoCredential.
func NewLLMVerifier(provider llm.Provider, cfg model.LLMConfig, logger *zap.Logger) *LLMVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	failures := cfg.BreakerFailures
	if failures <= 0 {
		failures = 3
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = time.Minute
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm-verifier",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about the endpoint
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &LLMVerifier{
		provider: provider,
		model:    cfg.Model,
		breaker:  breaker,
		logger:   logger,
	}
}

// Available reports whether a provider is configured
func (v *LLMVerifier) Available() bool {
	return v.provider != nil
}

// Verify asks the LLM to judge claim. Any returned error is a *NetworkError;
// malformed output degrades to the textual heuristic instead of failing.
func (v *LLMVerifier) Verify(ctx context.Context, claim string) (model.Verdict, error) {
	if v.provider == nil {
		return model.Verdict{}, &NetworkError{Op: "llm", Err: llm.ErrNoCredential}
	}

	out, err := v.breaker.Execute(func() (interface{}, error) {
		return v.provider.Complete(ctx, llm.CompletionRequest{
			System: systemPrompt,
			Prompt: buildUserPrompt(claim),
			Model:  v.model,
			JSON:   true,
		})
	})
	if err != nil {
		netErr := &NetworkError{Op: "llm", Err: err}
		var statusErr *llm.StatusError
		if errors.As(err, &statusErr) {
			netErr.StatusCode = statusErr.StatusCode
		}
		return model.Verdict{}, netErr
	}

	resp, ok := out.(*llm.CompletionResponse)
	if !ok || resp == nil {
		return model.Verdict{}, &NetworkError{Op: "llm", Err: errors.New("empty completion")}
	}

	parsed, err := parseStructured(resp.Content)
	if err != nil {
		v.logger.Debug("falling back to textual heuristic",
			zap.String("claim", claim), zap.Error(err))
		return heuristicVerdict(claim, resp.Content), nil
	}

	return structuredVerdict(claim, parsed), nil
}

// parseStructured extracts, repairs and decodes the JSON object in content
func parseStructured(content string) (llmVerdict, error) {
	candidate := extractJSONObject(content)
	if candidate == "" {
		return llmVerdict{}, &MalformedResponseError{Raw: content, Err: errors.New("no JSON object in response")}
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return llmVerdict{}, &MalformedResponseError{Raw: content, Err: fmt.Errorf("repair JSON: %w", err)}
	}

	var parsed llmVerdict
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return llmVerdict{}, &MalformedResponseError{Raw: content, Err: fmt.Errorf("decode verdict: %w", err)}
	}
	if parsed.Verified == nil {
		return llmVerdict{}, &MalformedResponseError{Raw: content, Err: errors.New(`missing "verified" field`)}
	}

	return parsed, nil
}

// extractJSONObject returns the span from the first '{' to the last '}'.
// A response with an opening brace but no closing one is returned whole from
// the brace so that truncated output can still be repaired.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(content, "}")
	if end < start {
		return content[start:]
	}
	return content[start : end+1]
}

func structuredVerdict(claim string, parsed llmVerdict) model.Verdict {
	confidence := model.DefaultConfidence
	if parsed.Confidence != nil {
		confidence = model.ClampConfidence(int(math.Round(*parsed.Confidence)))
	}

	return model.Verdict{
		Claim:       claim,
		Status:      model.StatusSuccess,
		Verified:    *parsed.Verified,
		Confidence:  confidence,
		Explanation: strings.TrimSpace(parsed.Explanation),
		SourceURL:   firstHTTPURL(parsed.Sources),
		Source:      model.SourcePrimary,
	}
}

// heuristicVerdict judges unstructured output by its wording
func heuristicVerdict(claim, content string) model.Verdict {
	return model.Verdict{
		Claim:       claim,
		Status:      model.StatusSuccess,
		Verified:    TextSaysVerified(content),
		Confidence:  model.DefaultConfidence,
		Explanation: truncateRunes(strings.TrimSpace(content), maxExplanationRunes),
		Source:      model.SourcePrimary,
	}
}

// TextSaysVerified is the degraded-mode check: the text mentions "verified"
// but neither "not verified" nor "cannot verify" (case-insensitive).
func TextSaysVerified(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "verified") &&
		!strings.Contains(lower, "not verified") &&
		!strings.Contains(lower, "cannot verify")
}

func firstHTTPURL(sources []string) string {
	for _, s := range sources {
		s = strings.TrimSpace(s)
		u, err := url.Parse(s)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			return s
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
