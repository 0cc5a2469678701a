package model

import "errors"

// Status reports whether a verification run completed
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// VerdictSource names the verifier that produced a verdict
type VerdictSource string

const (
	SourcePrimary  VerdictSource = "primary"  // LLM fact-checking call
	SourceFallback VerdictSource = "fallback" // Web-search fallback
	SourceNative   VerdictSource = "native"   // Citation embedded by the host platform
)

// DefaultConfidence is reported when a verifier could not estimate confidence
const DefaultConfidence = 50

// MismatchDetails is reported when a trusted source was found but the claim's numbers were not
const MismatchDetails = "Potential data mismatch found in sources."

// ErrCollaboratorUnavailable signals that the calling context's channel is gone.
// A batch stops at the first claim that reports it.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

// Verdict is the verification result for one claim
type Verdict struct {
	Claim       string           `json:"claim"`
	Status      Status           `json:"status"`
	Verified    bool             `json:"verified"`
	Confidence  int              `json:"confidence"` // 0-100
	Explanation string           `json:"explanation,omitempty"`
	SourceURL   string           `json:"sourceUrl,omitempty"`
	Warning     bool             `json:"warning"` // Trusted source found, claim numbers missing from it
	Source      VerdictSource    `json:"source"`
	Details     string           `json:"details,omitempty"`
	Platform    PlatformAccuracy `json:"platform"`
}

// ErrorVerdict builds a status=error verdict for a claim
func ErrorVerdict(claim string, source VerdictSource, details string) Verdict {
	return Verdict{
		Claim:      claim,
		Status:     StatusError,
		Confidence: DefaultConfidence,
		Source:     source,
		Details:    details,
	}
}

// ClampConfidence bounds a confidence value to 0-100
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
