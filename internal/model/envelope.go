package model

// Action names a request the presentation layer can send
type Action string

const (
	ActionVerifyClaim      Action = "verify_claim"
	ActionVerifyMessage    Action = "verify_message"
	ActionPlatformAccuracy Action = "platform_accuracy"
	ActionDetectPlatform   Action = "detect_platform"
)

// VerificationRequest is the envelope received from the presentation layer
type VerificationRequest struct {
	ID       string `json:"id,omitempty"`
	Action   Action `json:"action"`
	Claim    string `json:"claim,omitempty"`
	Platform string `json:"platform,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Text     string `json:"text,omitempty"`
	HTML     string `json:"html,omitempty"`
}

// VerificationResponse is the envelope sent back to the presentation layer.
// Exactly one of the payload fields is set, or Error.
type VerificationResponse struct {
	ID       string            `json:"id,omitempty"`
	Action   Action            `json:"action"`
	Verdict  *Verdict          `json:"verdict,omitempty"`
	Accuracy *PlatformAccuracy `json:"accuracy,omitempty"`
	Platform string            `json:"platform,omitempty"`
	Result   *MessageResult    `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// MessageResult holds everything produced for one assistant message
type MessageResult struct {
	Claims    []string   `json:"claims"`
	Citations []Citation `json:"citations"`
	Verdicts  []Verdict  `json:"verdicts"`
}
