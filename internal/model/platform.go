package model

// PlatformAccuracy is display metadata about a chatbot platform's historical accuracy
type PlatformAccuracy struct {
	Name            string `json:"name" yaml:"name" mapstructure:"name"`
	AccuracyPercent int    `json:"accuracyPercent" yaml:"accuracy_percent" mapstructure:"accuracy_percent"`
	ColorHint       string `json:"colorHint" yaml:"color_hint" mapstructure:"color_hint"`
}

// Platform identifiers known out of the box
const (
	PlatformChatGPT  = "chatgpt"
	PlatformGemini   = "gemini"
	PlatformClaude   = "claude"
	PlatformQwen     = "qwen"
	PlatformTestPage = "test_page"
	PlatformUnknown  = "unknown"
)
