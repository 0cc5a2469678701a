// Package platform holds the per-platform accuracy table and hostname detection.
package platform

import (
	"strings"

	"github.com/ppiankov/factlens/internal/model"
)

// hostRule maps a hostname fragment to a platform identifier
type hostRule struct {
	fragment string
	platform string
}

// hostRules are checked last to first so later, more specific rules win
// ("claude" beats "google" on a hostname containing both).
var hostRules = []hostRule{
	{"chatgpt", model.PlatformChatGPT},
	{"openai", model.PlatformChatGPT},
	{"google", model.PlatformGemini},
	{"gemini", model.PlatformGemini},
	{"qwen", model.PlatformQwen},
	{"claude", model.PlatformClaude},
}

// Registry is a read-only lookup of platform accuracy metadata
type Registry struct {
	entries map[string]model.PlatformAccuracy
	unknown model.PlatformAccuracy
}

// NewRegistry copies the given table; nil uses the built-in defaults.
// The "unknown" entry, if present, becomes the fallback.
func NewRegistry(entries map[string]model.PlatformAccuracy) *Registry {
	if entries == nil {
		entries = model.DefaultPlatforms()
	}

	r := &Registry{
		entries: make(map[string]model.PlatformAccuracy, len(entries)),
		unknown: model.PlatformAccuracy{Name: "Unknown Platform", AccuracyPercent: 50, ColorHint: "#9ca3af"},
	}

	for id, entry := range entries {
		entry.AccuracyPercent = model.ClampConfidence(entry.AccuracyPercent)
		r.entries[strings.ToLower(id)] = entry
	}

	if u, ok := r.entries[model.PlatformUnknown]; ok {
		r.unknown = u
	}

	return r
}

// Lookup returns the accuracy entry for a platform id, or the unknown entry
func (r *Registry) Lookup(platformID string) model.PlatformAccuracy {
	if entry, ok := r.entries[strings.ToLower(strings.TrimSpace(platformID))]; ok {
		return entry
	}
	return r.unknown
}

// Known reports whether the id has its own entry
func (r *Registry) Known(platformID string) bool {
	_, ok := r.entries[strings.ToLower(strings.TrimSpace(platformID))]
	return ok
}

// Detect maps a page hostname to a platform id, defaulting to the test page
func Detect(hostname string) string {
	host := strings.ToLower(hostname)
	for i := len(hostRules) - 1; i >= 0; i-- {
		if strings.Contains(host, hostRules[i].fragment) {
			return hostRules[i].platform
		}
	}
	return model.PlatformTestPage
}
