package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/factlens/internal/model"
	"go.uber.org/zap"
)

// ErrNoCredential is returned when a hosted provider is configured without an API key
var ErrNoCredential = errors.New("llm API key is not configured")

// Provider defines the interface for chat-completion endpoints
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a system+user message pair and returns the completion text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is one system+user exchange
type CompletionRequest struct {
	System string
	Prompt string

	// Model overrides the provider's configured model
	Model string

	MaxTokens   int
	Temperature float32

	// JSON asks the endpoint for a JSON object where it supports that
	JSON bool
}

// CompletionResponse is the text returned by the endpoint
type CompletionResponse struct {
	Content    string
	Model      string
	TokensUsed int
}

// StatusError is a non-success HTTP status from an LLM endpoint
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error (%d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	MaxTokens   int
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	Logger *zap.Logger
}

// ConfigFromModel converts the application config to an llm.Config
func ConfigFromModel(llmCfg model.LLMConfig, proxy model.ProxyConfig, logger *zap.Logger) Config {
	return Config{
		Provider:    llmCfg.Provider,
		Model:       llmCfg.Model,
		APIKey:      llmCfg.APIKey,
		BaseURL:     llmCfg.BaseURL,
		Timeout:     llmCfg.Timeout,
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
		HTTPProxy:   proxy.HTTPProxy,
		HTTPSProxy:  proxy.HTTPSProxy,
		NoProxy:     proxy.NoProxy,
		Logger:      logger,
	}
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c Config) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 400
}

func (c Config) temperature(req CompletionRequest) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return c.Temperature
}
