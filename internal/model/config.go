package model

import "time"

// Config is the complete factlens configuration
type Config struct {
	LLM       LLMConfig                   `yaml:"llm" mapstructure:"llm"`
	Search    SearchConfig                `yaml:"search" mapstructure:"search"`
	Pipeline  PipelineConfig              `yaml:"pipeline" mapstructure:"pipeline"`
	Trust     TrustConfig                 `yaml:"trust" mapstructure:"trust"`
	Platforms map[string]PlatformAccuracy `yaml:"platforms" mapstructure:"platforms"`
	Proxy     ProxyConfig                 `yaml:"proxy" mapstructure:"proxy"`
	Log       LogConfig                   `yaml:"log" mapstructure:"log"`
}

// LLMConfig configures the primary verifier's chat-completion endpoint
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"-"` // Environment only; never read from or written to config files
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`

	// Circuit breaker: consecutive failures before the primary verifier is skipped
	BreakerFailures int           `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown" mapstructure:"breaker_cooldown"`
}

// SearchConfig configures the secondary (web-search) verifier
type SearchConfig struct {
	URLTemplate       string        `yaml:"url_template" mapstructure:"url_template"` // %s is replaced by the escaped query
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	ContextChars      int           `yaml:"context_chars" mapstructure:"context_chars"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// PipelineConfig holds extraction limits and per-claim behaviour
type PipelineConfig struct {
	MaxClaims      int           `yaml:"max_claims" mapstructure:"max_claims"`
	MinClaimLength int           `yaml:"min_claim_length" mapstructure:"min_claim_length"`
	MaxCitations   int           `yaml:"max_citations" mapstructure:"max_citations"`
	ClaimTimeout   time.Duration `yaml:"claim_timeout" mapstructure:"claim_timeout"`
	CacheEnabled   bool          `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CacheTTL       time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// TrustConfig lists the domains treated as reliable evidence
type TrustConfig struct {
	Domains []TrustedDomain `yaml:"domains" mapstructure:"domains"`
}

// TrustedDomain is one allowlist entry. Pattern is matched as a
// case-insensitive substring ("nature.com", ".gov", "pubmed").
type TrustedDomain struct {
	Pattern  string         `yaml:"pattern" mapstructure:"pattern" json:"pattern"`
	Category DomainCategory `yaml:"category" mapstructure:"category" json:"category"`
}

// DomainCategory groups trusted domains
type DomainCategory string

const (
	CategoryAcademic   DomainCategory = "academic"
	CategoryGovernment DomainCategory = "government"
	CategoryNews       DomainCategory = "news"
	CategoryReference  DomainCategory = "reference"
)

// ProxyConfig holds outbound proxy settings
type ProxyConfig struct {
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Development bool   `yaml:"development" mapstructure:"development"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        "openai",
			Model:           "gpt-4o-mini",
			Timeout:         30,
			MaxTokens:       400,
			Temperature:     0.1,
			BreakerFailures: 3,
			BreakerCooldown: time.Minute,
		},
		Search: SearchConfig{
			URLTemplate:       "https://www.google.com/search?q=%s",
			Timeout:           15 * time.Second,
			UserAgent:         "Mozilla/5.0 (compatible; factlens/0.1; +https://github.com/ppiankov/factlens)",
			MaxBodyBytes:      2_000_000,
			ContextChars:      2000,
			RespectRobots:     false,
			RequestsPerSecond: 1,
			Burst:             2,
			MaxRetries:        3,
		},
		Pipeline: PipelineConfig{
			MaxClaims:      4,
			MinClaimLength: 20,
			MaxCitations:   5,
			ClaimTimeout:   30 * time.Second,
			CacheEnabled:   true,
			CacheTTL:       10 * time.Minute,
		},
		Trust: TrustConfig{
			Domains: DefaultTrustedDomains(),
		},
		Platforms: DefaultPlatforms(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultTrustedDomains returns the built-in allowlist
func DefaultTrustedDomains() []TrustedDomain {
	academic := []string{
		"nature.com", "thelancet.com", "science.org", "nejm.org",
		"scholar.google", "jstor.org", "pubmed", "ieee.org", "arxiv.org",
		".edu",
	}
	government := []string{".gov", "who.int", "un.org", "worldbank.org", "esa.int"}
	news := []string{
		"reuters.com", "apnews.com", "afp.com", "bloomberg.com",
		"bbc.com", "bbc.co.uk", "npr.org", "pbs.org", "cbc.ca",
		"nytimes.com", "wsj.com", "ft.com", "theguardian.com", "washingtonpost.com",
	}
	reference := []string{"britannica.com", "wikipedia.org"}

	var domains []TrustedDomain
	add := func(category DomainCategory, patterns []string) {
		for _, p := range patterns {
			domains = append(domains, TrustedDomain{Pattern: p, Category: category})
		}
	}
	add(CategoryAcademic, academic)
	add(CategoryGovernment, government)
	add(CategoryNews, news)
	add(CategoryReference, reference)
	return domains
}

// DefaultPlatforms returns the built-in platform accuracy table
func DefaultPlatforms() map[string]PlatformAccuracy {
	return map[string]PlatformAccuracy{
		PlatformChatGPT:  {Name: "ChatGPT", AccuracyPercent: 82, ColorHint: "#10a37f"},
		PlatformGemini:   {Name: "Gemini", AccuracyPercent: 78, ColorHint: "#4285f4"},
		PlatformClaude:   {Name: "Claude", AccuracyPercent: 84, ColorHint: "#d97757"},
		PlatformQwen:     {Name: "Qwen", AccuracyPercent: 72, ColorHint: "#615ced"},
		PlatformTestPage: {Name: "Test Page", AccuracyPercent: 50, ColorHint: "#9ca3af"},
		PlatformUnknown:  {Name: "Unknown Platform", AccuracyPercent: 50, ColorHint: "#9ca3af"},
	}
}
