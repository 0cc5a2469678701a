package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/factlens/internal/model"
	"github.com/spf13/viper"
)

// envKeys are bound to FACTLENS_<KEY> with dots replaced by underscores
var envKeys = []string{
	"llm.provider",
	"llm.model",
	"llm.base_url",
	"llm.timeout",
	"search.url_template",
	"search.user_agent",
	"search.respect_robots",
	"pipeline.claim_timeout",
	"pipeline.cache_enabled",
	"proxy.http_proxy",
	"proxy.https_proxy",
	"proxy.no_proxy",
	"log.level",
	"log.development",
}

// loadEnvFiles loads .env.local then .env from the working directory.
// Variables already set in the environment are never overridden.
func loadEnvFiles() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// loadConfig merges the defaults, the config file and the environment.
// The LLM credential is only ever read from the environment.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	// Decoding into a pre-filled slice keeps its tail; start the list empty
	cfg.Trust.Domains = nil

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.LLM.APIKey = os.Getenv("FACTLENS_LLM_API_KEY")
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerAPIKey(cfg.LLM.Provider)
	}
	if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	if len(cfg.Trust.Domains) == 0 {
		cfg.Trust.Domains = model.DefaultTrustedDomains()
	}
	if len(cfg.Platforms) == 0 {
		cfg.Platforms = model.DefaultPlatforms()
	}

	return cfg, nil
}

// providerAPIKey reads the vendor's conventional environment variable
func providerAPIKey(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

