package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/factlens/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FACTLENS_LLM_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OLLAMA_BASE_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearCredentialEnv(t)

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	want := model.DefaultConfig()
	assert.Equal(t, want.LLM, cfg.LLM)
	assert.Equal(t, want.Search, cfg.Search)
	assert.Equal(t, want.Pipeline, cfg.Pipeline)
	assert.Equal(t, want.Trust.Domains, cfg.Trust.Domains)
	assert.Equal(t, want.Platforms, cfg.Platforms)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	clearCredentialEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: Anthropic
  model: claude-3-5-haiku-20241022
search:
  timeout: 5s
  respect_robots: true
pipeline:
  max_claims: 2
trust:
  domains:
    - pattern: example.org
      category: reference
platforms:
  chatgpt:
    name: ChatGPT
    accuracy_percent: 90
    color_hint: "#000000"
`), 0o600))

	v := viper.New()
	configureViper(v, path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.True(t, cfg.Search.RespectRobots)
	assert.Equal(t, 2, cfg.Pipeline.MaxClaims)
	assert.Equal(t, 20, cfg.Pipeline.MinClaimLength, "unset keys keep their defaults")

	assert.Equal(t, []model.TrustedDomain{{Pattern: "example.org", Category: model.CategoryReference}}, cfg.Trust.Domains)

	assert.Equal(t, 90, cfg.Platforms[model.PlatformChatGPT].AccuracyPercent)
	assert.Equal(t, 78, cfg.Platforms[model.PlatformGemini].AccuracyPercent, "platforms not in the file keep their defaults")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("FACTLENS_LLM_MODEL", "gpt-4o")
	t.Setenv("FACTLENS_PIPELINE_CACHE_ENABLED", "false")
	t.Setenv("FACTLENS_PROXY_HTTP_PROXY", "http://proxy.local:3128")

	v := viper.New()
	configureViper(v, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.False(t, cfg.Pipeline.CacheEnabled)
	assert.Equal(t, "http://proxy.local:3128", cfg.Proxy.HTTPProxy)
}

func TestLoadConfig_Credentials(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		wantKey  string
		wantBase string
	}{
		{
			name:     "openai key",
			provider: "openai",
			env:      map[string]string{"OPENAI_API_KEY": "sk-openai"},
			wantKey:  "sk-openai",
		},
		{
			name:     "anthropic key",
			provider: "anthropic",
			env:      map[string]string{"ANTHROPIC_API_KEY": "sk-ant", "OPENAI_API_KEY": "sk-openai"},
			wantKey:  "sk-ant",
		},
		{
			name:     "claude alias",
			provider: "claude",
			env:      map[string]string{"ANTHROPIC_API_KEY": "sk-ant"},
			wantKey:  "sk-ant",
		},
		{
			name:     "explicit key wins",
			provider: "openai",
			env:      map[string]string{"FACTLENS_LLM_API_KEY": "explicit", "OPENAI_API_KEY": "sk-openai"},
			wantKey:  "explicit",
		},
		{
			name:     "ollama base url",
			provider: "ollama",
			env:      map[string]string{"OLLAMA_BASE_URL": "http://gpu-box:11434"},
			wantBase: "http://gpu-box:11434",
		},
		{
			name:     "no credential",
			provider: "openai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentialEnv(t)
			t.Setenv("FACTLENS_LLM_PROVIDER", tt.provider)
			for k, val := range tt.env {
				t.Setenv(k, val)
			}

			v := viper.New()
			configureViper(v, filepath.Join(t.TempDir(), "missing.yaml"))

			cfg, err := loadConfig(v)
			require.NoError(t, err)

			assert.Equal(t, tt.wantKey, cfg.LLM.APIKey)
			assert.Equal(t, tt.wantBase, cfg.LLM.BaseURL)
		})
	}
}

func TestLoadConfig_IgnoresKeyInFile(t *testing.T) {
	clearCredentialEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: openai\n  api_key: sk-from-file\n"), 0o600))

	v := viper.New()
	configureViper(v, path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.APIKey)

	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg, err = loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	const key = "FACTLENS_TEST_ENV_FILE_VALUE"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte(key+"=local\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=shared\n"), 0o600))

	require.NoError(t, loadEnvFiles())
	assert.Equal(t, "local", os.Getenv(key), ".env.local is loaded first and is not overridden")
}

func TestLoadEnvFiles_Missing(t *testing.T) {
	chdirForTest(t, t.TempDir())

	assert.NoError(t, loadEnvFiles())
}

func TestRenderDefaultConfig(t *testing.T) {
	clearCredentialEnv(t)

	var buf bytes.Buffer
	require.NoError(t, renderDefaultConfig(&buf))

	assert.NotContains(t, buf.String(), "api_key")

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(&buf))

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	want := model.DefaultConfig()
	assert.Equal(t, want.Search, cfg.Search)
	assert.Equal(t, want.Pipeline, cfg.Pipeline)
	assert.Equal(t, want.LLM.BreakerCooldown, cfg.LLM.BreakerCooldown)
	assert.Len(t, cfg.Trust.Domains, len(want.Trust.Domains))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
