package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-scout/internal/llm"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://www.seek.com.au", cfg.Scraping.BaseURL)
	assert.Equal(t, 5, cfg.Scraping.DefaultMaxJobs)
	assert.Equal(t, 50, cfg.Scraping.MaxJobsLimit)
	assert.Equal(t, 1, cfg.Scraping.MaxPages)
	assert.Equal(t, 30*time.Second, cfg.Scraping.PageLoadTimeout)
	assert.Equal(t, 2*time.Second, cfg.AntiBlock.MinDelay)
	assert.Equal(t, 4*time.Second, cfg.AntiBlock.MaxDelay)
	assert.Equal(t, 10, cfg.AntiBlock.MaxRequestsPerSession)
	assert.Equal(t, 30*time.Minute, cfg.AntiBlock.MaxSessionDuration)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, 2000, cfg.LLM.MaxJobDescriptionChars)
	assert.Equal(t, 5000, cfg.LLM.MaxResumeChars)
	assert.Equal(t, int64(10*1024*1024), cfg.Resume.MaxFileBytes)
	assert.Equal(t, []string{".txt", ".md"}, cfg.Resume.AllowedExtensions)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Browser.Headless)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := writeFile(t, "job-scout.yaml", `
scraping:
  max_pages: 3
  retry_delay: 500ms
antiblock:
  min_delay: 1s
  max_delay: 3s
  proxies:
    - http://proxy-1:8080
llm:
  provider: mistral
  model: mistral-large-latest
cache:
  backend: redis
  redis_url: redis://localhost:6379/0
`)

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Scraping.MaxPages)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraping.RetryDelay)
	assert.Equal(t, time.Second, cfg.AntiBlock.MinDelay)
	assert.Equal(t, []string{"http://proxy-1:8080"}, cfg.AntiBlock.Proxies)
	assert.Equal(t, "redis", cfg.Cache.Backend)

	settings := cfg.LLMSettings()
	assert.Equal(t, llm.ProviderMistral, settings.Provider)
	assert.Equal(t, "mistral-large-latest", settings.GetModel(llm.TierStandard))
	assert.Equal(t, llm.DefaultMistralBaseURL, settings.BaseURL)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"scraping": {"default_max_jobs": 10}, "log": {"json": true}}`)

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Scraping.DefaultMaxJobs)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOB_SCOUT_SCRAPING_MAX_PAGES", "4")
	t.Setenv("JOB_SCOUT_LLM_TIMEOUT", "45s")
	t.Setenv("JOB_SCOUT_LOG_DEBUG", "true")

	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Scraping.MaxPages)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.Log.Debug)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		file    string
		wantErr string
	}{
		{name: "invalid yaml", file: "bad.yaml", content: "scraping: [", wantErr: "failed to read config file"},
		{name: "unknown provider", file: "p.yaml", content: "llm:\n  provider: openai\n", wantErr: "Provider"},
		{name: "redis without url", file: "r.yaml", content: "cache:\n  backend: redis\n", wantErr: "RedisURL"},
		{name: "delay bounds", file: "d.yaml", content: "antiblock:\n  min_delay: 5s\n  max_delay: 1s\n", wantErr: "'antiblock.min_delay' must not exceed 'antiblock.max_delay'"},
		{name: "jobs above limit", file: "j.yaml", content: "scraping:\n  default_max_jobs: 80\n", wantErr: "scraping.default_max_jobs"},
		{name: "zero pages", file: "z.yaml", content: "scraping:\n  max_pages: 0\n", wantErr: "MaxPages"},
		{name: "bad proxy", file: "x.yaml", content: "antiblock:\n  proxies: [not a url]\n", wantErr: "Proxies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(NewViper(), writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig(NewViper(), "/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_APIKey(t *testing.T) {
	keyFile := writeFile(t, "key", "  file-key\n")
	emptyFile := writeFile(t, "empty", "\n")

	tests := []struct {
		name    string
		llm     LLMConfig
		env     map[string]string
		want    string
		wantErr string
	}{
		{name: "inline wins", llm: LLMConfig{Provider: "gemini", APIKey: "inline", APIKeyFile: keyFile}, want: "inline"},
		{name: "file", llm: LLMConfig{Provider: "gemini", APIKeyFile: keyFile}, want: "file-key"},
		{name: "empty file", llm: LLMConfig{Provider: "gemini", APIKeyFile: emptyFile}, wantErr: "is empty"},
		{name: "gemini env", llm: LLMConfig{Provider: "gemini"}, env: map[string]string{"GEMINI_API_KEY": "g-key"}, want: "g-key"},
		{name: "mistral env", llm: LLMConfig{Provider: "mistral"}, env: map[string]string{"MISTRAL_API_KEY": "m-key", "GEMINI_API_KEY": "g-key"}, want: "m-key"},
		{name: "missing", llm: LLMConfig{Provider: "mistral"}, wantErr: "MISTRAL_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv("MISTRAL_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &Config{LLM: tt.llm}
			key, err := cfg.APIKey()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestConfig_Conversions(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)

	strategy := cfg.AntiBlockStrategy()
	assert.Equal(t, cfg.AntiBlock.MinDelay, strategy.Pacing.MinDelay)
	assert.Equal(t, time.Second, strategy.Pacing.MinInterval)
	assert.Equal(t, 10, strategy.MaxRequestsPerSession)

	listing := cfg.ListingConfig()
	assert.Equal(t, 3, listing.MaxRetries)
	assert.Equal(t, 2*time.Second, listing.RetryDelay)

	opts := cfg.BrowserOptions()
	assert.True(t, opts.Headless)
	assert.Equal(t, 30*time.Second, opts.PageLoadTimeout)

	settings := cfg.LLMSettings()
	assert.Equal(t, llm.ProviderGemini, settings.Provider)
	assert.Equal(t, "gemini-2.5-flash", settings.GetModel(llm.TierStandard))
	assert.Equal(t, 3, settings.Retry.MaxAttempts)
	assert.Equal(t, 30*time.Second, settings.Timeout)
}
