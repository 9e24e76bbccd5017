// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/job-scout/internal/antiblock"
	"github.com/jonathan/job-scout/internal/browser"
	"github.com/jonathan/job-scout/internal/llm"
	"github.com/jonathan/job-scout/internal/resume"
	"github.com/jonathan/job-scout/internal/scraper"
	"github.com/jonathan/job-scout/internal/search"
)

// EnvPrefix prefixes every environment override; "scraping.max_pages" is read from JOB_SCOUT_SCRAPING_MAX_PAGES.
const EnvPrefix = "JOB_SCOUT"

// DefaultConfigName is the file searched for in the working directory when no path is given.
const DefaultConfigName = "job-scout"

// Config represents the full CLI configuration.
type Config struct {
	Scraping  ScrapingConfig  `mapstructure:"scraping"`
	AntiBlock AntiBlockConfig `mapstructure:"antiblock"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Resume    ResumeConfig    `mapstructure:"resume"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
}

// ScrapingConfig bounds listing and detail page loads.
type ScrapingConfig struct {
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	DefaultMaxJobs  int           `mapstructure:"default_max_jobs" validate:"min=1"`
	MaxJobsLimit    int           `mapstructure:"max_jobs_limit" validate:"min=1"`
	MaxPages        int           `mapstructure:"max_pages" validate:"min=1"`
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout" validate:"gt=0"`
	MaxRetries      int           `mapstructure:"max_retries" validate:"min=1"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
	SettleDelay     time.Duration `mapstructure:"settle_delay" validate:"gte=0"`
}

// AntiBlockConfig holds pacing and session rotation settings.
type AntiBlockConfig struct {
	MinDelay                 time.Duration `mapstructure:"min_delay" validate:"gte=0"`
	MaxDelay                 time.Duration `mapstructure:"max_delay" validate:"gte=0"`
	Jitter                   float64       `mapstructure:"jitter" validate:"gte=0,lte=1"`
	ReadingPauseEveryMin     int           `mapstructure:"reading_pause_every_min" validate:"min=0"`
	ReadingPauseEveryMax     int           `mapstructure:"reading_pause_every_max" validate:"min=0"`
	ReadingPauseMin          time.Duration `mapstructure:"reading_pause_min" validate:"gte=0"`
	ReadingPauseMax          time.Duration `mapstructure:"reading_pause_max" validate:"gte=0"`
	ExtendedPauseProbability float64       `mapstructure:"extended_pause_probability" validate:"gte=0,lte=1"`
	ExtendedPauseMin         time.Duration `mapstructure:"extended_pause_min" validate:"gte=0"`
	ExtendedPauseMax         time.Duration `mapstructure:"extended_pause_max" validate:"gte=0"`
	MaxRequestsPerSession    int           `mapstructure:"max_requests_per_session" validate:"min=1"`
	MaxSessionDuration       time.Duration `mapstructure:"max_session_duration" validate:"gt=0"`
	MinInterval              time.Duration `mapstructure:"min_interval" validate:"gte=0"`
	TimeAware                bool          `mapstructure:"time_aware"`
	Proxies                  []string      `mapstructure:"proxies" validate:"dive,url"`
}

// BrowserConfig selects the page driver.
type BrowserConfig struct {
	Headless bool   `mapstructure:"headless"`
	ExecPath string `mapstructure:"exec_path"`
	// Driver is "chrome" for a real browser or "http" for plain requests.
	Driver string `mapstructure:"driver" validate:"oneof=chrome http"`
}

// LLMConfig selects the provider and bounds each call.
type LLMConfig struct {
	Provider               string        `mapstructure:"provider" validate:"oneof=gemini mistral"`
	Model                  string        `mapstructure:"model"`
	APIKey                 string        `mapstructure:"api_key"`
	APIKeyFile             string        `mapstructure:"api_key_file"`
	BaseURL                string        `mapstructure:"base_url" validate:"omitempty,url"`
	Temperature            float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Timeout                time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxAttempts            int           `mapstructure:"max_attempts" validate:"min=1"`
	BaseDelay              time.Duration `mapstructure:"base_delay" validate:"gte=0"`
	MaxDelay               time.Duration `mapstructure:"max_delay" validate:"gte=0"`
	MaxJobDescriptionChars int           `mapstructure:"max_job_description_chars" validate:"min=1"`
	MaxResumeChars         int           `mapstructure:"max_resume_chars" validate:"min=1"`
}

// ResumeConfig limits accepted resume files.
type ResumeConfig struct {
	MaxFileBytes      int64    `mapstructure:"max_file_bytes" validate:"min=1"`
	AllowedExtensions []string `mapstructure:"allowed_extensions" validate:"min=1,dive,startswith=."`
}

// CacheConfig selects where match results are kept.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend" validate:"oneof=memory redis"`
	RedisURL string        `mapstructure:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers a default for every key so environment overrides apply
// even when no config file is present.
func SetDefaults(v *viper.Viper) {
	pacing := antiblock.DefaultPacing()
	anti := antiblock.DefaultConfig()
	listing := scraper.DefaultListingConfig()
	chrome := browser.DefaultOptions()
	gemini := llm.DefaultGeminiConfig()

	v.SetDefault("scraping.base_url", search.DefaultBaseURL)
	v.SetDefault("scraping.default_max_jobs", 5)
	v.SetDefault("scraping.max_jobs_limit", 50)
	v.SetDefault("scraping.max_pages", 1)
	v.SetDefault("scraping.page_load_timeout", chrome.PageLoadTimeout)
	v.SetDefault("scraping.max_retries", listing.MaxRetries)
	v.SetDefault("scraping.retry_delay", listing.RetryDelay)
	v.SetDefault("scraping.settle_delay", chrome.SettleDelay)

	v.SetDefault("antiblock.min_delay", pacing.MinDelay)
	v.SetDefault("antiblock.max_delay", pacing.MaxDelay)
	v.SetDefault("antiblock.jitter", pacing.Jitter)
	v.SetDefault("antiblock.reading_pause_every_min", pacing.ReadingPauseEveryMin)
	v.SetDefault("antiblock.reading_pause_every_max", pacing.ReadingPauseEveryMax)
	v.SetDefault("antiblock.reading_pause_min", pacing.ReadingPauseMin)
	v.SetDefault("antiblock.reading_pause_max", pacing.ReadingPauseMax)
	v.SetDefault("antiblock.extended_pause_probability", pacing.ExtendedPauseProbability)
	v.SetDefault("antiblock.extended_pause_min", pacing.ExtendedPauseMin)
	v.SetDefault("antiblock.extended_pause_max", pacing.ExtendedPauseMax)
	v.SetDefault("antiblock.max_requests_per_session", anti.MaxRequestsPerSession)
	v.SetDefault("antiblock.max_session_duration", anti.MaxSessionDuration)
	v.SetDefault("antiblock.min_interval", pacing.MinInterval)
	v.SetDefault("antiblock.time_aware", false)
	v.SetDefault("antiblock.proxies", []string{})

	v.SetDefault("browser.headless", chrome.Headless)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.driver", "chrome")

	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.api_key_file", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", gemini.Temperature)
	v.SetDefault("llm.timeout", gemini.Timeout)
	v.SetDefault("llm.max_attempts", gemini.Retry.MaxAttempts)
	v.SetDefault("llm.base_delay", gemini.Retry.BaseDelay)
	v.SetDefault("llm.max_delay", gemini.Retry.MaxDelay)
	v.SetDefault("llm.max_job_description_chars", 2000)
	v.SetDefault("llm.max_resume_chars", 5000)

	v.SetDefault("resume.max_file_bytes", resume.DefaultMaxBytes)
	v.SetDefault("resume.allowed_extensions", resume.DefaultExtensions)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.prefix", "job-scout")
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// NewViper returns a viper instance with defaults and environment overrides registered.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads path (YAML, JSON or TOML by extension) into v and decodes the
// result. With an empty path, DefaultConfigName is looked up in the working
// directory and its absence is not an error.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the rules that span fields.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	ordered := []struct {
		lo, hi   int64
		min, max string
	}{
		{int64(c.AntiBlock.MinDelay), int64(c.AntiBlock.MaxDelay), "antiblock.min_delay", "antiblock.max_delay"},
		{int64(c.AntiBlock.ReadingPauseMin), int64(c.AntiBlock.ReadingPauseMax), "antiblock.reading_pause_min", "antiblock.reading_pause_max"},
		{int64(c.AntiBlock.ReadingPauseEveryMin), int64(c.AntiBlock.ReadingPauseEveryMax), "antiblock.reading_pause_every_min", "antiblock.reading_pause_every_max"},
		{int64(c.AntiBlock.ExtendedPauseMin), int64(c.AntiBlock.ExtendedPauseMax), "antiblock.extended_pause_min", "antiblock.extended_pause_max"},
		{int64(c.LLM.BaseDelay), int64(c.LLM.MaxDelay), "llm.base_delay", "llm.max_delay"},
		{int64(c.Scraping.DefaultMaxJobs), int64(c.Scraping.MaxJobsLimit), "scraping.default_max_jobs", "scraping.max_jobs_limit"},
	}
	for _, o := range ordered {
		if o.lo > o.hi {
			return fmt.Errorf("config error: '%s' must not exceed '%s'", o.min, o.max)
		}
	}
	return nil
}

// AntiBlockStrategy converts the antiblock section.
func (c *Config) AntiBlockStrategy() antiblock.Config {
	a := c.AntiBlock
	return antiblock.Config{
		Pacing: antiblock.Pacing{
			MinDelay:                 a.MinDelay,
			MaxDelay:                 a.MaxDelay,
			Jitter:                   a.Jitter,
			ReadingPauseEveryMin:     a.ReadingPauseEveryMin,
			ReadingPauseEveryMax:     a.ReadingPauseEveryMax,
			ReadingPauseMin:          a.ReadingPauseMin,
			ReadingPauseMax:          a.ReadingPauseMax,
			ExtendedPauseProbability: a.ExtendedPauseProbability,
			ExtendedPauseMin:         a.ExtendedPauseMin,
			ExtendedPauseMax:         a.ExtendedPauseMax,
			MinInterval:              a.MinInterval,
		},
		MaxRequestsPerSession: a.MaxRequestsPerSession,
		MaxSessionDuration:    a.MaxSessionDuration,
		Proxies:               a.Proxies,
		TimeAware:             a.TimeAware,
	}
}

// ListingConfig converts the retry settings for the listing scraper.
func (c *Config) ListingConfig() scraper.ListingConfig {
	return scraper.ListingConfig{MaxRetries: c.Scraping.MaxRetries, RetryDelay: c.Scraping.RetryDelay}
}

// BrowserOptions converts the settings for ChromeLauncher.
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Headless:        c.Browser.Headless,
		ExecPath:        c.Browser.ExecPath,
		PageLoadTimeout: c.Scraping.PageLoadTimeout,
		SettleDelay:     c.Scraping.SettleDelay,
	}
}

// LLMSettings builds the provider configuration. An explicit model replaces every tier.
func (c *Config) LLMSettings() *llm.Config {
	cfg := llm.DefaultConfigFor(llm.Provider(c.LLM.Provider))
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(llm.TierStandard, c.LLM.Model).WithModel(llm.TierLite, c.LLM.Model)
	}
	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	cfg.Temperature = c.LLM.Temperature
	cfg.Timeout = c.LLM.Timeout
	cfg.Retry = llm.RetryPolicy{MaxAttempts: c.LLM.MaxAttempts, BaseDelay: c.LLM.BaseDelay, MaxDelay: c.LLM.MaxDelay}
	return cfg
}

// providerKeyEnv names the environment variable holding each provider's key.
var providerKeyEnv = map[string]string{
	string(llm.ProviderGemini):  "GEMINI_API_KEY",
	string(llm.ProviderMistral): "MISTRAL_API_KEY",
}

// APIKey resolves the provider key from llm.api_key, then llm.api_key_file,
// then the provider's environment variable.
func (c *Config) APIKey() (string, error) {
	if key := strings.TrimSpace(c.LLM.APIKey); key != "" {
		return key, nil
	}

	if file := strings.TrimSpace(c.LLM.APIKeyFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading API key from file %q: %w", file, err)
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", fmt.Errorf("API key file %q is empty", file)
		}
		return key, nil
	}

	env := providerKeyEnv[c.LLM.Provider]
	if key := strings.TrimSpace(os.Getenv(env)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("API key for %s is not configured (set llm.api_key, llm.api_key_file or %s)", c.LLM.Provider, env)
}
