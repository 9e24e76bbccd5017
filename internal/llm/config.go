// Package llm provides centralized LLM configuration, provider clients and
// schema-checked structured extraction.
package llm

import "time"

// ModelTier selects a model by how much reasoning a call needs.
type ModelTier string

const (
	TierLite     ModelTier = "lite"
	TierStandard ModelTier = "standard"
)

// Provider names an LLM backend.
type Provider string

const (
	ProviderGemini  Provider = "gemini"
	ProviderMistral Provider = "mistral"
)

// RetryPolicy bounds retries of failed LLM calls. The delay before retry n
// (counting from zero) is BaseDelay * 2^n, capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy returns three attempts starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 8 * time.Second}
}

// Backoff returns the delay to wait after the given zero-based failed attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Config selects the provider, models and call limits.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	// Timeout bounds a single request/response round trip.
	Timeout time.Duration
	Retry   RetryPolicy
	// BaseURL overrides the provider endpoint (Mistral only).
	BaseURL string
}

// DefaultConfig is DefaultGeminiConfig.
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig uses the 2.5 flash models.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: 0.3,
		Timeout:     30 * time.Second,
		Retry:       DefaultRetryPolicy(),
	}
}

// DefaultMistralConfig uses mistral-small for both tiers.
func DefaultMistralConfig() *Config {
	return &Config{
		Provider: ProviderMistral,
		Models: map[ModelTier]string{
			TierLite:     "mistral-small-latest",
			TierStandard: "mistral-small-latest",
		},
		Temperature: 0.3,
		Timeout:     30 * time.Second,
		Retry:       DefaultRetryPolicy(),
		BaseURL:     DefaultMistralBaseURL,
	}
}

// DefaultConfigFor returns the defaults for provider, falling back to Gemini.
func DefaultConfigFor(provider Provider) *Config {
	if provider == ProviderMistral {
		return DefaultMistralConfig()
	}
	return DefaultGeminiConfig()
}

// GetModel returns the model for tier. A tier with no entry falls back to
// standard and then lite; "" means nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model := c.Models[t]; model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c using model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return &out
}
