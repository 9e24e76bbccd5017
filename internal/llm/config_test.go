package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, float32(0.3), config.Temperature)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 3, config.Retry.MaxAttempts)
}

func TestDefaultConfigFor(t *testing.T) {
	mistral := DefaultConfigFor(ProviderMistral)
	assert.Equal(t, ProviderMistral, mistral.Provider)
	assert.Equal(t, "mistral-small-latest", mistral.GetModel(TierStandard))
	assert.Equal(t, DefaultMistralBaseURL, mistral.BaseURL)

	assert.Equal(t, ProviderGemini, DefaultConfigFor("unknown").Provider)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	original := DefaultGeminiConfig()
	modified := original.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "gemini-2.5-flash", original.GetModel(TierStandard))
	assert.Equal(t, "custom-model", modified.GetModel(TierStandard))
	assert.Equal(t, original.Temperature, modified.Temperature)
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 4*time.Second, p.Backoff(2))
	assert.Equal(t, 5*time.Second, p.Backoff(3))
	assert.Equal(t, 5*time.Second, p.Backoff(10))

	uncapped := RetryPolicy{BaseDelay: time.Second}
	assert.Equal(t, 8*time.Second, uncapped.Backoff(3))
}
