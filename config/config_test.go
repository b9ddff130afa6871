package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LLM_PROVIDER", "OPENAI_MODEL", "PROVIDER_TIMEOUT", "SINGLE_MAX_TOKENS", "COMPARE_MAX_TOKENS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 60*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 1000, cfg.SingleMaxTokens)
	assert.Equal(t, 1600, cfg.CompareMaxTokens)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:             "3000",
			LLMProvider:      ProviderOpenAI,
			OpenAIAPIKey:     "sk-test",
			ProviderTimeout:  time.Second,
			SingleMaxTokens:  1000,
			CompareMaxTokens: 1600,
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.OpenAIAPIKey = ""
	assert.ErrorContains(t, cfg.Validate(), "OPENAI_API_KEY")

	cfg = base()
	cfg.LLMProvider = ProviderGemini
	assert.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")

	cfg = base()
	cfg.LLMProvider = ProviderStub
	cfg.OpenAIAPIKey = ""
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.LLMProvider = "anthropic"
	assert.ErrorContains(t, cfg.Validate(), "unknown LLM_PROVIDER")

	cfg = base()
	cfg.Port = "http"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.ProviderTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.AllowedOrigins = "https://app.example.com, http://localhost:8081"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.AllowedOrigins = "app.example.com"
	assert.ErrorContains(t, cfg.Validate(), "ALLOWED_ORIGINS")
}
