package providers

import (
	"os"
)

// TestConfig holds provider configurations loaded from environment variables.
// This allows tests to use the same configuration pattern as production.
type TestConfig struct {
	GeminiAPIKey string
}

// LoadTestConfig loads provider API keys from environment variables.
// Returns a TestConfig with whatever keys are available.
func LoadTestConfig() TestConfig {
	return TestConfig{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
}

// HasGemini returns true if a Gemini API key is configured.
func (c TestConfig) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

// NewGeminiClient creates a Gemini client from test config.
// Returns nil if not configured.
func (c TestConfig) NewGeminiClient() *GeminiClient {
	if !c.HasGemini() {
		return nil
	}
	return NewGeminiClient(GeminiConfig{
		APIKey: c.GeminiAPIKey,
	})
}

// ToRegistryConfig converts test config to a RegistryConfig for the provider registry.
// The mock provider is always present; gemini only when a key is configured.
func (c TestConfig) ToRegistryConfig() RegistryConfig {
	cfg := RegistryConfig{
		Providers: map[string]ProviderConfig{
			MockClientName: {Type: MockClientName, Enabled: true},
		},
		Default: MockClientName,
	}

	if c.HasGemini() {
		cfg.Providers[GeminiName] = ProviderConfig{
			Type:    GeminiName,
			APIKey:  c.GeminiAPIKey,
			Enabled: true,
		}
		cfg.Default = GeminiName
	}

	return cfg
}
