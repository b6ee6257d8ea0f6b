package config

import (
	"time"
)

// Config holds mapscrape configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Server    ServerCfg              `mapstructure:"server" yaml:"server"`
	Log       LogCfg                 `mapstructure:"log" yaml:"log"`
	Prompts   []PromptOverrideCfg    `mapstructure:"prompts" yaml:"prompts,omitempty"`
}

// PromptOverrideCfg replaces an embedded prompt.
// Kept as a list because prompt keys contain dots.
type PromptOverrideCfg struct {
	Key  string `mapstructure:"key" yaml:"key"` // e.g. places.system
	Text string `mapstructure:"text" yaml:"text"`
}

// ProviderCfg configures a generation provider.
type ProviderCfg struct {
	Type    string        `mapstructure:"type" yaml:"type"`         // "gemini", "openai", "mock"
	Model   string        `mapstructure:"model" yaml:"model"`       // Model name
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`   // API key (supports ${ENV_VAR} syntax)
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"` // Optional endpoint override
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`   // HTTP timeout
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	Provider   string   `mapstructure:"provider" yaml:"provider"`     // Default provider
	Categories []string `mapstructure:"categories" yaml:"categories"` // Preset categories offered by the UI
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// LogCfg holds logger settings.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// PresetCategories are the business categories offered out of the box.
var PresetCategories = []string{
	"Coffee Shops",
	"Restaurants",
	"Hotels",
	"Hospitals",
	"Gyms & Fitness",
	"Pharmacies",
	"Supermarkets",
	"Banks",
	"Real Estate Agencies",
	"Car Repair",
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	categories := make([]string, len(PresetCategories))
	copy(categories, PresetCategories)

	return &Config{
		Providers: map[string]ProviderCfg{
			"gemini": {
				Type:    "gemini",
				Model:   "gemini-2.5-flash",
				APIKey:  "${GEMINI_API_KEY}",
				Timeout: 5 * time.Minute,
				Enabled: true,
			},
		},
		Defaults: DefaultsCfg{
			Provider:   "gemini",
			Categories: categories,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
	}
}

// PromptOverrides returns the prompt overrides keyed by prompt key.
func (c *Config) PromptOverrides() map[string]string {
	result := make(map[string]string, len(c.Prompts))
	for _, p := range c.Prompts {
		if p.Key != "" {
			result[p.Key] = p.Text
		}
	}
	return result
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
