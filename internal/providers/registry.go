package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry holds references to generation clients.
// It supports config-driven instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu          sync.RWMutex
	generators  map[string]Generator
	defaultName string
	logger      *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a generator by name.
func (r *Registry) Register(name string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = g
	if r.logger != nil {
		r.logger.Info("registered generator", "name", name)
	}
}

// Unregister removes a generator by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.generators, name)
	if r.logger != nil {
		r.logger.Info("unregistered generator", "name", name)
	}
}

// SetDefault sets the generator used when no name is given.
func (r *Registry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultName = name
}

// DefaultName returns the default generator name.
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// Get returns a generator by name. An empty name selects the default.
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.defaultName
	}
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("generator not found: %s", name)
	}
	return g, nil
}

// Has checks if a generator is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.generators[name]
	return ok
}

// List returns all registered generator names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegistryConfig defines the providers to instantiate from config.
// This mirrors the config.Config structure for provider setup.
type RegistryConfig struct {
	// Providers maps provider names to their config
	Providers map[string]ProviderConfig

	// Default is the provider used when a search names none
	Default string
}

// ProviderConfig matches config.ProviderCfg with resolved API key.
type ProviderConfig struct {
	Type    string // "gemini", "openai", "mock"
	Model   string
	APIKey  string // Resolved API key, may be empty
	BaseURL string
	Timeout time.Duration
	Enabled bool
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured will be unregistered.
// Providers with changed settings will be re-registered.
//
// Enabled providers are registered even without an API key so a search
// reports the missing credential instead of an unknown provider.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)

	for name, provCfg := range cfg.Providers {
		if !provCfg.Enabled {
			continue
		}

		existing, hasExisting := r.generators[name]
		if hasExisting && !needsUpdate(existing, provCfg) {
			want[name] = true
			continue
		}

		g := createGenerator(provCfg)
		if g == nil {
			if r.logger != nil {
				r.logger.Warn("unknown provider type", "name", name, "type", provCfg.Type)
			}
			continue
		}
		want[name] = true
		r.generators[name] = g
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated generator", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered generator", "name", name, "type", provCfg.Type)
			}
		}
	}

	for name := range r.generators {
		if !want[name] {
			delete(r.generators, name)
			if r.logger != nil {
				r.logger.Info("unregistered generator", "name", name)
			}
		}
	}

	r.defaultName = cfg.Default
}

// createGenerator creates a generator based on provider type.
func createGenerator(cfg ProviderConfig) Generator {
	switch cfg.Type {
	case GeminiName:
		return NewGeminiClient(GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case OpenAIName:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case MockClientName:
		return NewMockClient()
	default:
		return nil
	}
}

// needsUpdate checks if a generator needs to be recreated.
func needsUpdate(g Generator, cfg ProviderConfig) bool {
	switch c := g.(type) {
	case *GeminiClient:
		return cfg.Type != GeminiName ||
			c.apiKey != cfg.APIKey ||
			(cfg.Model != "" && c.model != cfg.Model) ||
			c.baseURL != cfg.BaseURL
	case *OpenAIClient:
		return cfg.Type != OpenAIName ||
			c.apiKey != cfg.APIKey ||
			(cfg.Model != "" && c.model != cfg.Model) ||
			(cfg.BaseURL != "" && c.baseURL != cfg.BaseURL)
	case *MockClient:
		return cfg.Type != MockClientName
	default:
		return true
	}
}
