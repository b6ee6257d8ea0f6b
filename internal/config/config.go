package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/mapscrape/internal/providers"
)

// EnvPrefix namespaces environment overrides, e.g. MAPSCRAPE_SERVER_PORT.
const EnvPrefix = "MAPSCRAPE"

// ${NAME} references inside config values.
var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// Manager owns the loaded Config and swaps it when the file changes.
type Manager struct {
	v      *viper.Viper
	logger *slog.Logger

	mu        sync.RWMutex
	current   *Config
	listeners []func(*Config)
}

// NewManager loads cfgFile on top of DefaultConfig. An empty cfgFile
// searches ./config.yaml then $HOME/.mapscrape/config.yaml. A missing file
// is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New(), logger: slog.Default()}
	m.setDefaults(DefaultConfig())
	m.v.SetEnvPrefix(EnvPrefix)
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	if err := m.readFile(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := m.decode()
	if err != nil {
		return nil, err
	}
	m.current = cfg
	return m, nil
}

func (m *Manager) setDefaults(d *Config) {
	for key, value := range map[string]any{
		"providers":           d.Providers,
		"defaults.provider":   d.Defaults.Provider,
		"defaults.categories": d.Defaults.Categories,
		"server.host":         d.Server.Host,
		"server.port":         d.Server.Port,
		"log.level":           d.Log.Level,
		"log.format":          d.Log.Format,
	} {
		m.v.SetDefault(key, value)
	}
}

func (m *Manager) readFile(cfgFile string) error {
	if cfgFile == "" {
		m.v.SetConfigName("config")
		m.v.SetConfigType("yaml")
		m.v.AddConfigPath(".")
		m.v.AddConfigPath("$HOME/.mapscrape")
	} else {
		m.v.SetConfigFile(cfgFile)
	}

	err := m.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil, errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("error reading config file: %w", err)
	}
}

func (m *Manager) decode() (*Config, error) {
	cfg := new(Config)
	if err := m.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// SetLogger sets where reload failures are reported.
func (m *Manager) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	m.logger = logger
	m.mu.Unlock()
}

// Get returns the current Config. Callers must not mutate it.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// ConfigFileUsed is the path viper read, or "" when none was found.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// OnChange registers fn to run after each successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// WatchConfig reloads the file on every write. A file that fails to decode
// is logged and the previous Config stays in effect.
func (m *Manager) WatchConfig() {
	m.v.OnConfigChange(func(ev fsnotify.Event) {
		cfg, err := m.decode()

		m.mu.Lock()
		if err != nil {
			logger := m.logger
			m.mu.Unlock()
			logger.Error("config reload failed", "file", ev.Name, "error", err)
			return
		}
		m.current = cfg
		listeners := slices.Clone(m.listeners)
		m.mu.Unlock()

		for _, fn := range listeners {
			fn(cfg)
		}
	})
	m.v.WatchConfig()
}

// ResolveEnvVars replaces each ${NAME} in value with os.Getenv(NAME).
// Unset variables become empty.
func ResolveEnvVars(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}
	return envRef.ReplaceAllStringFunc(value, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}

// ToProviderRegistryConfig maps provider settings to providers.RegistryConfig
// with API key references resolved.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	out := providers.RegistryConfig{
		Providers: make(map[string]providers.ProviderConfig, len(c.Providers)),
		Default:   c.Defaults.Provider,
	}
	for name, p := range c.Providers {
		out.Providers[name] = providers.ProviderConfig{
			Type:    p.Type,
			Model:   p.Model,
			APIKey:  ResolveEnvVars(p.APIKey),
			BaseURL: p.BaseURL,
			Timeout: p.Timeout,
			Enabled: p.Enabled,
		}
	}
	return out
}

// Categories is the preset list offered by the UI.
func (c *Config) Categories() []string {
	if len(c.Defaults.Categories) == 0 {
		return PresetCategories
	}
	return c.Defaults.Categories
}

const defaultFileHeader = `# mapscrape configuration
#
# api_key values may reference the environment as ${NAME}, e.g.
#   export GEMINI_API_KEY=...
#
# Provider types:
#   gemini  Gemini with the Google Maps tool (citations fill Google Maps URLs)
#   openai  any OpenAI-compatible chat endpoint (no citations)
#   mock    offline canned table

`

// WriteDefault writes DefaultConfig as YAML to path, overwriting it.
func WriteDefault(path string) error {
	body, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultFileHeader), body...), 0o644)
}
