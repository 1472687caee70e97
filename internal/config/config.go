// Package config loads tripcraft configuration from ~/.tripcraft/config.yaml
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tripcraft/tripcraft/internal/ai"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Provider selects the planning backend: "anthropic" or "gemini".
	Provider string

	// Model overrides the provider's default model when set.
	Model string

	// APIKey overrides the provider's conventional env var when set.
	APIKey string

	// DBPath is the SQLite database location.
	DBPath string

	// Addr is the HTTP server listen address.
	Addr string

	// SuggestDelay is the autocomplete debounce window.
	SuggestDelay time.Duration

	// Retry tunes provider retry and circuit breaker behavior.
	Retry ai.RetryConfig
}

// File is the on-disk YAML shape of config.yaml.
type File struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	DBPath   string `yaml:"db_path"`
	Addr     string `yaml:"addr"`

	SuggestDelayMS int `yaml:"suggest_delay_ms"`

	Retry RetryFile `yaml:"retry"`
}

// RetryFile holds the retry settings of config.yaml.
type RetryFile struct {
	MaxRetries     int    `yaml:"max_retries"`
	InitialBackoff string `yaml:"initial_backoff"` // duration string like "1s"
	MaxBackoff     string `yaml:"max_backoff"`
	Timeout        string `yaml:"timeout"`
}

// Dir returns the tripcraft config directory, ~/.tripcraft by default.
// TRIPCRAFT_HOME overrides it, mainly for tests.
func Dir() string {
	if dir := os.Getenv("TRIPCRAFT_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tripcraft"
	}
	return filepath.Join(home, ".tripcraft")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider:     ai.ProviderAnthropic,
		DBPath:       filepath.Join(Dir(), "trips.db"),
		Addr:         "127.0.0.1:8799",
		SuggestDelay: 600 * time.Millisecond,
		Retry:        ai.DefaultRetryConfig(),
	}
}

// Load resolves configuration in precedence order: defaults, then
// config.yaml if present, then environment variables. A missing config
// file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := Default()

	path := filepath.Join(Dir(), "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		var f File
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if err := f.apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.Provider != ai.ProviderAnthropic && cfg.Provider != ai.ProviderGemini {
		return nil, fmt.Errorf("unknown provider %q (want %s or %s)",
			cfg.Provider, ai.ProviderAnthropic, ai.ProviderGemini)
	}
	return cfg, nil
}

func (f *File) apply(cfg *Config) error {
	if f.Provider != "" {
		cfg.Provider = f.Provider
	}
	if f.Model != "" {
		cfg.Model = f.Model
	}
	if f.APIKey != "" {
		cfg.APIKey = f.APIKey
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
	if f.Addr != "" {
		cfg.Addr = f.Addr
	}
	if f.SuggestDelayMS > 0 {
		cfg.SuggestDelay = time.Duration(f.SuggestDelayMS) * time.Millisecond
	}

	if f.Retry.MaxRetries > 0 {
		cfg.Retry.MaxRetries = f.Retry.MaxRetries
	}
	for _, d := range []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{f.Retry.InitialBackoff, "initial_backoff", &cfg.Retry.InitialBackoff},
		{f.Retry.MaxBackoff, "max_backoff", &cfg.Retry.MaxBackoff},
		{f.Retry.Timeout, "timeout", &cfg.Retry.Timeout},
	} {
		if d.raw == "" {
			continue
		}
		dur, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid retry.%s: %w", d.name, err)
		}
		*d.dst = dur
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRIPCRAFT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("TRIPCRAFT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TRIPCRAFT_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TRIPCRAFT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TRIPCRAFT_ADDR"); v != "" {
		cfg.Addr = v
	}
}

// Save writes cfg to config.yaml, creating the config directory if needed.
func Save(cfg *Config) error {
	f := File{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		DBPath:         cfg.DBPath,
		Addr:           cfg.Addr,
		SuggestDelayMS: int(cfg.SuggestDelay / time.Millisecond),
		Retry: RetryFile{
			MaxRetries:     cfg.Retry.MaxRetries,
			InitialBackoff: cfg.Retry.InitialBackoff.String(),
			MaxBackoff:     cfg.Retry.MaxBackoff.String(),
			Timeout:        cfg.Retry.Timeout.String(),
		},
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	path := filepath.Join(Dir(), "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Example returns an annotated example config.yaml.
func Example() string {
	return `# tripcraft configuration

# Planning backend (anthropic or gemini)
provider: anthropic

# Model override; leave empty for the provider default
model: ""

# API key; leave empty to use ANTHROPIC_API_KEY / GEMINI_API_KEY
api_key: ""

# SQLite database path
db_path: ~/.tripcraft/trips.db

# HTTP server listen address for 'tripcraft serve'
addr: 127.0.0.1:8799

# Autocomplete debounce window in milliseconds
suggest_delay_ms: 600

# Provider retry tuning
retry:
  max_retries: 3
  initial_backoff: 1s
  max_backoff: 30s
  timeout: 90s
`
}
