// Package config persists user settings in ~/.fathom/config.yaml.
// Flags override config values, which override the built-in defaults;
// that resolution happens at the CLI layer, this package only loads,
// validates, and saves.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTokenLimit is the rendered-view budget in tokens.
	DefaultTokenLimit = 1000

	// DefaultMaxSteps bounds the explore loop.
	DefaultMaxSteps = 25

	// DefaultProvider selects the LLM backend.
	DefaultProvider = "openai"
)

// Settings holds the persisted configuration.
type Settings struct {
	// Provider is the LLM backend: "openai" or "gemini".
	Provider string `yaml:"provider,omitempty"`

	// Model overrides the provider's default model.
	Model string `yaml:"model,omitempty"`

	// TokenLimit is the memory tree's rendered-view budget.
	TokenLimit int `yaml:"token_limit,omitempty"`

	// MaxSteps bounds how many explore steps a query may take.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// RPM caps API calls per minute. Zero disables rate limiting.
	RPM int `yaml:"rpm,omitempty"`
}

// Defaults returns settings with every field at its built-in default.
func Defaults() *Settings {
	return &Settings{
		Provider:   DefaultProvider,
		TokenLimit: DefaultTokenLimit,
		MaxSteps:   DefaultMaxSteps,
	}
}

// Validate checks the settings for values the rest of the tool would
// reject later.
func (s *Settings) Validate() error {
	switch s.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown provider %q (expected \"openai\" or \"gemini\")", s.Provider)
	}
	if s.TokenLimit <= 0 {
		return fmt.Errorf("token_limit must be positive, got %d", s.TokenLimit)
	}
	if s.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", s.MaxSteps)
	}
	if s.RPM < 0 {
		return fmt.Errorf("rpm cannot be negative, got %d", s.RPM)
	}
	return nil
}

// DefaultPath returns ~/.fathom/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fathom", "config.yaml"), nil
}

// Load reads settings from path. A missing file yields the defaults;
// fields absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	settings := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Re-apply defaults for fields the file zeroed out or omitted.
	if settings.Provider == "" {
		settings.Provider = DefaultProvider
	}
	if settings.TokenLimit == 0 {
		settings.TokenLimit = DefaultTokenLimit
	}
	if settings.MaxSteps == 0 {
		settings.MaxSteps = DefaultMaxSteps
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to path atomically via a temp file rename.
func Save(path string, settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp config file: %w", err)
	}
	return nil
}
