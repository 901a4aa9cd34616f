package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultProvider, settings.Provider)
	assert.Equal(t, DefaultTokenLimit, settings.TokenLimit)
	assert.Equal(t, DefaultMaxSteps, settings.MaxSteps)
	assert.Zero(t, settings.RPM)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gpt-4o-mini\nrpm: 30\n"), 0o600))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", settings.Model)
	assert.Equal(t, 30, settings.RPM)
	assert.Equal(t, DefaultProvider, settings.Provider)
	assert.Equal(t, DefaultTokenLimit, settings.TokenLimit)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: claude\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in := &Settings{
		Provider:   "gemini",
		Model:      "gemini-2.5-flash",
		TokenLimit: 2000,
		MaxSteps:   10,
		RPM:        15,
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSaveRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := Save(path, &Settings{Provider: "openai", TokenLimit: -5, MaxSteps: 1})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		ok       bool
	}{
		{"defaults", *Defaults(), true},
		{"gemini", Settings{Provider: "gemini", TokenLimit: 1, MaxSteps: 1}, true},
		{"zero token limit", Settings{Provider: "openai", TokenLimit: 0, MaxSteps: 1}, false},
		{"zero max steps", Settings{Provider: "openai", TokenLimit: 1, MaxSteps: 0}, false},
		{"negative rpm", Settings{Provider: "openai", TokenLimit: 1, MaxSteps: 1, RPM: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
