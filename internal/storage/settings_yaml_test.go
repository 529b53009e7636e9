package storage

import (
	"os"
	"path/filepath"
	"testing"

	"stillpoint/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveThenLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Stillpoint", "settings.yaml")
	settings := preferences.DefaultSettings()
	settings.DefaultMinutes = 12
	settings.AmbientVolume = 0
	settings.AmbientEnabled = false
	settings.BaseModel = "/home/me/lotus.glb"

	require.NoError(t, SaveSettings(path, settings))
	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadSettingsIgnoresOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_minutes: -3\nambient_volume: 4\n"), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 5, settings.DefaultMinutes)
	assert.Equal(t, 0.3, settings.AmbientVolume)
	assert.True(t, settings.AmbientEnabled)
}

func TestLoadSettingsRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_minutes: [\n"), 0o644))

	settings, err := LoadSettings(path)
	assert.Error(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}
