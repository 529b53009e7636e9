package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogConfig.Level)
	assert.False(t, cfg.LogConfig.Development)
	assert.Equal(t, "assets", cfg.AssetsConfig.Dir)
	assert.Equal(t, "https://www.googleapis.com/fitness/v1", cfg.FitConfig.BaseURL)
	assert.False(t, cfg.FitConfig.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STILLPOINT_LOG_LEVEL", "debug")
	t.Setenv("STILLPOINT_LOG_DEV", "true")
	t.Setenv("STILLPOINT_ASSETS_DIR", "/opt/stillpoint")
	t.Setenv("STILLPOINT_FIT_CLIENT_ID", "client-123")
	t.Setenv("STILLPOINT_JOURNAL_PATH", "/tmp/journal.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogConfig.Level)
	assert.True(t, cfg.LogConfig.Development)
	assert.Equal(t, "/opt/stillpoint", cfg.AssetsConfig.Dir)
	assert.Equal(t, "client-123", cfg.FitConfig.ClientID)
	assert.True(t, cfg.FitConfig.Enabled())
	assert.Equal(t, "/tmp/journal.db", cfg.JournalConfig.Path)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("STILLPOINT_LOG_DEV", "sometimes")
	_, err := Load()
	assert.Error(t, err)
}
