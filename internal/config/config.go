package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. STILLPOINT_LOG_LEVEL.
const Prefix = "stillpoint"

// Config holds process configuration read from the environment.
// Sections are embedded so their variables share the top-level prefix.
type Config struct {
	LogConfig
	AssetsConfig
	FitConfig
	JournalConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// AssetsConfig locates the bundled models, textures and audio.
type AssetsConfig struct {
	Dir string `envconfig:"ASSETS_DIR" default:"assets"`
}

// FitConfig holds the Google Fit OAuth client.
type FitConfig struct {
	ClientID     string `envconfig:"FIT_CLIENT_ID"`
	ClientSecret string `envconfig:"FIT_CLIENT_SECRET"`
	BaseURL      string `envconfig:"FIT_BASE_URL" default:"https://www.googleapis.com/fitness/v1"`
}

// Enabled reports whether a client id was configured.
func (fit FitConfig) Enabled() bool {
	return fit.ClientID != ""
}

// JournalConfig locates the session journal database. Empty means the user config dir.
type JournalConfig struct {
	Path string `envconfig:"JOURNAL_PATH"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when the environment is unusable.
func Default() *Config {
	return &Config{
		LogConfig:    LogConfig{Level: "info"},
		AssetsConfig: AssetsConfig{Dir: "assets"},
		FitConfig:    FitConfig{BaseURL: "https://www.googleapis.com/fitness/v1"},
	}
}
