package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stillpoint/internal/platform"
	"stillpoint/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	DefaultMinutes int      `yaml:"default_minutes"`
	AmbientVolume  *float64 `yaml:"ambient_volume"`
	AmbientEnabled *bool    `yaml:"ambient_enabled"`
	BaseModel      string   `yaml:"base_model"`
	CompanionModel string   `yaml:"companion_model"`
	Environment    string   `yaml:"environment"`
	AmbientAudio   string   `yaml:"ambient_audio"`
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	appDir, err := platform.NewService().AppDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	volume := settings.AmbientVolume
	enabled := settings.AmbientEnabled
	fileData := yamlSettings{
		DefaultMinutes: settings.DefaultMinutes,
		AmbientVolume:  &volume,
		AmbientEnabled: &enabled,
		BaseModel:      settings.BaseModel,
		CompanionModel: settings.CompanionModel,
		Environment:    settings.Environment,
		AmbientAudio:   settings.AmbientAudio,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.DefaultMinutes > 0 {
		settings.DefaultMinutes = fileData.DefaultMinutes
	}
	if fileData.AmbientVolume != nil && *fileData.AmbientVolume >= 0 && *fileData.AmbientVolume <= 1 {
		settings.AmbientVolume = *fileData.AmbientVolume
	}
	if fileData.AmbientEnabled != nil {
		settings.AmbientEnabled = *fileData.AmbientEnabled
	}
	if fileData.BaseModel != "" {
		settings.BaseModel = fileData.BaseModel
	}
	if fileData.CompanionModel != "" {
		settings.CompanionModel = fileData.CompanionModel
	}
	if fileData.Environment != "" {
		settings.Environment = fileData.Environment
	}
	if fileData.AmbientAudio != "" {
		settings.AmbientAudio = fileData.AmbientAudio
	}
}
