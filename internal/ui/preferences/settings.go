package preferences

import (
	"path/filepath"

	"stillpoint/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	DefaultMinutes int

	AmbientVolume  float64
	AmbientEnabled bool

	BaseModel      string
	CompanionModel string
	Environment    string
	AmbientAudio   string
}

// DefaultSettings returns default settings for Stillpoint.
func DefaultSettings() Settings {
	return Settings{
		DefaultMinutes: 5,
		AmbientVolume:  0.3,
		AmbientEnabled: true,
		BaseModel:      "models/crystal.glb",
		CompanionModel: "models/yoga_pose.glb",
		Environment:    "textures/your_environment.hdr",
		AmbientAudio:   "audio/ambient_sound.mp3",
	}
}

// MeditationConfig converts settings to the countdown configuration.
func (settings Settings) MeditationConfig() model.MeditationConfig {
	config := model.DefaultMeditationConfig()
	if settings.DefaultMinutes > 0 {
		config.DefaultMinutes = settings.DefaultMinutes
	}
	return config
}

// AssetConfig resolves relative asset paths against dir.
func (settings Settings) AssetConfig(dir string) model.AssetConfig {
	return model.AssetConfig{
		BaseModel:      resolve(dir, settings.BaseModel),
		CompanionModel: resolve(dir, settings.CompanionModel),
		Environment:    resolve(dir, settings.Environment),
		AmbientAudio:   resolve(dir, settings.AmbientAudio),
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
