package model

import "time"

// MeditationConfig defines the countdown timer defaults.
type MeditationConfig struct {
	DefaultMinutes int
	TickInterval   time.Duration
}

// BreathingConfig defines the breathing guide timing.
type BreathingConfig struct {
	PhaseDuration time.Duration
	SettleDelay   time.Duration
}

// CycleDuration returns the length of one Inhale-Hold-Exhale-Hold iteration.
func (config BreathingConfig) CycleDuration() time.Duration {
	return 4 * config.PhaseDuration
}

// DefaultMeditationConfig returns the five minute, one-tick-per-second countdown.
func DefaultMeditationConfig() MeditationConfig {
	return MeditationConfig{
		DefaultMinutes: 5,
		TickInterval:   time.Second,
	}
}

// DefaultBreathingConfig returns the 4-4-4-4 box breathing rhythm.
func DefaultBreathingConfig() BreathingConfig {
	return BreathingConfig{
		PhaseDuration: 4 * time.Second,
		SettleDelay:   100 * time.Millisecond,
	}
}

// AssetConfig names the scene and audio assets.
type AssetConfig struct {
	BaseModel      string
	CompanionModel string
	Environment    string
	AmbientAudio   string
}
