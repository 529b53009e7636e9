package animation

import "time"

// DefaultConfig returns a tween that spans one breathing phase.
func DefaultConfig() Config {
	return Config{
		Duration:      4 * time.Second,
		FrameInterval: 33 * time.Millisecond,
		Compressed:    0.45,
		Expanded:      1.0,
	}
}
