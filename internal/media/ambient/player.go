package ambient

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// DefaultVolume is the linear gain of the ambient loop.
const DefaultVolume = 0.3

var (
	// ErrUnsupportedAudio indicates a file that is not MP3 audio.
	ErrUnsupportedAudio = errors.New("unsupported audio")
	// ErrNotLoaded indicates playback was requested before a track was loaded.
	ErrNotLoaded = errors.New("ambient track not loaded")
)

// Output is an audio device.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(streamers ...beep.Streamer)
}

// Speaker returns the system audio output.
func Speaker() Output {
	return speakerOutput{}
}

type speakerOutput struct{}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (speakerOutput) Play(streamers ...beep.Streamer) {
	speaker.Play(streamers...)
}

// Player loops one ambient track forever once the user first interacts with the app.
type Player struct {
	mu      sync.Mutex
	output  Output
	logger  *zap.Logger
	buffer  *beep.Buffer
	volume  float64
	enabled bool
	once    sync.Once
	playing bool
}

// NewPlayer creates a player writing to output.
func NewPlayer(output Output, volume float64, enabled bool, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{
		output:  output,
		logger:  logger,
		volume:  clampVolume(volume),
		enabled: enabled,
	}
}

// Load decodes the MP3 at path into memory.
func (player *Player) Load(path string) error {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("detect audio type: %w", err)
	}
	if !detected.Is("audio/mpeg") {
		return fmt.Errorf("%w: %s is %s", ErrUnsupportedAudio, path, detected.String())
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}
	streamer, format, err := mp3.Decode(file)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("decode audio: %w", err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	player.SetBuffer(buffer)
	player.logger.Info("ambient track loaded",
		zap.String("path", path),
		zap.Duration("length", format.SampleRate.D(buffer.Len())),
	)
	return nil
}

// SetBuffer replaces the decoded track.
func (player *Player) SetBuffer(buffer *beep.Buffer) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.buffer = buffer
}

// StartOnInteraction starts the loop the first time it is called; later calls do nothing.
func (player *Player) StartOnInteraction() {
	player.once.Do(func() {
		if err := player.play(); err != nil {
			player.logger.Warn("ambient playback", zap.Error(err))
		}
	})
}

// Playing reports whether the loop has been started.
func (player *Player) Playing() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.playing
}

func (player *Player) play() error {
	player.mu.Lock()
	defer player.mu.Unlock()
	if !player.enabled {
		return nil
	}
	if player.buffer == nil {
		return ErrNotLoaded
	}

	format := player.buffer.Format()
	if err := player.output.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}
	loop := beep.Loop(-1, player.buffer.Streamer(0, player.buffer.Len()))
	player.output.Play(&effects.Volume{
		Streamer: loop,
		Base:     2,
		Volume:   gainToVolume(player.volume),
		Silent:   player.volume == 0,
	})
	player.playing = true
	return nil
}

// gainToVolume maps a linear gain in [0, 1] onto the base-2 exponent used by effects.Volume.
func gainToVolume(gain float64) float64 {
	if gain <= 0 {
		return 0
	}
	return math.Log2(gain)
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
