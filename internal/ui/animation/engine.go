package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains tween timing and the two scale extremes.
type Config struct {
	Duration      time.Duration
	FrameInterval time.Duration
	Compressed    float64
	Expanded      float64
}

// Engine tweens the scale of the breathing guide between its extremes.
// updateScale runs under the engine lock and must not call back into the engine.
type Engine struct {
	mu          sync.Mutex
	config      Config
	updateScale func(float64)
	cancel      context.CancelFunc
	scale       float64
}

// New creates a tween engine starting compressed.
func New(config Config, updateScale func(float64)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Engine{
		config:      config,
		updateScale: updateScale,
		scale:       config.Compressed,
	}
}

// Expand tweens toward the expanded scale.
func (engine *Engine) Expand(ctx context.Context) {
	engine.TweenTo(ctx, engine.config.Expanded)
}

// Compress tweens toward the compressed scale.
func (engine *Engine) Compress(ctx context.Context) {
	engine.TweenTo(ctx, engine.config.Compressed)
}

// TweenTo replaces any running tween with one from the current scale to target.
func (engine *Engine) TweenTo(ctx context.Context, target float64) {
	engine.start(ctx, func(runCtx context.Context) {
		engine.runTween(runCtx, target)
	})
}

// Snap stops any running tween and jumps to scale.
func (engine *Engine) Snap(scale float64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.scale = scale
	engine.updateScale(scale)
}

// Scale returns the last applied scale.
func (engine *Engine) Scale() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.scale
}

// Stop terminates any active tween, leaving the scale where it is.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) runTween(ctx context.Context, target float64) {
	from := engine.Scale()
	frames := int(engine.config.Duration / engine.config.FrameInterval)
	if frames < 1 {
		frames = 1
	}

	for frame := 1; frame <= frames; frame++ {
		if !sleepWithContext(ctx, engine.config.FrameInterval) {
			return
		}
		value := lerp(from, target, easeInOut(float64(frame)/float64(frames)))
		if !engine.apply(ctx, value) {
			return
		}
	}
}

func (engine *Engine) apply(ctx context.Context, value float64) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	engine.scale = value
	engine.updateScale(value)
	return true
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
