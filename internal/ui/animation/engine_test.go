package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scaleRecorder struct {
	mu     sync.Mutex
	values []float64
}

func (recorder *scaleRecorder) record(value float64) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.values = append(recorder.values, value)
}

func (recorder *scaleRecorder) snapshot() []float64 {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]float64(nil), recorder.values...)
}

func fastConfig() Config {
	return Config{
		Duration:      40 * time.Millisecond,
		FrameInterval: 5 * time.Millisecond,
		Compressed:    0.5,
		Expanded:      1.0,
	}
}

func TestExpandReachesTargetMonotonically(t *testing.T) {
	recorder := &scaleRecorder{}
	engine := New(fastConfig(), recorder.record)

	engine.Expand(context.Background())

	require.Eventually(t, func() bool {
		return engine.Scale() == 1.0
	}, time.Second, 5*time.Millisecond)

	values := recorder.snapshot()
	require.Len(t, values, 8)
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1])
	}
	assert.Equal(t, 1.0, values[len(values)-1])
}

func TestTweenStartsFromCurrentScale(t *testing.T) {
	engine := New(fastConfig(), func(float64) {})

	engine.Snap(0.8)
	engine.Compress(context.Background())

	require.Eventually(t, func() bool {
		return engine.Scale() == 0.5
	}, time.Second, 5*time.Millisecond)
}

func TestStopFreezesScale(t *testing.T) {
	config := fastConfig()
	config.Duration = time.Second
	recorder := &scaleRecorder{}
	engine := New(config, recorder.record)

	engine.Expand(context.Background())
	require.Eventually(t, func() bool {
		return len(recorder.snapshot()) > 0
	}, time.Second, time.Millisecond)
	engine.Stop()

	frozen := len(recorder.snapshot())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, len(recorder.snapshot()))
	assert.Less(t, engine.Scale(), 1.0)
}

func TestSnapIsTheLastPublishedScale(t *testing.T) {
	config := fastConfig()
	config.Duration = time.Second
	config.FrameInterval = time.Millisecond

	for run := 0; run < 20; run++ {
		recorder := &scaleRecorder{}
		engine := New(config, recorder.record)
		engine.Expand(context.Background())
		require.Eventually(t, func() bool {
			return len(recorder.snapshot()) > run%5
		}, time.Second, time.Millisecond)

		engine.Snap(0.2)
		time.Sleep(5 * time.Millisecond)

		values := recorder.snapshot()
		assert.Equal(t, 0.2, values[len(values)-1])
		assert.Equal(t, 0.2, engine.Scale())
	}
}

func TestCancelledContextStopsTween(t *testing.T) {
	recorder := &scaleRecorder{}
	engine := New(fastConfig(), recorder.record)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine.Expand(ctx)
	time.Sleep(30 * time.Millisecond)

	assert.Empty(t, recorder.snapshot())
	assert.Equal(t, 0.5, engine.Scale())
}

func TestEaseInOutEndpoints(t *testing.T) {
	assert.Equal(t, 0.0, easeInOut(-1))
	assert.Equal(t, 1.0, easeInOut(2))
	assert.InDelta(t, 0.5, easeInOut(0.5), 1e-9)
}
