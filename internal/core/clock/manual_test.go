package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	clock := NewManual(start)

	var fired []string
	clock.AfterFunc(3*time.Second, func() { fired = append(fired, "c") })
	clock.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	clock.AfterFunc(time.Second, func() { fired = append(fired, "b") })

	clock.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, start.Add(2*time.Second), clock.Now())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Zero(t, clock.Pending())
}

func TestManualRunsCallbacksScheduledDuringAdvance(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		clock.AfterFunc(time.Second, tick)
	}
	clock.AfterFunc(time.Second, tick)

	clock.Advance(5 * time.Second)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 1, clock.Pending())
}

func TestManualStop(t *testing.T) {
	clock := NewManual(time.Unix(0, 0))

	called := false
	timer := clock.AfterFunc(time.Second, func() { called = true })
	require.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clock.Advance(2 * time.Second)
	assert.False(t, called)

	fired := clock.AfterFunc(time.Second, func() {})
	clock.Advance(time.Second)
	assert.False(t, fired.Stop())
}
