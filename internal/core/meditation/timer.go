package meditation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"stillpoint/internal/core/clock"
	"stillpoint/internal/core/model"
)

// FinishedText is shown once the countdown has run out.
const FinishedText = "Finished."

// ErrInvalidMinutes indicates a duration field that is not a non-negative integer.
var ErrInvalidMinutes = errors.New("invalid meditation minutes")

// Display receives the formatted remaining time.
type Display interface {
	SetText(text string)
}

// DurationInput is the configured-duration field restored on reset.
type DurationInput interface {
	SetMinutes(minutes int)
}

// Timer is a one-tick-per-second meditation countdown.
// Display and input callbacks run while the timer lock is held and must not call back into the timer.
type Timer struct {
	mu         sync.Mutex
	clock      clock.Clock
	config     model.MeditationConfig
	display    Display
	input      DurationInput
	remaining  int
	session    int
	running    bool
	state      State
	tick       clock.Timer
	generation uint64
	events     []chan Event
}

// New creates an idle countdown.
func New(clk clock.Clock, config model.MeditationConfig, display Display, input DurationInput) *Timer {
	if clk == nil {
		clk = clock.System
	}
	if config.TickInterval <= 0 {
		config.TickInterval = model.DefaultMeditationConfig().TickInterval
	}
	if config.DefaultMinutes <= 0 {
		config.DefaultMinutes = model.DefaultMeditationConfig().DefaultMinutes
	}
	return &Timer{
		clock:   clk,
		config:  config,
		display: display,
		input:   input,
		state:   StateIdle,
	}
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	timer.events = append(timer.events, ch)
	timer.mu.Unlock()
	return ch
}

// Start begins or resumes the countdown. Calling Start while running does nothing.
func (timer *Timer) Start(configuredMinutes int) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.running {
		return
	}
	if configuredMinutes < 0 {
		configuredMinutes = 0
	}
	if timer.remaining <= 0 {
		timer.remaining = configuredMinutes * 60
		timer.session = timer.remaining
	}
	timer.running = true
	timer.state = StateRunning
	timer.generation++
	timer.scheduleLocked(timer.generation)
	timer.emitLocked(Event{Type: EventStateChange, State: StateRunning, Remaining: timer.remaining})
}

// Pause stops ticking and keeps the remaining time.
func (timer *Timer) Pause() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running {
		return
	}
	timer.haltLocked()
	timer.state = StatePaused
	timer.emitLocked(Event{Type: EventStateChange, State: StatePaused, Remaining: timer.remaining})
}

// Reset stops ticking, zeroes the remaining time, clears the display and restores the default duration.
func (timer *Timer) Reset() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.haltLocked()
	timer.remaining = 0
	timer.session = 0
	timer.state = StateIdle
	if timer.display != nil {
		timer.display.SetText("")
	}
	if timer.input != nil {
		timer.input.SetMinutes(timer.config.DefaultMinutes)
	}
	timer.emitLocked(Event{Type: EventStateChange, State: StateIdle})
}

// SetDefaultMinutes changes the duration restored by Reset. Values below 1 are ignored.
func (timer *Timer) SetDefaultMinutes(minutes int) {
	if minutes <= 0 {
		return
	}
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.config.DefaultMinutes = minutes
}

// Remaining returns the remaining seconds.
func (timer *Timer) Remaining() int {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.remaining
}

// Running reports whether the tick source is active.
func (timer *Timer) Running() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.running
}

// State returns the current countdown mode.
func (timer *Timer) State() State {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.state
}

// Close stops the countdown and closes observer channels.
func (timer *Timer) Close() {
	timer.mu.Lock()
	timer.haltLocked()
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (timer *Timer) scheduleLocked(generation uint64) {
	timer.tick = timer.clock.AfterFunc(timer.config.TickInterval, func() {
		timer.onTick(generation)
	})
}

func (timer *Timer) onTick(generation uint64) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running || generation != timer.generation {
		return
	}

	if timer.remaining <= 0 {
		timer.haltLocked()
		timer.remaining = 0
		timer.state = StateFinished
		if timer.display != nil {
			timer.display.SetText(FinishedText)
		}
		timer.emitLocked(Event{
			Type:    EventStateChange,
			State:   StateFinished,
			Session: time.Duration(timer.session) * time.Second,
		})
		return
	}

	timer.remaining--
	if timer.display != nil {
		timer.display.SetText(FormatTime(timer.remaining))
	}
	timer.emitLocked(Event{Type: EventTick, State: StateRunning, Remaining: timer.remaining})
	timer.scheduleLocked(generation)
}

func (timer *Timer) haltLocked() {
	timer.running = false
	timer.generation++
	if timer.tick != nil {
		timer.tick.Stop()
		timer.tick = nil
	}
}

func (timer *Timer) emitLocked(event Event) {
	event.At = timer.clock.Now()
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// FormatTime renders seconds as M:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ParseMinutes reads the duration field. Anything that is not a non-negative
// integer yields 0 together with ErrInvalidMinutes.
func ParseMinutes(value string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMinutes, value)
	}
	if minutes < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMinutes, minutes)
	}
	return minutes, nil
}
