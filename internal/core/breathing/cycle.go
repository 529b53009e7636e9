package breathing

import (
	"sync"
	"time"

	"stillpoint/internal/core/clock"
	"stillpoint/internal/core/model"
)

// Display receives phase labels and indicator changes.
type Display interface {
	SetLabel(text string)
	SetIndicator(indicator Indicator)
}

// Cycle runs the Inhale, Hold, Exhale, Hold loop until stopped.
// Display callbacks run while the cycle lock is held and must not call back into the cycle.
type Cycle struct {
	mu         sync.Mutex
	clock      clock.Clock
	config     model.BreathingConfig
	display    Display
	active     bool
	phase      Phase
	generation uint64
	pending    []clock.Timer
	cycles     int
	events     []chan Event
}

// New creates an idle breathing cycle.
func New(clk clock.Clock, config model.BreathingConfig, display Display) *Cycle {
	if clk == nil {
		clk = clock.System
	}
	defaults := model.DefaultBreathingConfig()
	if config.PhaseDuration <= 0 {
		config.PhaseDuration = defaults.PhaseDuration
	}
	if config.SettleDelay < 0 {
		config.SettleDelay = defaults.SettleDelay
	}
	return &Cycle{
		clock:   clk,
		config:  config,
		display: display,
		phase:   PhaseIdle,
	}
}

// Subscribe registers a new observer channel.
func (cycle *Cycle) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	cycle.mu.Lock()
	cycle.events = append(cycle.events, ch)
	cycle.mu.Unlock()
	return ch
}

// Start shows the settle state and enters Inhale after the settle delay.
// Calling Start while active does nothing.
func (cycle *Cycle) Start() {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	if cycle.active {
		return
	}
	cycle.active = true
	cycle.cycles = 0
	cycle.generation++
	generation := cycle.generation

	cycle.applyLocked(PhaseSettle, IndicatorCompress)
	cycle.scheduleLocked(generation, cycle.config.SettleDelay, cycle.beginLocked)
}

// Stop cancels every pending transition. No phase change is observable after Stop returns.
func (cycle *Cycle) Stop() {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	if !cycle.active {
		return
	}
	cycle.haltLocked()
	cycle.emitLocked(Event{Type: EventStopped, Phase: PhaseIdle, Cycles: cycle.cycles})
}

// Active reports whether the cycle is running.
func (cycle *Cycle) Active() bool {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	return cycle.active
}

// Phase returns the current phase.
func (cycle *Cycle) Phase() Phase {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	return cycle.phase
}

// Close stops the cycle and closes observer channels.
func (cycle *Cycle) Close() {
	cycle.mu.Lock()
	if cycle.active {
		cycle.haltLocked()
	}
	events := cycle.events
	cycle.events = nil
	cycle.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (cycle *Cycle) beginLocked(generation uint64) {
	cycle.pending = cycle.pending[:0]
	cycle.applyLocked(PhaseInhale, IndicatorExpand)

	phase := cycle.config.PhaseDuration
	cycle.scheduleLocked(generation, phase, func(uint64) {
		cycle.applyLocked(PhaseHold1, "")
	})
	cycle.scheduleLocked(generation, 2*phase, func(uint64) {
		cycle.applyLocked(PhaseExhale, IndicatorCompress)
	})
	cycle.scheduleLocked(generation, 3*phase, func(uint64) {
		cycle.applyLocked(PhaseHold2, "")
	})
	cycle.scheduleLocked(generation, 4*phase, func(generation uint64) {
		cycle.cycles++
		cycle.emitLocked(Event{Type: EventCycleComplete, Phase: PhaseHold2, Cycles: cycle.cycles})
		cycle.beginLocked(generation)
	})
}

// scheduleLocked arms a transition that only applies while generation is still the live run.
func (cycle *Cycle) scheduleLocked(generation uint64, delay time.Duration, apply func(uint64)) {
	timer := cycle.clock.AfterFunc(delay, func() {
		cycle.mu.Lock()
		defer cycle.mu.Unlock()
		if !cycle.active || generation != cycle.generation {
			return
		}
		apply(generation)
	})
	cycle.pending = append(cycle.pending, timer)
}

func (cycle *Cycle) applyLocked(phase Phase, indicator Indicator) {
	cycle.phase = phase
	if cycle.display != nil {
		if indicator != "" {
			cycle.display.SetIndicator(indicator)
		}
		cycle.display.SetLabel(phase.Label())
	}
	cycle.emitLocked(Event{Type: EventPhase, Phase: phase, Cycles: cycle.cycles})
}

func (cycle *Cycle) haltLocked() {
	cycle.active = false
	cycle.generation++
	for _, timer := range cycle.pending {
		timer.Stop()
	}
	cycle.pending = nil
	cycle.phase = PhaseIdle
}

func (cycle *Cycle) emitLocked(event Event) {
	event.At = cycle.clock.Now()
	for _, ch := range cycle.events {
		select {
		case ch <- event:
		default:
		}
	}
}
