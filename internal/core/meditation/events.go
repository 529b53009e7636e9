package meditation

import "time"

// State represents the countdown mode.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateFinished State = "finished"
)

// EventType defines the type of countdown event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
)

// Event is a countdown update for observers.
type Event struct {
	Type      EventType
	State     State
	Remaining int
	Session   time.Duration
	At        time.Time
}
