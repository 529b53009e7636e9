package breathing

import "time"

// Phase is a stage of the breathing cycle.
type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseSettle Phase = "settle"
	PhaseInhale Phase = "inhale"
	PhaseHold1  Phase = "hold_full"
	PhaseExhale Phase = "exhale"
	PhaseHold2  Phase = "hold_empty"
)

// Label returns the text shown for the phase.
func (phase Phase) Label() string {
	switch phase {
	case PhaseSettle:
		return "Get Ready..."
	case PhaseInhale:
		return "Inhale"
	case PhaseHold1, PhaseHold2:
		return "Hold"
	case PhaseExhale:
		return "Exhale"
	default:
		return ""
	}
}

// Indicator is the visual state of the breathing circle.
type Indicator string

const (
	IndicatorExpand   Indicator = "expand"
	IndicatorCompress Indicator = "compress"
)

// EventType defines the type of breathing event.
type EventType string

const (
	EventPhase         EventType = "phase"
	EventCycleComplete EventType = "cycle_complete"
	EventStopped       EventType = "stopped"
)

// Event is a breathing update for observers.
type Event struct {
	Type   EventType
	Phase  Phase
	Cycles int
	At     time.Time
}
