package home

import (
	"stillpoint/internal/core/breathing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Guide is the window that renders the breathing circle.
type Guide interface {
	Show()
	Hide()
}

// BreathingPanel toggles the breathing cycle and its guide window.
type BreathingPanel struct {
	cycle      *breathing.Cycle
	guide      Guide
	onInteract func()
	onChange   func(active bool)
	button     *widget.Button
	content    fyne.CanvasObject
}

// NewBreathingPanel builds the Start/Stop control.
func NewBreathingPanel(guide Guide, onInteract func()) *BreathingPanel {
	panel := &BreathingPanel{
		guide:      guide,
		onInteract: onInteract,
	}
	panel.button = widget.NewButton("Start", panel.Toggle)
	panel.content = container.NewVBox(
		widget.NewLabel("Box breathing: 4 seconds in, hold, out, hold."),
		panel.button,
	)
	return panel
}

// Bind attaches the breathing cycle driven by this panel.
func (panel *BreathingPanel) Bind(cycle *breathing.Cycle) {
	panel.cycle = cycle
}

// SetOnChange sets a handler called after every toggle.
func (panel *BreathingPanel) SetOnChange(handler func(active bool)) {
	panel.onChange = handler
}

// Content returns the panel widgets.
func (panel *BreathingPanel) Content() fyne.CanvasObject {
	return panel.content
}

// ButtonText returns the toggle label.
func (panel *BreathingPanel) ButtonText() string {
	return panel.button.Text
}

// Toggle starts an idle cycle or stops an active one.
func (panel *BreathingPanel) Toggle() {
	if panel.onInteract != nil {
		panel.onInteract()
	}
	if panel.cycle == nil {
		return
	}

	active := !panel.cycle.Active()
	if active {
		if panel.guide != nil {
			panel.guide.Show()
		}
		panel.cycle.Start()
		panel.button.SetText("Stop")
	} else {
		panel.cycle.Stop()
		if panel.guide != nil {
			panel.guide.Hide()
		}
		panel.button.SetText("Start")
	}

	if panel.onChange != nil {
		panel.onChange(active)
	}
}
