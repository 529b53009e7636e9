package home

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const fitnessTimeout = 5 * time.Minute

// FitnessReporter authorizes and fetches today's fitness summary.
type FitnessReporter interface {
	Refresh(ctx context.Context, progress func(string)) string
}

// FitnessPanel shows the Google Fit summary on request.
type FitnessPanel struct {
	reporter   FitnessReporter
	onInteract func()
	button     *widget.Button
	summary    *widget.Label
	content    fyne.CanvasObject
}

// NewFitnessPanel builds the panel; a nil reporter disables the button.
func NewFitnessPanel(reporter FitnessReporter, onInteract func()) *FitnessPanel {
	panel := &FitnessPanel{
		reporter:   reporter,
		onInteract: onInteract,
		summary:    widget.NewLabel(""),
	}
	panel.button = widget.NewButton("Show Google Fit data", panel.request)
	if reporter == nil {
		panel.button.Disable()
		panel.summary.SetText("Set STILLPOINT_FIT_CLIENT_ID to enable Google Fit.")
	}
	panel.content = container.NewVBox(panel.button, panel.summary)
	return panel
}

// Content returns the panel widgets.
func (panel *FitnessPanel) Content() fyne.CanvasObject {
	return panel.content
}

// Summary returns the displayed text.
func (panel *FitnessPanel) Summary() string {
	return panel.summary.Text
}

// Refresh runs one authorize and fetch round and shows the result.
func (panel *FitnessPanel) Refresh(ctx context.Context) {
	if panel.reporter == nil {
		return
	}
	fyne.Do(func() {
		panel.button.Disable()
	})
	text := panel.reporter.Refresh(ctx, panel.setSummary)
	panel.setSummary(text)
	fyne.Do(func() {
		panel.button.Enable()
	})
}

func (panel *FitnessPanel) request() {
	if panel.onInteract != nil {
		panel.onInteract()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fitnessTimeout)
		defer cancel()
		panel.Refresh(ctx)
	}()
}

func (panel *FitnessPanel) setSummary(text string) {
	fyne.Do(func() {
		panel.summary.SetText(text)
	})
}
