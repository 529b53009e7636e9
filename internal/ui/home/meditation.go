package home

import (
	"strconv"

	"stillpoint/internal/core/meditation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// MeditationPanel holds the duration field, the countdown label and its controls.
// It is the display and duration input of a meditation.Timer.
type MeditationPanel struct {
	timer       *meditation.Timer
	logger      *zap.Logger
	onInteract  func()
	entry       *widget.Entry
	display     *widget.Label
	startButton *widget.Button
	pauseButton *widget.Button
	resetButton *widget.Button
	content     fyne.CanvasObject
}

// NewMeditationPanel builds the panel with the duration field set to defaultMinutes.
func NewMeditationPanel(defaultMinutes int, onInteract func(), logger *zap.Logger) *MeditationPanel {
	if logger == nil {
		logger = zap.NewNop()
	}
	panel := &MeditationPanel{
		logger:     logger,
		onInteract: onInteract,
		entry:      widget.NewEntry(),
		display:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true}),
	}
	panel.entry.SetText(strconv.Itoa(defaultMinutes))
	panel.entry.SetPlaceHolder("minutes")

	panel.startButton = widget.NewButton("Start", panel.Start)
	panel.pauseButton = widget.NewButton("Pause", panel.Pause)
	panel.resetButton = widget.NewButton("Reset", panel.Reset)

	panel.content = container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Minutes"), nil, panel.entry),
		container.NewGridWithColumns(3, panel.startButton, panel.pauseButton, panel.resetButton),
		panel.display,
	)
	return panel
}

// Bind attaches the countdown driven by this panel.
func (panel *MeditationPanel) Bind(timer *meditation.Timer) {
	panel.timer = timer
}

// Content returns the panel widgets.
func (panel *MeditationPanel) Content() fyne.CanvasObject {
	return panel.content
}

// SetText shows the countdown text.
func (panel *MeditationPanel) SetText(text string) {
	fyne.Do(func() {
		panel.display.SetText(text)
	})
}

// SetMinutes restores the duration field.
func (panel *MeditationPanel) SetMinutes(minutes int) {
	fyne.Do(func() {
		panel.entry.SetText(strconv.Itoa(minutes))
	})
}

// Text returns the countdown text.
func (panel *MeditationPanel) Text() string {
	return panel.display.Text
}

// Start reads the duration field and starts or resumes the countdown.
func (panel *MeditationPanel) Start() {
	panel.interact()
	if panel.timer == nil {
		return
	}
	minutes, err := meditation.ParseMinutes(panel.entry.Text)
	if err != nil {
		panel.logger.Warn("meditation duration", zap.String("value", panel.entry.Text), zap.Error(err))
	}
	panel.timer.Start(minutes)
}

// Pause pauses the countdown.
func (panel *MeditationPanel) Pause() {
	panel.interact()
	if panel.timer != nil {
		panel.timer.Pause()
	}
}

// Reset clears the countdown.
func (panel *MeditationPanel) Reset() {
	panel.interact()
	if panel.timer != nil {
		panel.timer.Reset()
	}
}

// Toggle pauses a running countdown or starts an idle one.
func (panel *MeditationPanel) Toggle() {
	if panel.timer != nil && panel.timer.Running() {
		panel.Pause()
		return
	}
	panel.Start()
}

func (panel *MeditationPanel) interact() {
	if panel.onInteract != nil {
		panel.onInteract()
	}
}
