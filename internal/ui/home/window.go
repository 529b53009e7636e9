package home

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Panels groups the widgets of the main window.
type Panels struct {
	Meditation *MeditationPanel
	Breathing  *BreathingPanel
	Scene      *ScenePanel
	Fitness    *FitnessPanel
}

// Window is the main Stillpoint window.
type Window struct {
	window  fyne.Window
	journal *widget.Label
}

// New builds the main window. Closing it hides it; the app keeps running in the tray.
func New(app fyne.App, panels Panels) *Window {
	window := app.NewWindow("Stillpoint")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	home := &Window{
		window:  window,
		journal: widget.NewLabel(""),
	}
	panels.Scene.SetWindow(window)

	content := container.NewVBox(
		widget.NewCard("Scene", "", panels.Scene.Content()),
		widget.NewCard("Meditation", "", panels.Meditation.Content()),
		widget.NewCard("Breathing", "", panels.Breathing.Content()),
		widget.NewCard("Google Fit", "", panels.Fitness.Content()),
		home.journal,
	)
	window.SetContent(container.NewVScroll(content))
	window.Resize(fyne.NewSize(440, 640))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return home
}

// Show displays the window.
func (home *Window) Show() {
	home.window.Show()
	home.window.RequestFocus()
}

// SetJournal shows today's journal totals.
func (home *Window) SetJournal(text string) {
	fyne.Do(func() {
		home.journal.SetText(text)
	})
}

// Journal returns the journal line.
func (home *Window) Journal() string {
	return home.journal.Text
}
