package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowWindow       func()
	OnPreferences      func()
	OnToggleMeditation func()
	OnToggleBreathing  func()
	OnQuit             func()
}

// Manager handles system tray state.
type Manager struct {
	app            desktop.App
	statusItem     *fyne.MenuItem
	meditationItem *fyne.MenuItem
	breathingItem  *fyne.MenuItem
	callbacks      Callbacks
	meditating     bool
	breathing      bool
	statusLabel    string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "idle",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.meditationItem = fyne.NewMenuItem("", func() {
		invoke(manager.callbacks.OnToggleMeditation)
	})
	manager.breathingItem = fyne.NewMenuItem("", func() {
		invoke(manager.callbacks.OnToggleBreathing)
	})

	manager.refreshLabels()
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshLabels()
	manager.refreshMenu()
}

// SetMeditating updates the meditation toggle.
func (manager *Manager) SetMeditating(running bool) {
	manager.meditating = running
	manager.refreshLabels()
	manager.refreshMenu()
}

// SetBreathing updates the breathing toggle.
func (manager *Manager) SetBreathing(active bool) {
	manager.breathing = active
	manager.refreshLabels()
	manager.refreshMenu()
}

// StatusLabel returns the current status menu text.
func (manager *Manager) StatusLabel() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshLabels() {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.statusLabel)
	if manager.meditating {
		manager.meditationItem.Label = "Pause meditation"
	} else {
		manager.meditationItem.Label = "Start meditation"
	}
	if manager.breathing {
		manager.breathingItem.Label = "Stop breathing"
	} else {
		manager.breathingItem.Label = "Start breathing"
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Stillpoint",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show Stillpoint", func() {
			invoke(manager.callbacks.OnShowWindow)
		}),
		manager.meditationItem,
		manager.breathingItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			invoke(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItem("Quit", func() {
			invoke(manager.callbacks.OnQuit)
		}),
	))
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}
