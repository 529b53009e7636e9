package main

import (
	"sync"
	"sync/atomic"
	"time"

	"stillpoint/internal/core/breathing"
	"stillpoint/internal/core/meditation"
	"stillpoint/internal/storage"
	"stillpoint/internal/ui/home"
	"stillpoint/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"
)

// sessionView is the part of the UI that follows session events.
type sessionView interface {
	ShowMeditation(status string, stateChange, running bool)
	ShowBreathing(active bool)
	ShowJournal(text string)
}

// sessionRecorder writes finished sessions to the journal and mirrors events to the view.
// After silence the view is no longer touched; wait returns once both event streams are drained.
type sessionRecorder struct {
	journal *storage.Journal
	view    sessionView
	logger  *zap.Logger
	quiet   atomic.Bool
	wg      sync.WaitGroup
}

func newSessionRecorder(journal *storage.Journal, view sessionView, logger *zap.Logger) *sessionRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionRecorder{journal: journal, view: view, logger: logger}
}

func (recorder *sessionRecorder) watch(meditations <-chan meditation.Event, breaths <-chan breathing.Event) {
	recorder.wg.Add(2)
	go func() {
		defer recorder.wg.Done()
		for event := range meditations {
			recorder.onMeditation(event)
		}
	}()
	go func() {
		defer recorder.wg.Done()
		for event := range breaths {
			recorder.onBreathing(event)
		}
	}()
}

func (recorder *sessionRecorder) silence() {
	recorder.quiet.Store(true)
}

func (recorder *sessionRecorder) wait() {
	recorder.wg.Wait()
}

func (recorder *sessionRecorder) onMeditation(event meditation.Event) {
	stateChange := event.Type == meditation.EventStateChange
	if recorder.live() {
		recorder.view.ShowMeditation(meditationStatus(event), stateChange, event.State == meditation.StateRunning)
	}
	if !stateChange || event.State != meditation.StateFinished || recorder.journal == nil {
		return
	}
	if err := recorder.journal.RecordMeditation(event.At, event.Session); err != nil {
		recorder.logger.Error("record meditation", zap.Error(err))
	}
	recorder.refresh()
}

func (recorder *sessionRecorder) onBreathing(event breathing.Event) {
	switch event.Type {
	case breathing.EventPhase:
		if event.Phase == breathing.PhaseSettle && recorder.live() {
			recorder.view.ShowBreathing(true)
		}
	case breathing.EventStopped:
		if recorder.live() {
			recorder.view.ShowBreathing(false)
		}
		if recorder.journal == nil {
			return
		}
		if err := recorder.journal.RecordBreathing(event.At, event.Cycles); err != nil {
			recorder.logger.Error("record breathing", zap.Error(err))
		}
		recorder.refresh()
	}
}

func (recorder *sessionRecorder) refresh() {
	if recorder.journal == nil || !recorder.live() {
		return
	}
	summary, err := recorder.journal.Summary(time.Now())
	if err != nil {
		recorder.logger.Warn("journal summary", zap.Error(err))
		return
	}
	recorder.view.ShowJournal(summary.String())
}

func (recorder *sessionRecorder) live() bool {
	return recorder.view != nil && !recorder.quiet.Load()
}

// desktopView routes session updates onto the fyne thread.
type desktopView struct {
	tray   *tray.Manager
	icon   *statusIcon
	window *home.Window
}

func (view *desktopView) ShowMeditation(status string, stateChange, running bool) {
	if view.tray != nil {
		fyne.Do(func() {
			view.tray.SetStatus(status)
			if stateChange {
				view.tray.SetMeditating(running)
			}
		})
	}
	if stateChange {
		view.icon.setMeditating(running)
	}
}

func (view *desktopView) ShowBreathing(active bool) {
	view.icon.setBreathing(active)
}

func (view *desktopView) ShowJournal(text string) {
	view.window.SetJournal(text)
}

// statusIcon shows the active logo while a meditation or breathing session runs.
type statusIcon struct {
	mu         sync.Mutex
	idle       fyne.Resource
	active     fyne.Resource
	app        fyne.App
	meditating bool
	breathing  bool
}

func (icon *statusIcon) setMeditating(running bool) {
	icon.mu.Lock()
	icon.meditating = running
	icon.mu.Unlock()
	icon.update()
}

func (icon *statusIcon) setBreathing(active bool) {
	icon.mu.Lock()
	icon.breathing = active
	icon.mu.Unlock()
	icon.update()
}

func (icon *statusIcon) current() fyne.Resource {
	icon.mu.Lock()
	defer icon.mu.Unlock()
	if icon.meditating || icon.breathing {
		return icon.active
	}
	return icon.idle
}

func (icon *statusIcon) update() {
	desktopApp, ok := icon.app.(desktop.App)
	if !ok {
		return
	}
	resource := icon.current()
	fyne.Do(func() {
		desktopApp.SetSystemTrayIcon(resource)
	})
}
