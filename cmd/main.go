package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"stillpoint/internal/config"
	"stillpoint/internal/core/breathing"
	"stillpoint/internal/core/clock"
	"stillpoint/internal/core/meditation"
	"stillpoint/internal/core/model"
	"stillpoint/internal/core/scene"
	"stillpoint/internal/fitness"
	"stillpoint/internal/logging"
	"stillpoint/internal/media/ambient"
	"stillpoint/internal/platform"
	"stillpoint/internal/storage"
	"stillpoint/internal/ui/animation"
	"stillpoint/internal/ui/guide"
	"stillpoint/internal/ui/home"
	"stillpoint/internal/ui/preferences"
	"stillpoint/internal/ui/tray"
	"stillpoint/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"
)

const (
	appName = "Stillpoint"
	appID   = "com.stillpoint.app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		cfg = config.Default()
	}
	logger := logging.NewOrNop(logging.Config{
		Level:       cfg.LogConfig.Level,
		Development: cfg.LogConfig.Development,
	})
	defer func() {
		_ = logger.Sync()
	}()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Info("already running, asked the open instance to show itself", zap.Error(err))
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settingsPath, err := storage.SettingsPath(appName)
	if err != nil {
		logger.Error("settings path", zap.Error(err))
		return
	}
	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		logger.Warn("load settings, using defaults", zap.String("path", settingsPath), zap.Error(err))
	}
	assets := settings.AssetConfig(cfg.AssetsConfig.Dir)

	journal := openJournal(cfg.JournalConfig.Path, logger)
	if journal != nil {
		defer func() {
			_ = journal.Close()
		}()
	}

	fyneApp := app.NewWithID(appID)
	idleIcon := resources.MustLogo(resources.LogoIdle)
	activeIcon := resources.MustLogo(resources.LogoActive)
	fyneApp.SetIcon(idleIcon)

	player := ambient.NewPlayer(ambient.Speaker(), settings.AmbientVolume, settings.AmbientEnabled, logger.Named("ambient"))
	if settings.AmbientEnabled {
		if err := player.Load(assets.AmbientAudio); err != nil {
			logger.Warn("ambient track unavailable", zap.String("path", assets.AmbientAudio), zap.Error(err))
		}
	}
	onInteract := player.StartOnInteraction

	composed := scene.New()
	composer := scene.NewComposer(composed, &scene.GLTFLoader{}, assets.CompanionModel, logger.Named("scene"))

	meditationPanel := home.NewMeditationPanel(settings.DefaultMinutes, onInteract, logger.Named("meditation"))
	timer := meditation.New(clock.System, settings.MeditationConfig(), meditationPanel, meditationPanel)
	meditationPanel.Bind(timer)

	guideWindow := guide.New(fyneApp, animation.DefaultConfig())
	breathingPanel := home.NewBreathingPanel(guideWindow, onInteract)
	cycle := breathing.New(clock.System, model.DefaultBreathingConfig(), guideWindow)
	breathingPanel.Bind(cycle)
	guideWindow.SetOnStop(func() {
		if cycle.Active() {
			breathingPanel.Toggle()
			return
		}
		guideWindow.Hide()
	})

	scenePanel := home.NewScenePanel(composer, composed, onInteract)
	fitnessPanel := home.NewFitnessPanel(newFitnessReporter(cfg.FitConfig, fyneApp, logger), onInteract)

	mainWindow := home.New(fyneApp, home.Panels{
		Meditation: meditationPanel,
		Breathing:  breathingPanel,
		Scene:      scenePanel,
		Fitness:    fitnessPanel,
	})

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if err := storage.SaveSettings(settingsPath, updated); err != nil {
			logger.Error("save settings", zap.String("path", settingsPath), zap.Error(err))
		}
		previous := settings
		settings = updated
		timer.SetDefaultMinutes(settings.DefaultMinutes)
		if !timer.Running() && timer.Remaining() == 0 {
			meditationPanel.SetMinutes(settings.DefaultMinutes)
		}
		if settings.BaseModel != previous.BaseModel {
			go loadBase(scenePanel, settings.AssetConfig(cfg.AssetsConfig.Dir).BaseModel)
		}
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowWindow: mainWindow.Show,
			OnPreferences: func() {
				prefsWindow.Show()
			},
			OnToggleMeditation: meditationPanel.Toggle,
			OnToggleBreathing:  breathingPanel.Toggle,
			OnQuit: func() {
				fyneApp.Quit()
			},
		})
		desktopApp.SetSystemTrayIcon(idleIcon)
		breathingPanel.SetOnChange(func(active bool) {
			trayManager.SetBreathing(active)
		})
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	view := &desktopView{
		tray:   trayManager,
		icon:   &statusIcon{idle: idleIcon, active: activeIcon, app: fyneApp},
		window: mainWindow,
	}
	recorder := newSessionRecorder(journal, view, logger.Named("journal"))
	recorder.watch(timer.Subscribe(16), cycle.Subscribe(16))

	go func() {
		envErr := composed.SetEnvironment(assets.Environment)
		if envErr != nil {
			logger.Warn("environment map", zap.String("path", assets.Environment), zap.Error(envErr))
		}
		scenePanel.ShowEnvironment(envErr)
		loadBase(scenePanel, assets.BaseModel)
	}()
	recorder.refresh()

	guard.Serve(func() {
		fyne.Do(mainWindow.Show)
	})

	mainWindow.Show()
	fyneApp.Run()

	recorder.silence()
	cycle.Stop()
	timer.Close()
	cycle.Close()
	recorder.wait()
}

func openJournal(path string, logger *zap.Logger) *storage.Journal {
	if path == "" {
		defaultPath, err := storage.JournalPath(appName)
		if err != nil {
			logger.Warn("journal path", zap.Error(err))
			return nil
		}
		path = defaultPath
	}
	journal, err := storage.OpenJournal(path)
	if err != nil {
		logger.Warn("journal disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	return journal
}

func newFitnessReporter(cfg config.FitConfig, fyneApp fyne.App, logger *zap.Logger) home.FitnessReporter {
	if !cfg.Enabled() {
		return nil
	}
	opener := func(authURL string) error {
		parsed, err := url.Parse(authURL)
		if err != nil {
			return fmt.Errorf("parse authorization url: %w", err)
		}
		return fyneApp.OpenURL(parsed)
	}
	authorizer := fitness.NewAuthorizer(fitness.GoogleConfig(cfg.ClientID, cfg.ClientSecret), opener, logger.Named("oauth"))
	client := fitness.NewClient(cfg.BaseURL, clock.System, logger.Named("fitness"))
	return fitness.NewReporter(authorizer, client, logger.Named("fitness"))
}

func loadBase(panel *home.ScenePanel, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	panel.Load(ctx, filepath.Clean(path))
}

func meditationStatus(event meditation.Event) string {
	switch event.State {
	case meditation.StateRunning:
		return "meditating " + meditation.FormatTime(event.Remaining)
	case meditation.StatePaused:
		return "paused " + meditation.FormatTime(event.Remaining)
	case meditation.StateFinished:
		return "finished"
	default:
		return "idle"
	}
}
