package preferences

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	settings    Settings
	onSave      func(Settings)
	onCancel    func()
	minutes     *widget.Entry
	volume      *widget.Slider
	ambient     *widget.Check
	baseModel   *widget.Entry
	companion   *widget.Entry
	environment *widget.Entry
	audio       *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Stillpoint Settings")

	minutes := widget.NewEntry()
	volume := widget.NewSlider(0, 1)
	volume.Step = 0.05
	ambient := widget.NewCheck("Play ambient sound", nil)
	baseModel := widget.NewEntry()
	companion := widget.NewEntry()
	environment := widget.NewEntry()
	audio := widget.NewEntry()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Meditation", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Default duration"), minutes, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Ambience", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		ambient,
		widget.NewLabel("Volume"),
		volume,
		widget.NewLabelWithStyle("Assets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Model", baseModel),
			widget.NewFormItem("Companion", companion),
			widget.NewFormItem("Environment", environment),
			widget.NewFormItem("Soundtrack", audio),
		),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(460, 440))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		minutes:     minutes,
		volume:      volume,
		ambient:     ambient,
		baseModel:   baseModel,
		companion:   companion,
		environment: environment,
		audio:       audio,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.minutes.SetText(strconv.Itoa(settings.DefaultMinutes))
	prefs.volume.Value = settings.AmbientVolume
	prefs.volume.Refresh()
	prefs.ambient.SetChecked(settings.AmbientEnabled)
	prefs.baseModel.SetText(settings.BaseModel)
	prefs.companion.SetText(settings.CompanionModel)
	prefs.environment.SetText(settings.Environment)
	prefs.audio.SetText(settings.AmbientAudio)
}

func (prefs *Window) handleSave() {
	prefs.settings = prefs.collect()
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() Settings {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.minutes.Text); ok {
		settings.DefaultMinutes = minutes
	}
	settings.AmbientVolume = prefs.volume.Value
	settings.AmbientEnabled = prefs.ambient.Checked
	settings.BaseModel = keepIfBlank(prefs.baseModel.Text, settings.BaseModel)
	settings.CompanionModel = keepIfBlank(prefs.companion.Text, settings.CompanionModel)
	settings.Environment = keepIfBlank(prefs.environment.Text, settings.Environment)
	settings.AmbientAudio = keepIfBlank(prefs.audio.Text, settings.AmbientAudio)

	return settings
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func keepIfBlank(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
