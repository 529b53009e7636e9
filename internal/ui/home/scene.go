package home

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"stillpoint/internal/core/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r3"
)

const modelLoadTimeout = 30 * time.Second

// ModelExtensions are the file types offered by the upload dialog.
var ModelExtensions = []string{".glb", ".gltf"}

// SceneLoader replaces the base model of the scene.
type SceneLoader interface {
	LoadBase(ctx context.Context, path string) (*scene.Node, error)
	Companion() *scene.Node
}

// ScenePanel offers model upload and reports the composed scene.
type ScenePanel struct {
	loader     SceneLoader
	scene      *scene.Scene
	onInteract func()
	window     fyne.Window
	status     *widget.Label
	content    fyne.CanvasObject
}

// NewScenePanel builds the upload control.
func NewScenePanel(loader SceneLoader, composed *scene.Scene, onInteract func()) *ScenePanel {
	panel := &ScenePanel{
		loader:     loader,
		scene:      composed,
		onInteract: onInteract,
		status:     widget.NewLabel(""),
	}
	panel.status.Wrapping = fyne.TextWrapWord
	upload := widget.NewButton("Upload model...", panel.showUpload)
	panel.content = container.NewVBox(upload, panel.status)
	return panel
}

// SetWindow sets the parent of the upload dialog.
func (panel *ScenePanel) SetWindow(window fyne.Window) {
	panel.window = window
}

// Content returns the panel widgets.
func (panel *ScenePanel) Content() fyne.CanvasObject {
	return panel.content
}

// Status returns the last status text.
func (panel *ScenePanel) Status() string {
	return panel.status.Text
}

// Load replaces the base model with the file at path and shows the outcome.
func (panel *ScenePanel) Load(ctx context.Context, path string) string {
	base, err := panel.loader.LoadBase(ctx, path)
	status := SceneStatus(base, panel.loader.Companion(), err)
	fyne.Do(func() {
		panel.status.SetText(status)
	})
	return status
}

// ShowEnvironment reports the environment map in the status line.
func (panel *ScenePanel) ShowEnvironment(err error) {
	text := "Environment: " + filepath.Base(panel.scene.Environment())
	if err != nil {
		text = "Environment unavailable."
	}
	fyne.Do(func() {
		panel.status.SetText(text)
	})
}

func (panel *ScenePanel) showUpload() {
	if panel.onInteract != nil {
		panel.onInteract()
	}
	if panel.window == nil {
		return
	}
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, panel.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		panel.status.SetText("Loading " + filepath.Base(path) + "...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), modelLoadTimeout)
			defer cancel()
			panel.Load(ctx, path)
		}()
	}, panel.window)
	open.SetFilter(storage.NewExtensionFileFilter(ModelExtensions))
	open.Show()
}

// SceneStatus describes the result of a base model load.
func SceneStatus(base, companion *scene.Node, err error) string {
	if err != nil || base == nil {
		return "Could not load model."
	}
	bounds := base.WorldBounds()
	size := r3.Sub(bounds.Max, bounds.Min)
	status := fmt.Sprintf("Loaded %s (%.1f x %.1f x %.1f)", base.Name, size.X, size.Y, size.Z)
	if companion == nil {
		return status + ", companion unavailable."
	}
	return status + " with " + companion.Name + "."
}
