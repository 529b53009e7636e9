package guide

import (
	"context"
	"image/color"
	"math"
	"sync"
	"sync/atomic"

	"stillpoint/internal/core/breathing"
	"stillpoint/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var (
	circleColor     = color.NRGBA{R: 120, G: 190, B: 220, A: 220}
	backgroundColor = color.NRGBA{R: 18, G: 24, B: 38, A: 255}
	labelColor      = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
)

const (
	windowWidth  = float32(360)
	windowHeight = float32(420)
)

// Window shows the breathing circle and the current phase label.
type Window struct {
	mu         sync.Mutex
	window     fyne.Window
	circle     *canvas.Circle
	label      *canvas.Text
	layout     *circleLayout
	stage      *fyne.Container
	engine     *animation.Engine
	compressed float64
	pending    atomic.Uint64
	ctx        context.Context
	cancel     context.CancelFunc
	stopButton *widget.Button
	onStop     func()
}

// New creates a hidden guide window.
func New(app fyne.App, config animation.Config) *Window {
	window := app.NewWindow("Breathing")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(backgroundColor)

	circle := canvas.NewCircle(circleColor)

	label := canvas.NewText("", labelColor)
	label.Alignment = fyne.TextAlignCenter
	label.TextStyle = fyne.TextStyle{Bold: true}
	label.TextSize = 24

	circles := &circleLayout{scale: config.Compressed}
	stage := container.New(circles, circle)

	guide := &Window{
		window:     window,
		circle:     circle,
		label:      label,
		layout:     circles,
		stage:      stage,
		compressed: config.Compressed,
	}
	guide.engine = animation.New(config, guide.setScale)

	guide.stopButton = widget.NewButton("Stop", func() {
		if guide.onStop != nil {
			guide.onStop()
		}
	})

	content := container.NewBorder(nil, container.NewVBox(label, guide.stopButton), nil, nil, stage)
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.SetCloseIntercept(func() {
		if guide.onStop != nil {
			guide.onStop()
			return
		}
		guide.Hide()
	})

	return guide
}

// SetOnStop sets the handler for the Stop button and window close.
func (guide *Window) SetOnStop(handler func()) {
	guide.onStop = handler
}

// Show opens the window and enables the circle animation.
func (guide *Window) Show() {
	guide.mu.Lock()
	if guide.cancel != nil {
		guide.cancel()
	}
	guide.ctx, guide.cancel = context.WithCancel(context.Background())
	guide.mu.Unlock()

	guide.window.Show()
	guide.window.RequestFocus()
}

// Hide closes the window, stops animations and resets the circle.
func (guide *Window) Hide() {
	guide.mu.Lock()
	if guide.cancel != nil {
		guide.cancel()
	}
	guide.ctx, guide.cancel = nil, nil
	guide.mu.Unlock()

	guide.engine.Snap(guide.compressed)
	guide.window.Hide()
}

// Visible reports whether the guide is shown.
func (guide *Window) Visible() bool {
	guide.mu.Lock()
	defer guide.mu.Unlock()
	return guide.ctx != nil
}

// SetLabel updates the phase text.
func (guide *Window) SetLabel(text string) {
	fyne.Do(func() {
		guide.label.Text = text
		guide.label.Refresh()
	})
}

// SetIndicator tweens the circle toward the indicator's extreme.
// Indicator changes while hidden are ignored.
func (guide *Window) SetIndicator(indicator breathing.Indicator) {
	guide.mu.Lock()
	ctx := guide.ctx
	guide.mu.Unlock()
	if ctx == nil {
		return
	}
	switch indicator {
	case breathing.IndicatorExpand:
		guide.engine.Expand(ctx)
	case breathing.IndicatorCompress:
		guide.engine.Compress(ctx)
	}
}

// Label returns the current phase text.
func (guide *Window) Label() string {
	return guide.label.Text
}

// Scale returns the current circle scale.
func (guide *Window) Scale() float64 {
	return guide.engine.Scale()
}

// setScale records the newest scale; queued refreshes always draw the newest one.
func (guide *Window) setScale(scale float64) {
	guide.pending.Store(math.Float64bits(scale))
	fyne.Do(func() {
		guide.layout.scale = math.Float64frombits(guide.pending.Load())
		guide.stage.Refresh()
	})
}

type circleLayout struct {
	scale float64
}

func (layout *circleLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) == 0 {
		return
	}
	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	diameter := side * 0.9 * float32(layout.scale)
	if diameter < 0 {
		diameter = 0
	}
	objects[0].Resize(fyne.NewSize(diameter, diameter))
	objects[0].Move(fyne.NewPos((size.Width-diameter)/2, (size.Height-diameter)/2))
}

func (layout *circleLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(120, 120)
}
