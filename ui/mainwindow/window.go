// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/atotto/clipboard"

	"tactics-board/internal/annotation"
	"tactics-board/internal/app"
	"tactics-board/internal/export"
	"tactics-board/internal/simulation"
	"tactics-board/ui/pitchcanvas"
)

const playbackTick = 40 * time.Millisecond

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	config *app.Config
	canvas *pitchcanvas.PitchCanvas

	statusBar   *widget.Label
	frameSlider *widget.Slider
	playButton  *widget.Button

	colorEntry  *widget.Entry
	widthSlider *widget.Slider
	strokeSel   *widget.Select
	fillSlider  *widget.Slider
	rotSlider   *widget.Slider

	// awaitingReceiver is set after associating a pass arrow; the next
	// player click names the receiver.
	awaitingReceiver bool

	stopPlayback chan struct{}
}

// New creates the main window.
func New(fyneApp fyne.App, state *app.State, config *app.Config) *MainWindow {
	win := fyneApp.NewWindow("Tactics Board")

	mw := &MainWindow{
		Window:       win,
		app:          fyneApp,
		state:        state,
		config:       config,
		stopPlayback: make(chan struct{}),
	}

	mw.setupUI()
	mw.setupEventHandlers()
	mw.startPlaybackLoop()

	win.Resize(fyne.NewSize(float32(config.WindowWidth), float32(config.WindowHeight)))
	win.SetOnClosed(func() { close(mw.stopPlayback) })
	return mw
}

func (mw *MainWindow) setupUI() {
	mw.canvas = pitchcanvas.New(mw.state, mw.config.PitchLength, mw.config.PitchWidth)
	mw.canvas.OnPlayerTap(mw.onPlayerTap)

	mw.statusBar = widget.NewLabel("Ready")

	content := container.NewBorder(
		mw.createToolbar(),
		container.NewVBox(mw.createPlaybackBar(), container.NewPadded(mw.statusBar)),
		nil,
		mw.createPropertiesPanel(),
		mw.canvas,
	)
	mw.SetContent(content)

	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.state.DeleteSelected()
		case fyne.KeyEscape:
			mw.state.ActiveManager().CancelShape()
			mw.state.ClearSelection()
		case fyne.KeyReturn, fyne.KeyEnter:
			if mw.state.ActiveManager().TryFinishShape() != nil {
				mw.state.SetModified(true)
				mw.state.Emit(app.EventAnnotationsChanged, nil)
			}
		case fyne.KeySpace:
			mw.state.TogglePlayback()
		}
	})
}

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	tool := func(label string, t app.Tool) *widget.Button {
		return widget.NewButton(label, func() {
			mw.state.SetTool(t)
			mw.setStatus("Tool: " + t.String())
		})
	}

	return container.NewHBox(
		tool("Select", app.ToolSelect),
		tool("Arrow", app.ToolArrow),
		tool("Curved", app.ToolCurvedArrow),
		tool("Rect", app.ToolRectangle),
		tool("Ellipse", app.ToolEllipse),
		widget.NewSeparator(),
		widget.NewButton("Delete", mw.state.DeleteSelected),
		widget.NewButton("Clear", func() {
			dialog.ShowConfirm("Clear board", "Remove all annotations?", func(ok bool) {
				if ok {
					mw.state.ClearAnnotations()
				}
			}, mw.Window)
		}),
		widget.NewSeparator(),
		widget.NewButton("Simulate", func() {
			mw.state.RunSimulation(mw.config.SimulationInterval)
			mw.setStatus("Simulation updated")
		}),
		widget.NewButton("Clear Sim", func() {
			mw.state.Simulation.Clear()
			mw.state.Emit(app.EventSimulationUpdated, nil)
		}),
		widget.NewSeparator(),
		widget.NewButton("Snapshot", mw.onSnapshot),
		widget.NewButton("Copy JSON", mw.onCopyJSON),
		widget.NewButton("Save", mw.onSave),
		widget.NewButton("Open", mw.onOpen),
	)
}

func (mw *MainWindow) createPlaybackBar() fyne.CanvasObject {
	total := 1
	if mw.state.Match != nil {
		total = mw.state.Match.TotalFrames()
	}

	mw.frameSlider = widget.NewSlider(0, float64(total-1))
	mw.frameSlider.OnChanged = func(v float64) {
		mw.state.SetFrame(int(v))
	}

	mw.playButton = widget.NewButton("Play", mw.state.TogglePlayback)

	speedSel := widget.NewSelect([]string{"0.5x", "1x", "2x", "4x"}, func(s string) {
		v, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err == nil {
			mw.state.SetPlaybackSpeed(v)
		}
	})
	speedSel.SetSelected("1x")

	return container.NewBorder(nil, nil,
		container.NewHBox(mw.playButton, speedSel), nil,
		mw.frameSlider,
	)
}

func (mw *MainWindow) createPropertiesPanel() fyne.CanvasObject {
	mw.colorEntry = widget.NewEntry()
	mw.colorEntry.SetPlaceHolder("#RRGGBB")
	mw.colorEntry.OnSubmitted = func(hex string) {
		mw.applyStyle("color", func(m *annotation.Manager) { m.SetColor(hex) })
	}

	mw.widthSlider = widget.NewSlider(1, 10)
	mw.widthSlider.OnChanged = func(v float64) {
		mw.applyStyle("width", func(m *annotation.Manager) { m.SetWidth(v) })
	}

	mw.strokeSel = widget.NewSelect([]string{"solid", "dotted", "zigzag", "dashed"}, func(s string) {
		mw.applyStyle("stroke", func(m *annotation.Manager) { m.SetStroke(annotation.ParseStroke(s)) })
	})

	mw.fillSlider = widget.NewSlider(0, 255)
	mw.fillSlider.OnChanged = func(v float64) {
		if zone, ok := mw.state.SelectedShape().(*annotation.Zone); ok {
			old := zone.Style().FillAlpha
			zone.SetFillAlpha(uint8(v))
			mw.state.History.Push("fill alpha",
				func() { zone.SetFillAlpha(uint8(v)) },
				func() { zone.SetFillAlpha(old) })
			mw.canvas.Refresh()
		}
	}

	mw.rotSlider = widget.NewSlider(-180, 180)
	mw.rotSlider.OnChanged = func(v float64) {
		if zone, ok := mw.state.SelectedShape().(*annotation.Zone); ok {
			old := zone.Rotation()
			zone.SetRotation(v)
			mw.state.History.Push("rotation",
				func() { zone.SetRotation(v) },
				func() { zone.SetRotation(old) })
			mw.canvas.Refresh()
		}
	}

	undoBtn := widget.NewButton("Undo", func() {
		if name, ok := mw.state.History.Undo(); ok {
			mw.setStatus("Undid " + name)
			mw.canvas.Refresh()
		}
	})
	redoBtn := widget.NewButton("Redo", func() {
		if name, ok := mw.state.History.Redo(); ok {
			mw.setStatus("Redid " + name)
			mw.canvas.Refresh()
		}
	})

	return container.NewVBox(
		widget.NewLabel("Properties"),
		widget.NewLabel("Color"), mw.colorEntry,
		widget.NewLabel("Width"), mw.widthSlider,
		widget.NewLabel("Stroke"), mw.strokeSel,
		widget.NewLabel("Fill"), mw.fillSlider,
		widget.NewLabel("Rotation"), mw.rotSlider,
		container.NewHBox(undoBtn, redoBtn),
	)
}

// applyStyle routes a style change to the manager owning the selection,
// or to the active manager's defaults when nothing is selected. Shape
// changes are recorded for undo.
func (mw *MainWindow) applyStyle(name string, apply func(*annotation.Manager)) {
	for _, m := range mw.state.Managers() {
		sel := m.Selected()
		if sel == nil {
			continue
		}
		oldStyle := sel.Style()
		apply(m)
		newStyle := sel.Style()
		mw.state.History.Push(name,
			func() {
				sel.SetColor(newStyle.Color)
				sel.SetWidth(newStyle.Width)
				sel.SetStroke(newStyle.Stroke)
			},
			func() {
				sel.SetColor(oldStyle.Color)
				sel.SetWidth(oldStyle.Width)
				sel.SetStroke(oldStyle.Stroke)
			})
		mw.state.SetModified(true)
		mw.canvas.Refresh()
		return
	}
	apply(mw.state.ActiveManager())
}

// onPlayerTap completes the association flow: a pending pass takes the
// clicked player as receiver, otherwise the selected arrow is bound to
// the player.
func (mw *MainWindow) onPlayerTap(playerID string) {
	if mw.awaitingReceiver {
		if mw.state.Simulation.SetPassReceiver(playerID) {
			mw.awaitingReceiver = false
			mw.setStatus("Pass receiver: " + playerID)
			mw.state.Emit(app.EventSimulationUpdated, nil)
		}
		return
	}

	status, ok := mw.canvas.AssociateSelectedArrow(playerID)
	if !ok {
		mw.setStatus("Player " + playerID)
		return
	}
	if status == simulation.StatusAwaitingReceiver {
		mw.awaitingReceiver = true
		mw.setStatus(fmt.Sprintf("Pass by %s: click the receiver", playerID))
	} else {
		mw.setStatus("Arrow assigned to " + playerID)
	}
}

func (mw *MainWindow) onSnapshot() {
	path := fmt.Sprintf("board-%s.png", time.Now().Format("20060102-150405"))
	opts := export.DefaultOptions()
	opts.PitchLength = mw.config.PitchLength
	opts.PitchWidth = mw.config.PitchWidth
	if err := export.Snapshot(path, mw.state, opts); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.setStatus("Snapshot saved: " + path)
}

func (mw *MainWindow) onCopyJSON() {
	data, err := mw.state.AnnotationsJSON()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.setStatus("Annotations copied to clipboard")
}

func (mw *MainWindow) onSave() {
	path := mw.state.ProjectPath
	if path == "" {
		path = "board.tacproj"
	}
	if err := mw.state.SaveProject(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.setStatus("Saved " + path)
}

func (mw *MainWindow) onOpen() {
	path := mw.state.ProjectPath
	if path == "" {
		path = "board.tacproj"
	}
	if err := mw.state.LoadProject(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.setStatus("Loaded " + path)
}

func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventPlaybackChanged, func(data interface{}) {
		if playing, ok := data.(bool); ok {
			if playing {
				mw.playButton.SetText("Pause")
			} else {
				mw.playButton.SetText("Play")
			}
		}
	})

	mw.state.On(app.EventFrameChanged, func(data interface{}) {
		if frame, ok := data.(int); ok {
			mw.frameSlider.SetValue(float64(frame))
			if mw.state.Match != nil {
				secs := mw.state.Match.TimeForFrame(frame)
				mw.setStatus(fmt.Sprintf("Frame %d (%.1fs)", frame, secs))
			}
		}
	})

	mw.state.On(app.EventSelectionChanged, func(data interface{}) {
		shape, _ := data.(annotation.Shape)
		mw.refreshProperties(shape)
	})

	mw.state.On(app.EventSimulationUpdated, func(interface{}) {
		chain := mw.state.Simulation.PossessionChain()
		if len(chain) > 0 {
			last := chain[len(chain)-1]
			mw.setStatus(fmt.Sprintf("Possession: %s -> %s (%d passes)", last.From, last.To, len(chain)))
		}
	})

	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Tactics Board - " + path)
		}
	})
}

// refreshProperties loads the selected shape's style into the panel.
func (mw *MainWindow) refreshProperties(shape annotation.Shape) {
	if shape == nil {
		return
	}
	style := shape.Style()
	mw.colorEntry.SetText(style.Color)
	mw.widthSlider.SetValue(style.Width)
	mw.strokeSel.SetSelected(style.Stroke.String())
	if zone, ok := shape.(*annotation.Zone); ok {
		mw.fillSlider.SetValue(float64(style.FillAlpha))
		mw.rotSlider.SetValue(zone.Rotation())
	}
}

// startPlaybackLoop drives frame advancement while playing.
func (mw *MainWindow) startPlaybackLoop() {
	go func() {
		ticker := time.NewTicker(playbackTick)
		defer ticker.Stop()
		for {
			select {
			case <-mw.stopPlayback:
				return
			case <-ticker.C:
				mw.state.Advance(playbackTick.Seconds())
			}
		}
	}()
}

func (mw *MainWindow) setStatus(msg string) {
	mw.statusBar.SetText(msg)
}
