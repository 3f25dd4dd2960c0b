// Package pitchcanvas provides the interactive board widget: the rendered
// pitch with players and annotations, and the pointer handling that
// drives shape creation, selection, moving, and resizing.
package pitchcanvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"tactics-board/internal/annotation"
	"tactics-board/internal/app"
	"tactics-board/internal/export"
	"tactics-board/internal/simulation"
	"tactics-board/internal/tracking"
	"tactics-board/internal/viewport"
	"tactics-board/pkg/geometry"
)

// dragMode tracks what an in-flight drag is doing.
type dragMode int

const (
	dragNone dragMode = iota
	dragMove
	dragResize
)

// PitchCanvas renders the board and routes pointer input to the
// annotation managers. All hit testing happens in scene coordinates; the
// viewport owns the pixel mapping.
type PitchCanvas struct {
	widget.BaseWidget

	state  *app.State
	view   *viewport.Viewport
	raster *fynecanvas.Raster

	pitchLength float64
	pitchWidth  float64

	dragging  bool
	mode      dragMode
	lastScene geometry.Point2D

	// onPlayerTap fires when a select-tool click lands on a player
	// instead of a shape, used for arrow-to-player association.
	onPlayerTap func(playerID string)
}

// New creates the canvas for an application state.
func New(st *app.State, pitchLength, pitchWidth float64) *PitchCanvas {
	pc := &PitchCanvas{
		state:       st,
		view:        viewport.New(),
		pitchLength: pitchLength,
		pitchWidth:  pitchWidth,
	}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.SetMinSize(fyne.NewSize(700, 480))
	pc.ExtendBaseWidget(pc)

	refresh := func() { pc.Refresh() }
	for _, m := range st.Managers() {
		m.OnChange(refresh)
	}
	st.On(app.EventFrameChanged, func(interface{}) { pc.Refresh() })
	st.On(app.EventSimulationUpdated, func(interface{}) { pc.Refresh() })
	st.On(app.EventSelectionChanged, func(interface{}) { pc.Refresh() })
	return pc
}

// OnPlayerTap registers the player pick callback.
func (pc *PitchCanvas) OnPlayerTap(fn func(playerID string)) {
	pc.onPlayerTap = fn
}

// Refresh redraws the board.
func (pc *PitchCanvas) Refresh() {
	pc.raster.Refresh()
	pc.BaseWidget.Refresh()
}

// toScene converts a widget position to scene coordinates.
func (pc *PitchCanvas) toScene(pos fyne.Position) geometry.Point2D {
	return pc.view.ToScene(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
}

// draw renders the full board for the raster.
func (pc *PitchCanvas) draw(w, h int) image.Image {
	opts := export.FitOptions(pc.pitchLength, pc.pitchWidth, w, h)
	pc.view.Set(geometry.AffineTransform{
		A: opts.Scale, D: opts.Scale,
		TX: opts.MarginX, TY: opts.MarginY,
	})

	r, err := export.NewRenderer(opts)
	if err != nil {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	r.DrawPitch()
	r.DrawTrajectories(pc.state.Simulation, pc.state.Match)
	for _, m := range pc.state.Managers() {
		for _, s := range m.Shapes() {
			r.DrawShape(s)
		}
	}
	for _, m := range pc.state.Managers() {
		if pv := m.Preview(); pv != nil {
			r.DrawShape(pv)
		}
	}
	r.DrawPlayers(pc.state.Match, pc.state.Frame())
	r.DrawSelection(pc.state.SelectedShape())
	return r.Image()
}

// Tapped handles left clicks: drawing tools add creation points, the
// select tool picks shapes or players.
func (pc *PitchCanvas) Tapped(ev *fyne.PointEvent) {
	scene := pc.toScene(ev.Position)

	if pc.state.Tool() != app.ToolSelect {
		m := pc.state.ActiveManager()
		if committed := m.AddPoint(scene); committed != nil {
			pc.state.SetModified(true)
			pc.state.Emit(app.EventAnnotationsChanged, nil)
		}
		m.UpdatePreview(scene)
		return
	}

	// topmost shape across all managers wins
	for _, m := range pc.state.Managers() {
		shapes := m.Shapes()
		for i := len(shapes) - 1; i >= 0; i-- {
			if shapes[i].HitTest(scene) {
				pc.state.SelectOnly(m, shapes[i])
				return
			}
		}
	}

	// no shape: try a player, for pass receivers and associations
	if pc.onPlayerTap != nil && pc.state.Match != nil {
		id, ok := pc.state.Simulation.FindClosestPlayer(
			scene, pc.state.Frame(), pc.state.Match, tracking.PlayerOuterRadiusBase)
		if ok {
			pc.onPlayerTap(id)
			return
		}
	}

	pc.state.ClearSelection()
}

// TappedSecondary handles right clicks: while creating, commit the shape
// if it has enough points, otherwise abandon it. In select mode it
// clears the selection.
func (pc *PitchCanvas) TappedSecondary(ev *fyne.PointEvent) {
	m := pc.state.ActiveManager()
	if m.Creating() {
		if committed := m.TryFinishShape(); committed != nil {
			pc.state.SetModified(true)
			pc.state.Emit(app.EventAnnotationsChanged, nil)
		} else {
			m.CancelShape()
		}
		return
	}
	pc.state.ClearSelection()
}

// Dragged moves or resizes the selected shape. The first event of a drag
// decides which: a press on a corner handle starts a resize session, a
// press on the shape body starts a move.
func (pc *PitchCanvas) Dragged(ev *fyne.DragEvent) {
	scene := pc.toScene(ev.Position)

	if pc.state.Tool() != app.ToolSelect {
		pc.state.ActiveManager().UpdatePreview(scene)
		return
	}

	sel := pc.state.SelectedShape()
	if sel == nil {
		return
	}

	if !pc.dragging {
		pc.dragging = true
		pc.mode = dragNone
		press := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		pressScene := pc.toScene(press)

		if corner, ok := annotation.HandleAt(sel.BoundingBox(), pressScene); ok {
			if sel.BeginResize(corner, pressScene) {
				pc.mode = dragResize
			}
		} else if sel.HitTest(pressScene) {
			if sel.BeginMove() {
				pc.mode = dragMove
				pc.lastScene = pressScene
			}
		}
	}

	switch pc.mode {
	case dragResize:
		sel.ResizeTo(scene)
		pc.Refresh()
	case dragMove:
		sel.MoveBy(scene.Sub(pc.lastScene))
		pc.lastScene = scene
		pc.Refresh()
	}
}

// DragEnd commits any move or resize session.
func (pc *PitchCanvas) DragEnd() {
	if !pc.dragging {
		return
	}
	pc.dragging = false
	sel := pc.state.SelectedShape()
	if sel != nil {
		switch pc.mode {
		case dragResize:
			sel.EndResize()
		case dragMove:
			sel.EndMove()
		}
		if pc.mode != dragNone {
			pc.state.SetModified(true)
			pc.state.Emit(app.EventAnnotationsChanged, nil)
		}
	}
	pc.mode = dragNone
	pc.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (pc *PitchCanvas) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved keeps the creation preview tracking the pointer.
func (pc *PitchCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if pc.state.Tool() == app.ToolSelect {
		return
	}
	m := pc.state.ActiveManager()
	if m.Creating() {
		m.UpdatePreview(pc.toScene(ev.Position))
	}
}

// MouseOut implements desktop.Hoverable.
func (pc *PitchCanvas) MouseOut() {}

// AssociateSelectedArrow binds the selected arrow to a player and returns
// the association status, or false when no arrow is selected.
func (pc *PitchCanvas) AssociateSelectedArrow(playerID string) (simulation.Status, bool) {
	sel := pc.state.SelectedShape()
	arrow, ok := sel.(*annotation.Arrow)
	if !ok {
		return 0, false
	}
	status := pc.state.Simulation.Associate(arrow, playerID, pc.state.Frame())
	return status, true
}

// CreateRenderer implements fyne.Widget.
func (pc *PitchCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}
