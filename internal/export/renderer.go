// Package export renders the tactics board to images: pitch markings,
// players, annotations, and simulated trajectories. The same renderer
// backs PNG snapshots and the on-screen canvas raster.
package export

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"tactics-board/internal/annotation"
	"tactics-board/internal/simulation"
	"tactics-board/internal/tracking"
	"tactics-board/pkg/colorutil"
	"tactics-board/pkg/geometry"
)

// Options size the rendered board. Width and Height, when set, fix the
// output image size in pixels; otherwise it is derived from the pitch
// size, scale, and margins.
type Options struct {
	PitchLength float64 // metres
	PitchWidth  float64 // metres
	Scale       float64 // pixels per metre
	MarginX     float64 // pixels left of the pitch
	MarginY     float64 // pixels above the pitch
	Width       int
	Height      int
}

// DefaultOptions renders a full-size pitch at 10 px per metre.
func DefaultOptions() Options {
	return Options{PitchLength: 105, PitchWidth: 68, Scale: 10, MarginX: 20, MarginY: 20}
}

// FitOptions sizes a pitch into a widget of the given pixel size,
// preserving aspect ratio and centering.
func FitOptions(pitchLength, pitchWidth float64, widthPx, heightPx int) Options {
	opts := Options{
		PitchLength: pitchLength,
		PitchWidth:  pitchWidth,
		Width:       widthPx,
		Height:      heightPx,
	}
	margin := 20.0
	availW := float64(widthPx) - 2*margin
	availH := float64(heightPx) - 2*margin
	if availW <= 0 || availH <= 0 {
		opts.Scale = 1
		return opts
	}
	opts.Scale = math.Min(availW/pitchLength, availH/pitchWidth)
	opts.MarginX = (float64(widthPx) - pitchLength*opts.Scale) / 2
	opts.MarginY = (float64(heightPx) - pitchWidth*opts.Scale) / 2
	return opts
}

// Renderer draws one board image. It is single-use per frame: create,
// draw layers in order, then read the image or save it.
type Renderer struct {
	opts Options
	dc   *gg.Context
	face font.Face
}

// NewRenderer creates a renderer with a cleared grass background.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Scale <= 0 || opts.PitchLength <= 0 || opts.PitchWidth <= 0 {
		return nil, fmt.Errorf("export: invalid options %+v", opts)
	}
	w := opts.Width
	h := opts.Height
	if w <= 0 {
		w = int(opts.PitchLength*opts.Scale + 2*opts.MarginX)
	}
	if h <= 0 {
		h = int(opts.PitchWidth*opts.Scale + 2*opts.MarginY)
	}
	dc := gg.NewContext(w, h)

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("export: parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    math.Max(9, opts.Scale*1.1),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	dc.SetColor(colorutil.GrassDark)
	dc.Clear()

	return &Renderer{opts: opts, dc: dc, face: face}, nil
}

// px maps a scene point to pixel coordinates.
func (r *Renderer) px(p geometry.Point2D) (float64, float64) {
	return p.X*r.opts.Scale + r.opts.MarginX, p.Y*r.opts.Scale + r.opts.MarginY
}

// Image returns the rendered image.
func (r *Renderer) Image() image.Image {
	return r.dc.Image()
}

// SavePNG writes the rendered image to path.
func (r *Renderer) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}

// DrawPitch paints the grass and the standard markings.
func (r *Renderer) DrawPitch() {
	dc := r.dc
	s := r.opts.Scale
	length := r.opts.PitchLength
	width := r.opts.PitchWidth

	// mowing stripes
	stripes := 12
	stripeW := length / float64(stripes)
	for i := 0; i < stripes; i++ {
		if i%2 == 0 {
			dc.SetColor(colorutil.Grass)
		} else {
			dc.SetColor(colorutil.GrassDark)
		}
		x, y := r.px(geometry.Point2D{X: float64(i) * stripeW})
		dc.DrawRectangle(x, y, stripeW*s, width*s)
		dc.Fill()
	}

	dc.SetColor(colorutil.PitchLine)
	dc.SetLineWidth(math.Max(1, s*0.12))

	stroke := func(x, y, w, h float64) {
		px, py := r.px(geometry.Point2D{X: x, Y: y})
		dc.DrawRectangle(px, py, w*s, h*s)
		dc.Stroke()
	}

	// outline and halfway line
	stroke(0, 0, length, width)
	hx, hy := r.px(geometry.Point2D{X: length / 2})
	dc.DrawLine(hx, hy, hx, hy+width*s)
	dc.Stroke()

	// centre circle and spot
	cx, cy := r.px(geometry.Point2D{X: length / 2, Y: width / 2})
	dc.DrawCircle(cx, cy, 9.15*s)
	dc.Stroke()
	dc.DrawCircle(cx, cy, math.Max(2, s*0.25))
	dc.Fill()

	// penalty and goal areas on both ends
	stroke(0, width/2-20.16, 16.5, 40.32)
	stroke(length-16.5, width/2-20.16, 16.5, 40.32)
	stroke(0, width/2-9.16, 5.5, 18.32)
	stroke(length-5.5, width/2-9.16, 5.5, 18.32)

	// penalty spots
	for _, x := range []float64{11, length - 11} {
		px, py := r.px(geometry.Point2D{X: x, Y: width / 2})
		dc.DrawCircle(px, py, math.Max(2, s*0.25))
		dc.Fill()
	}
}

// DrawPlayers draws every player with tracked data at the frame, colored
// by side and labelled with its id.
func (r *Renderer) DrawPlayers(match *tracking.Match, frame int) {
	if match == nil {
		return
	}
	dc := r.dc
	radius := tracking.PlayerOuterRadiusBase * r.opts.Scale * 0.7
	for _, id := range match.PlayerIDs() {
		pos, ok := match.PlayerPosition(id, frame)
		if !ok {
			continue
		}
		x, y := r.px(pos)
		side, _ := match.SideOf(id)
		if side == tracking.Home {
			dc.SetRGB255(204, 37, 41)
		} else {
			dc.SetRGB255(57, 106, 177)
		}
		dc.DrawCircle(x, y, radius)
		dc.Fill()
		dc.SetColor(colorutil.White)
		dc.DrawCircle(x, y, radius)
		dc.SetLineWidth(1)
		dc.Stroke()
		dc.DrawStringAnchored(id, x, y, 0.5, 0.35)
	}

	if ball, ok := match.BallPosition(frame); ok {
		x, y := r.px(ball)
		dc.SetColor(colorutil.Ball)
		dc.DrawCircle(x, y, radius*0.45)
		dc.Fill()
		dc.SetColor(colorutil.Black)
		dc.DrawCircle(x, y, radius*0.45)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

// lineWidth converts a semantic stroke width to pixels.
func (r *Renderer) lineWidth(width float64) float64 {
	return math.Max(1, width*r.opts.Scale*0.15)
}

// applyStrokeStyle sets color, width, and dash pattern for a style.
// Previews are drawn at half opacity.
func (r *Renderer) applyStrokeStyle(style annotation.Style, preview bool) {
	c := colorutil.ParseHex(style.Color)
	if preview {
		c = colorutil.WithAlpha(c, 127)
	}
	r.dc.SetColor(c)
	r.dc.SetLineWidth(r.lineWidth(style.Width))
	switch style.Stroke {
	case annotation.StrokeDotted:
		unit := math.Max(2, r.opts.Scale*0.3)
		r.dc.SetDash(unit, unit)
	case annotation.StrokeDashed:
		unit := math.Max(4, r.opts.Scale*0.6)
		r.dc.SetDash(unit, unit*0.6)
	default:
		r.dc.SetDash()
	}
}

// DrawShape renders one annotation shape.
func (r *Renderer) DrawShape(s annotation.Shape) {
	switch shape := s.(type) {
	case *annotation.Arrow:
		r.drawArrow(shape)
	case *annotation.Zone:
		r.drawZone(shape)
	}
}

func (r *Renderer) drawArrow(a *annotation.Arrow) {
	dc := r.dc
	r.applyStrokeStyle(a.Style(), a.Preview())

	body := a.BodyPath()
	if len(body) < 2 {
		return
	}
	x, y := r.px(body[0])
	dc.MoveTo(x, y)
	for _, p := range body[1:] {
		x, y = r.px(p)
		dc.LineTo(x, y)
	}
	dc.Stroke()

	// the head is always solid
	dc.SetDash()
	head := a.Head()
	x, y = r.px(head[0])
	dc.MoveTo(x, y)
	for _, p := range head[1:] {
		x, y = r.px(p)
		dc.LineTo(x, y)
	}
	dc.ClosePath()
	dc.Fill()
}

func (r *Renderer) drawZone(z *annotation.Zone) {
	dc := r.dc
	style := z.Style()

	outline := z.Outline()
	if len(outline) < 2 {
		return
	}
	x, y := r.px(outline[0])
	dc.MoveTo(x, y)
	for _, p := range outline[1:] {
		x, y = r.px(p)
		dc.LineTo(x, y)
	}
	dc.ClosePath()

	if style.FillAlpha > 0 {
		fill := colorutil.WithAlpha(colorutil.ParseHex(style.Color), style.FillAlpha)
		if z.Preview() {
			fill.A /= 2
		}
		dc.SetColor(fill)
		dc.FillPreserve()
	}
	r.applyStrokeStyle(style, z.Preview())
	dc.Stroke()
	dc.SetDash()
}

// DrawSelection marks the selected shape with its bounding box and the
// four corner handles.
func (r *Renderer) DrawSelection(s annotation.Shape) {
	if s == nil || !s.Selected() {
		return
	}
	dc := r.dc
	box := s.BoundingBox()
	x, y := r.px(box.TopLeft())
	w := box.Width * r.opts.Scale
	h := box.Height * r.opts.Scale

	dc.SetColor(colorutil.Selection)
	dc.SetLineWidth(1.5)
	unit := math.Max(3, r.opts.Scale*0.4)
	dc.SetDash(unit, unit)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
	dc.SetDash()

	half := math.Max(3, r.opts.Scale*annotation.HandleRadius*0.35)
	for _, corner := range s.Handles() {
		cx, cy := r.px(corner)
		dc.SetColor(colorutil.White)
		dc.DrawRectangle(cx-half, cy-half, 2*half, 2*half)
		dc.Fill()
		dc.SetColor(colorutil.Selection)
		dc.DrawRectangle(cx-half, cy-half, 2*half, 2*half)
		dc.Stroke()
	}
}

// DrawTrajectories overlays the simulated player and ball paths.
func (r *Renderer) DrawTrajectories(engine *simulation.Engine, match *tracking.Match) {
	if engine == nil {
		return
	}
	dc := r.dc
	dc.SetLineWidth(math.Max(1.5, r.opts.Scale*0.18))
	unit := math.Max(2, r.opts.Scale*0.3)

	for id, pts := range engine.SimulatedPlayers() {
		if len(pts) < 2 {
			continue
		}
		side := tracking.Home
		if match != nil {
			side, _ = match.SideOf(id)
		}
		if side == tracking.Home {
			dc.SetRGBA255(204, 37, 41, 200)
		} else {
			dc.SetRGBA255(57, 106, 177, 200)
		}
		dc.SetDash(unit, unit)
		x, y := r.px(pts[0].Pos)
		dc.MoveTo(x, y)
		for _, tp := range pts[1:] {
			x, y = r.px(tp.Pos)
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}

	ball := engine.SimulatedBall()
	if len(ball) >= 2 {
		dc.SetColor(colorutil.Ball)
		dc.SetDash()
		x, y := r.px(ball[0].Pos)
		dc.MoveTo(x, y)
		for _, tp := range ball[1:] {
			x, y = r.px(tp.Pos)
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}
	dc.SetDash()
}
