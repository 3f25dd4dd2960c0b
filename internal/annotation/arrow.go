package annotation

import (
	"math"

	"tactics-board/pkg/geometry"
)

// Zigzag rendering parameters. The oscillation runs perpendicular to the
// base path and flattens out over the final stretch so the line meets the
// arrowhead cleanly.
const (
	zigzagAmplitude = 1.2
	zigzagCycles    = 6
	zigzagFlatten   = 0.85
)

const curveSamples = 12

// Arrow is a multi-point annotation arrow. The control points are the
// scene positions the user clicked; the renderable body and head are
// derived from them on demand.
type Arrow struct {
	interaction
	points  []geometry.Point2D
	style   Style
	curved  bool
	preview bool

	// resize session snapshot
	origPoints []geometry.Point2D
	origBox    geometry.Rect
}

// NewArrow builds an arrow through the given control points. It fails when
// fewer than two points are supplied or the path has zero length.
func NewArrow(points []geometry.Point2D, style Style, curved bool) (*Arrow, bool) {
	if len(points) < 2 {
		return nil, false
	}
	if geometry.PolylineLength(points) == 0 {
		return nil, false
	}
	a := &Arrow{
		points: append([]geometry.Point2D(nil), points...),
		style:  style,
		curved: curved,
	}
	return a, true
}

// Kind returns KindArrow.
func (a *Arrow) Kind() Kind { return KindArrow }

// Style returns the arrow's current style.
func (a *Arrow) Style() Style { return a.style }

// SetColor updates the stroke color.
func (a *Arrow) SetColor(hex string) { a.style.Color = hex }

// SetWidth updates the stroke width.
func (a *Arrow) SetWidth(width float64) { a.style.Width = width }

// SetStroke updates the stroke pattern.
func (a *Arrow) SetStroke(stroke Stroke) { a.style.Stroke = stroke }

// Preview reports whether this arrow is a creation preview.
func (a *Arrow) Preview() bool { return a.preview }

// Curved reports whether the body is smoothed through its control points.
func (a *Arrow) Curved() bool { return a.curved }

// Points returns a copy of the control points.
func (a *Arrow) Points() []geometry.Point2D {
	return append([]geometry.Point2D(nil), a.points...)
}

// Start returns the first control point.
func (a *Arrow) Start() geometry.Point2D { return a.points[0] }

// End returns the last control point (the arrow tip).
func (a *Arrow) End() geometry.Point2D { return a.points[len(a.points)-1] }

// Length returns the total path length through the control points.
func (a *Arrow) Length() float64 { return geometry.PolylineLength(a.points) }

// headLength returns the head size for the current width.
func (a *Arrow) headLength() float64 { return HeadScale(a.style.Width) }

// truncatedEnd returns the body endpoint, pulled back from the tip along
// the last segment so the stroke does not poke through the head triangle.
func (a *Arrow) truncatedEnd() geometry.Point2D {
	last := a.points[len(a.points)-1]
	prev := a.points[len(a.points)-2]
	segLen := prev.Distance(last)
	if segLen == 0 {
		return last
	}
	ratio := (segLen - a.headLength()*0.7) / segLen
	if ratio < 0 {
		ratio = 0
	}
	return prev.Lerp(last, ratio)
}

// basePath returns the control polyline with its final point replaced by
// the truncated body endpoint.
func (a *Arrow) basePath() []geometry.Point2D {
	base := append([]geometry.Point2D(nil), a.points...)
	base[len(base)-1] = a.truncatedEnd()
	return base
}

// BodyPath returns the renderable body as a point sequence. Straight
// arrows yield the control polyline, curved arrows a quadratic smoothing
// through the interior points, and zigzag strokes a perpendicular
// oscillation over the straight base.
func (a *Arrow) BodyPath() []geometry.Point2D {
	if a.style.Stroke == StrokeZigzag {
		return zigzagPath(a.basePath())
	}
	if a.curved && len(a.points) > 2 {
		return a.curvedPath()
	}
	return a.basePath()
}

// curvedPath samples the smoothed body: each interior control point acts
// as a quadratic control with the midpoint to its successor as target,
// then a straight run to the truncated endpoint.
func (a *Arrow) curvedPath() []geometry.Point2D {
	pts := a.points
	out := []geometry.Point2D{pts[0]}
	current := pts[0]
	for i := 1; i < len(pts)-1; i++ {
		target := pts[i].Lerp(pts[i+1], 0.5)
		for s := 1; s <= curveSamples; s++ {
			t := float64(s) / curveSamples
			out = append(out, geometry.QuadraticPoint(current, pts[i], target, t))
		}
		current = target
	}
	out = append(out, a.truncatedEnd())
	return out
}

// zigzagPath lays a sine oscillation perpendicular to the base polyline.
// The amplitude decays to zero past the flatten threshold.
func zigzagPath(base []geometry.Point2D) []geometry.Point2D {
	length := geometry.PolylineLength(base)
	if length == 0 {
		return base
	}
	n := int(length * 4)
	if n < 16 {
		n = 16
	}
	out := make([]geometry.Point2D, 0, n+1)
	for s := 0; s <= n; s++ {
		t := float64(s) / float64(n)
		pos := geometry.PointOnPolyline(base, t)
		amp := zigzagAmplitude * math.Sin(2*math.Pi*zigzagCycles*t)
		if t >= zigzagFlatten {
			amp *= (1 - t) / (1 - zigzagFlatten)
		}
		dir := geometry.PolylineDirection(base, t)
		perp := geometry.Point2D{X: -dir.Y, Y: dir.X}
		out = append(out, pos.Add(perp.Scale(amp)))
	}
	return out
}

// Head returns the arrowhead triangle: tip first, then the two wing
// points. The head is an isoceles triangle opening back along the final
// segment direction.
func (a *Arrow) Head() [3]geometry.Point2D {
	tip := a.End()
	prev := a.points[len(a.points)-2]
	angle := math.Atan2(tip.Y-prev.Y, tip.X-prev.X)
	half := ArrowHeadAngleDeg * math.Pi / 180.0
	length := a.headLength()
	left := geometry.Point2D{
		X: tip.X - length*math.Cos(angle-half),
		Y: tip.Y - length*math.Sin(angle-half),
	}
	right := geometry.Point2D{
		X: tip.X - length*math.Cos(angle+half),
		Y: tip.Y - length*math.Sin(angle+half),
	}
	return [3]geometry.Point2D{tip, left, right}
}

// controlBox returns the bounding box of the control points only. Resize
// normalization works in this box, not the render bounds.
func (a *Arrow) controlBox() geometry.Rect {
	return geometry.BoundingBox(a.points)
}

// BoundingBox returns the bounds of the full renderable geometry,
// including the head wings.
func (a *Arrow) BoundingBox() geometry.Rect {
	head := a.Head()
	all := append(a.Points(), head[1], head[2])
	return geometry.BoundingBox(all)
}

// Handles returns the corner handle positions on the bounding box.
func (a *Arrow) Handles() [4]geometry.Point2D {
	return a.BoundingBox().Corners()
}

// HitTest reports whether p lies on the arrow body within a width-scaled
// tolerance.
func (a *Arrow) HitTest(p geometry.Point2D) bool {
	tol := math.Max(0.8, a.style.Width*0.4)
	path := a.BodyPath()
	for i := 0; i < len(path)-1; i++ {
		if distanceToSegment(p, path[i], path[i+1]) <= tol {
			return true
		}
	}
	head := a.Head()
	return geometry.BoundingBox(head[:]).Contains(p)
}

// Translate shifts every control point by delta.
func (a *Arrow) Translate(delta geometry.Point2D) {
	for i := range a.points {
		a.points[i] = a.points[i].Add(delta)
	}
}

// MoveBy translates the arrow while in the moving state.
func (a *Arrow) MoveBy(delta geometry.Point2D) {
	if a.state != StateMoving {
		return
	}
	a.Translate(delta)
}

// BeginMove transitions to moving.
func (a *Arrow) BeginMove() bool { return a.beginMove() }

// EndMove commits the move and returns to selected.
func (a *Arrow) EndMove() { a.endMove() }

// BeginResize starts a resize session anchored at the corner opposite the
// grabbed one, snapshotting the control points and their bounding box.
func (a *Arrow) BeginResize(corner Corner, pointer geometry.Point2D) bool {
	if !a.beginResize(corner, pointer) {
		return false
	}
	a.origPoints = a.Points()
	a.origBox = a.controlBox()
	return true
}

// ResizeTo recomputes the control points from the session snapshot and the
// cumulative pointer delta. Each point keeps its per-axis normalized
// position within the original bounding box, remapped into the moved box.
// Updates that would collapse either axis to MinResizeExtent or less are
// rejected and leave the arrow unchanged.
func (a *Arrow) ResizeTo(pointer geometry.Point2D) bool {
	if a.state != StateResizing {
		return false
	}
	delta := pointer.Sub(a.grabStart)
	minX, minY, maxX, maxY := movedCorners(a.origBox, a.grabbed, delta)
	newW := maxX - minX
	newH := maxY - minY
	if newW <= MinResizeExtent || newH <= MinResizeExtent {
		return false
	}
	for i, p := range a.origPoints {
		var nx, ny float64
		if a.origBox.Width > 0 {
			nx = (p.X - a.origBox.X) / a.origBox.Width
		}
		if a.origBox.Height > 0 {
			ny = (p.Y - a.origBox.Y) / a.origBox.Height
		}
		a.points[i] = geometry.Point2D{
			X: minX + nx*newW,
			Y: minY + ny*newH,
		}
	}
	return true
}

// EndResize commits the session.
func (a *Arrow) EndResize() {
	a.endResize()
	a.origPoints = nil
}

// distanceToSegment returns the distance from p to the segment ab.
func distanceToSegment(p, a, b geometry.Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Scale(t)))
}
