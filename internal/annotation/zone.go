package annotation

import (
	"math"

	"tactics-board/pkg/geometry"
)

const ellipseSamples = 64

// Zone is a rectangular or elliptical area annotation. It is stored as an
// axis-aligned rect plus a rotation in degrees about the rect center; the
// ellipse variant is inscribed in the rect.
type Zone struct {
	interaction
	kind     Kind
	rect     geometry.Rect
	rotation float64
	style    Style
	preview  bool

	// resize session snapshot
	origRect geometry.Rect
}

// NewZone builds a zone spanning the two opposite corners. It fails when
// the corners coincide on either axis, which would yield a degenerate
// rect.
func NewZone(kind Kind, a, b geometry.Point2D, style Style) (*Zone, bool) {
	r := geometry.RectFromCorners(a, b)
	if r.Width == 0 || r.Height == 0 {
		return nil, false
	}
	return &Zone{kind: kind, rect: r, style: style}, true
}

// NewZoneFromRect restores a zone from stored geometry, used when loading
// projects.
func NewZoneFromRect(kind Kind, rect geometry.Rect, rotation float64, style Style) *Zone {
	return &Zone{kind: kind, rect: rect, rotation: rotation, style: style}
}

// Kind returns the zone's kind, rectangle or ellipse.
func (z *Zone) Kind() Kind { return z.kind }

// Style returns the zone's current style.
func (z *Zone) Style() Style { return z.style }

// SetColor updates the outline color.
func (z *Zone) SetColor(hex string) { z.style.Color = hex }

// SetWidth updates the outline width.
func (z *Zone) SetWidth(width float64) { z.style.Width = width }

// SetStroke updates the outline pattern.
func (z *Zone) SetStroke(stroke Stroke) { z.style.Stroke = stroke }

// SetFillAlpha updates the interior fill opacity, 0 for outline only.
func (z *Zone) SetFillAlpha(alpha uint8) { z.style.FillAlpha = alpha }

// Preview reports whether this zone is a creation preview.
func (z *Zone) Preview() bool { return z.preview }

// Rect returns the unrotated base rectangle.
func (z *Zone) Rect() geometry.Rect { return z.rect }

// Rotation returns the rotation in degrees about the rect center.
func (z *Zone) Rotation() float64 { return z.rotation }

// SetRotation sets the rotation in degrees about the rect center.
func (z *Zone) SetRotation(deg float64) { z.rotation = deg }

// Center returns the zone center, which rotation does not move.
func (z *Zone) Center() geometry.Point2D { return z.rect.Center() }

// Outline returns the renderable outline in scene coordinates, rotation
// applied. Rectangles yield a closed 5-point loop, ellipses a sampled
// closed loop.
func (z *Zone) Outline() []geometry.Point2D {
	if z.kind == KindEllipse {
		return z.ellipseOutline()
	}
	corners := z.rect.Corners()
	loop := append(corners[:], corners[0])
	return z.rotate(loop)
}

func (z *Zone) ellipseOutline() []geometry.Point2D {
	c := z.rect.Center()
	rx := z.rect.Width / 2
	ry := z.rect.Height / 2
	out := make([]geometry.Point2D, 0, ellipseSamples+1)
	for i := 0; i <= ellipseSamples; i++ {
		theta := 2 * math.Pi * float64(i) / ellipseSamples
		out = append(out, geometry.Point2D{
			X: c.X + rx*math.Cos(theta),
			Y: c.Y + ry*math.Sin(theta),
		})
	}
	return z.rotate(out)
}

// rotate spins points about the zone center by the current rotation.
func (z *Zone) rotate(points []geometry.Point2D) []geometry.Point2D {
	if z.rotation == 0 {
		return points
	}
	c := z.rect.Center()
	rad := z.rotation * math.Pi / 180.0
	sin, cos := math.Sincos(rad)
	out := make([]geometry.Point2D, len(points))
	for i, p := range points {
		dx := p.X - c.X
		dy := p.Y - c.Y
		out[i] = geometry.Point2D{
			X: c.X + dx*cos - dy*sin,
			Y: c.Y + dx*sin + dy*cos,
		}
	}
	return out
}

// BoundingBox returns the axis-aligned envelope of the rotated zone.
func (z *Zone) BoundingBox() geometry.Rect {
	return z.rect.RotatedEnvelope(z.rotation)
}

// Handles returns the corner handle positions on the bounding box.
func (z *Zone) Handles() [4]geometry.Point2D {
	return z.BoundingBox().Corners()
}

// HitTest reports whether p lies inside the zone. The point is rotated
// back into the rect's frame; ellipses additionally test the inscribed
// ellipse equation.
func (z *Zone) HitTest(p geometry.Point2D) bool {
	local := p
	if z.rotation != 0 {
		c := z.rect.Center()
		rad := -z.rotation * math.Pi / 180.0
		sin, cos := math.Sincos(rad)
		dx := p.X - c.X
		dy := p.Y - c.Y
		local = geometry.Point2D{
			X: c.X + dx*cos - dy*sin,
			Y: c.Y + dx*sin + dy*cos,
		}
	}
	if !z.rect.Contains(local) {
		return false
	}
	if z.kind == KindEllipse {
		c := z.rect.Center()
		rx := z.rect.Width / 2
		ry := z.rect.Height / 2
		nx := (local.X - c.X) / rx
		ny := (local.Y - c.Y) / ry
		return nx*nx+ny*ny <= 1
	}
	return true
}

// Translate shifts the zone by delta.
func (z *Zone) Translate(delta geometry.Point2D) {
	z.rect = z.rect.Translated(delta)
}

// MoveBy translates the zone while in the moving state.
func (z *Zone) MoveBy(delta geometry.Point2D) {
	if z.state != StateMoving {
		return
	}
	z.Translate(delta)
}

// BeginMove transitions to moving.
func (z *Zone) BeginMove() bool { return z.beginMove() }

// EndMove commits the move and returns to selected.
func (z *Zone) EndMove() { z.endMove() }

// BeginResize starts a resize session, snapshotting the base rect.
func (z *Zone) BeginResize(corner Corner, pointer geometry.Point2D) bool {
	if !z.beginResize(corner, pointer) {
		return false
	}
	z.origRect = z.rect
	return true
}

// ResizeTo recomputes the rect from the session snapshot plus the
// cumulative pointer delta, keeping the corner opposite the grabbed one
// anchored. Updates collapsing either axis to MinResizeExtent or less are
// rejected and leave the zone unchanged.
func (z *Zone) ResizeTo(pointer geometry.Point2D) bool {
	if z.state != StateResizing {
		return false
	}
	delta := pointer.Sub(z.grabStart)
	minX, minY, maxX, maxY := movedCorners(z.origRect, z.grabbed, delta)
	newW := maxX - minX
	newH := maxY - minY
	if newW <= MinResizeExtent || newH <= MinResizeExtent {
		return false
	}
	z.rect = geometry.Rect{X: minX, Y: minY, Width: newW, Height: newH}
	return true
}

// EndResize commits the session; the snapshot is refreshed to the
// committed rect so a following session starts from current geometry.
func (z *Zone) EndResize() {
	z.endResize()
	z.origRect = z.rect
}
