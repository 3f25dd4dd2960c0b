package annotation

import "tactics-board/pkg/geometry"

// Kind identifies the concrete shape type.
type Kind int

const (
	KindArrow Kind = iota
	KindRectangle
	KindEllipse
)

// String returns the project-file name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	default:
		return "arrow"
	}
}

// Shape is the common surface of arrows and zones. One Manager drives any
// Shape through the same creation, selection, move, and resize workflows;
// concrete geometry lives in the implementations.
type Shape interface {
	Kind() Kind
	Style() Style
	SetColor(hex string)
	SetWidth(width float64)
	SetStroke(stroke Stroke)

	// Preview reports whether the shape is an in-progress creation preview.
	// Previews are rendered at reduced opacity and never hit-tested.
	Preview() bool

	// BoundingBox returns the axis-aligned bounds of the shape's full
	// renderable geometry, including arrowheads and rotation.
	BoundingBox() geometry.Rect

	// Handles returns the four corner handle positions, valid while the
	// shape is selected.
	Handles() [4]geometry.Point2D

	// HitTest reports whether the scene point lies on the shape's body,
	// within a tolerance appropriate to the shape.
	HitTest(p geometry.Point2D) bool

	// Translate shifts the whole shape by delta.
	Translate(delta geometry.Point2D)

	// State machine. BeginResize snapshots the shape's geometry; ResizeTo
	// recomputes from that snapshot plus the cumulative pointer delta, so
	// replaying the same pointer position is idempotent. ResizeTo returns
	// false when the update was rejected (degenerate extent).
	State() State
	Selected() bool
	Select() bool
	Deselect()
	BeginMove() bool
	MoveBy(delta geometry.Point2D)
	EndMove()
	BeginResize(corner Corner, pointer geometry.Point2D) bool
	ResizeTo(pointer geometry.Point2D) bool
	EndResize()

	markDeleted()
}

// movedCorners applies a cumulative delta to the edges of box adjacent to
// the grabbed corner, leaving the opposite corner anchored. The result is
// returned un-normalized as min/max pairs so callers can reject degenerate
// extents before committing.
func movedCorners(box geometry.Rect, corner Corner, delta geometry.Point2D) (minX, minY, maxX, maxY float64) {
	minX, minY = box.X, box.Y
	maxX, maxY = box.X+box.Width, box.Y+box.Height
	switch corner {
	case CornerTopLeft:
		minX += delta.X
		minY += delta.Y
	case CornerTopRight:
		maxX += delta.X
		minY += delta.Y
	case CornerBottomRight:
		maxX += delta.X
		maxY += delta.Y
	case CornerBottomLeft:
		minX += delta.X
		maxY += delta.Y
	}
	return minX, minY, maxX, maxY
}
