package annotation

import "tactics-board/pkg/geometry"

// State enumerates the interaction states a shape can be in. A shape moves
// through these states explicitly; there are no independent boolean flags.
type State int

const (
	StateIdle State = iota
	StateSelected
	StateMoving
	StateResizing
	StateDeleted
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateMoving:
		return "moving"
	case StateResizing:
		return "resizing"
	case StateDeleted:
		return "deleted"
	default:
		return "idle"
	}
}

// Corner identifies one of the four resize handles of a shape's bounding box,
// in the same order Rect.Corners yields them.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// HandleRadius is the hit radius, in scene units, within which a pointer
// position grabs a corner handle.
const HandleRadius = 1.0

// interaction carries the shared state machine embedded in every shape.
// Transitions not listed are rejected: a shape must be selected before it
// can move or resize, and a deleted shape refuses everything.
type interaction struct {
	state     State
	grabbed   Corner
	grabStart geometry.Point2D
}

// State returns the current interaction state.
func (i *interaction) State() State {
	return i.state
}

// Selected reports whether the shape is in a selected-family state
// (selected, moving, or resizing).
func (i *interaction) Selected() bool {
	return i.state == StateSelected || i.state == StateMoving || i.state == StateResizing
}

// Select transitions idle -> selected. Returns false if the shape is
// deleted; selecting an already selected shape is a no-op that succeeds.
func (i *interaction) Select() bool {
	switch i.state {
	case StateDeleted:
		return false
	case StateIdle:
		i.state = StateSelected
	}
	return true
}

// Deselect returns the shape to idle. Any in-flight move or resize session
// is abandoned; deleted shapes stay deleted.
func (i *interaction) Deselect() {
	if i.state == StateDeleted {
		return
	}
	i.state = StateIdle
}

// beginMove transitions selected -> moving.
func (i *interaction) beginMove() bool {
	if i.state != StateSelected {
		return false
	}
	i.state = StateMoving
	return true
}

// endMove transitions moving -> selected.
func (i *interaction) endMove() {
	if i.state == StateMoving {
		i.state = StateSelected
	}
}

// beginResize transitions selected -> resizing and records the grabbed
// corner and the pointer position at grab time. Cumulative deltas during
// the session are measured against grabStart.
func (i *interaction) beginResize(corner Corner, pointer geometry.Point2D) bool {
	if i.state != StateSelected {
		return false
	}
	i.state = StateResizing
	i.grabbed = corner
	i.grabStart = pointer
	return true
}

// endResize transitions resizing -> selected.
func (i *interaction) endResize() {
	if i.state == StateResizing {
		i.state = StateSelected
	}
}

// markDeleted tears the shape down from any state. Further transition
// attempts on stale references are no-ops.
func (i *interaction) markDeleted() {
	i.state = StateDeleted
}

// HandleAt returns the corner whose handle contains the given scene point,
// testing against the four corners of box.
func HandleAt(box geometry.Rect, p geometry.Point2D) (Corner, bool) {
	for idx, c := range box.Corners() {
		if c.Distance(p) <= HandleRadius {
			return Corner(idx), true
		}
	}
	return 0, false
}
