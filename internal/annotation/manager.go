package annotation

import (
	"sync"

	"tactics-board/pkg/geometry"
)

// Builder turns buffered creation points into a concrete shape. One
// Manager instance drives any builder through the same point-collection
// workflow; the builder decides how many points a shape needs and how to
// assemble it.
type Builder interface {
	// MinPoints is the number of buffered points required before the
	// shape can be committed.
	MinPoints() int
	// MaxPoints caps the buffer; reaching it commits automatically.
	// Zero means unlimited.
	MaxPoints() int
	// Build assembles a shape from the points, or reports failure for
	// degenerate input. Previews are rendered at reduced opacity.
	Build(points []geometry.Point2D, style Style, preview bool) (Shape, bool)
	// DefaultStyle is the style for new shapes when nothing is selected.
	DefaultStyle() Style
}

// ArrowBuilder builds straight or curved arrows from two or more clicked
// points.
type ArrowBuilder struct {
	Curved bool
}

func (b ArrowBuilder) MinPoints() int { return 2 }
func (b ArrowBuilder) MaxPoints() int { return 0 }

func (b ArrowBuilder) DefaultStyle() Style { return DefaultArrowStyle() }

func (b ArrowBuilder) Build(points []geometry.Point2D, style Style, preview bool) (Shape, bool) {
	a, ok := NewArrow(points, style, b.Curved)
	if !ok {
		return nil, false
	}
	a.preview = preview
	return a, true
}

// ZoneBuilder builds rectangle or ellipse zones from two opposite corner
// clicks. For ellipses the two points are treated the same way: the
// ellipse is inscribed in their spanned rect.
type ZoneBuilder struct {
	Kind Kind
}

func (b ZoneBuilder) MinPoints() int { return 2 }
func (b ZoneBuilder) MaxPoints() int { return 2 }

func (b ZoneBuilder) DefaultStyle() Style { return DefaultZoneStyle() }

func (b ZoneBuilder) Build(points []geometry.Point2D, style Style, preview bool) (Shape, bool) {
	if len(points) < 2 {
		return nil, false
	}
	z, ok := NewZone(b.Kind, points[0], points[len(points)-1], style)
	if !ok {
		return nil, false
	}
	z.preview = preview
	return z, true
}

// Manager owns a homogeneous collection of shapes: the committed list, the
// at-most-one selection, and the in-progress creation buffer with its
// preview. All coordinates are scene coordinates; callers translate from
// pixels before calling in. Collection access is serialized so the HTTP
// API can read and clear while the UI edits.
type Manager struct {
	mu       sync.RWMutex
	builder  Builder
	shapes   []Shape
	selected Shape
	buffer   []geometry.Point2D
	preview  Shape
	defaults Style
	onChange func()
}

// NewManager creates a manager for the builder's shape family.
func NewManager(builder Builder) *Manager {
	return &Manager{
		builder:  builder,
		defaults: builder.DefaultStyle(),
	}
}

// OnChange registers a callback fired after any mutation, typically a
// canvas refresh. The callback runs outside the manager lock.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

func (m *Manager) changed() {
	m.mu.RLock()
	fn := m.onChange
	m.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Shapes returns the committed shapes in z-order (oldest first).
func (m *Manager) Shapes() []Shape {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Shape(nil), m.shapes...)
}

// Selected returns the selected shape, or nil.
func (m *Manager) Selected() Shape {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selected
}

// Preview returns the in-progress creation preview, or nil.
func (m *Manager) Preview() Shape {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preview
}

// Creating reports whether a creation buffer is open.
func (m *Manager) Creating() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buffer) > 0
}

// creationStyle is the style applied to the shape being created: the
// selected shape's style if one is selected, otherwise the defaults.
func (m *Manager) creationStyle() Style {
	if m.selected != nil {
		return m.selected.Style()
	}
	return m.defaults
}

// AddPoint appends a click to the creation buffer. When the builder's
// point cap is reached the shape commits immediately. Returns the
// committed shape when this click finished one.
func (m *Manager) AddPoint(p geometry.Point2D) Shape {
	m.mu.Lock()
	m.buffer = append(m.buffer, p)
	var committed Shape
	if max := m.builder.MaxPoints(); max > 0 && len(m.buffer) >= max {
		committed = m.finishLocked()
	}
	m.mu.Unlock()
	m.changed()
	return committed
}

// UpdatePreview rebuilds the preview from the buffer plus the current
// pointer position. With an empty buffer there is nothing to preview.
func (m *Manager) UpdatePreview(pointer geometry.Point2D) {
	m.mu.Lock()
	if len(m.buffer) == 0 {
		m.preview = nil
		m.mu.Unlock()
		return
	}
	pts := append(append([]geometry.Point2D(nil), m.buffer...), pointer)
	if s, ok := m.builder.Build(pts, m.creationStyle(), true); ok {
		m.preview = s
	} else {
		m.preview = nil
	}
	m.mu.Unlock()
	m.changed()
}

// finishLocked commits the buffered points; the caller holds the lock.
func (m *Manager) finishLocked() Shape {
	pts := m.buffer
	m.buffer = nil
	m.preview = nil
	if len(pts) < m.builder.MinPoints() {
		return nil
	}
	s, ok := m.builder.Build(pts, m.creationStyle(), false)
	if !ok {
		return nil
	}
	m.shapes = append(m.shapes, s)
	return s
}

// FinishShape commits the buffered points as a shape. The buffer and
// preview are always discarded; nil is returned when the points do not
// form a valid shape.
func (m *Manager) FinishShape() Shape {
	m.mu.Lock()
	s := m.finishLocked()
	m.mu.Unlock()
	m.changed()
	return s
}

// TryFinishShape commits only when enough points are buffered; otherwise
// the buffer is kept open. Used for the explicit finish gesture on
// unbounded shapes.
func (m *Manager) TryFinishShape() Shape {
	m.mu.Lock()
	if len(m.buffer) < m.builder.MinPoints() {
		m.mu.Unlock()
		return nil
	}
	s := m.finishLocked()
	m.mu.Unlock()
	m.changed()
	return s
}

// CancelShape abandons the creation buffer and preview.
func (m *Manager) CancelShape() {
	m.mu.Lock()
	m.buffer = nil
	m.preview = nil
	m.mu.Unlock()
	m.changed()
}

// selectLocked swaps the selection; the caller holds the lock.
func (m *Manager) selectLocked(s Shape) {
	if m.selected != nil {
		m.selected.Deselect()
	}
	m.selected = nil
	if s != nil && s.Select() {
		m.selected = s
	}
}

// Select makes s the selection, deselecting any previous one. At most one
// shape is selected at a time. Selecting nil clears the selection.
func (m *Manager) Select(s Shape) {
	m.mu.Lock()
	if m.selected == s {
		m.mu.Unlock()
		return
	}
	m.selectLocked(s)
	m.mu.Unlock()
	m.changed()
}

// ClearSelection deselects the selected shape, if any.
func (m *Manager) ClearSelection() {
	m.Select(nil)
}

// SelectAt hit-tests the committed shapes topmost-first and selects the
// hit, clearing the selection on a miss. Returns the selected shape.
func (m *Manager) SelectAt(p geometry.Point2D) Shape {
	m.mu.Lock()
	var hit Shape
	for i := len(m.shapes) - 1; i >= 0; i-- {
		if m.shapes[i].HitTest(p) {
			hit = m.shapes[i]
			break
		}
	}
	if m.selected != hit {
		m.selectLocked(hit)
	}
	m.mu.Unlock()
	m.changed()
	return hit
}

// SetColor applies the color to the selected shape, or to the defaults
// for future shapes when nothing is selected.
func (m *Manager) SetColor(hex string) {
	m.mu.Lock()
	if m.selected != nil {
		m.selected.SetColor(hex)
	} else {
		m.defaults.Color = hex
	}
	m.mu.Unlock()
	m.changed()
}

// SetWidth applies the width to the selected shape or the defaults.
func (m *Manager) SetWidth(width float64) {
	m.mu.Lock()
	if m.selected != nil {
		m.selected.SetWidth(width)
	} else {
		m.defaults.Width = width
	}
	m.mu.Unlock()
	m.changed()
}

// SetStroke applies the stroke pattern to the selected shape or the
// defaults.
func (m *Manager) SetStroke(stroke Stroke) {
	m.mu.Lock()
	if m.selected != nil {
		m.selected.SetStroke(stroke)
	} else {
		m.defaults.Stroke = stroke
	}
	m.mu.Unlock()
	m.changed()
}

// Defaults returns the style new shapes receive when nothing is selected.
func (m *Manager) Defaults() Style {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaults
}

// Remove deletes s from the collection. Stale references (shapes already
// removed, or never owned by this manager) are tolerated as no-ops. The
// selection is cleared when the removed shape held it.
func (m *Manager) Remove(s Shape) {
	if s == nil {
		return
	}
	m.mu.Lock()
	for i, candidate := range m.shapes {
		if candidate == s {
			m.shapes = append(m.shapes[:i], m.shapes[i+1:]...)
			if m.selected == s {
				m.selected = nil
			}
			s.markDeleted()
			m.mu.Unlock()
			m.changed()
			return
		}
	}
	m.mu.Unlock()
}

// DeleteSelected removes the selected shape, if any.
func (m *Manager) DeleteSelected() {
	m.Remove(m.Selected())
}

// DeleteLast removes the most recently committed shape, if any.
func (m *Manager) DeleteLast() {
	m.mu.RLock()
	var last Shape
	if len(m.shapes) > 0 {
		last = m.shapes[len(m.shapes)-1]
	}
	m.mu.RUnlock()
	m.Remove(last)
}

// Clear removes every shape and abandons any creation in progress.
func (m *Manager) Clear() {
	m.mu.Lock()
	for _, s := range m.shapes {
		s.markDeleted()
	}
	m.shapes = nil
	m.selected = nil
	m.buffer = nil
	m.preview = nil
	m.mu.Unlock()
	m.changed()
}

// Restore appends an already-built shape, used when loading projects.
func (m *Manager) Restore(s Shape) {
	if s == nil {
		return
	}
	m.mu.Lock()
	m.shapes = append(m.shapes, s)
	m.mu.Unlock()
	m.changed()
}
