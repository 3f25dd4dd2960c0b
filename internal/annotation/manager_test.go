package annotation

import (
	"sync"
	"testing"

	"tactics-board/pkg/geometry"
)

func makeArrow(t *testing.T, m *Manager, pts ...geometry.Point2D) Shape {
	t.Helper()
	for _, p := range pts {
		m.AddPoint(p)
	}
	s := m.TryFinishShape()
	if s == nil {
		t.Fatal("arrow did not commit")
	}
	return s
}

func TestManagerCommitThreshold(t *testing.T) {
	m := NewManager(ArrowBuilder{})
	m.AddPoint(geometry.Point2D{})
	if s := m.TryFinishShape(); s != nil {
		t.Fatal("committed below minimum point count")
	}
	if !m.Creating() {
		t.Fatal("buffer dropped by failed finish attempt")
	}
	m.AddPoint(geometry.Point2D{X: 10})
	if s := m.TryFinishShape(); s == nil {
		t.Fatal("two points did not commit")
	}
	if m.Creating() {
		t.Fatal("buffer kept after commit")
	}
}

func TestManagerZoneAutoCommitsAtCap(t *testing.T) {
	m := NewManager(ZoneBuilder{Kind: KindRectangle})
	if s := m.AddPoint(geometry.Point2D{}); s != nil {
		t.Fatal("committed on first corner")
	}
	s := m.AddPoint(geometry.Point2D{X: 8, Y: 4})
	if s == nil {
		t.Fatal("second corner did not commit")
	}
	if len(m.Shapes()) != 1 {
		t.Fatalf("shape count = %d", len(m.Shapes()))
	}
}

func TestManagerDegenerateZoneDiscarded(t *testing.T) {
	m := NewManager(ZoneBuilder{Kind: KindRectangle})
	p := geometry.Point2D{X: 3, Y: 3}
	m.AddPoint(p)
	if s := m.AddPoint(p); s != nil {
		t.Fatal("degenerate zone committed")
	}
	if m.Creating() {
		t.Fatal("buffer survived failed commit")
	}
	if len(m.Shapes()) != 0 {
		t.Fatal("degenerate zone stored")
	}
}

func TestManagerPreviewLifecycle(t *testing.T) {
	m := NewManager(ArrowBuilder{})
	m.UpdatePreview(geometry.Point2D{X: 5})
	if m.Preview() != nil {
		t.Fatal("preview with empty buffer")
	}
	m.AddPoint(geometry.Point2D{})
	m.UpdatePreview(geometry.Point2D{X: 5})
	pv := m.Preview()
	if pv == nil {
		t.Fatal("no preview")
	}
	if !pv.Preview() {
		t.Fatal("preview not flagged")
	}
	m.UpdatePreview(geometry.Point2D{X: 8})
	if m.Preview() == pv {
		t.Fatal("preview not rebuilt")
	}
	m.CancelShape()
	if m.Preview() != nil || m.Creating() {
		t.Fatal("cancel left state behind")
	}
}

func TestManagerAtMostOneSelected(t *testing.T) {
	m := NewManager(ArrowBuilder{})
	a := makeArrow(t, m, geometry.Point2D{}, geometry.Point2D{X: 10})
	b := makeArrow(t, m, geometry.Point2D{Y: 5}, geometry.Point2D{X: 10, Y: 5})

	m.Select(a)
	m.Select(b)
	if a.Selected() {
		t.Fatal("previous selection kept")
	}
	if !b.Selected() {
		t.Fatal("new selection dropped")
	}
	count := 0
	for _, s := range m.Shapes() {
		if s.Selected() {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("%d shapes selected", count)
	}
	m.ClearSelection()
	if m.Selected() != nil || b.Selected() {
		t.Fatal("clear did not deselect")
	}
}

func TestManagerSelectAtTopmost(t *testing.T) {
	m := NewManager(ArrowBuilder{})
	makeArrow(t, m, geometry.Point2D{}, geometry.Point2D{X: 10})
	top := makeArrow(t, m, geometry.Point2D{}, geometry.Point2D{X: 10})
	if got := m.SelectAt(geometry.Point2D{X: 5}); got != top {
		t.Fatal("overlapping hit did not pick topmost")
	}
	if got := m.SelectAt(geometry.Point2D{X: 5, Y: 30}); got != nil {
		t.Fatal("miss selected something")
	}
	if m.Selected() != nil {
		t.Fatal("miss did not clear selection")
	}
}

func TestManagerStyleRouting(t *testing.T) {
	m := NewManager(ArrowBuilder{})
	m.SetColor("#ff0000")
	m.SetWidth(3)
	if m.Defaults().Color != "#ff0000" || m.Defaults().Width != 3 {
		t.Fatalf("defaults not updated: %+v", m.Defaults())
	}

	a := makeArrow(t, m, geometry.Point2D{}, geometry.Point2D{X: 10})
	if a.Style().Color != "#ff0000" {
		t.Fatal("new shape did not pick up defaults")
	}

	m.Select(a)
	m.SetColor("#00ff00")
	if a.Style().Color != "#00ff00" {
		t.Fatal("selected shape color unchanged")
	}
	if m.Defaults().Color != "#ff0000" {
		t.Fatal("defaults mutated while a shape was selected")
	}
}

func TestManagerRemoveToleratesStaleReferences(t *testing.T) {
	m := NewManager(ArrowBuilder{})
	a := makeArrow(t, m, geometry.Point2D{}, geometry.Point2D{X: 10})

	m.Remove(a)
	if len(m.Shapes()) != 0 {
		t.Fatal("shape not removed")
	}
	// double delete and foreign shapes are no-ops
	m.Remove(a)
	other := NewManager(ArrowBuilder{})
	foreign := makeArrow(t, other, geometry.Point2D{}, geometry.Point2D{X: 5})
	m.Remove(foreign)
	if len(other.Shapes()) != 1 {
		t.Fatal("foreign manager affected")
	}
	if a.State() != StateDeleted {
		t.Fatal("removed shape not torn down")
	}
}

func TestManagerDeleteSelectedAndLast(t *testing.T) {
	m := NewManager(ArrowBuilder{})
	a := makeArrow(t, m, geometry.Point2D{}, geometry.Point2D{X: 10})
	b := makeArrow(t, m, geometry.Point2D{Y: 2}, geometry.Point2D{X: 10, Y: 2})

	m.Select(a)
	m.DeleteSelected()
	if m.Selected() != nil {
		t.Fatal("selection survived delete")
	}
	if len(m.Shapes()) != 1 || m.Shapes()[0] != b {
		t.Fatal("wrong shape deleted")
	}

	m.DeleteLast()
	if len(m.Shapes()) != 0 {
		t.Fatal("delete last left shapes")
	}
	m.DeleteLast() // empty list is a no-op
}

func TestManagerConcurrentEditAndRead(t *testing.T) {
	m := NewManager(ArrowBuilder{})

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			m.AddPoint(geometry.Point2D{X: float64(i)})
			m.AddPoint(geometry.Point2D{X: float64(i) + 5})
			m.TryFinishShape()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			for _, s := range m.Shapes() {
				_ = s.Style()
			}
			_ = m.Selected()
			_ = m.Creating()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			m.Clear()
		}
	}()
	wg.Wait()

	m.Clear()
	if len(m.Shapes()) != 0 {
		t.Fatalf("shapes after final clear = %d", len(m.Shapes()))
	}
}
