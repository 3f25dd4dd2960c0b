package annotation

import (
	"testing"

	"tactics-board/pkg/geometry"
)

func TestHistoryUndoRedo(t *testing.T) {
	a, _ := NewArrow([]geometry.Point2D{{}, {X: 10}}, DefaultArrowStyle(), false)
	h := NewHistory()

	old := a.Style().Width
	a.SetWidth(3)
	h.Push("width", func() { a.SetWidth(3) }, func() { a.SetWidth(old) })

	if !h.CanUndo() || h.CanRedo() {
		t.Fatal("stack state wrong after push")
	}
	if name, ok := h.Undo(); !ok || name != "width" {
		t.Fatalf("undo = %q %v", name, ok)
	}
	if a.Style().Width != old {
		t.Fatalf("width after undo = %v", a.Style().Width)
	}
	if _, ok := h.Redo(); !ok {
		t.Fatal("redo refused")
	}
	if a.Style().Width != 3 {
		t.Fatalf("width after redo = %v", a.Style().Width)
	}
}

func TestHistoryPushDiscardsRedoTail(t *testing.T) {
	a, _ := NewArrow([]geometry.Point2D{{}, {X: 10}}, DefaultArrowStyle(), false)
	h := NewHistory()

	h.Push("w2", func() { a.SetWidth(2) }, func() { a.SetWidth(1) })
	h.Push("w3", func() { a.SetWidth(3) }, func() { a.SetWidth(2) })
	h.Undo()
	h.Push("color", func() { a.SetColor("#112233") }, func() { a.SetColor("#000000") })

	if h.CanRedo() {
		t.Fatal("redo tail survived new push")
	}
	if name, _ := h.Undo(); name != "color" {
		t.Fatalf("top of stack = %q", name)
	}
	if name, _ := h.Undo(); name != "w2" {
		t.Fatalf("next = %q", name)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Undo(); ok {
		t.Fatal("undo on empty stack")
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo on empty stack")
	}
	h.Clear()
}
