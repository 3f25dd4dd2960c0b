package annotation

import (
	"math"
	"testing"

	"tactics-board/pkg/geometry"
)

func TestNewZoneRejectsCollapsedCorners(t *testing.T) {
	p := geometry.Point2D{X: 5, Y: 5}
	if _, ok := NewZone(KindRectangle, p, p, DefaultZoneStyle()); ok {
		t.Fatal("coincident corners accepted")
	}
	if _, ok := NewZone(KindRectangle, p, geometry.Point2D{X: 5, Y: 9}, DefaultZoneStyle()); ok {
		t.Fatal("zero-width zone accepted")
	}
}

func TestZoneNormalizesCorners(t *testing.T) {
	z, ok := NewZone(KindRectangle, geometry.Point2D{X: 10, Y: 8}, geometry.Point2D{X: 2, Y: 3}, DefaultZoneStyle())
	if !ok {
		t.Fatal("zone not built")
	}
	r := z.Rect()
	if r.X != 2 || r.Y != 3 || r.Width != 8 || r.Height != 5 {
		t.Fatalf("rect not normalized: %+v", r)
	}
}

func TestZoneRotationKeepsCenter(t *testing.T) {
	z, _ := NewZone(KindRectangle, geometry.Point2D{}, geometry.Point2D{X: 10, Y: 4}, DefaultZoneStyle())
	before := z.Center()
	z.SetRotation(37)
	after := z.Center()
	if !pointsClose(before, after, eps) {
		t.Fatalf("rotation moved center: %v -> %v", before, after)
	}
	box := z.BoundingBox()
	// rotated envelope grows beyond the base rect
	if box.Width <= 10 || box.Height <= 4 {
		t.Fatalf("envelope did not grow: %+v", box)
	}
}

func TestZoneEllipseOutlineAndHit(t *testing.T) {
	z, _ := NewZone(KindEllipse, geometry.Point2D{}, geometry.Point2D{X: 10, Y: 6}, DefaultZoneStyle())
	outline := z.Outline()
	c := z.Center()
	for _, p := range outline {
		nx := (p.X - c.X) / 5
		ny := (p.Y - c.Y) / 3
		if math.Abs(nx*nx+ny*ny-1) > 1e-6 {
			t.Fatalf("outline point off ellipse: %v", p)
		}
	}
	if !z.HitTest(c) {
		t.Fatal("center missed")
	}
	// inside the rect but outside the inscribed ellipse
	if z.HitTest(geometry.Point2D{X: 0.2, Y: 0.2}) {
		t.Fatal("rect corner hit ellipse")
	}
}

func TestZoneResizeFromSnapshot(t *testing.T) {
	z, _ := NewZone(KindRectangle, geometry.Point2D{}, geometry.Point2D{X: 10, Y: 5}, DefaultZoneStyle())
	z.Select()
	if !z.BeginResize(CornerBottomRight, geometry.Point2D{X: 10, Y: 5}) {
		t.Fatal("resize did not start")
	}
	if !z.ResizeTo(geometry.Point2D{X: 12, Y: 8}) {
		t.Fatal("resize rejected")
	}
	r := z.Rect()
	if r.X != 0 || r.Y != 0 || !almostEqual(r.Width, 12) || !almostEqual(r.Height, 8) {
		t.Fatalf("rect = %+v", r)
	}

	// replay is idempotent: same pointer, same rect
	z.ResizeTo(geometry.Point2D{X: 12, Y: 8})
	if got := z.Rect(); !almostEqual(got.Width, 12) || !almostEqual(got.Height, 8) {
		t.Fatalf("replay changed rect: %+v", got)
	}

	// degenerate update rejected, rect untouched
	if z.ResizeTo(geometry.Point2D{X: 0.5, Y: 8}) {
		t.Fatal("degenerate resize accepted")
	}
	if got := z.Rect(); !almostEqual(got.Width, 12) {
		t.Fatalf("rejected resize changed rect: %+v", got)
	}

	z.EndResize()
	// a new session starts from the committed rect
	z.BeginResize(CornerTopLeft, geometry.Point2D{})
	z.ResizeTo(geometry.Point2D{X: 2, Y: 2})
	r = z.Rect()
	if !almostEqual(r.X, 2) || !almostEqual(r.Y, 2) || !almostEqual(r.Width, 10) || !almostEqual(r.Height, 6) {
		t.Fatalf("second session rect = %+v", r)
	}
}

func TestZoneMoveAndHit(t *testing.T) {
	z, _ := NewZone(KindRectangle, geometry.Point2D{}, geometry.Point2D{X: 4, Y: 4}, DefaultZoneStyle())
	z.Select()
	z.BeginMove()
	z.MoveBy(geometry.Point2D{X: 10, Y: 10})
	z.EndMove()
	if !z.HitTest(geometry.Point2D{X: 12, Y: 12}) {
		t.Fatal("moved zone missed")
	}
	if z.HitTest(geometry.Point2D{X: 2, Y: 2}) {
		t.Fatal("old location still hit")
	}
}
