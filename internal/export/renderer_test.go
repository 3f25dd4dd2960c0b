package export

import (
	"os"
	"path/filepath"
	"testing"

	"tactics-board/internal/annotation"
	"tactics-board/internal/app"
	"tactics-board/internal/tracking"
	"tactics-board/pkg/geometry"
)

func TestNewRendererValidatesOptions(t *testing.T) {
	if _, err := NewRenderer(Options{}); err == nil {
		t.Fatal("zero options accepted")
	}
}

func TestRendererImageSize(t *testing.T) {
	opts := Options{PitchLength: 105, PitchWidth: 68, Scale: 4, MarginX: 10, MarginY: 10}
	r, err := NewRenderer(opts)
	if err != nil {
		t.Fatal(err)
	}
	bounds := r.Image().Bounds()
	if bounds.Dx() != 440 || bounds.Dy() != 292 {
		t.Fatalf("image size = %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestSnapshotWritesPNG(t *testing.T) {
	st := app.NewState(tracking.NewDemoMatch(2))

	st.Arrows.AddPoint(geometry.Point2D{X: 20, Y: 30})
	st.Arrows.AddPoint(geometry.Point2D{X: 40, Y: 30})
	if st.Arrows.TryFinishShape() == nil {
		t.Fatal("arrow not committed")
	}
	st.Rectangles.AddPoint(geometry.Point2D{X: 60, Y: 10})
	st.Rectangles.AddPoint(geometry.Point2D{X: 80, Y: 25})

	zone := st.Rectangles.Shapes()[0].(*annotation.Zone)
	zone.SetFillAlpha(60)
	zone.SetRotation(15)

	path := filepath.Join(t.TempDir(), "board.png")
	opts := Options{PitchLength: 105, PitchWidth: 68, Scale: 4, MarginX: 10, MarginY: 10}
	if err := Snapshot(path, st, opts); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty snapshot file")
	}
}
