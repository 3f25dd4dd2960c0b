// Package viewport maps between scene (pitch metres) and screen (pixel)
// coordinates. The mapping is a single affine transform, either fitted to
// the widget size or calibrated from point correspondences.
package viewport

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"tactics-board/pkg/geometry"
)

// Viewport holds the scene-to-screen transform and its inverse.
type Viewport struct {
	toScreen geometry.AffineTransform
	toScene  geometry.AffineTransform
}

// New returns an identity viewport.
func New() *Viewport {
	return &Viewport{
		toScreen: geometry.Identity(),
		toScene:  geometry.Identity(),
	}
}

// Set installs a scene-to-screen transform. Non-invertible transforms are
// rejected.
func (v *Viewport) Set(t geometry.AffineTransform) bool {
	inv, ok := t.Inverse()
	if !ok {
		return false
	}
	v.toScreen = t
	v.toScene = inv
	return true
}

// FitPitch fits a pitch of the given metric size into a widget of the
// given pixel size, preserving aspect ratio and centering with a margin.
func (v *Viewport) FitPitch(pitchW, pitchH, widthPx, heightPx, marginPx float64) {
	availW := widthPx - 2*marginPx
	availH := heightPx - 2*marginPx
	if availW <= 0 || availH <= 0 || pitchW <= 0 || pitchH <= 0 {
		return
	}
	scale := math.Min(availW/pitchW, availH/pitchH)
	tx := (widthPx - pitchW*scale) / 2
	ty := (heightPx - pitchH*scale) / 2
	v.Set(geometry.AffineTransform{A: scale, D: scale, TX: tx, TY: ty})
}

// ToScreen maps a scene point to pixels.
func (v *Viewport) ToScreen(p geometry.Point2D) geometry.Point2D {
	return v.toScreen.Apply(p)
}

// ToScene maps a pixel position to scene coordinates.
func (v *Viewport) ToScene(p geometry.Point2D) geometry.Point2D {
	return v.toScene.Apply(p)
}

// Scale returns the pixels-per-metre factor of the current transform.
func (v *Viewport) Scale() float64 {
	return math.Hypot(v.toScreen.A, v.toScreen.C)
}

// Transform returns the current scene-to-screen transform.
func (v *Viewport) Transform() geometry.AffineTransform {
	return v.toScreen
}

// Calibrate fits the least-squares affine transform mapping scene points
// onto screen points. At least three non-collinear correspondences are
// required.
func Calibrate(scene, screen []geometry.Point2D) (geometry.AffineTransform, error) {
	if len(scene) != len(screen) {
		return geometry.AffineTransform{}, fmt.Errorf("calibrate: %d scene vs %d screen points", len(scene), len(screen))
	}
	if len(scene) < 3 {
		return geometry.AffineTransform{}, fmt.Errorf("calibrate: need at least 3 points, got %d", len(scene))
	}

	n := len(scene)
	a := mat.NewDense(n, 3, nil)
	b := mat.NewDense(n, 2, nil)
	for i, p := range scene {
		a.Set(i, 0, p.X)
		a.Set(i, 1, p.Y)
		a.Set(i, 2, 1)
		b.Set(i, 0, screen[i].X)
		b.Set(i, 1, screen[i].Y)
	}

	var qr mat.QR
	qr.Factorize(a)
	var x mat.Dense
	if err := qr.SolveTo(&x, false, b); err != nil {
		return geometry.AffineTransform{}, fmt.Errorf("calibrate: %w", err)
	}

	t := geometry.AffineTransform{
		A: x.At(0, 0), B: x.At(1, 0), TX: x.At(2, 0),
		C: x.At(0, 1), D: x.At(1, 1), TY: x.At(2, 1),
	}
	if _, ok := t.Inverse(); !ok {
		return geometry.AffineTransform{}, fmt.Errorf("calibrate: degenerate point set")
	}
	return t, nil
}

// FitError returns the RMS residual of a transform over point
// correspondences, in screen units.
func FitError(t geometry.AffineTransform, scene, screen []geometry.Point2D) float64 {
	if len(scene) == 0 || len(scene) != len(screen) {
		return math.Inf(1)
	}
	var sum float64
	for i, p := range scene {
		d := t.Apply(p).Distance(screen[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(scene)))
}
