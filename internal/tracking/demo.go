package tracking

import (
	"fmt"
	"math"

	"tactics-board/pkg/geometry"
)

// NewDemoMatch builds a synthetic 11v11 match useful for running the
// application without a real positional dataset: two static 4-3-3 blocks
// drifting slowly, ball near the centre spot. The pitch is 105x68 with
// the origin at the top-left corner.
func NewDemoMatch(seconds int) *Match {
	frames := seconds * DefaultFPS
	m := NewMatch(DefaultFPS, frames, frames)

	home := formation433(false)
	away := formation433(true)

	for half := FirstHalf; half <= SecondHalf; half++ {
		for i, base := range home {
			id := fmt.Sprintf("H%d", i+1)
			m.SetPlayerTrack(half, Home, id, driftingTrack(base, frames, float64(i)))
		}
		for i, base := range away {
			id := fmt.Sprintf("A%d", i+1)
			m.SetPlayerTrack(half, Away, id, driftingTrack(base, frames, float64(i)+11))
		}
		ball := make([]geometry.Point2D, frames)
		for f := range ball {
			t := float64(f) / float64(DefaultFPS)
			ball[f] = geometry.Point2D{
				X: 52.5 + 3*math.Sin(t/4),
				Y: 34 + 2*math.Cos(t/5),
			}
		}
		m.SetBallTrack(half, ball)
	}
	return m
}

// formation433 lays out a 4-3-3 on the left or right side of the pitch.
func formation433(mirrored bool) []geometry.Point2D {
	pts := []geometry.Point2D{
		{X: 6, Y: 34},
		{X: 20, Y: 10}, {X: 18, Y: 26}, {X: 18, Y: 42}, {X: 20, Y: 58},
		{X: 34, Y: 20}, {X: 32, Y: 34}, {X: 34, Y: 48},
		{X: 46, Y: 12}, {X: 48, Y: 34}, {X: 46, Y: 56},
	}
	if !mirrored {
		return pts
	}
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = geometry.Point2D{X: 105 - p.X, Y: 68 - p.Y}
	}
	return out
}

// driftingTrack wanders gently around a base position so playback shows
// visible movement.
func driftingTrack(base geometry.Point2D, frames int, phase float64) []geometry.Point2D {
	track := make([]geometry.Point2D, frames)
	for f := range track {
		t := float64(f) / float64(DefaultFPS)
		track[f] = geometry.Point2D{
			X: base.X + 1.5*math.Sin(t/3+phase),
			Y: base.Y + 1.5*math.Cos(t/4+phase*0.7),
		}
	}
	return track
}
