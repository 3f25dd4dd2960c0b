package simulation

import (
	"math"
	"sync"
	"testing"

	"tactics-board/internal/annotation"
	"tactics-board/pkg/geometry"
)

// fakeProvider serves static player positions at every frame.
type fakeProvider struct {
	players map[string]geometry.Point2D
	order   []string
	ball    geometry.Point2D
	hasBall bool
}

func (f *fakeProvider) PlayerPosition(id string, frame int) (geometry.Point2D, bool) {
	p, ok := f.players[id]
	return p, ok
}

func (f *fakeProvider) BallPosition(frame int) (geometry.Point2D, bool) {
	return f.ball, f.hasBall
}

func (f *fakeProvider) PlayerIDs() []string { return f.order }
func (f *fakeProvider) FPS() int            { return 25 }

func newProvider(players map[string]geometry.Point2D, order []string) *fakeProvider {
	return &fakeProvider{players: players, order: order}
}

func arrowWithStroke(t *testing.T, stroke annotation.Stroke, pts ...geometry.Point2D) *annotation.Arrow {
	t.Helper()
	style := annotation.DefaultArrowStyle()
	style.Stroke = stroke
	a, ok := annotation.NewArrow(pts, style, false)
	if !ok {
		t.Fatal("arrow not built")
	}
	return a
}

func TestActionForStroke(t *testing.T) {
	cases := []struct {
		stroke annotation.Stroke
		want   Action
	}{
		{annotation.StrokeSolid, ActionPass},
		{annotation.StrokeDotted, ActionRun},
		{annotation.StrokeZigzag, ActionDribble},
		{annotation.StrokeDashed, ActionPass},
	}
	for _, c := range cases {
		if got := ActionForStroke(c.stroke); got != c.want {
			t.Errorf("stroke %v -> %v, want %v", c.stroke, got, c.want)
		}
	}
}

func TestPassSpeedClamp(t *testing.T) {
	if got := PassSpeed(10); got != 15 {
		t.Fatalf("short pass speed = %v", got)
	}
	if got := PassSpeed(60); got != 25 {
		t.Fatalf("long pass speed = %v", got)
	}
	if got := PassSpeed(40); got != 20 {
		t.Fatalf("mid pass speed = %v", got)
	}
}

func TestRunSpeedCapLimitsDistance(t *testing.T) {
	e := NewEngine()
	// a 20 m run in 1 s demands 20 m/s, far over the 8 m/s cap
	arrow := arrowWithStroke(t, annotation.StrokeDotted, geometry.Point2D{}, geometry.Point2D{X: 20})
	if status := e.Associate(arrow, "H1", 0); status != StatusAssociated {
		t.Fatalf("status = %v", status)
	}

	data := newProvider(map[string]geometry.Point2D{"H1": {}}, []string{"H1"})
	e.CalculateTrajectories(1.0, 0, data)

	pts := e.SimulatedPlayers()["H1"]
	if len(pts) == 0 {
		t.Fatal("no trajectory")
	}
	final := pts[len(pts)-1].Pos
	if final.X > RunSpeedCap+1e-6 {
		t.Fatalf("player covered %v m in 1 s, cap is %v", final.X, RunSpeedCap)
	}
	if final.X < RunSpeedCap-0.1 {
		t.Fatalf("player only covered %v m, expected to max the cap", final.X)
	}
	// the samples span the 1 s window with len-1 gaps; the implied
	// speed per gap stays under the cap
	perGap := 1.0 / float64(len(pts)-1)
	for i := 1; i < len(pts); i++ {
		speed := pts[i-1].Pos.Distance(pts[i].Pos) / perGap
		if speed > RunSpeedCap+1e-6 {
			t.Fatalf("sample %d implies %v m/s", i, speed)
		}
	}
}

func TestDribbleCapTighterThanRun(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeZigzag, geometry.Point2D{}, geometry.Point2D{X: 20})
	e.Associate(arrow, "H1", 0)

	data := newProvider(map[string]geometry.Point2D{"H1": {}}, []string{"H1"})
	e.CalculateTrajectories(1.0, 0, data)

	pts := e.SimulatedPlayers()["H1"]
	final := pts[len(pts)-1].Pos
	if final.X > DribbleSpeedCap+1e-6 {
		t.Fatalf("dribble covered %v m in 1 s", final.X)
	}
}

func TestUncappedRunReachesEnd(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeDotted, geometry.Point2D{}, geometry.Point2D{X: 5})
	e.Associate(arrow, "H1", 0)

	data := newProvider(map[string]geometry.Point2D{"H1": {}}, []string{"H1"})
	e.CalculateTrajectories(1.0, 0, data)

	pts := e.SimulatedPlayers()["H1"]
	final := pts[len(pts)-1].Pos
	if math.Abs(final.X-5) > 1e-6 {
		t.Fatalf("final = %v, want arrow end", final)
	}
}

func TestRestyledArrowReclassifiedOnSimulate(t *testing.T) {
	e := NewEngine()
	// 20 m in 1 s: over both caps, so the final sample shows which cap ran
	arrow := arrowWithStroke(t, annotation.StrokeDotted, geometry.Point2D{}, geometry.Point2D{X: 20})
	e.Associate(arrow, "H1", 0)

	data := newProvider(map[string]geometry.Point2D{"H1": {}}, []string{"H1"})
	e.CalculateTrajectories(1.0, 0, data)
	pts := e.SimulatedPlayers()["H1"]
	if final := pts[len(pts)-1].Pos.X; math.Abs(final-RunSpeedCap) > 0.1 {
		t.Fatalf("run covered %v m, want the %v cap", final, RunSpeedCap)
	}

	// restyling to zigzag makes the next simulation a dribble
	arrow.SetStroke(annotation.StrokeZigzag)
	e.CalculateTrajectories(1.0, 0, data)
	pts = e.SimulatedPlayers()["H1"]
	if final := pts[len(pts)-1].Pos.X; math.Abs(final-DribbleSpeedCap) > 0.1 {
		t.Fatalf("dribble covered %v m after restyle, want the %v cap", final, DribbleSpeedCap)
	}

	ta := e.Associated()[0]
	if ta.Action() != ActionDribble {
		t.Fatalf("action = %v", ta.Action())
	}
}

func TestConcurrentSimulateAndRead(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeDotted, geometry.Point2D{}, geometry.Point2D{X: 10})
	e.Associate(arrow, "H1", 0)
	data := newProvider(map[string]geometry.Point2D{"H1": {}}, []string{"H1"})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e.CalculateTrajectories(1.0, 0, data)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				for _, pts := range e.SimulatedPlayers() {
					_ = len(pts)
				}
				_ = e.SimulatedBall()
				_ = e.PossessionChain()
				_ = e.Associated()
			}
		}()
	}
	wg.Wait()

	if pts := e.SimulatedPlayers()["H1"]; len(pts) == 0 {
		t.Fatal("no trajectory after concurrent runs")
	}
}

func TestPassAwaitsReceiverAndBuildsChain(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeSolid, geometry.Point2D{}, geometry.Point2D{X: 30})
	if status := e.Associate(arrow, "H1", 0); status != StatusAwaitingReceiver {
		t.Fatalf("status = %v", status)
	}
	if e.SetPassReceiver("H2") != true {
		t.Fatal("receiver rejected")
	}
	chain := e.PossessionChain()
	if len(chain) != 1 || chain[0].From != "H1" || chain[0].To != "H2" {
		t.Fatalf("chain = %+v", chain)
	}
	// no pending pass remains
	if e.SetPassReceiver("H3") {
		t.Fatal("receiver accepted with no pending pass")
	}
}

func TestBallFliesThenPinsToReceiver(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeSolid, geometry.Point2D{}, geometry.Point2D{X: 30})
	e.Associate(arrow, "H1", 0)
	e.SetPassReceiver("H2")

	data := newProvider(map[string]geometry.Point2D{
		"H1": {},
		"H2": {X: 30},
	}, []string{"H1", "H2"})
	data.ball = geometry.Point2D{X: 0.5}
	data.hasBall = true

	// 30 m pass flies at 15 m/s: 2 s, capped to 80% of the 2 s window
	e.CalculateTrajectories(2.0, 0, data)

	ball := e.SimulatedBall()
	if len(ball) == 0 {
		t.Fatal("no ball trajectory")
	}
	n := len(ball)
	for i, tp := range ball {
		progress := float64(i) / float64(n-1)
		if progress > passWindowShare+1e-9 {
			if tp.Pos.Distance(geometry.Point2D{X: 30}) > 1e-6 {
				t.Fatalf("ball not pinned to receiver at progress %v: %v", progress, tp.Pos)
			}
		}
	}
	if ball[n-1].Pos.X != 30 {
		t.Fatalf("final ball pos = %v", ball[n-1].Pos)
	}
	// ball leaves the passer toward the receiver, monotonically in x
	for i := 1; i < n; i++ {
		if ball[i].Pos.X < ball[i-1].Pos.X-1e-6 {
			t.Fatalf("ball moved backwards at sample %d", i)
		}
	}
}

func TestReceiverlessPassBallFollowsHolder(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeSolid, geometry.Point2D{}, geometry.Point2D{X: 10})
	e.Associate(arrow, "H1", 0)
	// no SetPassReceiver call

	data := newProvider(map[string]geometry.Point2D{"H1": {}}, []string{"H1"})
	data.ball = geometry.Point2D{X: 0.3}
	data.hasBall = true

	e.CalculateTrajectories(1.0, 0, data)

	ball := e.SimulatedBall()
	holder := e.SimulatedPlayers()["H1"]
	if len(ball) != len(holder) {
		t.Fatalf("ball samples %d, holder samples %d", len(ball), len(holder))
	}
	for i := range ball {
		if ball[i].Pos.Distance(holder[i].Pos) > 1e-6 {
			t.Fatalf("ball strayed from holder at sample %d", i)
		}
	}
}

func TestNoBallDataMeansNoBallTrajectory(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeDotted, geometry.Point2D{}, geometry.Point2D{X: 5})
	e.Associate(arrow, "H1", 0)

	data := newProvider(map[string]geometry.Point2D{"H1": {}}, []string{"H1"})
	e.CalculateTrajectories(1.0, 0, data)

	if len(e.SimulatedBall()) != 0 {
		t.Fatal("ball trajectory produced without ball data")
	}
	if len(e.SimulatedPlayers()["H1"]) == 0 {
		t.Fatal("player trajectory missing")
	}
}

func TestFindClosestPlayerRespectsMaxDistance(t *testing.T) {
	e := NewEngine()
	data := newProvider(map[string]geometry.Point2D{
		"H1": {X: 10, Y: 10},
		"H2": {X: 40, Y: 40},
	}, []string{"H1", "H2"})

	if id, ok := e.FindClosestPlayer(geometry.Point2D{X: 11, Y: 10}, 0, data, 1.6); !ok || id != "H1" {
		t.Fatalf("got %q %v", id, ok)
	}
	if _, ok := e.FindClosestPlayer(geometry.Point2D{X: 20, Y: 20}, 0, data, 1.6); ok {
		t.Fatal("found a player outside the pick radius")
	}
}

func TestRemoveAssociationDropsChainLinks(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeSolid, geometry.Point2D{}, geometry.Point2D{X: 30})
	e.Associate(arrow, "H1", 0)
	e.SetPassReceiver("H2")

	e.RemoveAssociation(arrow)
	if len(e.Associated()) != 0 {
		t.Fatal("association survived removal")
	}
	if len(e.PossessionChain()) != 0 {
		t.Fatal("chain link survived removal")
	}
	// removing again is harmless
	e.RemoveAssociation(arrow)
}

func TestClearResetsEverything(t *testing.T) {
	e := NewEngine()
	arrow := arrowWithStroke(t, annotation.StrokeDotted, geometry.Point2D{}, geometry.Point2D{X: 5})
	e.Associate(arrow, "H1", 0)
	data := newProvider(map[string]geometry.Point2D{"H1": {}}, []string{"H1"})
	e.CalculateTrajectories(1.0, 0, data)

	e.Clear()
	if len(e.Associated()) != 0 || len(e.SimulatedBall()) != 0 || len(e.SimulatedPlayers()) != 0 {
		t.Fatal("clear left data behind")
	}
}

func TestUnassociatedFilter(t *testing.T) {
	e := NewEngine()
	bound := arrowWithStroke(t, annotation.StrokeDotted, geometry.Point2D{}, geometry.Point2D{X: 5})
	free := arrowWithStroke(t, annotation.StrokeDotted, geometry.Point2D{}, geometry.Point2D{Y: 5})
	e.Associate(bound, "H1", 0)

	out := e.Unassociated([]*annotation.Arrow{bound, free})
	if len(out) != 1 || out[0] != free {
		t.Fatalf("unassociated = %v", out)
	}
}
