package tracking

import (
	"math"
	"testing"

	"tactics-board/pkg/geometry"
)

func TestFrameRefSpansHalves(t *testing.T) {
	m := NewMatch(25, 100, 80)
	if m.TotalFrames() != 180 {
		t.Fatalf("total frames = %d", m.TotalFrames())
	}

	half, idx, ok := m.FrameRef(0)
	if !ok || half != FirstHalf || idx != 0 {
		t.Fatalf("frame 0 -> %v %d %v", half, idx, ok)
	}
	half, idx, ok = m.FrameRef(99)
	if !ok || half != FirstHalf || idx != 99 {
		t.Fatalf("frame 99 -> %v %d %v", half, idx, ok)
	}
	half, idx, ok = m.FrameRef(100)
	if !ok || half != SecondHalf || idx != 0 {
		t.Fatalf("frame 100 -> %v %d %v", half, idx, ok)
	}
	if _, _, ok = m.FrameRef(180); ok {
		t.Fatal("frame past end resolved")
	}
	if _, _, ok = m.FrameRef(-1); ok {
		t.Fatal("negative frame resolved")
	}
}

func TestTimeFrameConversions(t *testing.T) {
	m := NewMatch(25, 250, 250)
	if got := m.TimeForFrame(50); got != 2.0 {
		t.Fatalf("TimeForFrame(50) = %v", got)
	}
	if got := m.FrameForTime(2.0); got != 50 {
		t.Fatalf("FrameForTime(2.0) = %d", got)
	}
	if got := m.FrameForTime(-5); got != 0 {
		t.Fatalf("negative time -> %d", got)
	}
	if got := m.FrameForTime(1e9); got != 499 {
		t.Fatalf("far time -> %d", got)
	}
}

func TestPlayerPositionSkipsNaN(t *testing.T) {
	m := NewMatch(25, 3, 0)
	track := []geometry.Point2D{
		{X: 10, Y: 20},
		{X: math.NaN(), Y: math.NaN()},
		{X: 11, Y: 21},
	}
	if err := m.SetPlayerTrack(FirstHalf, Home, "H7", track); err != nil {
		t.Fatal(err)
	}

	if p, ok := m.PlayerPosition("H7", 0); !ok || p.X != 10 {
		t.Fatalf("frame 0 -> %v %v", p, ok)
	}
	if _, ok := m.PlayerPosition("H7", 1); ok {
		t.Fatal("NaN sample returned")
	}
	if _, ok := m.PlayerPosition("H7", 5); ok {
		t.Fatal("frame outside match returned")
	}
	if _, ok := m.PlayerPosition("nobody", 0); ok {
		t.Fatal("unknown player returned")
	}
}

func TestSideRegistrationIsStable(t *testing.T) {
	m := NewMatch(25, 10, 10)
	m.SetPlayerTrack(FirstHalf, Home, "H1", nil)
	if err := m.SetPlayerTrack(SecondHalf, Away, "H1", nil); err == nil {
		t.Fatal("side flip accepted")
	}
	if side, ok := m.SideOf("H1"); !ok || side != Home {
		t.Fatalf("side = %v %v", side, ok)
	}
}

func TestBallPosition(t *testing.T) {
	m := NewMatch(25, 2, 2)
	m.SetBallTrack(FirstHalf, []geometry.Point2D{{X: 52.5, Y: 34}, {X: math.NaN()}})
	if p, ok := m.BallPosition(0); !ok || p.X != 52.5 {
		t.Fatalf("ball frame 0 -> %v %v", p, ok)
	}
	if _, ok := m.BallPosition(1); ok {
		t.Fatal("NaN ball sample returned")
	}
	// second half has no ball track
	if _, ok := m.BallPosition(2); ok {
		t.Fatal("missing half returned")
	}
}

func TestDemoMatchIsComplete(t *testing.T) {
	m := NewDemoMatch(4)
	if len(m.PlayerIDs()) != 22 {
		t.Fatalf("player count = %d", len(m.PlayerIDs()))
	}
	for _, id := range m.PlayerIDs() {
		if _, ok := m.PlayerPosition(id, 0); !ok {
			t.Fatalf("player %s missing at frame 0", id)
		}
	}
	if _, ok := m.BallPosition(m.TotalFrames() - 1); !ok {
		t.Fatal("ball missing at last frame")
	}
}
