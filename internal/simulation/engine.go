// Package simulation turns associated tactical arrows into simulated
// player and ball trajectories over a chosen time window. Player speed is
// capped per action type; ball passes fly at a distance-scaled speed and
// then stick to the receiver.
package simulation

import (
	"math"
	"sync"

	"tactics-board/internal/annotation"
	"tactics-board/pkg/geometry"
)

// Provider supplies real positional data to the engine. tracking.Match
// implements it; tests use lighter fakes.
type Provider interface {
	PlayerPosition(id string, frame int) (geometry.Point2D, bool)
	BallPosition(frame int) (geometry.Point2D, bool)
	PlayerIDs() []string
	FPS() int
}

// Action is the tactical meaning of an arrow, derived from its stroke.
type Action int

const (
	ActionPass Action = iota
	ActionRun
	ActionDribble
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionRun:
		return "run"
	case ActionDribble:
		return "dribble"
	default:
		return "pass"
	}
}

// ActionForStroke maps stroke patterns to actions: solid arrows are
// passes, dotted runs, zigzag dribbles.
func ActionForStroke(s annotation.Stroke) Action {
	switch s {
	case annotation.StrokeDotted:
		return ActionRun
	case annotation.StrokeZigzag:
		return ActionDribble
	default:
		return ActionPass
	}
}

// Speed limits in metres per second. Passes do not cap the passer's
// movement along the arrow.
const (
	RunSpeedCap     = 8.0
	DribbleSpeedCap = 4.0
	PassSpeedMin    = 15.0
	PassSpeedMax    = 25.0

	// A pass may consume at most this share of the simulation window;
	// afterwards the ball is pinned to the receiver.
	passWindowShare = 0.8
)

// Status is the result of associating an arrow with a player.
type Status int

const (
	StatusAssociated Status = iota
	StatusAwaitingReceiver
)

// TacticalArrow is an arrow bound to a player. Classification and length
// are derived from the live arrow, never cached: restyling or reshaping
// an associated arrow changes what the next simulation does.
type TacticalArrow struct {
	Arrow      *annotation.Arrow
	PlayerID   string
	ReceiverID string // passes only, empty until chosen
	Frame      int    // frame the association was made at
}

// Action is the tactical meaning of the arrow's current stroke.
func (t *TacticalArrow) Action() Action {
	return ActionForStroke(t.Arrow.Style().Stroke)
}

// Length is the arrow's current path length.
func (t *TacticalArrow) Length() float64 {
	return t.Arrow.Length()
}

// PossessionLink is one completed pass in the possession chain.
type PossessionLink struct {
	From  string
	To    string
	Arrow *annotation.Arrow
}

// TimedPoint is one simulated sample.
type TimedPoint struct {
	Pos   geometry.Point2D
	Frame int
}

// Engine owns arrow associations and the computed trajectories. It is
// safe for concurrent use: the HTTP API mutates it from server goroutines
// while the UI reads.
type Engine struct {
	mu     sync.RWMutex
	arrows []*TacticalArrow
	chain  []PossessionLink

	players map[string][]TimedPoint
	ball    []TimedPoint
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{players: map[string][]TimedPoint{}}
}

// Associate binds an arrow to the player who performs it. Pass arrows
// return StatusAwaitingReceiver: the caller must follow up with
// SetPassReceiver before the pass can move the ball.
func (e *Engine) Associate(arrow *annotation.Arrow, playerID string, frame int) Status {
	ta := &TacticalArrow{
		Arrow:    arrow,
		PlayerID: playerID,
		Frame:    frame,
	}
	e.mu.Lock()
	e.arrows = append(e.arrows, ta)
	e.mu.Unlock()
	if ta.Action() == ActionPass {
		return StatusAwaitingReceiver
	}
	return StatusAssociated
}

// SetPassReceiver completes the most recent receiver-less pass and
// appends it to the possession chain. Returns false when no pass is
// waiting.
func (e *Engine) SetPassReceiver(receiverID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.arrows) - 1; i >= 0; i-- {
		ta := e.arrows[i]
		if ta.Action() == ActionPass && ta.ReceiverID == "" {
			ta.ReceiverID = receiverID
			e.chain = append(e.chain, PossessionLink{
				From:  ta.PlayerID,
				To:    receiverID,
				Arrow: ta.Arrow,
			})
			return true
		}
	}
	return false
}

// RemoveAssociation drops an arrow's association, its receiver, and any
// possession links it produced. Unassociated arrows are a no-op.
func (e *Engine) RemoveAssociation(arrow *annotation.Arrow) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.arrows[:0]
	for _, ta := range e.arrows {
		if ta.Arrow != arrow {
			kept = append(kept, ta)
		}
	}
	e.arrows = kept

	links := e.chain[:0]
	for _, link := range e.chain {
		if link.Arrow != arrow {
			links = append(links, link)
		}
	}
	e.chain = links
}

// Associated returns the current associations.
func (e *Engine) Associated() []*TacticalArrow {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*TacticalArrow(nil), e.arrows...)
}

// Unassociated filters the given arrows down to those without an
// association.
func (e *Engine) Unassociated(arrows []*annotation.Arrow) []*annotation.Arrow {
	e.mu.RLock()
	defer e.mu.RUnlock()
	bound := map[*annotation.Arrow]bool{}
	for _, ta := range e.arrows {
		bound[ta.Arrow] = true
	}
	var out []*annotation.Arrow
	for _, a := range arrows {
		if !bound[a] {
			out = append(out, a)
		}
	}
	return out
}

// PossessionChain returns the completed passes in order.
func (e *Engine) PossessionChain() []PossessionLink {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]PossessionLink(nil), e.chain...)
}

// SimulatedPlayers returns the computed player trajectories by id. Each
// simulation run replaces the map wholesale, so the copy stays valid
// after later runs.
func (e *Engine) SimulatedPlayers() map[string][]TimedPoint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string][]TimedPoint, len(e.players))
	for id, pts := range e.players {
		out[id] = pts
	}
	return out
}

// SimulatedBall returns the computed ball trajectory.
func (e *Engine) SimulatedBall() []TimedPoint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ball
}

// Clear drops all associations, the possession chain, and computed
// trajectories.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.arrows = nil
	e.chain = nil
	e.players = map[string][]TimedPoint{}
	e.ball = nil
}

// speedCap returns the player speed limit for an action, zero meaning
// uncapped.
func speedCap(a Action) float64 {
	switch a {
	case ActionRun:
		return RunSpeedCap
	case ActionDribble:
		return DribbleSpeedCap
	default:
		return 0
	}
}

// PassSpeed returns the flight speed of a pass of the given length,
// clamped into the realistic range.
func PassSpeed(length float64) float64 {
	return math.Min(PassSpeedMax, math.Max(PassSpeedMin, length/2))
}

// CalculateTrajectories computes simulated positions for every associated
// player and the ball over intervalSeconds starting at startFrame.
// Previous results are discarded; with no associations nothing is
// produced.
func (e *Engine) CalculateTrajectories(intervalSeconds float64, startFrame int, data Provider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.players = map[string][]TimedPoint{}
	e.ball = nil
	if len(e.arrows) == 0 || intervalSeconds <= 0 {
		return
	}

	totalFrames := int(intervalSeconds * float64(data.FPS()))
	if totalFrames < 2 {
		totalFrames = 2
	}

	ballStart, ballOK := data.BallPosition(startFrame)
	var holder string
	if ballOK {
		holder, _ = e.closestToBall(ballStart, startFrame, data)
	}

	var passes []*TacticalArrow
	for _, ta := range e.arrows {
		if ta.Action() == ActionPass {
			passes = append(passes, ta)
		}
	}

	for offset := 0; offset < totalFrames; offset++ {
		frame := startFrame + offset
		progress := float64(offset) / float64(totalFrames-1)

		for _, ta := range e.arrows {
			pos := e.playerPosAt(ta, progress, intervalSeconds)
			e.players[ta.PlayerID] = append(e.players[ta.PlayerID], TimedPoint{Pos: pos, Frame: frame})
		}

		if ballOK && holder != "" {
			pos := e.ballPosAt(ballStart, holder, passes, progress, intervalSeconds, startFrame, data)
			e.ball = append(e.ball, TimedPoint{Pos: pos, Frame: frame})
		}
	}
}

// playerPosAt walks the arrow path by the capped fraction of its length.
// When the required speed exceeds the cap the player simply does not
// reach the end inside the window.
func (e *Engine) playerPosAt(ta *TacticalArrow, progress, intervalSeconds float64) geometry.Point2D {
	length := ta.Length()
	actual := progress
	if limit := speedCap(ta.Action()); limit > 0 && length > 0 {
		required := length / intervalSeconds
		if required > limit {
			covered := limit * intervalSeconds * progress
			actual = math.Min(covered/length, 1.0)
		}
	}
	return geometry.WalkPolyline(ta.Arrow.Points(), actual*length)
}

// ballPosAt resolves the ball for one sample. Without a completed pass
// the ball follows the initial holder; a pass flies passer-to-receiver at
// PassSpeed for at most passWindowShare of the window, then the ball is
// pinned to the receiver.
func (e *Engine) ballPosAt(start geometry.Point2D, holder string, passes []*TacticalArrow, progress, intervalSeconds float64, startFrame int, data Provider) geometry.Point2D {
	var pass *TacticalArrow
	for _, p := range passes {
		if p.ReceiverID != "" {
			pass = p
			break
		}
	}
	if pass == nil {
		if pts := e.players[holder]; len(pts) > 0 {
			return pts[len(pts)-1].Pos
		}
		return start
	}

	length := pass.Length()
	duration := length / PassSpeed(length)
	ratio := math.Min(duration/intervalSeconds, passWindowShare)
	receiver := e.receiverPosAt(pass.ReceiverID, progress, intervalSeconds, startFrame, data)

	if progress <= ratio && ratio > 0 {
		passer := e.playerPosAt(pass, progress, intervalSeconds)
		return passer.Lerp(receiver, progress/ratio)
	}
	return receiver
}

// receiverPosAt prefers the receiver's simulated trajectory, falling back
// to real data at the matching frame.
func (e *Engine) receiverPosAt(id string, progress, intervalSeconds float64, startFrame int, data Provider) geometry.Point2D {
	if pts := e.players[id]; len(pts) > 0 {
		idx := int(progress * float64(len(pts)-1))
		if idx >= len(pts) {
			idx = len(pts) - 1
		}
		return pts[idx].Pos
	}
	frame := startFrame + int(progress*intervalSeconds*float64(data.FPS()))
	if pos, ok := data.PlayerPosition(id, frame); ok {
		return pos
	}
	return geometry.Point2D{}
}

// closestToBall finds the player nearest the ball with no distance limit.
func (e *Engine) closestToBall(ball geometry.Point2D, frame int, data Provider) (string, bool) {
	return e.findClosest(ball, frame, data, math.Inf(1))
}

// FindClosestPlayer returns the player nearest to p at the given frame,
// ignoring players farther than maxDistance or without data.
func (e *Engine) FindClosestPlayer(p geometry.Point2D, frame int, data Provider, maxDistance float64) (string, bool) {
	return e.findClosest(p, frame, data, maxDistance)
}

func (e *Engine) findClosest(p geometry.Point2D, frame int, data Provider, maxDistance float64) (string, bool) {
	best := ""
	bestDist := math.Inf(1)
	for _, id := range data.PlayerIDs() {
		pos, ok := data.PlayerPosition(id, frame)
		if !ok {
			continue
		}
		d := p.Distance(pos)
		if d < bestDist && d <= maxDistance {
			bestDist = d
			best = id
		}
	}
	return best, best != ""
}
