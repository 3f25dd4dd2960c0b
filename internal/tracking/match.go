// Package tracking holds positional match data: per-half player and ball
// tracks sampled at a fixed frame rate. Coordinates are pitch metres;
// missing samples are NaN and every lookup filters them out.
package tracking

import (
	"fmt"
	"math"

	"tactics-board/pkg/geometry"
)

// DefaultFPS is the sampling rate of positional data.
const DefaultFPS = 25

// PlayerOuterRadiusBase is the base radius of a player marker in pitch
// metres, also used as the default pick radius for player clicks.
const PlayerOuterRadiusBase = 1.6

// Half indexes the two halves of a match.
type Half int

const (
	FirstHalf Half = iota
	SecondHalf
)

// String returns the display label of the half.
func (h Half) String() string {
	if h == SecondHalf {
		return "2nd Half"
	}
	return "1st Half"
}

// Side identifies a team.
type Side int

const (
	Home Side = iota
	Away
)

// String returns the side name.
func (s Side) String() string {
	if s == Away {
		return "Away"
	}
	return "Home"
}

// Match is the positional dataset for one game. Frames are addressed
// globally (0..TotalFrames-1) and mapped to a half-local index internally,
// the way the source data is laid out.
type Match struct {
	fps     int
	frames  [2]int
	homeIDs []string
	awayIDs []string
	sides   map[string]Side
	players [2]map[string][]geometry.Point2D
	ball    [2][]geometry.Point2D
}

// NewMatch creates an empty match with the given frame counts per half.
// A fps of zero falls back to DefaultFPS.
func NewMatch(fps, firstHalfFrames, secondHalfFrames int) *Match {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Match{
		fps:    fps,
		frames: [2]int{firstHalfFrames, secondHalfFrames},
		sides:  map[string]Side{},
		players: [2]map[string][]geometry.Point2D{
			{}, {},
		},
	}
}

// FPS returns the sampling rate.
func (m *Match) FPS() int { return m.fps }

// TotalFrames returns the global frame count across both halves.
func (m *Match) TotalFrames() int { return m.frames[0] + m.frames[1] }

// HalfFrames returns the frame count of one half.
func (m *Match) HalfFrames(h Half) int { return m.frames[h] }

// FrameRef maps a global frame to its half and half-local index. Frames
// outside the match fail.
func (m *Match) FrameRef(frame int) (Half, int, bool) {
	if frame < 0 || frame >= m.TotalFrames() {
		return FirstHalf, 0, false
	}
	if frame < m.frames[0] {
		return FirstHalf, frame, true
	}
	return SecondHalf, frame - m.frames[0], true
}

// TimeForFrame converts a global frame to seconds from kickoff.
func (m *Match) TimeForFrame(frame int) float64 {
	return float64(frame) / float64(m.fps)
}

// FrameForTime converts seconds from kickoff to the nearest global frame,
// clamped into the match.
func (m *Match) FrameForTime(seconds float64) int {
	frame := int(math.Round(seconds * float64(m.fps)))
	if frame < 0 {
		return 0
	}
	if last := m.TotalFrames() - 1; frame > last && last >= 0 {
		return last
	}
	return frame
}

// SetPlayerTrack registers a player's track for one half. The first
// registration of an id fixes its side; tracks shorter than the half are
// treated as missing past their end.
func (m *Match) SetPlayerTrack(half Half, side Side, id string, track []geometry.Point2D) error {
	if existing, ok := m.sides[id]; ok && existing != side {
		return fmt.Errorf("player %s already registered for %s", id, existing)
	}
	if _, ok := m.sides[id]; !ok {
		m.sides[id] = side
		if side == Home {
			m.homeIDs = append(m.homeIDs, id)
		} else {
			m.awayIDs = append(m.awayIDs, id)
		}
	}
	m.players[half][id] = append([]geometry.Point2D(nil), track...)
	return nil
}

// SetBallTrack registers the ball track for one half.
func (m *Match) SetBallTrack(half Half, track []geometry.Point2D) {
	m.ball[half] = append([]geometry.Point2D(nil), track...)
}

// PlayerIDs returns all player ids, home side first.
func (m *Match) PlayerIDs() []string {
	out := make([]string, 0, len(m.homeIDs)+len(m.awayIDs))
	out = append(out, m.homeIDs...)
	out = append(out, m.awayIDs...)
	return out
}

// SideOf returns the team of a player id.
func (m *Match) SideOf(id string) (Side, bool) {
	s, ok := m.sides[id]
	return s, ok
}

// PlayerPosition returns a player's position at a global frame. It fails
// for unknown players, frames outside the match or the track, and NaN
// samples.
func (m *Match) PlayerPosition(id string, frame int) (geometry.Point2D, bool) {
	half, idx, ok := m.FrameRef(frame)
	if !ok {
		return geometry.Point2D{}, false
	}
	track, ok := m.players[half][id]
	if !ok || idx >= len(track) {
		return geometry.Point2D{}, false
	}
	p := track[idx]
	if p.IsNaN() {
		return geometry.Point2D{}, false
	}
	return p, true
}

// BallPosition returns the ball position at a global frame, failing for
// missing or NaN samples.
func (m *Match) BallPosition(frame int) (geometry.Point2D, bool) {
	half, idx, ok := m.FrameRef(frame)
	if !ok {
		return geometry.Point2D{}, false
	}
	track := m.ball[half]
	if idx >= len(track) {
		return geometry.Point2D{}, false
	}
	p := track[idx]
	if p.IsNaN() {
		return geometry.Point2D{}, false
	}
	return p, true
}
