// Package app provides application state, configuration, and events.
package app

import (
	"sync"

	"tactics-board/internal/annotation"
	"tactics-board/internal/simulation"
	"tactics-board/internal/tracking"
)

// Tool identifies the active canvas tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolArrow
	ToolCurvedArrow
	ToolRectangle
	ToolEllipse
)

// String returns the tool name.
func (t Tool) String() string {
	switch t {
	case ToolArrow:
		return "arrow"
	case ToolCurvedArrow:
		return "curved arrow"
	case ToolRectangle:
		return "rectangle"
	case ToolEllipse:
		return "ellipse"
	default:
		return "select"
	}
}

// EventType identifies different application events.
type EventType int

const (
	EventAnnotationsChanged EventType = iota
	EventSelectionChanged
	EventToolChanged
	EventPlaybackChanged
	EventFrameChanged
	EventSimulationUpdated
	EventProjectLoaded
	EventProjectSaved
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the annotation managers, the match
// data, the simulation engine, and playback.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Modified    bool

	// Annotations, one manager per shape family
	Arrows     *annotation.Manager
	Rectangles *annotation.Manager
	Ellipses   *annotation.Manager
	History    *annotation.History

	// Match data and simulation
	Match      *tracking.Match
	Simulation *simulation.Engine

	// Playback
	CurrentFrame  int
	Playing       bool
	PlaybackSpeed float64

	tool         Tool
	arrowBuilder *annotation.ArrowBuilder

	listeners map[EventType][]EventListener
}

// NewState creates the application state around a match dataset.
func NewState(match *tracking.Match) *State {
	arrowBuilder := &annotation.ArrowBuilder{}
	return &State{
		Arrows:        annotation.NewManager(arrowBuilder),
		Rectangles:    annotation.NewManager(annotation.ZoneBuilder{Kind: annotation.KindRectangle}),
		Ellipses:      annotation.NewManager(annotation.ZoneBuilder{Kind: annotation.KindEllipse}),
		History:       annotation.NewHistory(),
		Match:         match,
		Simulation:    simulation.NewEngine(),
		PlaybackSpeed: 1.0,
		arrowBuilder:  arrowBuilder,
		listeners:     make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// Tool returns the active tool.
func (s *State) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool switches the active tool. Every switch clears any creation in
// progress and any live selection, so a buffer started under one tool can
// never commit under another. Switching away from select also pauses
// playback so the pitch holds still while drawing.
func (s *State) SetTool(tool Tool) {
	s.mu.Lock()
	if s.tool == tool {
		s.mu.Unlock()
		return
	}
	s.tool = tool
	s.arrowBuilder.Curved = tool == ToolCurvedArrow
	paused := false
	if tool != ToolSelect && s.Playing {
		s.Playing = false
		paused = true
	}
	s.mu.Unlock()

	for _, m := range s.Managers() {
		m.CancelShape()
	}
	s.ClearSelection()
	s.Emit(EventToolChanged, tool)
	if paused {
		s.Emit(EventPlaybackChanged, false)
	}
}

// Managers returns the three annotation managers.
func (s *State) Managers() []*annotation.Manager {
	return []*annotation.Manager{s.Arrows, s.Rectangles, s.Ellipses}
}

// ActiveManager returns the manager targeted by the current tool. Select
// defaults to the arrow manager, whose selection the property panel
// edits most often.
func (s *State) ActiveManager() *annotation.Manager {
	switch s.Tool() {
	case ToolRectangle:
		return s.Rectangles
	case ToolEllipse:
		return s.Ellipses
	default:
		return s.Arrows
	}
}

// SelectedShape returns the selected shape across all managers, or nil.
// At most one manager holds a selection.
func (s *State) SelectedShape() annotation.Shape {
	for _, m := range s.Managers() {
		if sel := m.Selected(); sel != nil {
			return sel
		}
	}
	return nil
}

// SelectOnly selects a shape in its manager and clears the selection in
// every other manager, keeping the at-most-one invariant global.
func (s *State) SelectOnly(owner *annotation.Manager, shape annotation.Shape) {
	for _, m := range s.Managers() {
		if m != owner {
			m.ClearSelection()
		}
	}
	owner.Select(shape)
	s.Emit(EventSelectionChanged, shape)
}

// ClearSelection deselects everywhere.
func (s *State) ClearSelection() {
	for _, m := range s.Managers() {
		m.ClearSelection()
	}
	s.Emit(EventSelectionChanged, nil)
}

// DeleteSelected removes the selected shape wherever it lives, dropping
// any simulation association it had.
func (s *State) DeleteSelected() {
	for _, m := range s.Managers() {
		if sel := m.Selected(); sel != nil {
			if arrow, ok := sel.(*annotation.Arrow); ok {
				s.Simulation.RemoveAssociation(arrow)
			}
			m.DeleteSelected()
			s.SetModified(true)
			s.Emit(EventAnnotationsChanged, nil)
			return
		}
	}
}

// ClearAnnotations removes every shape and all simulation data.
func (s *State) ClearAnnotations() {
	for _, m := range s.Managers() {
		m.Clear()
	}
	s.Simulation.Clear()
	s.History.Clear()
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventSimulationUpdated, nil)
}

// Play starts playback. Drawing tools pause playback, so starting it
// while a drawing tool is active switches back to select first.
func (s *State) Play() {
	s.mu.Lock()
	if s.Playing {
		s.mu.Unlock()
		return
	}
	if s.tool != ToolSelect {
		s.tool = ToolSelect
		s.arrowBuilder.Curved = false
	}
	s.Playing = true
	s.mu.Unlock()
	s.Emit(EventPlaybackChanged, true)
}

// Pause stops playback.
func (s *State) Pause() {
	s.mu.Lock()
	if !s.Playing {
		s.mu.Unlock()
		return
	}
	s.Playing = false
	s.mu.Unlock()
	s.Emit(EventPlaybackChanged, false)
}

// TogglePlayback flips between playing and paused.
func (s *State) TogglePlayback() {
	if s.IsPlaying() {
		s.Pause()
	} else {
		s.Play()
	}
}

// IsPlaying reports whether playback is running.
func (s *State) IsPlaying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Playing
}

// SetPlaybackSpeed sets the playback rate multiplier.
func (s *State) SetPlaybackSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	s.mu.Lock()
	s.PlaybackSpeed = speed
	s.mu.Unlock()
	s.Emit(EventPlaybackChanged, s.IsPlaying())
}

// Frame returns the current frame.
func (s *State) Frame() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CurrentFrame
}

// SetFrame jumps to a frame, clamped into the match.
func (s *State) SetFrame(frame int) {
	if frame < 0 {
		frame = 0
	}
	if s.Match != nil {
		if last := s.Match.TotalFrames() - 1; last >= 0 && frame > last {
			frame = last
		}
	}
	s.mu.Lock()
	changed := s.CurrentFrame != frame
	s.CurrentFrame = frame
	s.mu.Unlock()
	if changed {
		s.Emit(EventFrameChanged, frame)
	}
}

// StepFrames advances playback by delta frames. At the end of the match
// playback pauses.
func (s *State) StepFrames(delta int) {
	frame := s.Frame() + delta
	if s.Match != nil && frame >= s.Match.TotalFrames() {
		s.SetFrame(s.Match.TotalFrames() - 1)
		s.Pause()
		return
	}
	s.SetFrame(frame)
}

// Advance moves playback forward by dt seconds at the current speed. Only
// meaningful while playing.
func (s *State) Advance(dt float64) {
	if !s.IsPlaying() || s.Match == nil {
		return
	}
	s.mu.RLock()
	speed := s.PlaybackSpeed
	s.mu.RUnlock()
	frames := int(dt * speed * float64(s.Match.FPS()))
	if frames < 1 {
		frames = 1
	}
	s.StepFrames(frames)
}

// RunSimulation computes trajectories for the current associations and
// announces the result.
func (s *State) RunSimulation(intervalSeconds float64) {
	if s.Match == nil {
		return
	}
	s.Simulation.CalculateTrajectories(intervalSeconds, s.Frame(), s.Match)
	s.Emit(EventSimulationUpdated, nil)
}
