package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tactics-board/internal/annotation"
	"tactics-board/internal/simulation"
	"tactics-board/pkg/geometry"
)

// ProjectFile is the on-disk representation of a tactics board project
// (.tacproj): all annotations plus metadata. Tracking data is referenced
// by path, never embedded.
type ProjectFile struct {
	Version  int       `json:"version"`
	Name     string    `json:"name,omitempty"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	MatchDataPath string `json:"match_data,omitempty"`
	Frame         int    `json:"frame"`

	Arrows []ArrowRecord `json:"arrows"`
	Zones  []ZoneRecord  `json:"zones"`
}

// ArrowRecord serializes one arrow, including any player association.
type ArrowRecord struct {
	Points []geometry.Point2D `json:"points"`
	Color  string             `json:"color"`
	Width  float64            `json:"width"`
	Stroke string             `json:"stroke"`
	Curved bool               `json:"curved"`

	FromPlayer string `json:"from_player,omitempty"`
	ToPlayer   string `json:"to_player,omitempty"`
	Frame      int    `json:"frame,omitempty"`
}

// ZoneRecord serializes one zone.
type ZoneRecord struct {
	Kind      string        `json:"kind"`
	Rect      geometry.Rect `json:"rect"`
	Rotation  float64       `json:"rotation,omitempty"`
	Color     string        `json:"color"`
	Width     float64       `json:"width"`
	Stroke    string        `json:"stroke"`
	FillAlpha uint8         `json:"fill_alpha"`
}

// Snapshot collects the current annotations into a project file.
func (s *State) Snapshot() *ProjectFile {
	proj := &ProjectFile{
		Version:  1,
		Modified: time.Now(),
		Frame:    s.Frame(),
		Arrows:   []ArrowRecord{},
		Zones:    []ZoneRecord{},
	}

	assoc := map[*annotation.Arrow]*simulation.TacticalArrow{}
	for _, ta := range s.Simulation.Associated() {
		assoc[ta.Arrow] = ta
	}

	for _, shape := range s.Arrows.Shapes() {
		arrow, ok := shape.(*annotation.Arrow)
		if !ok {
			continue
		}
		style := arrow.Style()
		rec := ArrowRecord{
			Points: arrow.Points(),
			Color:  style.Color,
			Width:  style.Width,
			Stroke: style.Stroke.String(),
			Curved: arrow.Curved(),
		}
		if ta := assoc[arrow]; ta != nil {
			rec.FromPlayer = ta.PlayerID
			rec.ToPlayer = ta.ReceiverID
			rec.Frame = ta.Frame
		}
		proj.Arrows = append(proj.Arrows, rec)
	}

	for _, m := range []*annotation.Manager{s.Rectangles, s.Ellipses} {
		for _, shape := range m.Shapes() {
			zone, ok := shape.(*annotation.Zone)
			if !ok {
				continue
			}
			style := zone.Style()
			proj.Zones = append(proj.Zones, ZoneRecord{
				Kind:      zone.Kind().String(),
				Rect:      zone.Rect(),
				Rotation:  zone.Rotation(),
				Color:     style.Color,
				Width:     style.Width,
				Stroke:    style.Stroke.String(),
				FillAlpha: style.FillAlpha,
			})
		}
	}
	return proj
}

// AnnotationsJSON renders the current annotations as indented JSON, used
// by the clipboard export and the HTTP API.
func (s *State) AnnotationsJSON() ([]byte, error) {
	return json.MarshalIndent(s.Snapshot(), "", "  ")
}

// SaveProject writes the annotations to path.
func (s *State) SaveProject(path string) error {
	proj := s.Snapshot()
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()
	s.Emit(EventProjectSaved, path)
	return nil
}

// LoadProject replaces the current annotations with the ones stored at
// path. Records that no longer form valid shapes are skipped.
func (s *State) LoadProject(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read project: %w", err)
	}
	var proj ProjectFile
	if err := json.Unmarshal(data, &proj); err != nil {
		return fmt.Errorf("parse project: %w", err)
	}

	for _, m := range s.Managers() {
		m.Clear()
	}
	s.Simulation.Clear()
	s.History.Clear()

	for _, rec := range proj.Arrows {
		style := annotation.Style{
			Color:  rec.Color,
			Width:  rec.Width,
			Stroke: annotation.ParseStroke(rec.Stroke),
		}
		arrow, ok := annotation.NewArrow(rec.Points, style, rec.Curved)
		if !ok {
			continue
		}
		s.Arrows.Restore(arrow)
		if rec.FromPlayer != "" {
			status := s.Simulation.Associate(arrow, rec.FromPlayer, rec.Frame)
			if status == simulation.StatusAwaitingReceiver && rec.ToPlayer != "" {
				s.Simulation.SetPassReceiver(rec.ToPlayer)
			}
		}
	}
	for _, rec := range proj.Zones {
		style := annotation.Style{
			Color:     rec.Color,
			Width:     rec.Width,
			Stroke:    annotation.ParseStroke(rec.Stroke),
			FillAlpha: rec.FillAlpha,
		}
		kind := annotation.KindRectangle
		target := s.Rectangles
		if rec.Kind == annotation.KindEllipse.String() {
			kind = annotation.KindEllipse
			target = s.Ellipses
		}
		if rec.Rect.Width <= 0 || rec.Rect.Height <= 0 {
			continue
		}
		target.Restore(annotation.NewZoneFromRect(kind, rec.Rect, rec.Rotation, style))
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()
	s.SetFrame(proj.Frame)
	s.Emit(EventProjectLoaded, path)
	s.Emit(EventAnnotationsChanged, nil)
	return nil
}
