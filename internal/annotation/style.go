// Package annotation implements the tactical annotation engine: arrow and
// zone shape models, their selection/move/resize state machine, and the
// managers that own creation, selection, and deletion workflows.
//
// All geometry is in scene (pitch) coordinates. Shapes derive renderable
// geometry (body paths, arrowheads, outlines) from their control data; no
// pixel drawing happens here.
package annotation

// Stroke identifies the stroke pattern of a shape outline.
type Stroke int

const (
	StrokeSolid Stroke = iota
	StrokeDotted
	StrokeZigzag
	StrokeDashed
)

// String returns the wire/project-file name of the stroke.
func (s Stroke) String() string {
	switch s {
	case StrokeDotted:
		return "dotted"
	case StrokeZigzag:
		return "zigzag"
	case StrokeDashed:
		return "dashed"
	default:
		return "solid"
	}
}

// ParseStroke maps a stroke name back to its value. Unknown names fall back
// to solid, mirroring how the property panel normalizes style strings.
func ParseStroke(name string) Stroke {
	switch name {
	case "dotted":
		return StrokeDotted
	case "zigzag":
		return StrokeZigzag
	case "dashed", "dash", "--":
		return StrokeDashed
	default:
		return StrokeSolid
	}
}

// Style holds the visual attributes shared by arrows and zones. Width is a
// semantic thickness value (the renderer scales it), not pixels. FillAlpha
// only applies to zones.
type Style struct {
	Color     string  `json:"color"` // "#RRGGBB"
	Width     float64 `json:"width"`
	Stroke    Stroke  `json:"-"`
	FillAlpha uint8   `json:"fill_alpha"`
}

// Arrowhead and default style constants.
const (
	ArrowHeadLength   = 2.0  // base head length in pitch units
	ArrowHeadAngleDeg = 30.0 // half-angle of the isoceles head triangle

	DefaultArrowColor = "#000000"
	DefaultArrowWidth = 1.0

	DefaultZoneColor = "#000000"
	DefaultZoneWidth = 1.0
	DefaultZoneAlpha = 0

	// Resizing below this extent on either axis is rejected.
	MinResizeExtent = 1.0
)

// DefaultArrowStyle returns the style applied to new arrows when no shape
// is selected.
func DefaultArrowStyle() Style {
	return Style{Color: DefaultArrowColor, Width: DefaultArrowWidth, Stroke: StrokeSolid}
}

// DefaultZoneStyle returns the style applied to new zones when no shape
// is selected.
func DefaultZoneStyle() Style {
	return Style{Color: DefaultZoneColor, Width: DefaultZoneWidth, Stroke: StrokeSolid, FillAlpha: DefaultZoneAlpha}
}

// HeadScale returns the arrowhead length for a given stroke width.
func HeadScale(width float64) float64 {
	scale := width * 0.25
	if scale < 0.8 {
		scale = 0.8
	}
	return ArrowHeadLength * scale
}
