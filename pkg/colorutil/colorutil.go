// Package colorutil provides shared color utilities for the tactics board.
package colorutil

import (
	"fmt"
	"image/color"
)

// Common colors used throughout the application.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	PitchLine = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	Grass     = color.RGBA{R: 43, G: 115, B: 57, A: 255}
	GrassDark = color.RGBA{R: 36, G: 102, B: 50, A: 255}
	Ball      = color.RGBA{R: 255, G: 214, B: 0, A: 255}
	Selection = color.RGBA{R: 0, G: 102, B: 255, A: 255}
)

// ParseHex parses a "#RRGGBB" color string. Invalid input yields opaque black,
// matching how the annotation layer treats unparseable style values.
func ParseHex(hex string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ToHex formats a color as "#RRGGBB", discarding alpha.
func ToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.RGBA, alpha uint8) color.RGBA {
	c.A = alpha
	return c
}

// Blend alpha-composites src over dst using src's alpha.
func Blend(dst, src color.RGBA) color.RGBA {
	a := float64(src.A) / 255.0
	inv := 1 - a
	return color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*inv),
		G: uint8(float64(src.G)*a + float64(dst.G)*inv),
		B: uint8(float64(src.B)*a + float64(dst.B)*inv),
		A: 255,
	}
}
