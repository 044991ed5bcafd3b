// Package render implements drawing surfaces for the glyph renderer.
//
// Surfaces take Y-up pixel coordinates relative to a scene origin and map
// them to device pixels, where Y grows down.
package render

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// Viewport places the scene origin on a device of the given size.
type Viewport struct {
	Width, Height int
	// Origin is the device pixel the scene origin maps to.
	Origin cp.Vector
}

// CenteredViewport puts the origin at the horizontal center, baseline
// fraction of the way down.
func CenteredViewport(width, height int, baseline float64) Viewport {
	return Viewport{
		Width:  width,
		Height: height,
		Origin: cp.Vector{X: float64(width) / 2, Y: float64(height) * baseline},
	}
}

// ToDevice maps a Y-up scene point to device pixels.
func (v Viewport) ToDevice(p cp.Vector) (float32, float32) {
	return float32(v.Origin.X + p.X), float32(v.Origin.Y - p.Y)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
