package system

import (
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/glyphfall/constellation"
	"github.com/milk9111/glyphfall/physics"
)

// Surface receives draw calls in Y-up pixel coordinates. Finalize is called
// once per frame after every other call.
type Surface interface {
	Clear(c color.Color)
	FillCircle(center cp.Vector, radius float64, c color.Color)
	StrokeLine(a, b cp.Vector, width float64, c color.Color)
	Finalize() error
}

type Style struct {
	Background color.Color
	Point      color.Color
	Line       color.Color
	// PointRadius and LineWidth are in pixels.
	PointRadius float64
	LineWidth   float64
	// PixelsPerMeter scales body positions onto the surface.
	PixelsPerMeter float64
}

func DefaultStyle() Style {
	ink := color.RGBA{R: 0x91, G: 0x16, B: 0x3d, A: 0xff}
	return Style{
		Background:     color.RGBA{R: 0xde, G: 0xc2, B: 0xcb, A: 0xff},
		Point:          ink,
		Line:           ink,
		PointRadius:    4.5,
		LineWidth:      3.2,
		PixelsPerMeter: 40,
	}
}

// Renderer draws every contour as markers joined into a closed polyline.
type Renderer struct {
	style Style
	buf   []cp.Vector
}

func NewRenderer(style Style) *Renderer {
	if style.PixelsPerMeter <= 0 {
		style.PixelsPerMeter = DefaultStyle().PixelsPerMeter
	}
	return &Renderer{style: style}
}

func (r *Renderer) Style() Style {
	return r.style
}

// Draw renders the current body positions. A stale handle aborts the frame
// before Finalize.
func (r *Renderer) Draw(w *physics.World, c *constellation.Constellation, s Surface) error {
	s.Clear(r.style.Background)

	for ci, cb := range c.Contours {
		r.buf = r.buf[:0]
		for _, h := range cb.Points {
			rb, err := w.Body(h)
			if err != nil {
				return fmt.Errorf("renderer: contour %d: %w", ci, err)
			}
			r.buf = append(r.buf, rb.Translation().Mult(r.style.PixelsPerMeter))
		}

		r.DrawContour(r.buf, s)
	}
	return s.Finalize()
}

// DrawContour draws a dot per point and a line from each point to the next,
// wrapping from the last point back to the first. Points are device pixels
// in Y-up space.
func (r *Renderer) DrawContour(pts []cp.Vector, s Surface) {
	n := len(pts)
	for i, p := range pts {
		s.FillCircle(p, r.style.PointRadius, r.style.Point)
		if n > 1 {
			s.StrokeLine(p, pts[(i+1)%n], r.style.LineWidth, r.style.Line)
		}
	}
}
