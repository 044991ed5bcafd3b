package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// Screen draws onto an ebiten image, normally the window's screen.
type Screen struct {
	viewport Viewport
	img      *ebiten.Image
}

func NewScreen(v Viewport) *Screen {
	return &Screen{viewport: v}
}

// Bind sets the image for the frame about to be drawn.
func (s *Screen) Bind(img *ebiten.Image) {
	s.img = img
}

func (s *Screen) Viewport() Viewport {
	return s.viewport
}

func (s *Screen) SetViewport(v Viewport) {
	s.viewport = v
}

func (s *Screen) Clear(c color.Color) {
	s.img.Fill(c)
}

func (s *Screen) FillCircle(center cp.Vector, radius float64, c color.Color) {
	x, y := s.viewport.ToDevice(center)
	vector.DrawFilledCircle(s.img, x, y, float32(radius), c, true)
}

func (s *Screen) StrokeLine(a, b cp.Vector, width float64, c color.Color) {
	x1, y1 := s.viewport.ToDevice(a)
	x2, y2 := s.viewport.ToDevice(b)
	vector.StrokeLine(s.img, x1, y1, x2, y2, float32(width), c, true)
}

// Finalize is a no-op; ebiten presents the screen after Draw returns.
func (s *Screen) Finalize() error {
	if s.img == nil {
		return errors.New("render: screen has no image bound")
	}
	return nil
}

// Frame reads back the bound image.
func (s *Screen) Frame() (image.Image, error) {
	if s.img == nil {
		return nil, errors.New("render: screen has no image bound")
	}
	b := s.img.Bounds()
	rgba := image.NewRGBA(b)
	s.img.ReadPixels(rgba.Pix)
	return rgba, nil
}
