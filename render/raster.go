package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four arcs approximate a circle.
const kappa = 0.5522847498

// Raster is a headless surface backed by an RGBA image.
type Raster struct {
	viewport Viewport
	img      *image.RGBA
	rast     vector.Rasterizer
	frames   int
}

func NewRaster(v Viewport) *Raster {
	return &Raster{
		viewport: v,
		img:      image.NewRGBA(image.Rect(0, 0, v.Width, v.Height)),
	}
}

func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Frames returns how many frames have been finalized.
func (r *Raster) Frames() int {
	return r.frames
}

func (r *Raster) Clear(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *Raster) FillCircle(center cp.Vector, radius float64, c color.Color) {
	if radius <= 0 {
		return
	}
	cx, cy := r.viewport.ToDevice(center)
	rad := float32(radius)
	k := rad * kappa

	r.begin()
	r.rast.MoveTo(cx+rad, cy)
	r.rast.CubeTo(cx+rad, cy+k, cx+k, cy+rad, cx, cy+rad)
	r.rast.CubeTo(cx-k, cy+rad, cx-rad, cy+k, cx-rad, cy)
	r.rast.CubeTo(cx-rad, cy-k, cx-k, cy-rad, cx, cy-rad)
	r.rast.CubeTo(cx+k, cy-rad, cx+rad, cy-k, cx+rad, cy)
	r.rast.ClosePath()
	r.fill(c)
}

func (r *Raster) StrokeLine(a, b cp.Vector, width float64, c color.Color) {
	x1, y1 := r.viewport.ToDevice(a)
	x2, y2 := r.viewport.ToDevice(b)
	dx, dy := float64(x2-x1), float64(y2-y1)
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return
	}
	nx := float32(-dy / l * width / 2)
	ny := float32(dx / l * width / 2)

	r.begin()
	r.rast.MoveTo(x1+nx, y1+ny)
	r.rast.LineTo(x2+nx, y2+ny)
	r.rast.LineTo(x2-nx, y2-ny)
	r.rast.LineTo(x1-nx, y1-ny)
	r.rast.ClosePath()
	r.fill(c)
}

func (r *Raster) Finalize() error {
	r.frames++
	return nil
}

// Frame returns a copy of the current image.
func (r *Raster) Frame() (image.Image, error) {
	out := image.NewRGBA(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out, nil
}

func (r *Raster) begin() {
	b := r.img.Bounds()
	r.rast.Reset(b.Dx(), b.Dy())
	r.rast.DrawOp = draw.Over
}

func (r *Raster) fill(c color.Color) {
	r.rast.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}
