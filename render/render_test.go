package render

import (
	"image/color"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/glyphfall/constellation"
	"github.com/milk9111/glyphfall/outline"
	"github.com/milk9111/glyphfall/physics"
	"github.com/milk9111/glyphfall/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

func rgbaAt(r *Raster, x, y int) color.RGBA {
	return r.Image().RGBAAt(x, y)
}

func TestViewportIsYUp(t *testing.T) {
	v := Viewport{Width: 100, Height: 100, Origin: cp.Vector{X: 50, Y: 80}}
	x, y := v.ToDevice(cp.Vector{X: 10, Y: 30})
	assert.Equal(t, float32(60), x)
	assert.Equal(t, float32(50), y)

	c := CenteredViewport(200, 100, 0.75)
	assert.Equal(t, cp.Vector{X: 100, Y: 75}, c.Origin)
}

func TestRasterClearAndCircle(t *testing.T) {
	r := NewRaster(Viewport{Width: 100, Height: 100, Origin: cp.Vector{X: 50, Y: 80}})
	r.Clear(colornames.White)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(r, 5, 5))

	r.FillCircle(cp.Vector{X: 0, Y: 50}, 6, colornames.Black)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, rgbaAt(r, 50, 30), "circle above the origin")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(r, 50, 80), "origin untouched")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(r, 50, 40))
}

func TestRasterStrokeLine(t *testing.T) {
	r := NewRaster(Viewport{Width: 100, Height: 100})
	r.Clear(colornames.White)
	r.StrokeLine(cp.Vector{X: 10, Y: -50}, cp.Vector{X: 90, Y: -50}, 4, colornames.Red)

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgbaAt(r, 50, 50))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(r, 50, 40))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(r, 5, 50))

	// Zero length lines draw nothing.
	r.StrokeLine(cp.Vector{X: 20, Y: -20}, cp.Vector{X: 20, Y: -20}, 4, colornames.Red)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(r, 20, 20))
}

func TestRasterFrameIsCopy(t *testing.T) {
	r := NewRaster(Viewport{Width: 4, Height: 4})
	r.Clear(colornames.Blue)
	require.NoError(t, r.Finalize())
	assert.Equal(t, 1, r.Frames())

	f, err := r.Frame()
	require.NoError(t, err)
	r.Clear(colornames.Green)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, color.RGBAModel.Convert(f.At(1, 1)))
}

func TestRendererOnRasterIsUpright(t *testing.T) {
	// A tall bar: bottom point at the baseline, top point 60 pixels above.
	bar := outline.Contour{Closed: true, Points: []outline.Point{{X: 0, Y: 0}, {X: 0, Y: 60}}}
	cfg := constellation.DefaultConfig()
	cfg.Launch = constellation.StillLaunch{}
	b, err := constellation.NewBuilder(cfg)
	require.NoError(t, err)
	w := physics.NewWorld(physics.DefaultIntegrationParameters())
	c, err := b.Build(w, []outline.Contour{bar})
	require.NoError(t, err)

	style := system.DefaultStyle()
	style.Background = colornames.White
	style.Point = colornames.Black
	style.Line = colornames.Black

	r := NewRaster(Viewport{Width: 100, Height: 100, Origin: cp.Vector{X: 50, Y: 90}})
	require.NoError(t, system.NewRenderer(style).Draw(w, c, r))
	assert.Equal(t, 1, r.Frames())

	black := color.RGBA{0, 0, 0, 255}
	assert.Equal(t, black, rgbaAt(r, 50, 90), "baseline point")
	assert.Equal(t, black, rgbaAt(r, 50, 30), "top point drawn above")
	assert.Equal(t, black, rgbaAt(r, 50, 60), "joining line")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(r, 50, 10))
}

type lineCanvas struct {
	lines, circles int
}

func (l *lineCanvas) FillCircle(cp.Vector, float64, color.Color)          { l.circles++ }
func (l *lineCanvas) StrokeLine(cp.Vector, cp.Vector, float64, color.Color) { l.lines++ }

func TestDebugDrawerDrawsSpace(t *testing.T) {
	cfg := constellation.DefaultConfig()
	cfg.Launch = constellation.StillLaunch{}
	cfg.Ring.Enabled = true
	b, err := constellation.NewBuilder(cfg)
	require.NoError(t, err)
	w := physics.NewWorld(physics.DefaultIntegrationParameters())
	_, err = b.Build(w, []outline.Contour{{Closed: true, Points: []outline.Point{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 0, Y: 40}}}})
	require.NoError(t, err)

	canvas := &lineCanvas{}
	w.DebugDraw(NewDebugDrawer(canvas, 40))
	// Three discs of 25 lines each plus the ground capsule.
	assert.Greater(t, canvas.lines, 3*(debugCircleSegments+1))
}

func TestToNRGBAClamps(t *testing.T) {
	got := toNRGBA(cp.FColor{R: 2, G: -1, B: 0.5, A: 1})
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 127, A: 255}, got)
}
