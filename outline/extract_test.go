package outline

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func bounds() *image.Rectangle {
	r := image.Rect(0, -10, 10, 0)
	return &r
}

func move(x, y float64) Command { return Command{Op: MoveTo, Args: [3]Point{{x, y}}} }
func line(x, y float64) Command { return Command{Op: LineTo, Args: [3]Point{{x, y}}} }
func quad(cx, cy, x, y float64) Command {
	return Command{Op: QuadTo, Args: [3]Point{{cx, cy}, {x, y}}}
}
func cube(c1x, c1y, c2x, c2y, x, y float64) Command {
	return Command{Op: CubeTo, Args: [3]Point{{c1x, c1y}, {c2x, c2y}, {x, y}}}
}
func closePath() Command { return Command{Op: Close} }

func mustExtractor(t *testing.T, tol float64) *Extractor {
	t.Helper()
	e, err := NewExtractor(tol)
	require.NoError(t, err)
	return e
}

func TestNewExtractorRejectsBadTolerance(t *testing.T) {
	for _, tol := range []float64{0, -1} {
		_, err := NewExtractor(tol)
		assert.Error(t, err, "tolerance %v", tol)
	}
}

func TestExtractSingleQuadratic(t *testing.T) {
	e := mustExtractor(t, 0.01)
	// Raw outline Y grows down, so (2,-2) is above the baseline.
	g, ok := e.Glyph(GlyphOutline{
		Bounds:   bounds(),
		Commands: []Command{move(0, 0), quad(2, -2, 4, 0)},
	})
	require.True(t, ok)
	require.Len(t, g.Contours, 1)
	c := g.Contours[0]
	assert.False(t, c.Closed)
	require.GreaterOrEqual(t, c.Len(), 2)
	assert.Equal(t, Point{0, 0}, c.Points[0])
	assert.Equal(t, Point{4, 0}, c.Points[c.Len()-1])
	checkHausdorff(t, func(s float64) Point {
		return quadAt(Point{0, 0}, Point{2, 2}, Point{4, 0}, s)
	}, c.Points, 0.01)
}

func TestExtractJoinsAreNotDuplicated(t *testing.T) {
	e := mustExtractor(t, 0.05)
	g, ok := e.Glyph(GlyphOutline{
		Bounds: bounds(),
		Commands: []Command{
			move(0, 0),
			line(4, 0),
			quad(6, -2, 4, -4),
			cube(3, -6, 1, -6, 0, -4),
			line(0, 0),
			closePath(),
		},
	})
	require.True(t, ok)
	require.Len(t, g.Contours, 1)
	c := g.Contours[0]
	assert.True(t, c.Closed)

	for i := 1; i < c.Len(); i++ {
		assert.NotEqual(t, c.Points[i-1], c.Points[i], "duplicate at %d", i)
	}
	// The closing line returns to the start, which is not repeated.
	assert.NotEqual(t, c.Points[0], c.Points[c.Len()-1])

	for _, join := range []Point{{4, 0}, {4, 4}, {0, 4}} {
		n := 0
		for _, p := range c.Points {
			if p == join {
				n++
			}
		}
		assert.Equal(t, 1, n, "join %v", join)
	}
}

func TestExtractFlipsYOnceWithOffset(t *testing.T) {
	e := mustExtractor(t, 0.1)
	g, ok := e.Glyph(GlyphOutline{
		Offset:   Point{X: 100, Y: 20},
		Bounds:   bounds(),
		Commands: []Command{move(0, 0), line(0, -10), line(5, -10), closePath()},
	})
	require.True(t, ok)
	assert.Equal(t, []Point{{100, 20}, {100, 30}, {105, 30}}, g.Contours[0].Points)
}

func TestExtractSkipsGlyphWithoutBounds(t *testing.T) {
	e := mustExtractor(t, 0.1)
	res := e.Extract([]GlyphOutline{
		{ID: 0, Bounds: bounds(), Commands: []Command{move(0, 0), line(1, 0), line(1, -1), closePath()}},
		{ID: 1, Rune: ' '},
		{ID: 2, Bounds: bounds(), Commands: []Command{move(0, 0), line(2, 0), closePath()}},
	})
	assert.Equal(t, []int{1}, res.Skipped)
	require.Len(t, res.Glyphs, 2)
	assert.Len(t, res.Contours(), 2)
	assert.Equal(t, 5, res.PointCount())
}

func TestExtractDegenerateSubpaths(t *testing.T) {
	e := mustExtractor(t, 0.1)
	g, ok := e.Glyph(GlyphOutline{
		Bounds: bounds(),
		Commands: []Command{
			move(3, 3), closePath(),
			move(0, 0), line(1, 0),
			move(5, 5), line(6, 5), closePath(),
		},
	})
	require.True(t, ok)
	require.Len(t, g.Contours, 3)
	assert.Equal(t, []Point{{3, -3}}, g.Contours[0].Points)
	assert.True(t, g.Contours[0].Closed)
	assert.False(t, g.Contours[1].Closed, "a move terminates the open sub-path")
	assert.Len(t, g.Contours[1].Points, 2)
	assert.True(t, g.Contours[2].Closed)
}

func TestExtractIsDeterministic(t *testing.T) {
	f, err := ParseFont(goregular.TTF)
	require.NoError(t, err)
	l, err := f.Layout("Go!", 64)
	require.NoError(t, err)

	e := mustExtractor(t, 0.25)
	a := e.Extract(l.Glyphs)
	b := e.Extract(l.Glyphs)
	require.Equal(t, a, b)
	assert.Greater(t, a.PointCount(), 0)
}

func TestFontLayoutLetterIsUpright(t *testing.T) {
	f, err := ParseFont(goregular.TTF)
	require.NoError(t, err)
	assert.NotEmpty(t, f.Name())

	l, err := f.Layout("L", 100)
	require.NoError(t, err)
	require.Len(t, l.Glyphs, 1)
	require.NotNil(t, l.Glyphs[0].Bounds)
	assert.Greater(t, l.Advance, 0.0)
	assert.Greater(t, l.Ascent, 0.0)

	g, ok := mustExtractor(t, 0.1).Glyph(l.Glyphs[0])
	require.True(t, ok)
	require.NotEmpty(t, g.Contours)

	minY, maxY := g.Contours[0].Points[0].Y, g.Contours[0].Points[0].Y
	for _, c := range g.Contours {
		for _, p := range c.Points {
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
		}
	}
	// An upright L stands on the baseline and reaches up towards the ascent.
	assert.InDelta(t, 0, minY, 1)
	assert.Greater(t, maxY, 50.0)

	topRight, bottomRight := -1.0, -1.0
	for _, c := range g.Contours {
		for _, p := range c.Points {
			if p.Y >= maxY-1 {
				topRight = max(topRight, p.X)
			}
			if p.Y <= minY+1 {
				bottomRight = max(bottomRight, p.X)
			}
		}
	}
	assert.Greater(t, bottomRight, topRight+10, "the foot of the L must be at the bottom")
}

func TestFontLayoutSpaceHasNoBounds(t *testing.T) {
	f, err := ParseFont(goregular.TTF)
	require.NoError(t, err)
	l, err := f.Layout("a b", 32)
	require.NoError(t, err)
	require.Len(t, l.Glyphs, 3)
	assert.Nil(t, l.Glyphs[1].Bounds)
	assert.Greater(t, l.Glyphs[2].Offset.X, l.Glyphs[1].Offset.X)

	res := mustExtractor(t, 0.5).Extract(l.Glyphs)
	assert.Equal(t, []int{1}, res.Skipped)
}

func TestParseFontRejectsGarbage(t *testing.T) {
	_, err := ParseFont([]byte("not a font"))
	var fle *FontLoadError
	require.True(t, errors.As(err, &fle), "got %v", err)
}
