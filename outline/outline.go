// Package outline turns glyph outline commands into flattened contours.
//
// Outline commands arrive in glyph-local coordinates whose Y axis grows
// downward, as produced by golang.org/x/image/font/sfnt. The Extractor flips
// Y exactly once while translating into layout space, so every Contour it
// returns is Y-up and no downstream consumer needs to re-invert.
package outline

import (
	"image"
	"math"
)

// Point is a 2D point.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Op is an outline command kind.
type Op int

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

func (o Op) String() string {
	switch o {
	case MoveTo:
		return "move"
	case LineTo:
		return "line"
	case QuadTo:
		return "quad"
	case CubeTo:
		return "cube"
	case Close:
		return "close"
	}
	return "unknown"
}

// Command is one outline instruction. Args holds, in order, the control
// points and the end point: one point for MoveTo and LineTo, two for QuadTo,
// three for CubeTo, none for Close.
type Command struct {
	Op   Op
	Args [3]Point
}

// End returns the point the command moves the pen to.
func (c Command) End() Point {
	switch c.Op {
	case QuadTo:
		return c.Args[1]
	case CubeTo:
		return c.Args[2]
	}
	return c.Args[0]
}

// GlyphOutline is the raw outline of one laid out glyph.
type GlyphOutline struct {
	// ID is the position of the glyph in the laid out text.
	ID int
	// Index is the font glyph index.
	Index uint16
	Rune  rune
	// Offset is the glyph origin in Y-up layout space.
	Offset Point
	// Bounds is the pixel bounding box, nil when the glyph draws nothing.
	Bounds   *image.Rectangle
	Commands []Command
}

// Contour is one flattened sub-path. Closed contours do not repeat their
// first point at the end.
type Contour struct {
	Glyph  int
	Points []Point
	Closed bool
}

// Len returns the number of points.
func (c Contour) Len() int {
	return len(c.Points)
}

// Glyph is an extracted glyph with its contours.
type Glyph struct {
	ID       int
	Index    uint16
	Rune     rune
	Offset   Point
	Contours []Contour
}
