package outline

import (
	"fmt"
	"log"
	"math"
)

// Extractor flattens glyph outlines into contours.
type Extractor struct {
	tolerance float64
}

// NewExtractor returns an extractor whose polylines stay within tolerance of
// the true curves.
func NewExtractor(tolerance float64) (*Extractor, error) {
	if tolerance <= 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return nil, fmt.Errorf("outline: invalid flattening tolerance %v", tolerance)
	}
	return &Extractor{tolerance: tolerance}, nil
}

func (e *Extractor) Tolerance() float64 {
	return e.tolerance
}

// Result is the output of Extract.
type Result struct {
	Glyphs []Glyph
	// Skipped lists the IDs of glyphs without a bounding box.
	Skipped []int
}

// Contours returns every contour in glyph order.
func (r Result) Contours() []Contour {
	var out []Contour
	for _, g := range r.Glyphs {
		out = append(out, g.Contours...)
	}
	return out
}

// PointCount returns the total number of contour points.
func (r Result) PointCount() int {
	n := 0
	for _, g := range r.Glyphs {
		for _, c := range g.Contours {
			n += c.Len()
		}
	}
	return n
}

// Extract flattens every glyph. Glyphs without a bounding box contribute no
// contours and are recorded in Result.Skipped.
func (e *Extractor) Extract(outlines []GlyphOutline) Result {
	var res Result
	for _, o := range outlines {
		g, ok := e.Glyph(o)
		if !ok {
			log.Printf("outline: skipping glyph %d (%q): no bounding box", o.ID, o.Rune)
			res.Skipped = append(res.Skipped, o.ID)
			continue
		}
		res.Glyphs = append(res.Glyphs, g)
	}
	return res
}

// Glyph flattens a single outline. It reports false when the glyph has no
// bounding box.
func (e *Extractor) Glyph(o GlyphOutline) (Glyph, bool) {
	if o.Bounds == nil {
		return Glyph{}, false
	}

	g := Glyph{ID: o.ID, Index: o.Index, Rune: o.Rune, Offset: o.Offset}
	b := contourBuilder{glyph: o.ID, tolerance: e.tolerance}
	// Raw outline Y grows downward; this is the only place it is flipped.
	toLayout := func(p Point) Point {
		return Point{X: o.Offset.X + p.X, Y: o.Offset.Y - p.Y}
	}

	for _, cmd := range o.Commands {
		switch cmd.Op {
		case MoveTo:
			b.moveTo(toLayout(cmd.Args[0]))
		case LineTo:
			b.lineTo(toLayout(cmd.Args[0]))
		case QuadTo:
			b.quadTo(toLayout(cmd.Args[0]), toLayout(cmd.Args[1]))
		case CubeTo:
			b.cubeTo(toLayout(cmd.Args[0]), toLayout(cmd.Args[1]), toLayout(cmd.Args[2]))
		case Close:
			b.close()
		}
	}
	b.finish(false)
	g.Contours = b.contours
	return g, true
}

// contourBuilder accumulates flattened sub-paths. Each segment contributes
// its points after the start, so joins are never duplicated.
type contourBuilder struct {
	glyph     int
	tolerance float64

	contours []Contour
	points   []Point
	open     bool
	start    Point
	pen      Point
}

func (b *contourBuilder) moveTo(p Point) {
	b.finish(false)
	b.points = []Point{p}
	b.open = true
	b.start = p
	b.pen = p
}

func (b *contourBuilder) ensureOpen() {
	if !b.open {
		b.moveTo(b.pen)
	}
}

func (b *contourBuilder) lineTo(p Point) {
	b.ensureOpen()
	if p == b.pen {
		return
	}
	b.points = append(b.points, p)
	b.pen = p
}

func (b *contourBuilder) quadTo(c, p Point) {
	b.ensureOpen()
	if c == b.pen && p == b.pen {
		return
	}
	b.points = FlattenQuad(b.points, b.pen, c, p, b.tolerance)
	b.pen = p
}

func (b *contourBuilder) cubeTo(c1, c2, p Point) {
	b.ensureOpen()
	if c1 == b.pen && c2 == b.pen && p == b.pen {
		return
	}
	b.points = FlattenCubic(b.points, b.pen, c1, c2, p, b.tolerance)
	b.pen = p
}

func (b *contourBuilder) close() {
	b.finish(true)
	b.pen = b.start
}

func (b *contourBuilder) finish(closed bool) {
	if !b.open {
		return
	}
	pts := b.points
	if closed && len(pts) > 1 && pts[len(pts)-1] == pts[0] {
		pts = pts[:len(pts)-1]
	}
	b.contours = append(b.contours, Contour{Glyph: b.glyph, Points: pts, Closed: closed})
	b.points = nil
	b.open = false
}
