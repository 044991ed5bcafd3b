package outline

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontLoadError reports font bytes that could not be parsed.
type FontLoadError struct {
	Err error
}

func (e *FontLoadError) Error() string {
	return "outline: load font: " + e.Err.Error()
}

func (e *FontLoadError) Unwrap() error {
	return e.Err
}

// Font provides glyph outlines for laid out text.
type Font struct {
	font *sfnt.Font
	buf  sfnt.Buffer
	name string
}

// ParseFont parses TrueType or OpenType bytes. The bytes must not be
// modified while the font is in use.
func ParseFont(data []byte) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, &FontLoadError{Err: err}
	}
	out := &Font{font: f}
	if name, err := f.Name(&out.buf, sfnt.NameIDFull); err == nil {
		out.name = name
	}
	return out, nil
}

// Name returns the full font name, if the font carries one.
func (f *Font) Name() string {
	return f.name
}

// Line is a single laid out line of glyphs. The baseline sits at Y = 0 and
// the pen starts at X = 0.
type Line struct {
	Glyphs  []GlyphOutline
	Advance float64
	Ascent  float64
	Descent float64
}

// Layout places text on one line at size pixels per em and loads the outline
// of every glyph. Runes without outlines (spaces) get a nil Bounds.
func (f *Font) Layout(text string, size float64) (*Line, error) {
	if size <= 0 || math.IsNaN(size) {
		return nil, fmt.Errorf("outline: invalid font size %v", size)
	}
	ppem := fixed.Int26_6(math.Round(size * 64))

	metrics, err := f.font.Metrics(&f.buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("outline: metrics: %w", err)
	}
	line := &Line{
		Ascent:  fromFixed(metrics.Ascent),
		Descent: fromFixed(metrics.Descent),
	}

	var pen fixed.Int26_6
	var prev sfnt.GlyphIndex
	for i, r := range []rune(text) {
		idx, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil {
			return nil, fmt.Errorf("outline: glyph index for %q: %w", r, err)
		}
		if i > 0 {
			// Fonts without a kern table report an error; treat it as no kerning.
			if k, err := f.font.Kern(&f.buf, prev, idx, ppem, font.HintingNone); err == nil {
				pen += k
			}
		}

		segs, err := f.font.LoadGlyph(&f.buf, idx, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("outline: load glyph %q: %w", r, err)
		}
		g := GlyphOutline{
			ID:       i,
			Index:    uint16(idx),
			Rune:     r,
			Offset:   Point{X: fromFixed(pen), Y: 0},
			Commands: commandsFromSegments(segs),
		}
		if len(segs) > 0 {
			b := segs.Bounds()
			rect := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil()).
				Add(image.Pt(pen.Floor(), 0))
			g.Bounds = &rect
		}
		line.Glyphs = append(line.Glyphs, g)

		adv, err := f.font.GlyphAdvance(&f.buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("outline: advance for %q: %w", r, err)
		}
		pen += adv
		prev = idx
	}
	line.Advance = fromFixed(pen)
	return line, nil
}

// commandsFromSegments copies sfnt segments, which alias the font buffer, and
// closes every sub-path explicitly.
func commandsFromSegments(segs sfnt.Segments) []Command {
	if len(segs) == 0 {
		return nil
	}
	cmds := make([]Command, 0, len(segs)+4)
	started := false
	for _, s := range segs {
		var c Command
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				cmds = append(cmds, Command{Op: Close})
			}
			started = true
			c = Command{Op: MoveTo}
			c.Args[0] = fromFixedPoint(s.Args[0])
		case sfnt.SegmentOpLineTo:
			c = Command{Op: LineTo}
			c.Args[0] = fromFixedPoint(s.Args[0])
		case sfnt.SegmentOpQuadTo:
			c = Command{Op: QuadTo}
			c.Args[0] = fromFixedPoint(s.Args[0])
			c.Args[1] = fromFixedPoint(s.Args[1])
		case sfnt.SegmentOpCubeTo:
			c = Command{Op: CubeTo}
			c.Args[0] = fromFixedPoint(s.Args[0])
			c.Args[1] = fromFixedPoint(s.Args[1])
			c.Args[2] = fromFixedPoint(s.Args[2])
		default:
			continue
		}
		cmds = append(cmds, c)
	}
	if started {
		cmds = append(cmds, Command{Op: Close})
	}
	return cmds
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func fromFixedPoint(p fixed.Point26_6) Point {
	return Point{X: fromFixed(p.X), Y: fromFixed(p.Y)}
}
