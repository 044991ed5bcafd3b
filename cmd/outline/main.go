// Command outline dumps the flattened contours of a text as YAML and can
// render them to a PNG preview.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/glyphfall/capture"
	"github.com/milk9111/glyphfall/config"
	"github.com/milk9111/glyphfall/outline"
	"github.com/milk9111/glyphfall/render"
	"github.com/milk9111/glyphfall/scene"
	"github.com/milk9111/glyphfall/system"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

type contourDump struct {
	Glyph  int          `yaml:"glyph"`
	Closed bool         `yaml:"closed"`
	Points [][2]float64 `yaml:"points,flow"`
}

type glyphDump struct {
	ID       int           `yaml:"id"`
	Rune     string        `yaml:"rune"`
	Index    uint16        `yaml:"index"`
	Offset   [2]float64    `yaml:"offset,flow"`
	Contours []contourDump `yaml:"contours"`
}

type dump struct {
	Text      string      `yaml:"text"`
	Font      string      `yaml:"font"`
	Size      float64     `yaml:"size"`
	Tolerance float64     `yaml:"tolerance"`
	Points    int         `yaml:"points"`
	Skipped   []int       `yaml:"skipped,omitempty"`
	Glyphs    []glyphDump `yaml:"glyphs"`
}

func main() {
	cfgPath := flag.String("config", "", "YAML config overlaid on the embedded defaults")
	text := flag.String("text", "", "text to flatten (default from config)")
	outPath := flag.String("o", "", "write YAML here instead of stdout")
	preview := flag.String("png", "", "also render the contours to this PNG file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if *text != "" {
		cfg.Text = *text
	}

	font, err := scene.LoadFont(cfg.Font.Path)
	if err != nil {
		log.Fatal(err)
	}
	line, err := font.Layout(cfg.Text, cfg.Font.Size)
	if err != nil {
		log.Fatal(err)
	}
	ex, err := outline.NewExtractor(cfg.Font.Tolerance)
	if err != nil {
		log.Fatal(err)
	}
	res := ex.Extract(line.Glyphs)

	d := toDump(cfg, font, res)
	if *outPath == "" {
		err = writeDump(os.Stdout, d)
	} else {
		err = writeDumpFile(*outPath, d)
	}
	if err != nil {
		log.Fatal(err)
	}

	if *preview != "" {
		if err := renderPreview(*preview, line, res); err != nil {
			log.Fatal(err)
		}
	}
}

func writeDump(w io.Writer, d dump) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

func writeDumpFile(path string, d dump) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("outline: %w", err)
	}
	if err := writeDump(f, d); err != nil {
		f.Close()
		return fmt.Errorf("outline: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("outline: close %s: %w", path, err)
	}
	return nil
}

func toDump(cfg config.Config, font *outline.Font, res outline.Result) dump {
	d := dump{
		Text:      cfg.Text,
		Font:      font.Name(),
		Size:      cfg.Font.Size,
		Tolerance: cfg.Font.Tolerance,
		Points:    res.PointCount(),
		Skipped:   res.Skipped,
	}
	for _, g := range res.Glyphs {
		gd := glyphDump{
			ID:     g.ID,
			Rune:   string(g.Rune),
			Index:  g.Index,
			Offset: [2]float64{g.Offset.X, g.Offset.Y},
		}
		for _, c := range g.Contours {
			cd := contourDump{Glyph: c.Glyph, Closed: c.Closed}
			for _, p := range c.Points {
				cd.Points = append(cd.Points, [2]float64{p.X, p.Y})
			}
			gd.Contours = append(gd.Contours, cd)
		}
		d.Glyphs = append(d.Glyphs, gd)
	}
	return d
}

// renderPreview draws each contour as a closed polyline with its vertices.
func renderPreview(path string, line *outline.Line, res outline.Result) error {
	const margin = 16
	width := int(line.Advance) + 2*margin
	height := int(line.Ascent+line.Descent) + 2*margin
	r := render.NewRaster(render.Viewport{
		Width:  width,
		Height: height,
		Origin: cp.Vector{X: margin, Y: margin + line.Ascent},
	})
	renderer := system.NewRenderer(system.Style{
		Background:  colornames.White,
		Point:       colornames.Crimson,
		Line:        colornames.Steelblue,
		PointRadius: 1.5,
		LineWidth:   1,
	})
	r.Clear(colornames.White)
	var pts []cp.Vector
	for _, c := range res.Contours() {
		pts = pts[:0]
		for _, p := range c.Points {
			pts = append(pts, cp.Vector{X: p.X, Y: p.Y})
		}
		renderer.DrawContour(pts, r)
	}
	if err := r.Finalize(); err != nil {
		return err
	}
	return (&capture.PNGSink{}).Capture(path, r.Image())
}
