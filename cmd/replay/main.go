// Command replay plays back a recorded frame sequence in a window.
package main

import (
	"flag"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/glyphfall/capture"
	"github.com/milk9111/glyphfall/system"
)

type replay struct {
	frames      []*ebiten.Image
	current     int
	tick        int
	ticksPerFrm int
	width       int
	height      int
}

func (g *replay) Update() error {
	if len(g.frames) <= 1 {
		return nil
	}
	g.tick++
	if g.tick >= g.ticksPerFrm {
		g.tick = 0
		g.current = (g.current + 1) % len(g.frames)
	}
	return nil
}

func (g *replay) Draw(screen *ebiten.Image) {
	if len(g.frames) == 0 {
		return
	}
	screen.DrawImage(g.frames[g.current], nil)
}

func (g *replay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// loadFrames reads frames 001, 002, ... until the first missing index.
func loadFrames(base, ext string) ([]*ebiten.Image, error) {
	var frames []*ebiten.Image
	for i := 1; ; i++ {
		f, err := os.Open(capture.FramePath(base, i, ext))
		if os.IsNotExist(err) {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		frames = append(frames, ebiten.NewImageFromImage(img))
	}
}

func main() {
	dir := flag.String("dir", "", "directory holding img/ (default: project directory)")
	ext := flag.String("ext", system.DefaultRecordExt, "frame image extension")
	fps := flag.Int("fps", 30, "playback frames per second")
	flag.Parse()

	base := *dir
	if base == "" {
		d, err := system.ProjectDir()
		if err != nil {
			log.Fatal(err)
		}
		base = d
	}

	frames, err := loadFrames(base, *ext)
	if err != nil {
		log.Fatal(err)
	}
	if len(frames) == 0 {
		log.Fatalf("replay: no frames under %s", capture.FramePath(base, 1, *ext))
	}
	log.Printf("replay: %d frames", len(frames))

	ticks := 1
	if *fps > 0 {
		ticks = max(1, ebiten.TPS() / *fps)
	}
	b := frames[0].Bounds()
	g := &replay{frames: frames, ticksPerFrm: ticks, width: b.Dx(), height: b.Dy()}

	ebiten.SetWindowSize(b.Dx(), b.Dy())
	ebiten.SetWindowTitle("glyphfall replay")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
