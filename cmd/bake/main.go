// Command bake renders a scene headlessly and writes the recorded frames.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/milk9111/glyphfall/config"
	"github.com/milk9111/glyphfall/render"
	"github.com/milk9111/glyphfall/scene"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config overlaid on the embedded defaults")
	frames := flag.Int("frames", 0, "number of frames to record (default from config)")
	out := flag.String("out", "", "output directory; frames go to <out>/img")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	cfg.Record.Enabled = true
	if *frames > 0 {
		cfg.Record.Limit = *frames
	}
	if *out != "" {
		cfg.Record.Dir = *out
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := bake(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func bake(ctx context.Context, cfg config.Config) error {
	s, err := scene.New(cfg)
	if err != nil {
		return err
	}
	rec, err := scene.NewRecording(ctx, cfg.Record)
	if err != nil {
		return err
	}
	done := false
	rec.OnFinish = func() { done = true }

	raster := render.NewRaster(s.Viewport())
	for !done {
		if err := ctx.Err(); err != nil {
			rec.Close()
			return err
		}
		if err := s.Step(); err != nil {
			rec.Close()
			return err
		}
		if err := s.Draw(raster); err != nil {
			rec.Close()
			return err
		}
		if err := rec.Cycle(raster); err != nil {
			rec.Close()
			return err
		}
	}
	if err := rec.Close(); err != nil {
		return err
	}
	log.Printf("bake: wrote %d frames to %s", raster.Frames()-1, rec.Base())
	return nil
}
