package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/glyphfall/config"
	"github.com/milk9111/glyphfall/scene"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config overlaid on the embedded defaults")
	debug := flag.Bool("debug", false, "draw physics shapes and joints")
	noRecord := flag.Bool("norecord", false, "do not write frames to img/")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if *noRecord {
		cfg.Record.Enabled = false
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec, err := scene.NewRecording(ctx, cfg.Record)
	if err != nil {
		log.Fatal(err)
	}
	rec.OnFinish = func() {
		log.Printf("main: recording complete in %s", rec.Base())
	}

	game, err := NewGame(*cfgPath, cfg, rec, *debug)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Render.Width, cfg.Render.Height)
	ebiten.SetWindowTitle("glyphfall")

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		log.Printf("main: %v", err)
	}
	if err := rec.Close(); err != nil {
		log.Printf("main: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
