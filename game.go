package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/glyphfall/config"
	"github.com/milk9111/glyphfall/render"
	"github.com/milk9111/glyphfall/scene"
)

// Game runs one physics step per drawn frame and records what was drawn.
type Game struct {
	cfgPath string
	debug   bool

	cfg     config.Config
	scene   *scene.Scene
	screen  *render.Screen
	drawer  *render.DebugDrawer
	rec     *scene.Recording
	watcher *config.Watcher

	// pending is set between a step and the draw that shows it.
	pending bool
	drawErr error
	frames  int
}

func NewGame(cfgPath string, cfg config.Config, rec *scene.Recording, debug bool) (*Game, error) {
	s, err := scene.New(cfg)
	if err != nil {
		return nil, err
	}
	screen := render.NewScreen(s.Viewport())
	g := &Game{
		cfgPath: cfgPath,
		debug:   debug,
		cfg:     cfg,
		scene:   s,
		screen:  screen,
		drawer:  render.NewDebugDrawer(screen, cfg.Layout.PixelsPerMeter),
		rec:     rec,
	}

	if dirs := watchDirs(cfgPath, cfg); len(dirs) > 0 {
		w, err := config.NewWatcher(dirs...)
		if err != nil {
			log.Printf("game: hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Update() error {
	if g.drawErr != nil {
		return g.drawErr
	}
	g.pollReload()

	if g.pending {
		return nil
	}
	if err := g.scene.Step(); err != nil {
		return err
	}
	g.pending = true
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Bind(screen)
	record := g.pending
	var overlay func()
	if g.debug {
		overlay = func() {
			g.scene.World.DebugDraw(g.drawer)
			st := g.rec.Snapshot()
			ebitenutil.DebugPrint(screen, fmt.Sprintf("Steps: %d    FPS: %.2f    Recording: %v %d/%d",
				g.scene.Stepper.Steps(), ebiten.ActualFPS(), st.Enabled, st.FrameCount, st.Limit))
		}
	}
	if err := g.scene.Present(g.screen, g.rec.Recorder, record, overlay); err != nil {
		g.drawErr = err
		return
	}
	if record {
		g.pending = false
		g.frames++
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Render.Width, g.cfg.Render.Height
}

// Close stops the watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	changed := ""
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			changed = name
			continue
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: watcher: %v", err)
			continue
		default:
		}
		break
	}
	if changed == "" {
		return
	}

	cfg, err := config.Load(g.cfgPath)
	if err != nil {
		log.Printf("game: reload %s: %v", changed, err)
		return
	}
	s, err := scene.New(cfg)
	if err != nil {
		log.Printf("game: reload %s: %v", changed, err)
		return
	}
	log.Printf("game: reloaded scene after change to %s", changed)
	g.cfg = cfg
	g.scene = s
	g.screen.SetViewport(s.Viewport())
	g.drawer.PixelsPerMeter = cfg.Layout.PixelsPerMeter
	g.pending = false
}

func watchDirs(cfgPath string, cfg config.Config) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(path string) {
		if path == "" {
			return
		}
		if _, err := os.Stat(path); err != nil {
			return
		}
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	add(cfgPath)
	if cfg.Launch.Rule == config.LaunchScript {
		add(cfg.Launch.Script)
	}
	return dirs
}
