// Package scene assembles a simulated glyph constellation from a config.
package scene

import (
	"fmt"
	"log"
	"os"

	"github.com/milk9111/glyphfall/config"
	"github.com/milk9111/glyphfall/constellation"
	"github.com/milk9111/glyphfall/outline"
	"github.com/milk9111/glyphfall/physics"
	"github.com/milk9111/glyphfall/render"
	"github.com/milk9111/glyphfall/system"
	"golang.org/x/image/font/gofont/goregular"
)

type Scene struct {
	Config        config.Config
	Font          *outline.Font
	Line          *outline.Line
	Result        outline.Result
	World         *physics.World
	Constellation *constellation.Constellation
	Stepper       *system.Stepper
	Renderer      *system.Renderer
}

// New lays out the configured text, flattens it and builds the world.
func New(cfg config.Config) (*Scene, error) {
	font, err := LoadFont(cfg.Font.Path)
	if err != nil {
		return nil, err
	}
	line, err := font.Layout(cfg.Text, cfg.Font.Size)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	ex, err := outline.NewExtractor(cfg.Font.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	res := ex.Extract(line.Glyphs)

	bcfg, err := BuilderConfig(cfg, line.Advance)
	if err != nil {
		return nil, err
	}
	builder, err := constellation.NewBuilder(bcfg)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	world := physics.NewWorld(physics.IntegrationParameters{
		Gravity:    cfg.Physics.Gravity.Vector(),
		Timestep:   cfg.Physics.Timestep,
		Iterations: cfg.Physics.Iterations,
	})
	c, err := builder.Build(world, res.Contours())
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	log.Printf("scene: %q with %s: %d glyphs, %d contours, %d points, %d joints",
		cfg.Text, font.Name(), len(res.Glyphs), len(c.Contours), c.PointCount(), c.JointCount())

	return &Scene{
		Config:        cfg,
		Font:          font,
		Line:          line,
		Result:        res,
		World:         world,
		Constellation: c,
		Stepper:       system.NewStepper(world),
		Renderer:      system.NewRenderer(Style(cfg)),
	}, nil
}

// Step advances the simulation by one frame.
func (s *Scene) Step() error {
	return s.Stepper.Step()
}

// Draw renders the current frame onto surface.
func (s *Scene) Draw(surface system.Surface) error {
	return s.Renderer.Draw(s.World, s.Constellation, surface)
}

// Frame is a surface whose finished image can be read back.
type Frame interface {
	system.Surface
	system.FrameSource
}

// Present draws one frame onto f. When record is set the finished frame goes
// to rec before overlay runs, so overlays never reach the captured images.
func (s *Scene) Present(f Frame, rec *system.Recorder, record bool, overlay func()) error {
	if err := s.Draw(f); err != nil {
		return err
	}
	if record && rec != nil {
		if err := rec.Cycle(f); err != nil {
			return err
		}
	}
	if overlay != nil {
		overlay()
	}
	return nil
}

// Viewport returns the device mapping for the configured window.
func (s *Scene) Viewport() render.Viewport {
	r := s.Config.Render
	return render.CenteredViewport(r.Width, r.Height, r.Baseline)
}

// BuilderConfig converts the config sections used by the constellation
// builder. advance is the laid out text width in pixels.
func BuilderConfig(cfg config.Config, advance float64) (constellation.Config, error) {
	launch, err := LaunchRule(cfg.Launch)
	if err != nil {
		return constellation.Config{}, err
	}
	kind, err := JointKind(cfg.Ring.Kind)
	if err != nil {
		return constellation.Config{}, err
	}

	offset := cfg.Layout.Offset.Vector()
	if cfg.Layout.Center {
		offset.X -= advance / 2 / cfg.Layout.PixelsPerMeter
	}

	g := cfg.Ground
	p := cfg.Points
	r := cfg.Ring
	return constellation.Config{
		PixelsPerMeter: cfg.Layout.PixelsPerMeter,
		Offset:         offset,
		Ground: constellation.GroundConfig{
			Position:   g.Position.Vector(),
			Angle:      g.Angle,
			HalfLength: g.HalfLength,
			Radius:     g.Radius,
			Friction:   g.Friction,
			Density:    g.Density,
		},
		Point: constellation.PointConfig{
			Radius:     p.Radius,
			Friction:   p.Friction,
			Density:    p.Density,
			Elasticity: p.Elasticity,
		},
		Launch: launch,
		Ring: constellation.RingConfig{
			Enabled: r.Enabled,
			Joint: physics.JointDesc{
				Kind:       kind,
				AnchorA:    r.AnchorA.Vector(),
				AnchorB:    r.AnchorB.Vector(),
				RestLength: r.RestLength,
				Stiffness:  r.Stiffness,
				Damping:    r.Damping,
			},
		},
	}, nil
}

// LaunchRule builds the configured launch rule.
func LaunchRule(lc config.LaunchConfig) (constellation.LaunchRule, error) {
	switch lc.Rule {
	case config.LaunchRadial:
		return constellation.RadialLaunch{
			Center: lc.Center.Vector(),
			Spread: lc.Spread,
			Base:   lc.Base.Vector(),
		}, nil
	case config.LaunchStill:
		return constellation.StillLaunch{}, nil
	case config.LaunchScript:
		src, err := config.LoadScript(lc.Script)
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		rule, err := constellation.NewScriptLaunch(src)
		if err != nil {
			return nil, fmt.Errorf("scene: %s: %w", lc.Script, err)
		}
		return rule, nil
	default:
		return nil, fmt.Errorf("scene: unknown launch rule %q", lc.Rule)
	}
}

func JointKind(name string) (physics.JointKind, error) {
	switch name {
	case "pin":
		return physics.Pin, nil
	case "spring":
		return physics.Spring, nil
	case "pivot":
		return physics.Pivot, nil
	default:
		return 0, fmt.Errorf("scene: unknown joint kind %q", name)
	}
}

// Style converts the render section.
func Style(cfg config.Config) system.Style {
	r := cfg.Render
	return system.Style{
		Background:     r.Background.Color,
		Point:          r.Point.Color,
		Line:           r.Line.Color,
		PointRadius:    r.PointRadius,
		LineWidth:      r.LineWeight,
		PixelsPerMeter: cfg.Layout.PixelsPerMeter,
	}
}

// LoadFont parses the font at path, or Go Regular when path is empty. Read
// and parse failures are *outline.FontLoadError.
func LoadFont(path string) (*outline.Font, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &outline.FontLoadError{Err: err}
		}
		data = b
	}
	return outline.ParseFont(data)
}
