// Package config loads the scene configuration. The embedded defaults are
// decoded first and an optional YAML file is overlaid on top.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Text    string        `yaml:"text"`
	Font    FontConfig    `yaml:"font"`
	Physics PhysicsConfig `yaml:"physics"`
	Layout  LayoutConfig  `yaml:"layout"`
	Ground  GroundConfig  `yaml:"ground"`
	Points  PointsConfig  `yaml:"points"`
	Launch  LaunchConfig  `yaml:"launch"`
	Ring    RingConfig    `yaml:"ring"`
	Render  RenderConfig  `yaml:"render"`
	Record  RecordConfig  `yaml:"record"`
}

type FontConfig struct {
	Path      string  `yaml:"path"`
	Size      float64 `yaml:"size"`
	Tolerance float64 `yaml:"tolerance"`
}

type PhysicsConfig struct {
	Gravity    Vec2    `yaml:"gravity"`
	Timestep   float64 `yaml:"timestep"`
	Iterations int     `yaml:"iterations"`
}

type LayoutConfig struct {
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
	// Center shifts the text left by half its advance.
	Center bool `yaml:"center"`
	// Offset is added to every point, in meters.
	Offset Vec2 `yaml:"offset"`
}

type GroundConfig struct {
	Position   Vec2    `yaml:"position"`
	Angle      float64 `yaml:"angle"`
	HalfLength float64 `yaml:"half_length"`
	Radius     float64 `yaml:"radius"`
	Friction   float64 `yaml:"friction"`
	Density    float64 `yaml:"density"`
}

type PointsConfig struct {
	Radius     float64 `yaml:"radius"`
	Friction   float64 `yaml:"friction"`
	Density    float64 `yaml:"density"`
	Elasticity float64 `yaml:"elasticity"`
}

const (
	LaunchRadial = "radial"
	LaunchScript = "script"
	LaunchStill  = "still"
)

type LaunchConfig struct {
	Rule   string  `yaml:"rule"`
	Center Vec2    `yaml:"center"`
	Spread float64 `yaml:"spread"`
	Base   Vec2    `yaml:"base"`
	// Script names a tengo file on disk or under the embedded scripts.
	Script string `yaml:"script"`
}

type RingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Kind       string  `yaml:"kind"`
	AnchorA    Vec2    `yaml:"anchor_a"`
	AnchorB    Vec2    `yaml:"anchor_b"`
	RestLength float64 `yaml:"rest_length"`
	Stiffness  float64 `yaml:"stiffness"`
	Damping    float64 `yaml:"damping"`
}

type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Baseline is the fraction of the height, from the top, where the text
	// baseline sits.
	Baseline    float64   `yaml:"baseline"`
	Background  YAMLColor `yaml:"background"`
	Point       YAMLColor `yaml:"point"`
	Line        YAMLColor `yaml:"line"`
	PointRadius float64   `yaml:"point_radius"`
	LineWeight  float64   `yaml:"line_weight"`
}

type RecordConfig struct {
	Enabled bool   `yaml:"enabled"`
	Limit   int    `yaml:"limit"`
	Dir     string `yaml:"dir"`
	Ext     string `yaml:"ext"`
	Workers int    `yaml:"workers"`
}

// Default returns the embedded configuration.
func Default() (Config, error) {
	var cfg Config
	if err := decode(defaultYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults overlaid with the file at path, if path is not
// empty. The result is validated.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse overlays data on the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Font.Size > 0, "font.size must be positive, got %v", c.Font.Size)
	check(c.Font.Tolerance > 0, "font.tolerance must be positive, got %v", c.Font.Tolerance)
	check(c.Physics.Timestep > 0, "physics.timestep must be positive, got %v", c.Physics.Timestep)
	check(c.Physics.Iterations > 0, "physics.iterations must be positive, got %v", c.Physics.Iterations)
	check(c.Layout.PixelsPerMeter > 0, "layout.pixels_per_meter must be positive, got %v", c.Layout.PixelsPerMeter)
	check(c.Ground.Radius >= 0 && c.Ground.HalfLength >= 0, "ground capsule must not be negative")
	check(c.Points.Radius > 0, "points.radius must be positive, got %v", c.Points.Radius)

	switch c.Launch.Rule {
	case LaunchRadial:
		check(c.Launch.Spread > 0, "launch.spread must be positive, got %v", c.Launch.Spread)
	case LaunchScript:
		check(c.Launch.Script != "", "launch.script is required for the script rule")
	case LaunchStill:
	default:
		errs = append(errs, fmt.Errorf("unknown launch.rule %q", c.Launch.Rule))
	}

	switch c.Ring.Kind {
	case "pin", "spring", "pivot":
	default:
		errs = append(errs, fmt.Errorf("unknown ring.kind %q", c.Ring.Kind))
	}

	check(c.Render.Width > 0 && c.Render.Height > 0, "render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	check(c.Render.Background.Color != nil, "render.background is required")
	check(c.Render.Point.Color != nil, "render.point is required")
	check(c.Render.Line.Color != nil, "render.line is required")

	check(c.Record.Limit > 0, "record.limit must be positive, got %d", c.Record.Limit)
	switch strings.ToLower(strings.TrimPrefix(c.Record.Ext, ".")) {
	case "png", "jpg", "jpeg":
	default:
		errs = append(errs, fmt.Errorf("unsupported record.ext %q", c.Record.Ext))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
