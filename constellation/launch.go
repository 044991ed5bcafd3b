package constellation

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
)

// LaunchRule gives each point body its initial velocity from its world
// position in meters.
type LaunchRule interface {
	Velocity(p cp.Vector) (cp.Vector, error)
}

// StillLaunch starts every body at rest.
type StillLaunch struct{}

func (StillLaunch) Velocity(cp.Vector) (cp.Vector, error) {
	return cp.Vector{}, nil
}

// RadialLaunch spins points around Center, scaled down by Spread, on top of
// a constant Base velocity.
type RadialLaunch struct {
	Center cp.Vector
	Spread float64
	Base   cp.Vector
}

// DefaultRadialLaunch returns the rule used by the default scene.
func DefaultRadialLaunch() RadialLaunch {
	return RadialLaunch{
		Center: cp.Vector{X: 0, Y: 3.5},
		Spread: 4,
		Base:   cp.Vector{X: -0.5, Y: 3.0},
	}
}

func (r RadialLaunch) Velocity(p cp.Vector) (cp.Vector, error) {
	if r.Spread <= 0 {
		return cp.Vector{}, fmt.Errorf("constellation: radial launch spread %v", r.Spread)
	}
	return cp.Vector{
		X: r.Base.X - (p.Y-r.Center.Y)/r.Spread,
		Y: r.Base.Y + (p.X-r.Center.X)/r.Spread,
	}, nil
}

// ScriptLaunch evaluates a tengo script per point. The script reads the
// globals x and y and assigns vx and vy, for example:
//
//	vx = -0.5 - (y - 3.5) / 4
//	vy = 3.0 + x / 4
type ScriptLaunch struct {
	compiled *tengo.Compiled
}

// NewScriptLaunch compiles src. The math module is importable.
func NewScriptLaunch(src []byte) (*ScriptLaunch, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math"))
	for _, name := range []string{"x", "y", "vx", "vy"} {
		if err := script.Add(name, 0.0); err != nil {
			return nil, fmt.Errorf("constellation: launch script: %w", err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("constellation: compile launch script: %w", err)
	}
	return &ScriptLaunch{compiled: compiled}, nil
}

func (s *ScriptLaunch) Velocity(p cp.Vector) (cp.Vector, error) {
	if err := s.compiled.Set("x", p.X); err != nil {
		return cp.Vector{}, err
	}
	if err := s.compiled.Set("y", p.Y); err != nil {
		return cp.Vector{}, err
	}
	if err := s.compiled.Set("vx", 0.0); err != nil {
		return cp.Vector{}, err
	}
	if err := s.compiled.Set("vy", 0.0); err != nil {
		return cp.Vector{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return cp.Vector{}, fmt.Errorf("constellation: run launch script at %v: %w", p, err)
	}
	return cp.Vector{
		X: s.compiled.Get("vx").Float(),
		Y: s.compiled.Get("vy").Float(),
	}, nil
}
