// Package constellation turns flattened glyph contours into a world of point
// bodies resting above a static ground.
package constellation

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/glyphfall/outline"
	"github.com/milk9111/glyphfall/physics"
)

// GroundConfig describes the static capsule every constellation falls onto.
type GroundConfig struct {
	Position   cp.Vector
	Angle      float64
	HalfLength float64
	Radius     float64
	Friction   float64
	Density    float64
}

// PointConfig describes the disc attached to every point body.
type PointConfig struct {
	Radius     float64
	Friction   float64
	Density    float64
	Elasticity float64
}

// RingConfig joins consecutive points of a contour into a closed polygon.
type RingConfig struct {
	Enabled bool
	Joint   physics.JointDesc
}

type Config struct {
	// PixelsPerMeter converts contour coordinates into world meters.
	PixelsPerMeter float64
	// Offset is added after scaling, in meters.
	Offset cp.Vector
	Ground GroundConfig
	Point  PointConfig
	Launch LaunchRule
	Ring   RingConfig
}

func DefaultConfig() Config {
	return Config{
		PixelsPerMeter: 40,
		Ground: GroundConfig{
			Position:   cp.Vector{X: 0, Y: -5},
			Angle:      math.Pi,
			HalfLength: 100,
			Radius:     1,
			Friction:   0.8,
			Density:    100,
		},
		Point: PointConfig{
			Radius:  0.1,
			Density: 1,
		},
		Launch: DefaultRadialLaunch(),
		Ring: RingConfig{
			Joint: physics.JointDesc{Kind: physics.Spring, Stiffness: 40, Damping: 0.5},
		},
	}
}

// Constellation records the handles created for a set of contours.
type Constellation struct {
	Ground   physics.BodyHandle
	Contours []ContourBodies
}

// ContourBodies holds one body per contour point, in point order.
type ContourBodies struct {
	Glyph  int
	Closed bool
	Points []physics.BodyHandle
	Joints []physics.JointHandle
}

// PointCount returns the number of point bodies across all contours.
func (c *Constellation) PointCount() int {
	n := 0
	for _, cb := range c.Contours {
		n += len(cb.Points)
	}
	return n
}

// JointCount returns the number of ring joints across all contours.
func (c *Constellation) JointCount() int {
	n := 0
	for _, cb := range c.Contours {
		n += len(cb.Joints)
	}
	return n
}

type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.PixelsPerMeter <= 0 || math.IsNaN(cfg.PixelsPerMeter) {
		return nil, fmt.Errorf("constellation: pixels per meter %v", cfg.PixelsPerMeter)
	}
	if cfg.Point.Radius <= 0 {
		return nil, fmt.Errorf("constellation: point radius %v", cfg.Point.Radius)
	}
	if cfg.Launch == nil {
		return nil, errors.New("constellation: no launch rule")
	}
	return &Builder{cfg: cfg}, nil
}

func (b *Builder) Config() Config {
	return b.cfg
}

// Build adds the ground and one body per contour point.
func (b *Builder) Build(w *physics.World, contours []outline.Contour) (*Constellation, error) {
	ground, err := b.AddGround(w)
	if err != nil {
		return nil, err
	}
	bodies, err := b.Populate(w, contours)
	if err != nil {
		return nil, err
	}
	return &Constellation{Ground: ground, Contours: bodies}, nil
}

// AddGround inserts the static ground body. Call it once per world.
func (b *Builder) AddGround(w *physics.World) (physics.BodyHandle, error) {
	g := b.cfg.Ground
	h, err := w.InsertBody(physics.BodyDesc{
		Kind:     physics.Static,
		Position: physics.Isometry{Translation: g.Position, Rotation: g.Angle},
	})
	if err != nil {
		return physics.BodyHandle{}, fmt.Errorf("constellation: ground: %w", err)
	}
	_, err = w.InsertCollider(physics.ColliderDesc{
		Shape:      physics.Capsule,
		HalfLength: g.HalfLength,
		Radius:     g.Radius,
		Friction:   g.Friction,
		Density:    g.Density,
	}, h)
	if err != nil {
		return physics.BodyHandle{}, fmt.Errorf("constellation: ground: %w", err)
	}
	return h, nil
}

// Populate inserts the point bodies of every contour. Bodies are inserted in
// contour order and, within a contour, in point order.
func (b *Builder) Populate(w *physics.World, contours []outline.Contour) ([]ContourBodies, error) {
	out := make([]ContourBodies, 0, len(contours))
	for ci, c := range contours {
		cb := ContourBodies{
			Glyph:  c.Glyph,
			Closed: c.Closed,
			Points: make([]physics.BodyHandle, 0, len(c.Points)),
		}
		for pi, p := range c.Points {
			h, err := b.addPoint(w, p)
			if err != nil {
				return nil, fmt.Errorf("constellation: contour %d point %d: %w", ci, pi, err)
			}
			cb.Points = append(cb.Points, h)
		}
		if b.cfg.Ring.Enabled {
			joints, err := b.wireRing(w, cb.Points)
			if err != nil {
				return nil, fmt.Errorf("constellation: contour %d: %w", ci, err)
			}
			cb.Joints = joints
		}
		out = append(out, cb)
	}
	return out, nil
}

// WorldPosition maps a contour point to world meters.
func (b *Builder) WorldPosition(p outline.Point) cp.Vector {
	return cp.Vector{
		X: p.X/b.cfg.PixelsPerMeter + b.cfg.Offset.X,
		Y: p.Y/b.cfg.PixelsPerMeter + b.cfg.Offset.Y,
	}
}

func (b *Builder) addPoint(w *physics.World, p outline.Point) (physics.BodyHandle, error) {
	pos := b.WorldPosition(p)
	vel, err := b.cfg.Launch.Velocity(pos)
	if err != nil {
		return physics.BodyHandle{}, err
	}
	h, err := w.InsertBody(physics.BodyDesc{
		Kind:           physics.Dynamic,
		Position:       physics.Isometry{Translation: pos},
		LinearVelocity: vel,
	})
	if err != nil {
		return physics.BodyHandle{}, err
	}
	pt := b.cfg.Point
	_, err = w.InsertCollider(physics.ColliderDesc{
		Shape:      physics.Disc,
		Radius:     pt.Radius,
		Friction:   pt.Friction,
		Density:    pt.Density,
		Elasticity: pt.Elasticity,
	}, h)
	if err != nil {
		return physics.BodyHandle{}, err
	}
	return h, nil
}

// wireRing joins point i to point (i+1) mod n. Two points share one joint.
func (b *Builder) wireRing(w *physics.World, points []physics.BodyHandle) ([]physics.JointHandle, error) {
	n := len(points)
	if n < 2 {
		return nil, nil
	}
	count := n
	if n == 2 {
		count = 1
	}
	joints := make([]physics.JointHandle, 0, count)
	for i := 0; i < count; i++ {
		h, err := w.InsertJoint(b.cfg.Ring.Joint, points[i], points[(i+1)%n])
		if err != nil {
			return nil, err
		}
		joints = append(joints, h)
	}
	return joints, nil
}
