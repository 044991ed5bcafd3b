package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var (
	// ErrStaleHandle is returned when a handle does not resolve to a live
	// body, collider or joint.
	ErrStaleHandle = errors.New("physics: stale handle")
	// ErrStepInProgress is returned when the world is mutated from inside a step.
	ErrStepInProgress = errors.New("physics: world is stepping")
)

// BodyHandle references a RigidBody in a World.
type BodyHandle struct{ Handle }

// ColliderHandle references a Collider in a World.
type ColliderHandle struct{ Handle }

// JointHandle references a Joint in a World.
type JointHandle struct{ Handle }

// IntegrationParameters are fixed for the lifetime of a World.
type IntegrationParameters struct {
	Gravity    cp.Vector
	Timestep   float64
	Iterations int
}

// DefaultIntegrationParameters returns earth gravity, a 60Hz step and
// Chipmunk's default solver iteration count.
func DefaultIntegrationParameters() IntegrationParameters {
	return IntegrationParameters{
		Gravity:    cp.Vector{X: 0, Y: -9.81},
		Timestep:   1.0 / 60.0,
		Iterations: 10,
	}
}

// World owns the rigid bodies, colliders and joints of a simulation together
// with the Chipmunk space that holds the broad and narrow phase state.
type World struct {
	space  *cp.Space
	params IntegrationParameters

	bodies    arena[RigidBody]
	colliders arena[Collider]
	joints    arena[Joint]

	stepping bool
	steps    uint64
}

// NewWorld creates an empty world. Zero-valued parameters fall back to the
// defaults.
func NewWorld(params IntegrationParameters) *World {
	def := DefaultIntegrationParameters()
	if params.Timestep <= 0 || math.IsNaN(params.Timestep) {
		params.Timestep = def.Timestep
	}
	if params.Iterations <= 0 {
		params.Iterations = def.Iterations
	}

	space := cp.NewSpace()
	space.Iterations = uint(params.Iterations)
	space.SetGravity(params.Gravity)

	return &World{space: space, params: params}
}

// Params returns the integration parameters the world was built with.
func (w *World) Params() IntegrationParameters {
	return w.params
}

// Steps returns how many steps have completed.
func (w *World) Steps() uint64 {
	return w.steps
}

// Time returns the simulated time in seconds.
func (w *World) Time() float64 {
	return float64(w.steps) * w.params.Timestep
}

// Step advances the world by exactly one timestep.
func (w *World) Step() error {
	if w.stepping {
		return ErrStepInProgress
	}
	w.stepping = true
	defer func() { w.stepping = false }()

	w.space.Step(w.params.Timestep)
	w.steps++
	return nil
}

// InsertBody adds a body to the world. Dynamic bodies start with unit mass
// until a collider with density is attached.
func (w *World) InsertBody(desc BodyDesc) (BodyHandle, error) {
	if w.stepping {
		return BodyHandle{}, ErrStepInProgress
	}

	var body *cp.Body
	switch desc.Kind {
	case Static:
		body = cp.NewStaticBody()
	case Dynamic:
		body = cp.NewBody(1, cp.MomentForCircle(1, 0, 1, cp.Vector{}))
	default:
		return BodyHandle{}, fmt.Errorf("physics: insert body: unknown kind %d", desc.Kind)
	}
	body.SetPosition(desc.Position.Translation)
	body.SetAngle(desc.Position.Rotation)
	if desc.Kind == Dynamic {
		body.SetVelocityVector(desc.LinearVelocity)
	}
	w.space.AddBody(body)

	return BodyHandle{w.bodies.insert(RigidBody{kind: desc.Kind, body: body})}, nil
}

// Body resolves a body handle.
func (w *World) Body(h BodyHandle) (*RigidBody, error) {
	rb, ok := w.bodies.get(h.Handle)
	if !ok {
		return nil, fmt.Errorf("body %s: %w", h, ErrStaleHandle)
	}
	return rb, nil
}

// RemoveBody removes a body together with its colliders and every joint
// attached to it.
func (w *World) RemoveBody(h BodyHandle) error {
	if w.stepping {
		return ErrStepInProgress
	}
	rb, err := w.Body(h)
	if err != nil {
		return err
	}

	var attached []JointHandle
	w.joints.each(func(jh Handle, j *Joint) {
		if j.a == h || j.b == h {
			attached = append(attached, JointHandle{jh})
		}
	})
	for _, jh := range attached {
		if err := w.RemoveJoint(jh); err != nil {
			return err
		}
	}
	for _, ch := range rb.colliders {
		if c, ok := w.colliders.remove(ch.Handle); ok {
			w.space.RemoveShape(c.shape)
		}
	}
	w.space.RemoveBody(rb.body)
	w.bodies.remove(h.Handle)
	return nil
}

// InsertCollider attaches a collider to a live body. Dynamic bodies take
// their mass and moment from the accumulated collider densities.
func (w *World) InsertCollider(desc ColliderDesc, parent BodyHandle) (ColliderHandle, error) {
	if w.stepping {
		return ColliderHandle{}, ErrStepInProgress
	}
	rb, err := w.Body(parent)
	if err != nil {
		return ColliderHandle{}, fmt.Errorf("physics: insert collider: %w", err)
	}

	var shape *cp.Shape
	var mass, moment float64
	switch desc.Shape {
	case Disc:
		if desc.Radius <= 0 {
			return ColliderHandle{}, fmt.Errorf("physics: insert collider: disc radius %v", desc.Radius)
		}
		shape = cp.NewCircle(rb.body, desc.Radius, cp.Vector{})
		mass = desc.Density * math.Pi * desc.Radius * desc.Radius
		moment = cp.MomentForCircle(mass, 0, desc.Radius, cp.Vector{})
	case Capsule:
		if desc.Radius < 0 || desc.HalfLength < 0 {
			return ColliderHandle{}, fmt.Errorf("physics: insert collider: capsule %v x %v", desc.HalfLength, desc.Radius)
		}
		a := cp.Vector{X: -desc.HalfLength, Y: 0}
		b := cp.Vector{X: desc.HalfLength, Y: 0}
		shape = cp.NewSegment(rb.body, a, b, desc.Radius)
		mass = desc.Density * (4*desc.HalfLength*desc.Radius + math.Pi*desc.Radius*desc.Radius)
		moment = cp.MomentForSegment(mass, a, b, desc.Radius)
	default:
		return ColliderHandle{}, fmt.Errorf("physics: insert collider: unknown shape %d", desc.Shape)
	}
	shape.SetFriction(desc.Friction)
	shape.SetElasticity(desc.Elasticity)

	if rb.kind == Dynamic && mass > 0 {
		rb.mass += mass
		rb.moment += moment
		rb.body.SetMass(rb.mass)
		rb.body.SetMoment(rb.moment)
	}

	w.space.AddShape(shape)
	h := ColliderHandle{w.colliders.insert(Collider{desc: desc, parent: parent, shape: shape})}
	rb.colliders = append(rb.colliders, h)
	return h, nil
}

// Collider resolves a collider handle.
func (w *World) Collider(h ColliderHandle) (*Collider, error) {
	c, ok := w.colliders.get(h.Handle)
	if !ok {
		return nil, fmt.Errorf("collider %s: %w", h, ErrStaleHandle)
	}
	return c, nil
}

// InsertJoint constrains two live bodies.
func (w *World) InsertJoint(desc JointDesc, a, b BodyHandle) (JointHandle, error) {
	if w.stepping {
		return JointHandle{}, ErrStepInProgress
	}
	ba, err := w.Body(a)
	if err != nil {
		return JointHandle{}, fmt.Errorf("physics: insert joint: %w", err)
	}
	bb, err := w.Body(b)
	if err != nil {
		return JointHandle{}, fmt.Errorf("physics: insert joint: %w", err)
	}
	if a == b {
		return JointHandle{}, fmt.Errorf("physics: insert joint: body %s joined to itself", a)
	}

	var c *cp.Constraint
	switch desc.Kind {
	case Pin:
		c = cp.NewPinJoint(ba.body, bb.body, desc.AnchorA, desc.AnchorB)
	case Spring:
		rest := desc.RestLength
		if rest <= 0 {
			wa := ba.body.LocalToWorld(desc.AnchorA)
			wb := bb.body.LocalToWorld(desc.AnchorB)
			rest = wa.Distance(wb)
		}
		c = cp.NewDampedSpring(ba.body, bb.body, desc.AnchorA, desc.AnchorB, rest, desc.Stiffness, desc.Damping)
	case Pivot:
		c = cp.NewPivotJoint2(ba.body, bb.body, desc.AnchorA, desc.AnchorB)
	default:
		return JointHandle{}, fmt.Errorf("physics: insert joint: unknown kind %d", desc.Kind)
	}

	w.space.AddConstraint(c)
	return JointHandle{w.joints.insert(Joint{desc: desc, a: a, b: b, constraint: c})}, nil
}

// Joint resolves a joint handle.
func (w *World) Joint(h JointHandle) (*Joint, error) {
	j, ok := w.joints.get(h.Handle)
	if !ok {
		return nil, fmt.Errorf("joint %s: %w", h, ErrStaleHandle)
	}
	return j, nil
}

// RemoveJoint removes a single joint.
func (w *World) RemoveJoint(h JointHandle) error {
	if w.stepping {
		return ErrStepInProgress
	}
	j, ok := w.joints.remove(h.Handle)
	if !ok {
		return fmt.Errorf("joint %s: %w", h, ErrStaleHandle)
	}
	w.space.RemoveConstraint(j.constraint)
	return nil
}

// BodyCount returns the number of live bodies of the given kind.
func (w *World) BodyCount(kind BodyKind) int {
	n := 0
	w.bodies.each(func(_ Handle, rb *RigidBody) {
		if rb.kind == kind {
			n++
		}
	})
	return n
}

// Len returns the number of live bodies, colliders and joints.
func (w *World) Len() (bodies, colliders, joints int) {
	return w.bodies.len(), w.colliders.len(), w.joints.len()
}

// EachBody visits live bodies in arena order.
func (w *World) EachBody(fn func(BodyHandle, *RigidBody)) {
	w.bodies.each(func(h Handle, rb *RigidBody) {
		fn(BodyHandle{h}, rb)
	})
}

// DebugDraw renders the underlying space with a Chipmunk drawer.
func (w *World) DebugDraw(d cp.Drawer) {
	if d == nil {
		return
	}
	cp.DrawSpace(w.space, d)
}
