package physics

import "github.com/jakecoffman/cp"

// BodyKind tags a body as immovable or simulated.
type BodyKind int

const (
	Static BodyKind = iota
	Dynamic
)

func (k BodyKind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	}
	return "unknown"
}

// Isometry is a 2D rigid transform.
type Isometry struct {
	Translation cp.Vector
	Rotation    float64
}

// BodyDesc describes a body to insert.
type BodyDesc struct {
	Kind           BodyKind
	Position       Isometry
	LinearVelocity cp.Vector
}

// RigidBody is a point mass owned by a World.
type RigidBody struct {
	kind      BodyKind
	body      *cp.Body
	colliders []ColliderHandle
	mass      float64
	moment    float64
}

func (rb *RigidBody) Kind() BodyKind {
	return rb.kind
}

// Position returns the current isometry of the body.
func (rb *RigidBody) Position() Isometry {
	return Isometry{Translation: rb.body.Position(), Rotation: rb.body.Angle()}
}

func (rb *RigidBody) Translation() cp.Vector {
	return rb.body.Position()
}

func (rb *RigidBody) LinearVelocity() cp.Vector {
	return rb.body.Velocity()
}

// Mass returns the mass accumulated from colliders, zero for static bodies.
func (rb *RigidBody) Mass() float64 {
	return rb.mass
}

// Colliders returns the handles of the colliders attached to the body.
func (rb *RigidBody) Colliders() []ColliderHandle {
	return append([]ColliderHandle(nil), rb.colliders...)
}

// ShapeKind selects the collider geometry.
type ShapeKind int

const (
	Disc ShapeKind = iota
	// Capsule is a segment along the local X axis swept by Radius.
	Capsule
)

func (s ShapeKind) String() string {
	switch s {
	case Disc:
		return "disc"
	case Capsule:
		return "capsule"
	}
	return "unknown"
}

// ColliderDesc describes a collider to attach.
type ColliderDesc struct {
	Shape      ShapeKind
	Radius     float64
	HalfLength float64
	Friction   float64
	Density    float64
	Elasticity float64
}

// Collider is attached to exactly one body and removed with it.
type Collider struct {
	desc   ColliderDesc
	parent BodyHandle
	shape  *cp.Shape
}

func (c *Collider) Desc() ColliderDesc {
	return c.desc
}

func (c *Collider) Parent() BodyHandle {
	return c.parent
}

// JointKind selects the constraint between two bodies.
type JointKind int

const (
	// Pin keeps the anchors at their initial distance.
	Pin JointKind = iota
	// Spring pulls the anchors towards RestLength.
	Spring
	// Pivot keeps the anchors coincident.
	Pivot
)

func (k JointKind) String() string {
	switch k {
	case Pin:
		return "pin"
	case Spring:
		return "spring"
	case Pivot:
		return "pivot"
	}
	return "unknown"
}

// JointDesc describes a joint. Anchors are in body-local coordinates.
// RestLength, Stiffness and Damping only apply to springs; a zero RestLength
// uses the anchor distance at insertion time.
type JointDesc struct {
	Kind       JointKind
	AnchorA    cp.Vector
	AnchorB    cp.Vector
	RestLength float64
	Stiffness  float64
	Damping    float64
}

// Joint constrains two bodies of the same World.
type Joint struct {
	desc       JointDesc
	a, b       BodyHandle
	constraint *cp.Constraint
}

func (j *Joint) Desc() JointDesc {
	return j.desc
}

// Bodies returns the two constrained bodies.
func (j *Joint) Bodies() (BodyHandle, BodyHandle) {
	return j.a, j.b
}
