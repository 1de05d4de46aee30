package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
	"github.com/YamadaSeigo/Sector3X-sub002/render"
)

// BodySentinel marks a Body component whose entity has not yet been
// assigned a real body id. It reuses ecs.InvalidIndex rather than a
// second magic constant, matching the sentinel convention the rest of the
// engine uses for "not yet set".
const BodySentinel uint32 = ecs.InvalidIndex

// ShapeHandle identifies a collision shape built by a shape resource
// manager. It is render.Handle rather than a parallel type: the same
// generational-index shape fits shapes as well as GPU resources.
type ShapeHandle = render.Handle

// Transform3D is a rigid-body world pose.
type Transform3D struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Command is the physics command protocol carried over the SPSC ring.
// Each concrete command implements it with an unexported method, the
// idiomatic Go substitute for a closed sum type.
type Command interface {
	isPhysicsCommand()
}

// CreateBodyCmd allocates a body for Entity from Shape at WorldTM.
type CreateBodyCmd struct {
	Entity      ecs.EntityID
	Shape       ShapeHandle
	WorldTM     Transform3D
	Kinematic   bool
	Density     float32
	Layer       uint16
	Broadphase  uint16
	Friction    float32
	Restitution float32
}

// DestroyBodyCmd removes Entity's body.
type DestroyBodyCmd struct{ Entity ecs.EntityID }

// TeleportCmd forces Entity's body to WorldTM, bypassing the solver.
type TeleportCmd struct {
	Entity  ecs.EntityID
	WorldTM Transform3D
	Wake    bool
}

// SetLinearVelocityCmd sets Entity's linear velocity directly.
type SetLinearVelocityCmd struct {
	Entity ecs.EntityID
	V      mgl32.Vec3
}

// SetAngularVelocityCmd sets Entity's angular velocity directly.
type SetAngularVelocityCmd struct {
	Entity ecs.EntityID
	W      mgl32.Vec3
}

// AddImpulseCmd applies an instantaneous impulse, optionally off-center.
type AddImpulseCmd struct {
	Entity     ecs.EntityID
	Impulse    mgl32.Vec3
	AtWorldPos mgl32.Vec3
	UseAtPos   bool
}

// SetKinematicTargetCmd sets the pose a kinematic body drives toward on
// the next fixed step.
type SetKinematicTargetCmd struct {
	Entity  ecs.EntityID
	WorldTM Transform3D
}

// SetCollisionMaskCmd updates Entity's collision mask.
type SetCollisionMaskCmd struct {
	Entity ecs.EntityID
	Mask   uint32
}

// SetObjectLayerCmd moves Entity to a different broadphase layer.
type SetObjectLayerCmd struct {
	Entity     ecs.EntityID
	Layer      uint16
	Broadphase uint16
}

// RayCastCmd requests a raycast; the result arrives asynchronously as a
// RayCastHitEvent tagged with RequestID.
type RayCastCmd struct {
	RequestID uint32
	Origin    mgl32.Vec3
	Dir       mgl32.Vec3
	MaxDist   float32
}

func (CreateBodyCmd) isPhysicsCommand()         {}
func (DestroyBodyCmd) isPhysicsCommand()        {}
func (TeleportCmd) isPhysicsCommand()           {}
func (SetLinearVelocityCmd) isPhysicsCommand()  {}
func (SetAngularVelocityCmd) isPhysicsCommand() {}
func (AddImpulseCmd) isPhysicsCommand()         {}
func (SetKinematicTargetCmd) isPhysicsCommand() {}
func (SetCollisionMaskCmd) isPhysicsCommand()   {}
func (SetObjectLayerCmd) isPhysicsCommand()     {}
func (RayCastCmd) isPhysicsCommand()            {}

// ShapeDesc is the shape-descriptor protocol: one variant per collider
// primitive a shape resolver knows how to build.
type ShapeDesc interface {
	isShapeDesc()
}

// BoxDesc describes an axis-aligned box by half-extents.
type BoxDesc struct{ HalfExtents mgl32.Vec3 }

// SphereDesc describes a sphere by radius.
type SphereDesc struct{ Radius float32 }

// CapsuleDesc describes a capsule by half-height of the cylinder section
// plus end-cap radius.
type CapsuleDesc struct {
	HalfHeight float32
	Radius     float32
}

// MeshDesc describes a triangle mesh; Indices is a flat run of 3*i
// consecutive triangle indices into Vertices.
type MeshDesc struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

// HeightFieldDesc describes a regular heightfield grid of SizeX by SizeY
// samples.
type HeightFieldDesc struct {
	SizeX, SizeY         int
	Samples              []float32
	ScaleY               float32
	CellSizeX, CellSizeY float32
}

// ConvexHullDesc describes a convex hull built from a candidate point set.
type ConvexHullDesc struct {
	Points          []mgl32.Vec3
	MaxConvexRadius float32
	HullTolerance   float32
}

func (BoxDesc) isShapeDesc()         {}
func (SphereDesc) isShapeDesc()      {}
func (CapsuleDesc) isShapeDesc()     {}
func (MeshDesc) isShapeDesc()        {}
func (HeightFieldDesc) isShapeDesc() {}
func (ConvexHullDesc) isShapeDesc()  {}

// ShapeScale applies a (typically uniform, for Sphere/Capsule) scale to a
// shape; {1,1,1} is a no-op.
type ShapeScale struct{ Scale mgl32.Vec3 }

// IdentityScale is the no-op ShapeScale.
var IdentityScale = ShapeScale{Scale: mgl32.Vec3{1, 1, 1}}

// ShapeCreateDesc pairs a shape variant with its scale: the descriptor
// type a shape resource manager consumes.
type ShapeCreateDesc struct {
	Shape ShapeDesc
	Scale ShapeScale
}
