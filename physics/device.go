package physics

import (
	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
	"github.com/YamadaSeigo/Sector3X-sub002/render"
)

// PoseBatchView is the SoA view a Device's ReadPosesBatch fills in place,
// one slice per scalar column, mirroring an Archetype chunk's column
// layout (Position X/Y/Z, Rotation X/Y/Z/W) rather than an array of
// structs. BodyIDs is parallel to the pose slices in the same order;
// entries equal to BodySentinel are skipped, and entries whose body is
// static (by IsStatic) are left untouched.
type PoseBatchView struct {
	PosX, PosY, PosZ       []float32
	RotX, RotY, RotZ, RotW []float32
	BodyIDs                []uint32
	IsStatic               []bool
}

// Len reports the number of entries in the batch.
func (v PoseBatchView) Len() int { return len(v.BodyIDs) }

// KinematicBatchView is the SoA view the pose-interpolation system hands
// a Device's ApplyKinematicTargetsBatch for kinematic bodies whose target
// pose changed this frame.
type KinematicBatchView struct {
	BodyIDs                []uint32
	PosX, PosY, PosZ       []float32
	RotX, RotY, RotZ, RotW []float32
}

// Len reports the number of entries in the batch.
func (v KinematicBatchView) Len() int { return len(v.BodyIDs) }

// Device is the injectable physics backend. The Service owns the command
// ring and the fixed-timestep accumulator; Device owns whatever rigid-body
// library actually steps the simulation. Production code wires a real
// physics library's binding behind this interface; tests use a fake.
type Device interface {
	// ApplyCommand applies one drained command. Called only from the
	// thread driving Service.Tick, once per fixed step, before Step.
	ApplyCommand(cmd Command)

	// Step advances the simulation by one fixed step of duration h,
	// internally split into the given number of substeps.
	Step(h float32, substeps int)

	// BuildSnapshot returns the poses and events produced by the most
	// recent Step, clearing the device's own pending-event buffers.
	BuildSnapshot() Snapshot

	// ReadPosesBatch fills view's pose columns in place for every body
	// whose id is present in view.BodyIDs, in the ECS pipeline's own
	// pass over Transform/Body chunks rather than through BuildSnapshot's
	// per-entity Pose list.
	ReadPosesBatch(view PoseBatchView)

	// ApplyKinematicTargetsBatch pushes kinematic target poses queued by
	// the ECS pipeline ahead of the next Step.
	ApplyKinematicTargetsBatch(view KinematicBatchView)

	// FindBody returns the body id bound to e, if any.
	FindBody(e ecs.EntityID) (uint32, bool)
}

// NewShapeManager returns a render.ResourceManager specialized for collision
// shapes: descriptors are ShapeCreateDesc, and R is whatever opaque shape
// handle type a concrete Device represents a built shape with.
func NewShapeManager[R any](create func(ShapeCreateDesc) R, destroy func(R)) *render.ResourceManager[ShapeCreateDesc, R] {
	return render.NewResourceManager(create, destroy)
}
