package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
)

// fakeBody is one body's state inside fakeDevice: enough to exercise
// creation, teleport, constant-velocity integration, and pose read-back.
type fakeBody struct {
	pos       mgl32.Vec3
	rot       mgl32.Quat
	vel       mgl32.Vec3
	kinematic bool
}

// fakeDevice is a minimal in-memory Device: constant-velocity integration
// in place of a real rigid-body solver, exactly enough behavior to drive
// Service and the ECS systems through the command/snapshot protocol in
// tests.
type fakeDevice struct {
	nextID  uint32
	bodies  map[uint32]*fakeBody
	e2b     map[ecs.EntityID]uint32
	pending Snapshot
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		bodies: make(map[uint32]*fakeBody),
		e2b:    make(map[ecs.EntityID]uint32),
	}
}

func (d *fakeDevice) ApplyCommand(cmd Command) {
	switch c := cmd.(type) {
	case CreateBodyCmd:
		id := d.nextID
		d.nextID++
		d.bodies[id] = &fakeBody{pos: c.WorldTM.Position, rot: c.WorldTM.Rotation, kinematic: c.Kinematic}
		d.e2b[c.Entity] = id
		d.pending.Created = append(d.pending.Created, CreatedBody{Entity: c.Entity, BodyID: id})
	case DestroyBodyCmd:
		if id, ok := d.e2b[c.Entity]; ok {
			delete(d.bodies, id)
			delete(d.e2b, c.Entity)
		}
	case TeleportCmd:
		if id, ok := d.e2b[c.Entity]; ok {
			d.bodies[id].pos = c.WorldTM.Position
			d.bodies[id].rot = c.WorldTM.Rotation
		}
	case SetLinearVelocityCmd:
		if id, ok := d.e2b[c.Entity]; ok {
			d.bodies[id].vel = c.V
		}
	}
}

func (d *fakeDevice) Step(h float32, substeps int) {
	for _, b := range d.bodies {
		if b.kinematic {
			continue
		}
		b.pos = b.pos.Add(b.vel.Mul(h))
	}
}

func (d *fakeDevice) BuildSnapshot() Snapshot {
	out := d.pending
	for id, b := range d.bodies {
		out.Poses = append(out.Poses, Pose{Position: b.pos, Rotation: b.rot, Entity: d.entityOf(id)})
	}
	d.pending = Snapshot{}
	return out
}

func (d *fakeDevice) entityOf(id uint32) ecs.EntityID {
	for e, bid := range d.e2b {
		if bid == id {
			return e
		}
	}
	return ecs.InvalidHandle
}

func (d *fakeDevice) ReadPosesBatch(view PoseBatchView) {
	for i := 0; i < view.Len(); i++ {
		b, ok := d.bodies[view.BodyIDs[i]]
		if !ok {
			continue
		}
		view.PosX[i], view.PosY[i], view.PosZ[i] = b.pos[0], b.pos[1], b.pos[2]
		view.RotX[i], view.RotY[i], view.RotZ[i], view.RotW[i] = b.rot.V[0], b.rot.V[1], b.rot.V[2], b.rot.W
	}
}

func (d *fakeDevice) ApplyKinematicTargetsBatch(view KinematicBatchView) {
	for i := 0; i < view.Len(); i++ {
		b, ok := d.bodies[view.BodyIDs[i]]
		if !ok || !b.kinematic {
			continue
		}
		b.pos = mgl32.Vec3{view.PosX[i], view.PosY[i], view.PosZ[i]}
		b.rot = mgl32.Quat{W: view.RotW[i], V: mgl32.Vec3{view.RotX[i], view.RotY[i], view.RotZ[i]}}
	}
}

func (d *fakeDevice) FindBody(e ecs.EntityID) (uint32, bool) {
	id, ok := d.e2b[e]
	return id, ok
}
