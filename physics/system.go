package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
	"github.com/YamadaSeigo/Sector3X-sub002/scheduler"
)

// ChunkMover is the spatial registry's side of chunk-crossing motion: the
// pose-interpolation system reports every live body's render position
// each frame, so a BudgetMover can detect and reassign chunk crossings
// without stalling the frame.
type ChunkMover interface {
	ReportMove(entity ecs.EntityID, pos mgl32.Vec3)
}

var bodyTransformQuery = ecs.NewQuery().And(TransformComponent, BodyComponent)

// IntentDrainSystem drains an IntentQueue and issues a CreateBodyCmd per
// intent, reading the entity's current render pose at drain time.
type IntentDrainSystem struct {
	Intents *IntentQueue
	Service *Service
}

func (s *IntentDrainSystem) Access() scheduler.Access {
	return scheduler.Access{Reads: []ecs.Component{TransformComponent}}
}

func (s *IntentDrainSystem) Update(ctx *scheduler.UpdateContext) {
	intents := s.Intents.Drain()
	for _, intent := range intents {
		tm := Transform3D{Rotation: mgl32.QuatIdent()}
		if chunk, row, err := ctx.Manager.Location(intent.Entity); err == nil && TransformComponent.Check(chunk) {
			t := TransformComponent.Get(chunk, row)
			tm = Transform3D{
				Position: mgl32.Vec3{t.RenderPosX, t.RenderPosY, t.RenderPosZ},
				Rotation: mgl32.Quat{W: t.RenderRotW, V: mgl32.Vec3{t.RenderRotX, t.RenderRotY, t.RenderRotZ}},
			}
		}
		s.Service.CreateBody(CreateBodyCmd{
			Entity:      intent.Entity,
			Shape:       intent.Shape,
			WorldTM:     tm,
			Kinematic:   intent.Kinematic,
			Density:     intent.Density,
			Layer:       intent.Layer,
			Broadphase:  intent.Broadphase,
			Friction:    intent.Friction,
			Restitution: intent.Restitution,
		})
	}
}

// CreatedBodyWritebackSystem drains this frame's CreatedBody events and
// writes the real body id into Body.BodyID, but only while it still reads
// BodySentinel: an entity that already resolved its body id ignores any
// later CreatedBody for the same entity.
type CreatedBodyWritebackSystem struct {
	Service *Service
}

func (s *CreatedBodyWritebackSystem) Access() scheduler.Access {
	return scheduler.Access{Writes: []ecs.Component{BodyComponent}}
}

func (s *CreatedBodyWritebackSystem) Update(ctx *scheduler.UpdateContext) {
	created := s.Service.CurrentSnapshot().Created
	for _, c := range created {
		chunk, row, err := ctx.Manager.Location(c.Entity)
		if err != nil || !BodyComponent.Check(chunk) {
			continue
		}
		body := BodyComponent.Get(chunk, row)
		if body.BodyID != BodySentinel {
			continue
		}
		body.BodyID = c.BodyID
	}
}

// PoseInterpolationSystem snapshots Transform's Curr* columns into Prev*,
// calls the device's ReadPosesBatch to refresh Curr* for every live body,
// then interpolates Prev->Curr by the service's alpha into Render*, the
// pose the rest of the frame should read.
type PoseInterpolationSystem struct {
	Service *Service
	Device  Device
	Mover   ChunkMover
}

func (s *PoseInterpolationSystem) Access() scheduler.Access {
	return scheduler.Access{
		Reads:  []ecs.Component{BodyComponent},
		Writes: []ecs.Component{TransformComponent},
	}
}

func (s *PoseInterpolationSystem) Update(ctx *scheduler.UpdateContext) {
	alpha := float32(s.Service.GetAlpha())

	cursor := ecs.NewCursor(bodyTransformQuery, ctx.Manager)
	var last *ecs.Chunk
	for cursor.Next() {
		// The cursor yields one step per entity; handle each chunk once.
		chunk := cursor.CurrentChunk()
		if chunk == last {
			continue
		}
		last = chunk
		n := chunk.Len()
		if n == 0 {
			continue
		}

		bodyIDs, _ := ecs.GetSoAField[uint32](chunk, BodyComponent.ID(), "BodyID")

		currPosX, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "CurrPosX")
		currPosY, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "CurrPosY")
		currPosZ, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "CurrPosZ")
		currRotX, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "CurrRotX")
		currRotY, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "CurrRotY")
		currRotZ, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "CurrRotZ")
		currRotW, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "CurrRotW")

		prevPosX, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "PrevPosX")
		prevPosY, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "PrevPosY")
		prevPosZ, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "PrevPosZ")
		prevRotX, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "PrevRotX")
		prevRotY, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "PrevRotY")
		prevRotZ, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "PrevRotZ")
		prevRotW, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "PrevRotW")

		renderPosX, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "RenderPosX")
		renderPosY, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "RenderPosY")
		renderPosZ, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "RenderPosZ")
		renderRotX, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "RenderRotX")
		renderRotY, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "RenderRotY")
		renderRotZ, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "RenderRotZ")
		renderRotW, _ := ecs.GetSoAField[float32](chunk, TransformComponent.ID(), "RenderRotW")

		copy(prevPosX[:n], currPosX[:n])
		copy(prevPosY[:n], currPosY[:n])
		copy(prevPosZ[:n], currPosZ[:n])
		copy(prevRotX[:n], currRotX[:n])
		copy(prevRotY[:n], currRotY[:n])
		copy(prevRotZ[:n], currRotZ[:n])
		copy(prevRotW[:n], currRotW[:n])

		s.Device.ReadPosesBatch(PoseBatchView{
			PosX: currPosX[:n], PosY: currPosY[:n], PosZ: currPosZ[:n],
			RotX: currRotX[:n], RotY: currRotY[:n], RotZ: currRotZ[:n], RotW: currRotW[:n],
			BodyIDs: bodyIDs[:n],
		})

		ids := chunk.GetEntityIDs()
		for i := 0; i < n; i++ {
			if bodyIDs[i] == BodySentinel {
				continue
			}

			prevPos := mgl32.Vec3{prevPosX[i], prevPosY[i], prevPosZ[i]}
			currPos := mgl32.Vec3{currPosX[i], currPosY[i], currPosZ[i]}
			rp := lerpVec3(prevPos, currPos, alpha)

			prevRot := mgl32.Quat{W: prevRotW[i], V: mgl32.Vec3{prevRotX[i], prevRotY[i], prevRotZ[i]}}
			currRot := mgl32.Quat{W: currRotW[i], V: mgl32.Vec3{currRotX[i], currRotY[i], currRotZ[i]}}
			rr := mgl32.QuatSlerp(prevRot, currRot, alpha)

			renderPosX[i], renderPosY[i], renderPosZ[i] = rp[0], rp[1], rp[2]
			renderRotX[i], renderRotY[i], renderRotZ[i], renderRotW[i] = rr.V[0], rr.V[1], rr.V[2], rr.W

			if s.Mover != nil {
				s.Mover.ReportMove(ids[i], rp)
			}
		}
	}
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
