package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
)

// ContactEventType distinguishes the phase of a contact pair.
type ContactEventType int

const (
	ContactBegin ContactEventType = iota
	ContactPersist
	ContactEnd
)

// ContactEvent reports a contact-pair transition between two entities.
type ContactEvent struct {
	Type        ContactEventType
	A, B        ecs.EntityID
	PointWorld  mgl32.Vec3
	NormalWorld mgl32.Vec3
	Impulse     float32
}

// RayCastHitEvent is the asynchronous result of a RayCastCmd.
type RayCastHitEvent struct {
	RequestID uint32
	Hit       bool
	HitEntity ecs.EntityID
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Distance  float32
}

// CreatedBody reports that a CreateBodyCmd was applied and a real body id
// assigned; the writeback system consumes this to resolve Body.BodyID.
type CreatedBody struct {
	Entity ecs.EntityID
	BodyID uint32
}

// Pose is one entity's world-space position and rotation as of the most
// recent fixed step.
type Pose struct {
	Entity   ecs.EntityID
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Snapshot is everything a fixed step produced: the poses of every live
// body plus the contact, raycast, and body-creation events observed
// during that step.
type Snapshot struct {
	Poses    []Pose
	Contacts []ContactEvent
	RayHits  []RayCastHitEvent
	Created  []CreatedBody
}
