package physics

import "github.com/YamadaSeigo/Sector3X-sub002/ecs"

// Body attaches a physics body to an entity. BodyID is BodySentinel until
// the create-intent/writeback protocol resolves it to a real id.
type Body struct {
	BodyID    uint32
	Kinematic bool
}

// SoAFields decomposes Body so BodyID and Kinematic are each their own
// chunk column, letting PoseInterpolationSystem build a PoseBatchView
// directly from the BodyID column without per-row struct access.
func (Body) SoAFields() []string { return []string{"BodyID", "Kinematic"} }

// Transform is an entity's physics-driven pose. Curr* is the physics
// device's latest fixed-step pose; Prev* is the pose as of the step
// before that; Render* is Prev/Curr interpolated by the current alpha,
// the pose everything outside this package (rendering, gameplay reads)
// should use.
type Transform struct {
	CurrPosX, CurrPosY, CurrPosZ           float32
	CurrRotX, CurrRotY, CurrRotZ, CurrRotW float32

	PrevPosX, PrevPosY, PrevPosZ           float32
	PrevRotX, PrevRotY, PrevRotZ, PrevRotW float32

	RenderPosX, RenderPosY, RenderPosZ           float32
	RenderRotX, RenderRotY, RenderRotZ, RenderRotW float32
}

// SoAFields decomposes Transform into one column run per scalar field so
// PoseInterpolationSystem can treat Pos/Rot as contiguous slices.
func (Transform) SoAFields() []string {
	return []string{
		"CurrPosX", "CurrPosY", "CurrPosZ",
		"CurrRotX", "CurrRotY", "CurrRotZ", "CurrRotW",
		"PrevPosX", "PrevPosY", "PrevPosZ",
		"PrevRotX", "PrevRotY", "PrevRotZ", "PrevRotW",
		"RenderPosX", "RenderPosY", "RenderPosZ",
		"RenderRotX", "RenderRotY", "RenderRotZ", "RenderRotW",
	}
}

var (
	BodyComponent      = ecs.RegisterComponent[Body]()
	TransformComponent = ecs.RegisterComponent[Transform]()
)
