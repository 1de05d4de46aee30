package physics

import (
	"runtime"
	"sync"
)

// Plan configures the fixed-timestep accumulator.
type Plan struct {
	FixedDT      float64
	Substeps     int
	CollectDebug bool
}

// DefaultPlan matches the engine's published defaults.
var DefaultPlan = Plan{FixedDT: 1.0 / 60.0, Substeps: 1}

// DefaultRingCapacity is the command ring's default capacity.
const DefaultRingCapacity = 4096

// accumulatorEpsilon absorbs floating-point drift in the accumulator
// comparison so a step due at exactly FixedDT isn't skipped for a
// fraction-of-a-ulp shortfall.
const accumulatorEpsilon = 1e-6

// Service couples the ECS world to a Device: it owns the command ring,
// the fixed-step accumulator, and the prev/curr snapshot pair render-time
// interpolation reads from. It implements service.UpdateService so the
// scheduler drives it once per frame alongside every other service.
type Service struct {
	device Device
	plan   Plan
	ring   *Ring[Command]

	accum float64

	mu   sync.RWMutex
	prev Snapshot
	curr Snapshot
}

// NewService constructs a Service around device. A zero Plan or
// non-positive ringCapacityPow2 falls back to DefaultPlan /
// DefaultRingCapacity.
func NewService(device Device, plan Plan, ringCapacityPow2 int) *Service {
	if plan.FixedDT <= 0 {
		plan = DefaultPlan
	}
	if ringCapacityPow2 <= 0 {
		ringCapacityPow2 = DefaultRingCapacity
	}
	return &Service{
		device: device,
		plan:   plan,
		ring:   NewRing[Command](ringCapacityPow2),
	}
}

// Enqueue pushes cmd onto the command ring, yielding and retrying on a
// full ring rather than dropping it: a full ring is transient backpressure
// from an unusually large command burst, not an error.
func (s *Service) Enqueue(cmd Command) {
	for !s.ring.Push(cmd) {
		runtime.Gosched()
	}
}

// CreateBody enqueues a body-creation command.
func (s *Service) CreateBody(c CreateBodyCmd) { s.Enqueue(c) }

// DestroyBody enqueues a body-destruction command.
func (s *Service) DestroyBody(c DestroyBodyCmd) { s.Enqueue(c) }

// Teleport enqueues a teleport command.
func (s *Service) Teleport(c TeleportCmd) { s.Enqueue(c) }

// SetLinearVelocity enqueues a linear-velocity command.
func (s *Service) SetLinearVelocity(c SetLinearVelocityCmd) { s.Enqueue(c) }

// SetAngularVelocity enqueues an angular-velocity command.
func (s *Service) SetAngularVelocity(c SetAngularVelocityCmd) { s.Enqueue(c) }

// AddImpulse enqueues an impulse command.
func (s *Service) AddImpulse(c AddImpulseCmd) { s.Enqueue(c) }

// SetKinematicTarget enqueues a kinematic-target command.
func (s *Service) SetKinematicTarget(c SetKinematicTargetCmd) { s.Enqueue(c) }

// SetCollisionMask enqueues a collision-mask command.
func (s *Service) SetCollisionMask(c SetCollisionMaskCmd) { s.Enqueue(c) }

// SetObjectLayer enqueues an object-layer command.
func (s *Service) SetObjectLayer(c SetObjectLayerCmd) { s.Enqueue(c) }

// RayCast enqueues a raycast request; the result arrives as a
// RayCastHitEvent in a later Snapshot tagged with the same RequestID.
func (s *Service) RayCast(c RayCastCmd) { s.Enqueue(c) }

// PreUpdate is a no-op: physics has nothing to prepare ahead of its own Update.
func (s *Service) PreUpdate(dt float64) {}

// Update advances the fixed-timestep accumulator by dt.
func (s *Service) Update(dt float64) { s.Tick(dt) }

// Tick drains the command ring and steps the device once per accumulated
// fixed_dt of simulation time. When it runs one or more steps, the new
// current Snapshot holds the events of all of this call's steps and the
// last step's poses; a call that runs no step leaves both snapshots
// unchanged.
func (s *Service) Tick(dt float64) {
	s.accum += dt

	var aggregate Snapshot
	stepped := false
	for s.accum+accumulatorEpsilon >= s.plan.FixedDT {
		s.drainToDevice()
		s.device.Step(float32(s.plan.FixedDT), s.plan.Substeps)
		s.accum -= s.plan.FixedDT
		stepped = true

		step := s.device.BuildSnapshot()
		aggregate.Poses = step.Poses
		aggregate.Contacts = append(aggregate.Contacts, step.Contacts...)
		aggregate.RayHits = append(aggregate.RayHits, step.RayHits...)
		aggregate.Created = append(aggregate.Created, step.Created...)
	}
	if !stepped {
		return
	}

	s.mu.Lock()
	s.prev = s.curr
	s.curr = aggregate
	s.mu.Unlock()
}

func (s *Service) drainToDevice() {
	for {
		cmd, ok := s.ring.Pop()
		if !ok {
			return
		}
		s.device.ApplyCommand(cmd)
	}
}

// GetAlpha returns the render-frame interpolation ratio in [0, 1) between
// the previous and current fixed-step snapshots.
func (s *Service) GetAlpha() float64 {
	if s.plan.FixedDT <= 0 {
		return 0
	}
	return s.accum / s.plan.FixedDT
}

// CurrentSnapshot returns the most recent fixed-step snapshot.
func (s *Service) CurrentSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.curr
}

// PreviousSnapshot returns the fixed-step snapshot before CurrentSnapshot.
func (s *Service) PreviousSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prev
}
