package physics

import (
	"sync"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
)

// CreateIntent queues a body-creation request keyed by entity, instead of
// creating the body inline at the entity-creation site. A dedicated
// system drains intents once per frame, reads the entity's current pose
// at that point, and issues the corresponding CreateBodyCmd.
type CreateIntent struct {
	Entity        ecs.EntityID
	Shape         ShapeHandle
	OwnerChunkKey uint64
	Kinematic     bool
	Density       float32
	Layer         uint16
	Broadphase    uint16
	Friction      float32
	Restitution   float32
}

// IntentQueue collects CreateIntents from any goroutine that spawns an
// entity needing a physics body, for IntentDrainSystem to drain once per
// frame.
type IntentQueue struct {
	mu      sync.Mutex
	pending []CreateIntent
}

// NewIntentQueue constructs an empty queue.
func NewIntentQueue() *IntentQueue { return &IntentQueue{} }

// Enqueue appends intent.
func (q *IntentQueue) Enqueue(intent CreateIntent) {
	q.mu.Lock()
	q.pending = append(q.pending, intent)
	q.mu.Unlock()
}

// Drain returns and clears every intent queued since the last Drain.
func (q *IntentQueue) Drain() []CreateIntent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}
