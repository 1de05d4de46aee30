package scheduler

import (
	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
	"github.com/YamadaSeigo/Sector3X-sub002/service"
)

// Access declares the component set a System reads and writes. The
// scheduler uses it to decide which systems in a Level may run
// concurrently: two systems conflict, and must serialize, whenever either
// writes a component the other reads or writes.
type Access struct {
	Reads  []ecs.Component
	Writes []ecs.Component
}

// UpdateContext is handed to every System.Update call.
type UpdateContext struct {
	Manager   *ecs.EntityManager
	Services  *service.Locator
	DeltaTime float64
}

// System is one unit of per-frame work inside a Level. Access must be
// stable across the System's lifetime; the scheduler calls it once per
// Level build to compute the conflict graph, not once per frame.
type System interface {
	Access() Access
	Update(ctx *UpdateContext)
}

// conflicts reports whether a and b touch a common component with at
// least one of them writing it.
func conflicts(a, b Access) bool {
	for _, w := range a.Writes {
		if touchesAny(w, b.Reads) || touchesAny(w, b.Writes) {
			return true
		}
	}
	for _, w := range b.Writes {
		if touchesAny(w, a.Reads) {
			return true
		}
	}
	return false
}

func touchesAny(c ecs.Component, set []ecs.Component) bool {
	for _, other := range set {
		if other.ID() == c.ID() {
			return true
		}
	}
	return false
}

// buildBatches groups systems into batches that can each run fully in
// parallel: within a batch no two systems conflict, and a system is placed
// in the earliest batch that comes after every batch holding a system it
// conflicts with. Declaration order is preserved both across batches (a
// system never moves ahead of a conflicting system declared before it) and
// within a batch (iteration order of the slice).
func buildBatches(systems []System) [][]System {
	var batches [][]System
	var accesses [][]Access

	for _, sys := range systems {
		a := sys.Access()
		target := 0
		for bi := range batches {
			for _, other := range accesses[bi] {
				if conflicts(a, other) {
					target = bi + 1
					break
				}
			}
		}
		if target == len(batches) {
			batches = append(batches, nil)
			accesses = append(accesses, nil)
		}
		batches[target] = append(batches[target], sys)
		accesses[target] = append(accesses[target], a)
	}
	return batches
}
