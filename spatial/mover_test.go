package spatial

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
)

// recordingRelocator counts relocations instead of actually copying
// components, enough to exercise BudgetMover's batching.
type recordingRelocator struct{ moved int }

func (r *recordingRelocator) Relocate(entity ecs.EntityID, from, to *ecs.EntityManager) error {
	r.moved++
	return nil
}

func gridMapper(cellSize float32) CellMapper {
	return func(pos mgl32.Vec3) (Scheme, uint8, uint64) {
		x := uint32(int32(pos.X() / cellSize))
		y := uint32(int32(pos.Y() / cellSize))
		return SchemeGrid2D, 0, MortonEncode2D(x, y)
	}
}

func TestBudgetMoverIgnoresFirstSighting(t *testing.T) {
	lvl := NewLevel(1, Main, ecs.DefaultConfig())
	lvl.EnsureChunk(SchemeGrid2D, 0, MortonEncode2D(0, 0))
	rel := &recordingRelocator{}
	mover := NewBudgetMover(lvl, gridMapper(10), rel, 10)

	mover.ReportMove(ecs.EntityID{Index: 1}, mgl32.Vec3{1, 1, 0})
	if mover.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0 after first sighting", mover.Pending())
	}
}

func TestBudgetMoverDrainCapsPerCallAndRelocates(t *testing.T) {
	lvl := NewLevel(1, Main, ecs.DefaultConfig())
	lvl.EnsureChunk(SchemeGrid2D, 0, MortonEncode2D(0, 0))
	rel := &recordingRelocator{}
	mover := NewBudgetMover(lvl, gridMapper(10), rel, 1)

	for i := uint32(1); i <= 3; i++ {
		e := ecs.EntityID{Index: i}
		mover.ReportMove(e, mgl32.Vec3{1, 1, 0})   // first sighting, cell (0,0)
		mover.ReportMove(e, mgl32.Vec3{11, 1, 0}) // crosses into cell (1,0)
	}

	if mover.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", mover.Pending())
	}

	moved := mover.Drain()
	if moved != 1 {
		t.Fatalf("Drain() moved %d, want 1 (budget-capped)", moved)
	}
	if rel.moved != 1 {
		t.Fatalf("relocator saw %d calls, want 1", rel.moved)
	}
	if mover.Pending() != 2 {
		t.Fatalf("Pending() after one Drain = %d, want 2", mover.Pending())
	}

	mover.Drain()
	mover.Drain()
	if mover.Pending() != 0 {
		t.Fatalf("Pending() after draining all = %d, want 0", mover.Pending())
	}
	if rel.moved != 3 {
		t.Fatalf("relocator saw %d total calls, want 3", rel.moved)
	}
}

func TestBudgetMoverDedupesRepeatedReportsBeforeDrain(t *testing.T) {
	lvl := NewLevel(1, Main, ecs.DefaultConfig())
	lvl.EnsureChunk(SchemeGrid2D, 0, MortonEncode2D(0, 0))
	rel := &recordingRelocator{}
	mover := NewBudgetMover(lvl, gridMapper(10), rel, 10)

	e := ecs.EntityID{Index: 1}
	mover.ReportMove(e, mgl32.Vec3{1, 1, 0})
	mover.ReportMove(e, mgl32.Vec3{11, 1, 0})
	mover.ReportMove(e, mgl32.Vec3{12, 1, 0}) // still cell (1,0), no new queue entry
	mover.ReportMove(e, mgl32.Vec3{21, 1, 0}) // now cell (2,0), target updated in place

	if mover.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1 (same entity re-reported, not re-queued)", mover.Pending())
	}
	mover.Drain()
	if rel.moved != 1 {
		t.Fatalf("relocator saw %d calls, want 1", rel.moved)
	}
}
