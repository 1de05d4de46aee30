package scheduler

import (
	"sync/atomic"
	"testing"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
	"github.com/YamadaSeigo/Sector3X-sub002/service"
)

type recordingSystem struct {
	access Access
	run    func(ctx *UpdateContext)
}

func (s *recordingSystem) Access() Access            { return s.access }
func (s *recordingSystem) Update(ctx *UpdateContext) { s.run(ctx) }

func TestBuildBatchesSeparatesConflictingWriters(t *testing.T) {
	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }
	pos := ecs.RegisterComponent[Position]()
	vel := ecs.RegisterComponent[Velocity]()

	movement := &recordingSystem{access: Access{Reads: []ecs.Component{vel}, Writes: []ecs.Component{pos}}}
	gravity := &recordingSystem{access: Access{Writes: []ecs.Component{vel}}}
	render := &recordingSystem{access: Access{Reads: []ecs.Component{pos}}}

	batches := buildBatches([]System{movement, gravity, render})

	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2 (gravity writes the vel movement reads, render reads movement's pos; gravity and render are disjoint)", len(batches))
	}
	if len(batches[0]) != 1 {
		t.Fatalf("first batch has %d systems, want 1", len(batches[0]))
	}
	if len(batches[1]) != 2 {
		t.Fatalf("second batch has %d systems, want 2", len(batches[1]))
	}
}

func TestBuildBatchesAllowsDisjointSystemsConcurrently(t *testing.T) {
	type A struct{ V int }
	type B struct{ V int }
	a := ecs.RegisterComponent[A]()
	b := ecs.RegisterComponent[B]()

	sysA := &recordingSystem{access: Access{Writes: []ecs.Component{a}}}
	sysB := &recordingSystem{access: Access{Writes: []ecs.Component{b}}}

	batches := buildBatches([]System{sysA, sysB})
	if len(batches) != 1 || len(batches[0]) != 2 {
		t.Fatalf("got %d batches, want one batch holding both systems", len(batches))
	}
}

func TestLevelUpdateRunsEverySystemInABatch(t *testing.T) {
	type Position struct{ X float64 }
	pos := ecs.RegisterComponent[Position]()

	mgr, err := ecs.NewEntityManager(ecs.DefaultConfig())
	if err != nil {
		t.Fatalf("NewEntityManager() error = %v", err)
	}

	var ran atomic.Int32
	sys := &recordingSystem{
		access: Access{Writes: []ecs.Component{pos}},
		run:    func(ctx *UpdateContext) { ran.Add(1) },
	}

	lvl := NewLevel("physics", mgr, false, sys)
	loc := service.New()
	if err := lvl.update(inlineExecutor{}, loc, 1.0/60.0); err != nil {
		t.Fatalf("level update() error = %v", err)
	}
	if got := ran.Load(); got != 1 {
		t.Errorf("system ran %d times, want 1", got)
	}
}
