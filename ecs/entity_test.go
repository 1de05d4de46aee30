package ecs

import "testing"

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

func TestEntityCreation(t *testing.T) {
	posComp := RegisterComponent[Position]()
	velComp := RegisterComponent[Velocity]()
	healthComp := RegisterComponent[Health]()

	tests := []struct {
		name        string
		components  []Component
		entityCount int
	}{
		{"Single component", []Component{posComp}, 10},
		{"Multiple components", []Component{posComp, velComp}, 5},
		{"Large batch", []Component{posComp, velComp, healthComp}, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, err := NewEntityManager(DefaultConfig())
			if err != nil {
				t.Fatalf("NewEntityManager() error = %v", err)
			}

			ids, err := mgr.CreateEntities(tt.entityCount, tt.components...)
			if err != nil {
				t.Fatalf("CreateEntities() error = %v", err)
			}
			if len(ids) != tt.entityCount {
				t.Fatalf("created %d entities, want %d", len(ids), tt.entityCount)
			}
			for i, id := range ids {
				if !mgr.allocator.IsValid(id) {
					t.Errorf("entity %d is invalid", i)
				}
				comps, err := mgr.Components(id)
				if err != nil {
					t.Fatalf("Components() error = %v", err)
				}
				if len(comps) != len(tt.components) {
					t.Errorf("entity has %d components, want %d", len(comps), len(tt.components))
				}
			}
		})
	}
}

func TestDestroyEntityMiddleRowSwapsLastRowDown(t *testing.T) {
	pos := RegisterComponent[Position]()
	hp := RegisterComponent[Health]()

	mgr, err := NewEntityManager(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEntityManager() error = %v", err)
	}

	ids, err := mgr.CreateEntities(3, pos, hp)
	if err != nil {
		t.Fatalf("CreateEntities() error = %v", err)
	}

	chunk, _, err := mgr.Location(ids[0])
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if chunk.Len() != 3 {
		t.Fatalf("chunk has %d rows, want 3", chunk.Len())
	}
	gotIDs := chunk.GetEntityIDs()
	for i, id := range ids {
		if gotIDs[i] != id {
			t.Errorf("row %d holds %v, want %v", i, gotIDs[i], id)
		}
	}

	if err := mgr.DestroyEntity(ids[1]); err != nil {
		t.Fatalf("DestroyEntity() error = %v", err)
	}
	if chunk.Len() != 2 {
		t.Fatalf("chunk has %d rows after destroy, want 2", chunk.Len())
	}
	// Row 1 should now hold what was row 2 (the last live entity swapped down).
	if chunk.GetEntityIDs()[1] != ids[2] {
		t.Errorf("row 1 holds %v, want %v", chunk.GetEntityIDs()[1], ids[2])
	}
	_, row, err := mgr.Location(ids[2])
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if row != 1 {
		t.Errorf("entity %v location row = %d, want 1", ids[2], row)
	}
}

func TestComponentAddRemove(t *testing.T) {
	pos := RegisterComponent[Position]()
	vel := RegisterComponent[Velocity]()

	mgr, err := NewEntityManager(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEntityManager() error = %v", err)
	}

	ids, err := mgr.CreateEntities(1, pos)
	if err != nil {
		t.Fatalf("CreateEntities() error = %v", err)
	}
	id := ids[0]

	startMask, err := mgr.GetMask(id)
	if err != nil {
		t.Fatalf("GetMask() error = %v", err)
	}

	startChunk, startRow, err := mgr.Location(id)
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	p := pos.Get(startChunk, startRow)
	p.X, p.Y = 3, 4

	if err := mgr.AddComponent(id, vel); err != nil {
		t.Fatalf("AddComponent() error = %v", err)
	}
	chunk, row, err := mgr.Location(id)
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if got := pos.Get(chunk, row); got.X != 3 || got.Y != 4 {
		t.Errorf("shared component bytes changed across move: got %+v", got)
	}

	if err := mgr.RemoveComponent(id, vel); err != nil {
		t.Fatalf("RemoveComponent() error = %v", err)
	}
	endMask, err := mgr.GetMask(id)
	if err != nil {
		t.Fatalf("GetMask() error = %v", err)
	}
	if endMask != startMask {
		t.Errorf("mask after add+remove = %+v, want back to %+v", endMask, startMask)
	}

	if err := mgr.AddComponent(id, pos); !isComponentExistsErr(err) {
		t.Errorf("AddComponent() of an already-present component error = %v, want ComponentExistsError", err)
	}
	if err := mgr.RemoveComponent(id, vel); !isComponentNotFoundErr(err) {
		t.Errorf("RemoveComponent() of an absent component error = %v, want ComponentNotFoundError", err)
	}
}

func isComponentExistsErr(err error) bool {
	_, ok := err.(ComponentExistsError)
	return ok
}

func isComponentNotFoundErr(err error) bool {
	_, ok := err.(ComponentNotFoundError)
	return ok
}

func TestDestroyEntityStaleHandle(t *testing.T) {
	pos := RegisterComponent[Position]()
	mgr, err := NewEntityManager(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEntityManager() error = %v", err)
	}
	ids, err := mgr.CreateEntities(1, pos)
	if err != nil {
		t.Fatalf("CreateEntities() error = %v", err)
	}
	id := ids[0]
	if err := mgr.DestroyEntity(id); err != nil {
		t.Fatalf("DestroyEntity() error = %v", err)
	}
	if err := mgr.DestroyEntity(id); err == nil {
		t.Error("DestroyEntity() on an already-destroyed handle should error")
	}
	if mgr.allocator.IsValid(id) {
		t.Error("destroyed entity handle should be invalid")
	}
}

func TestSetParentCallbackRunsOnParentDestroy(t *testing.T) {
	pos := RegisterComponent[Position]()
	mgr, err := NewEntityManager(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEntityManager() error = %v", err)
	}
	ids, err := mgr.CreateEntities(2, pos)
	if err != nil {
		t.Fatalf("CreateEntities() error = %v", err)
	}
	child := NewEntityHandle(mgr, ids[0])
	parent := NewEntityHandle(mgr, ids[1])

	var called *Entity
	if err := child.SetParent(parent, func(e *Entity) { called = e }); err != nil {
		t.Fatalf("SetParent() error = %v", err)
	}

	if err := mgr.DestroyEntity(parent.ID); err != nil {
		t.Fatalf("DestroyEntity() error = %v", err)
	}
	if called == nil || called.ID != parent.ID {
		t.Fatalf("destroy callback ran with %+v, want the parent's id %v", called, parent.ID)
	}

	// Destroying the child afterward must not re-invoke the parent's callback.
	called = nil
	if err := mgr.DestroyEntity(child.ID); err != nil {
		t.Fatalf("DestroyEntity() error = %v", err)
	}
	if called != nil {
		t.Error("destroying the child should not invoke the parent's destroy callback again")
	}
}

func TestSetParentRejectsSecondParent(t *testing.T) {
	pos := RegisterComponent[Position]()
	mgr, err := NewEntityManager(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEntityManager() error = %v", err)
	}
	ids, err := mgr.CreateEntities(3, pos)
	if err != nil {
		t.Fatalf("CreateEntities() error = %v", err)
	}
	child := NewEntityHandle(mgr, ids[0])
	parentA := NewEntityHandle(mgr, ids[1])
	parentB := NewEntityHandle(mgr, ids[2])

	if err := child.SetParent(parentA, nil); err != nil {
		t.Fatalf("SetParent() error = %v", err)
	}
	if err := child.SetParent(parentB, nil); err == nil {
		t.Error("SetParent() should reject a second parent")
	}
}
