package ecs

import "testing"

type vec3 struct {
	X, Y, Z float32
}

func (vec3) SoAFields() []string { return []string{"X", "Y", "Z"} }

func TestChunkCapacityFromByteBudget(t *testing.T) {
	info := registerType[Position]()
	ch := newChunk(maskFor(componentHandle{info: info}), []*ComponentTypeInfo{info}, nil, 64)
	// perRow = 8 (entity id) + 16 (two float64) = 24; 64/24 = 2
	if got, want := ch.Capacity(), 2; got != want {
		t.Errorf("Capacity() = %d, want %d", got, want)
	}
}

func TestChunkAddRemoveSwapPop(t *testing.T) {
	info := registerType[Position]()
	mk := maskFor(componentHandle{info: info})
	ch := newChunk(mk, []*ComponentTypeInfo{info}, nil, DefaultChunkByteSize)

	ids := make([]EntityID, 4)
	for i := range ids {
		ids[i] = EntityID{Index: uint32(i), Generation: 0}
		if _, err := ch.AddEntity(ids[i]); err != nil {
			t.Fatalf("AddEntity() error = %v", err)
		}
	}

	moved, didSwap, err := ch.RemoveEntitySwapPop(1)
	if err != nil {
		t.Fatalf("RemoveEntitySwapPop() error = %v", err)
	}
	if !didSwap {
		t.Fatal("expected a swap when removing a non-last row")
	}
	if moved != ids[3] {
		t.Errorf("moved id = %v, want %v", moved, ids[3])
	}
	if ch.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ch.Len())
	}
	got := ch.GetEntityIDs()
	want := []EntityID{ids[0], ids[3], ids[2]}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestChunkFullIsFatal(t *testing.T) {
	info := registerType[Position]()
	mk := maskFor(componentHandle{info: info})
	ch := newChunk(mk, []*ComponentTypeInfo{info}, nil, 64) // capacity 2

	if _, err := ch.AddEntity(EntityID{Index: 0}); err != nil {
		t.Fatalf("AddEntity() error = %v", err)
	}
	if _, err := ch.AddEntity(EntityID{Index: 1}); err != nil {
		t.Fatalf("AddEntity() error = %v", err)
	}
	if _, err := ch.AddEntity(EntityID{Index: 2}); err == nil {
		t.Fatal("AddEntity() above capacity should error")
	}
}

func TestSoAFieldColumns(t *testing.T) {
	info := registerType[vec3]()
	if len(info.Fields) != 3 {
		t.Fatalf("expected 3 SoA fields, got %d", len(info.Fields))
	}
	mk := maskFor(componentHandle{info: info})
	ch := newChunk(mk, []*ComponentTypeInfo{info}, nil, DefaultChunkByteSize)
	if _, err := ch.AddEntity(EntityID{Index: 0}); err != nil {
		t.Fatalf("AddEntity() error = %v", err)
	}

	xs, ok := GetSoAField[float32](ch, info.ID, "X")
	if !ok {
		t.Fatal("expected X field column")
	}
	xs[0] = 42
	if xs2, _ := GetSoAField[float32](ch, info.ID, "X"); xs2[0] != 42 {
		t.Errorf("X column not stable across accesses: got %v", xs2[0])
	}
}
