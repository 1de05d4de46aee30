package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// column holds the backing storage for one component inside a chunk. For an
// AoS component it is a single slice of the component's Go type; for an
// SoA-decomposed component it is instead one slice per scalar field.
//
// Go's runtime does not let us address raw aligned byte runs the way a
// raw byte-buffer layout would (no portable unsafe-pointer story
// across GC moves without pinning); every ECS in the retrieval pack that
// implements SoA storage in Go (plus3-ooftn/ecs, ByteArena/ecs) does so with
// typed reflect-backed slices rather than a manually laid out byte buffer,
// and this repo follows that precedent. Capacity is still computed from the
// byte-budget formula (see newChunk), so the "fixed N per chunk"
// invariant holds even though the bytes themselves are not hand-packed.
type column struct {
	info   *ComponentTypeInfo
	slice  reflect.Value            // len == cap == chunk capacity, for AoS components
	fields map[string]reflect.Value // field name -> slice, for SoA components
}

// Chunk is a fixed-capacity Structure-of-Arrays buffer holding up to
// Capacity() rows of entities sharing one component mask.
type Chunk struct {
	mask      ComponentMask
	capacity  int
	n         int
	entityIDs []EntityID
	columns   map[TypeID]*column
	sparse    map[TypeID]bool // component ids carried in the mask but stored out-of-chunk
}

// newChunk allocates a chunk for the given non-sparse component types,
// computing capacity as the largest N such that every column's N*size run
// fits inside byteSize, alongside the parallel N-entry entity id column.
func newChunk(m ComponentMask, nonSparse []*ComponentTypeInfo, sparseIDs []TypeID, byteSize int) *Chunk {
	const entityIDSize = 8 // uint32 index + uint32 generation
	perRow := entityIDSize
	for _, info := range nonSparse {
		perRow += int(info.Size)
	}
	if perRow == 0 {
		perRow = entityIDSize
	}
	capacity := byteSize / perRow
	if capacity < 1 {
		capacity = 1
	}

	c := &Chunk{
		mask:      m,
		capacity:  capacity,
		entityIDs: make([]EntityID, capacity),
		columns:   make(map[TypeID]*column, len(nonSparse)),
		sparse:    make(map[TypeID]bool, len(sparseIDs)),
	}
	for _, id := range sparseIDs {
		c.sparse[id] = true
	}
	for _, info := range nonSparse {
		col := &column{info: info}
		if len(info.Fields) > 0 {
			col.fields = make(map[string]reflect.Value, len(info.Fields))
			for _, f := range info.Fields {
				col.fields[f.Name] = reflect.MakeSlice(reflect.SliceOf(f.Type), capacity, capacity)
			}
		} else {
			col.slice = reflect.MakeSlice(reflect.SliceOf(info.GoType), capacity, capacity)
		}
		c.columns[info.ID] = col
	}
	return c
}

// Capacity returns N, the fixed row capacity computed at construction.
func (c *Chunk) Capacity() int { return c.capacity }

// Len returns n, the current row count.
func (c *Chunk) Len() int { return c.n }

// Mask returns the chunk's component mask.
func (c *Chunk) Mask() ComponentMask { return c.mask }

// AddEntity appends id at row n and returns the new row. Column memory at
// the new row is left uninitialized; callers must write every relevant
// column. Calling this above capacity is a programming error.
func (c *Chunk) AddEntity(id EntityID) (int, error) {
	if c.n >= c.capacity {
		return -1, bark.AddTrace(ChunkFullError{Capacity: c.capacity})
	}
	row := c.n
	c.entityIDs[row] = id
	c.n++
	return row, nil
}

// RemoveEntitySwapPop removes row by moving the last row's entity id and
// column bytes into it. It returns the id that ended up at
// `row` after the swap (so callers can fix up the location index) and
// whether a swap actually occurred (false when row was already last).
func (c *Chunk) RemoveEntitySwapPop(row int) (moved EntityID, didSwap bool, err error) {
	if row < 0 || row >= c.n {
		return EntityID{}, false, bark.AddTrace(RowOutOfRangeError{Row: row, Rows: c.n})
	}
	last := c.n - 1
	if row != last {
		c.entityIDs[row] = c.entityIDs[last]
		for _, col := range c.columns {
			if col.fields != nil {
				for _, fieldSlice := range col.fields {
					reflect.Copy(fieldSlice.Slice(row, row+1), fieldSlice.Slice(last, last+1))
				}
				continue
			}
			reflect.Copy(col.slice.Slice(row, row+1), col.slice.Slice(last, last+1))
		}
		moved = c.entityIDs[row]
		didSwap = true
	}
	c.n--
	return moved, didSwap, nil
}

// GetEntityIDs returns the entity ids of the chunk's live rows.
func (c *Chunk) GetEntityIDs() []EntityID {
	return c.entityIDs[:c.n]
}

// getColumn returns the typed AoS column slice (full capacity) for a
// component, or ok=false if the chunk's mask lacks it.
func getColumn[T any](c *Chunk, id TypeID) ([]T, bool) {
	col, ok := c.columns[id]
	if !ok || col.fields != nil {
		return nil, false
	}
	s, ok := col.slice.Interface().([]T)
	return s, ok
}

// reflectCopyRow copies one row from src[srcRow] into dest[destRow].
func reflectCopyRow(dest reflect.Value, destRow int, src reflect.Value, srcRow int) {
	dest.Index(destRow).Set(src.Index(srcRow))
}

// GetSoAField returns the typed per-field column slice (full capacity) for
// a component registered with SoA decomposition, or ok=false if the field
// or the component is absent from this chunk.
func GetSoAField[F any](c *Chunk, id TypeID, field string) ([]F, bool) {
	col, ok := c.columns[id]
	if !ok || col.fields == nil {
		return nil, false
	}
	fieldSlice, ok := col.fields[field]
	if !ok {
		return nil, false
	}
	s, ok := fieldSlice.Interface().([]F)
	return s, ok
}
