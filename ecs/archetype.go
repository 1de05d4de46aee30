package ecs

import "sync"

// Archetype identifies the set of entities sharing one component mask and
// owns an ordered list of Chunks.
type Archetype struct {
	id        uint32
	mask      ComponentMask
	chunks    []*Chunk
	nonSparse []*ComponentTypeInfo
	sparseIDs []TypeID
	byteSize  int
}

// ID returns the archetype's process-unique id.
func (a *Archetype) ID() uint32 { return a.id }

// Mask returns the archetype's component mask.
func (a *Archetype) Mask() ComponentMask { return a.mask }

// Chunks returns the archetype's chunk list. Never empty once the
// archetype has held at least one entity.
func (a *Archetype) Chunks() []*Chunk { return a.chunks }

// place finds a chunk with spare capacity (appending a fresh one if every
// existing chunk is full) and adds id to it.
func (a *Archetype) place(id EntityID) (chunkIndex, row int, err error) {
	for i, ch := range a.chunks {
		if ch.Len() < ch.Capacity() {
			r, err := ch.AddEntity(id)
			return i, r, err
		}
	}
	ch := newChunk(a.mask, a.nonSparse, a.sparseIDs, a.byteSize)
	a.chunks = append(a.chunks, ch)
	r, err := ch.AddEntity(id)
	return len(a.chunks) - 1, r, err
}

// archetypeManager owns every archetype ever created for a given
// EntityManager, keyed by component mask. Archetypes are created lazily on
// first encounter of a new mask and persisted for the manager's lifetime
// (never erases).
type archetypeManager struct {
	mu         sync.RWMutex
	nextID     uint32
	byMask     map[ComponentMask]*Archetype
	byID       []*Archetype
	byteSize   int
}

func newArchetypeManager(byteSize int) *archetypeManager {
	return &archetypeManager{
		byMask:   make(map[ComponentMask]*Archetype),
		byteSize: byteSize,
	}
}

// getOrCreate returns the archetype for the exact set of components
// (already split into non-sparse/sparse by the caller), creating it if this
// mask has never been seen.
func (m *archetypeManager) getOrCreate(components []Component) *Archetype {
	mk := maskFor(components...)

	m.mu.RLock()
	if a, ok := m.byMask[mk]; ok {
		m.mu.RUnlock()
		return a
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byMask[mk]; ok {
		return a
	}

	var nonSparse []*ComponentTypeInfo
	var sparseIDs []TypeID
	for _, c := range components {
		info := typeInfoByID(c.ID())
		if info.Sparse {
			sparseIDs = append(sparseIDs, info.ID)
		} else {
			nonSparse = append(nonSparse, info)
		}
	}

	a := &Archetype{
		id:        m.nextID,
		mask:      mk,
		nonSparse: nonSparse,
		sparseIDs: sparseIDs,
		byteSize:  m.byteSize,
	}
	m.nextID++
	m.byMask[mk] = a
	m.byID = append(m.byID, a)
	return a
}

// all returns every archetype created so far, in creation order.
func (m *archetypeManager) all() []*Archetype {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Archetype, len(m.byID))
	copy(out, m.byID)
	return out
}
