package ecs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/TheBitDrifter/bark"
)

// location is where an entity currently lives: which archetype, which of
// its chunks, and which row.
type location struct {
	archetype  *Archetype
	chunkIndex int
	row        int
}

// EntityManager owns entity id allocation, the entity -> (chunk, row)
// location index, the archetype manager, and the sparse component stores
// Structural mutations (create/destroy/move) require the
// location table's exclusive access; iteration over chunks only needs
// shared access.
type EntityManager struct {
	cfg        Config
	allocator  *EntityIDAllocator
	archetypes *archetypeManager

	mu        sync.RWMutex
	locations map[EntityID]*location
	comps     map[EntityID][]Component

	sparseMu     sync.Mutex
	sparseStores map[TypeID]*sparseStore

	destroyMu        sync.Mutex
	destroyCallbacks map[EntityID]func(*Entity)

	iterating atomic.Int32
	queue     *operationQueue
}

// NewEntityManager constructs a manager for the given config. cfg must
// satisfy Config.Validate.
func NewEntityManager(cfg Config) (*EntityManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	allocator, err := NewEntityIDAllocator(cfg.MaxEntities)
	if err != nil {
		return nil, err
	}
	return &EntityManager{
		cfg:              cfg,
		allocator:        allocator,
		archetypes:       newArchetypeManager(cfg.ChunkByteSize),
		locations:        make(map[EntityID]*location),
		comps:            make(map[EntityID][]Component),
		sparseStores:     make(map[TypeID]*sparseStore),
		destroyCallbacks: make(map[EntityID]func(*Entity)),
		queue:            newOperationQueue(),
	}, nil
}

// Locked reports whether a cursor is currently iterating this manager's
// archetypes. Structural mutations attempted while locked are queued
// instead of applied immediately.
func (m *EntityManager) Locked() bool {
	return m.iterating.Load() > 0
}

func (m *EntityManager) beginIteration() { m.iterating.Add(1) }

func (m *EntityManager) endIteration() {
	if m.iterating.Add(-1) == 0 {
		m.queue.processAll(m)
	}
}

// Archetypes returns every archetype created so far.
func (m *EntityManager) Archetypes() []*Archetype { return m.archetypes.all() }

// RowIndexFor returns the component's dense bit index.
func (m *EntityManager) RowIndexFor(c Component) uint32 { return uint32(c.ID()) }

func (m *EntityManager) sparseStoreFor(id TypeID) *sparseStore {
	m.sparseMu.Lock()
	defer m.sparseMu.Unlock()
	s, ok := m.sparseStores[id]
	if !ok {
		s = newSparseStore()
		m.sparseStores[id] = s
	}
	return s
}

// CreateEntities allocates n entity ids, finds or creates the archetype for
// the given components, and places each entity into a chunk with spare
// capacity (appending a new chunk as needed). CreateEntity,
// batched.
func (m *EntityManager) CreateEntities(n int, components ...Component) ([]EntityID, error) {
	if m.Locked() {
		return nil, LockedStorageError{}
	}
	return m.createEntities(n, components)
}

func (m *EntityManager) createEntities(n int, components []Component) ([]EntityID, error) {
	arch := m.archetypes.getOrCreate(components)

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]EntityID, 0, n)
	for i := 0; i < n; i++ {
		id, err := m.allocator.Allocate()
		if err != nil {
			return ids, bark.AddTrace(err)
		}
		chunkIdx, row, err := arch.place(id)
		if err != nil {
			return ids, bark.AddTrace(err)
		}
		m.locations[id] = &location{archetype: arch, chunkIndex: chunkIdx, row: row}
		m.comps[id] = append([]Component(nil), components...)
		ids = append(ids, id)
	}
	return ids, nil
}

// EnqueueCreateEntities creates immediately if unlocked, otherwise queues
// the creation for when the current iteration finishes.
func (m *EntityManager) EnqueueCreateEntities(n int, components ...Component) error {
	if !m.Locked() {
		_, err := m.createEntities(n, components)
		return err
	}
	m.queue.enqueue(createEntitiesOp{count: n, components: components})
	return nil
}

// DestroyEntity removes the entity from its chunk via swap-pop, fixes up
// the swapped entity's location, removes it from every sparse store, and
// frees its id.
func (m *EntityManager) DestroyEntity(id EntityID) error {
	if m.Locked() {
		return LockedStorageError{}
	}
	return m.destroyEntity(id)
}

func (m *EntityManager) destroyEntity(id EntityID) error {
	m.mu.Lock()
	loc, ok := m.locations[id]
	if !ok {
		m.mu.Unlock()
		return StaleHandleError{Handle: id}
	}
	chunk := loc.archetype.chunks[loc.chunkIndex]
	moved, didSwap, err := chunk.RemoveEntitySwapPop(loc.row)
	if err != nil {
		m.mu.Unlock()
		return bark.AddTrace(err)
	}
	if didSwap {
		if swappedLoc, ok := m.locations[moved]; ok {
			swappedLoc.row = loc.row
		}
	}
	delete(m.locations, id)
	delete(m.comps, id)
	m.mu.Unlock()

	m.sparseMu.Lock()
	for _, store := range m.sparseStores {
		store.delete(id)
	}
	m.sparseMu.Unlock()

	m.destroyMu.Lock()
	cb, hasCallback := m.destroyCallbacks[id]
	delete(m.destroyCallbacks, id)
	m.destroyMu.Unlock()
	if hasCallback {
		cb(NewEntityHandle(m, id))
	}

	return m.allocator.Free(id)
}

// EnqueueDestroyEntity destroys immediately if unlocked, else queues it.
func (m *EntityManager) EnqueueDestroyEntity(id EntityID) error {
	if !m.Locked() {
		return m.destroyEntity(id)
	}
	m.queue.enqueue(destroyEntityOp{id: id})
	return nil
}

// GetMask returns the component mask of the entity's current archetype.
func (m *EntityManager) GetMask(id EntityID) (ComponentMask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[id]
	if !ok {
		return ComponentMask{}, StaleHandleError{Handle: id}
	}
	return loc.archetype.mask, nil
}

// Location returns the entity's current chunk and row.
func (m *EntityManager) Location(id EntityID) (chunk *Chunk, row int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[id]
	if !ok {
		return nil, 0, StaleHandleError{Handle: id}
	}
	return loc.archetype.chunks[loc.chunkIndex], loc.row, nil
}

// Components returns the entity's currently attached component handles.
func (m *EntityManager) Components(id EntityID) ([]Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comps, ok := m.comps[id]
	if !ok {
		return nil, StaleHandleError{Handle: id}
	}
	return comps, nil
}

// AddComponent moves id to the archetype with the bit for c toggled on,
// copying every shared component's row bytes and leaving c's column
// uninitialized for the caller to fill in.
func (m *EntityManager) AddComponent(id EntityID, c Component) error {
	if m.Locked() {
		return LockedStorageError{}
	}
	return m.moveComponent(id, c, true)
}

// RemoveComponent moves id to the archetype with c's bit toggled off.
func (m *EntityManager) RemoveComponent(id EntityID, c Component) error {
	if m.Locked() {
		return LockedStorageError{}
	}
	return m.moveComponent(id, c, false)
}

func (m *EntityManager) moveComponent(id EntityID, c Component, add bool) error {
	m.mu.Lock()
	loc, ok := m.locations[id]
	if !ok {
		m.mu.Unlock()
		return StaleHandleError{Handle: id}
	}
	current := m.comps[id]

	has := false
	for _, existing := range current {
		if existing.ID() == c.ID() {
			has = true
			break
		}
	}
	if add && has {
		m.mu.Unlock()
		return ComponentExistsError{Component: c}
	}
	if !add && !has {
		m.mu.Unlock()
		return ComponentNotFoundError{Component: c}
	}

	var next []Component
	if add {
		next = append(append([]Component(nil), current...), c)
	} else {
		for _, existing := range current {
			if existing.ID() != c.ID() {
				next = append(next, existing)
			}
		}
	}

	srcArch := loc.archetype
	srcChunk := srcArch.chunks[loc.chunkIndex]
	srcRow := loc.row

	destArch := m.archetypes.getOrCreate(next)
	destChunkIdx, destRow, err := destArch.place(id)
	if err != nil {
		m.mu.Unlock()
		return bark.AddTrace(err)
	}
	destChunk := destArch.chunks[destChunkIdx]

	copySharedColumns(srcChunk, destChunk, srcRow, destRow)

	moved, didSwap, err := srcChunk.RemoveEntitySwapPop(srcRow)
	if err != nil {
		m.mu.Unlock()
		return bark.AddTrace(err)
	}
	if didSwap {
		if swappedLoc, ok := m.locations[moved]; ok {
			swappedLoc.row = srcRow
		}
	}

	m.locations[id] = &location{archetype: destArch, chunkIndex: destChunkIdx, row: destRow}
	m.comps[id] = next
	m.mu.Unlock()
	return nil
}

// EnqueueAddComponent adds immediately if unlocked, else queues it.
func (m *EntityManager) EnqueueAddComponent(id EntityID, c Component) error {
	if !m.Locked() {
		return m.moveComponent(id, c, true)
	}
	m.queue.enqueue(addComponentOp{id: id, component: c})
	return nil
}

// EnqueueRemoveComponent removes immediately if unlocked, else queues it.
func (m *EntityManager) EnqueueRemoveComponent(id EntityID, c Component) error {
	if !m.Locked() {
		return m.moveComponent(id, c, false)
	}
	m.queue.enqueue(removeComponentOp{id: id, component: c})
	return nil
}

// copySharedColumns copies every component column that both src and dest
// carry from srcRow to destRow, satisfying the invariant that a moved
// entity's shared component bytes are unchanged.
func copySharedColumns(src, dest *Chunk, srcRow, destRow int) {
	for id, srcCol := range src.columns {
		destCol, ok := dest.columns[id]
		if !ok {
			continue
		}
		if srcCol.fields != nil {
			for name, srcField := range srcCol.fields {
				destField, ok := destCol.fields[name]
				if !ok {
					continue
				}
				reflectCopyRow(destField, destRow, srcField, srcRow)
			}
			continue
		}
		reflectCopyRow(destCol.slice, destRow, srcCol.slice, srcRow)
	}
}

// Entity is a handle-plus-convenience-API view of a live entity, layered
// over the EntityManager for call sites that want method-style access
// instead of free functions taking an EntityID.
type Entity struct {
	ID  EntityID
	mgr *EntityManager

	relMu  sync.Mutex
	parent *Entity
}

// NewEntityHandle wraps an id with a manager reference for the
// relationship/destroy-callback convenience API.
func NewEntityHandle(mgr *EntityManager, id EntityID) *Entity {
	return &Entity{ID: id, mgr: mgr}
}

// Valid reports whether the entity's id still identifies a live slot.
func (e *Entity) Valid() bool {
	return e.mgr.allocator.IsValid(e.ID)
}

// SetParent establishes a parent-child relationship; callback runs once,
// from inside DestroyEntity, when the parent is destroyed.
func (e *Entity) SetParent(parent *Entity, callback func(*Entity)) error {
	e.relMu.Lock()
	defer e.relMu.Unlock()
	if e.parent != nil {
		return fmt.Errorf("entity %v already has parent %v", e.ID, e.parent.ID)
	}
	e.parent = parent

	parent.mgr.destroyMu.Lock()
	parent.mgr.destroyCallbacks[parent.ID] = callback
	parent.mgr.destroyMu.Unlock()
	return nil
}

// Parent returns the entity's parent, or nil.
func (e *Entity) Parent() *Entity {
	e.relMu.Lock()
	defer e.relMu.Unlock()
	return e.parent
}

// AddComponent delegates to the owning manager.
func (e *Entity) AddComponent(c Component) error { return e.mgr.AddComponent(e.ID, c) }

// RemoveComponent delegates to the owning manager.
func (e *Entity) RemoveComponent(c Component) error { return e.mgr.RemoveComponent(e.ID, c) }

// EnqueueAddComponent delegates to the owning manager.
func (e *Entity) EnqueueAddComponent(c Component) error { return e.mgr.EnqueueAddComponent(e.ID, c) }

// EnqueueRemoveComponent delegates to the owning manager.
func (e *Entity) EnqueueRemoveComponent(c Component) error {
	return e.mgr.EnqueueRemoveComponent(e.ID, c)
}

// ComponentsAsString returns a sorted, bracketed list of the entity's
// component type names, for diagnostics.
func (e *Entity) ComponentsAsString() string {
	comps, err := e.mgr.Components(e.ID)
	if err != nil || len(comps) == 0 {
		return "[]"
	}
	names := make([]string, 0, len(comps))
	for _, c := range comps {
		name := c.Type().String()
		name = strings.TrimPrefix(name, "*")
		parts := strings.Split(name, ".")
		names = append(names, parts[len(parts)-1])
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ", ") + "]"
}
