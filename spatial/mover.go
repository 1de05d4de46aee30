package spatial

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
)

// Relocator moves one entity's components from one chunk's entity manager
// to another's, preserving its current values. BudgetMover only decides
// which entities cross a cell boundary and how many to act on per frame;
// the actual component copy is left to the caller, since it's the only
// party that knows the full live component set worth carrying over.
type Relocator interface {
	Relocate(entity ecs.EntityID, from, to *ecs.EntityManager) error
}

// CellMapper derives the partition cell a world-space position falls in.
type CellMapper func(pos mgl32.Vec3) (scheme Scheme, depth uint8, code uint64)

// BudgetMover batches chunk-crossing entity moves for one Level and caps
// how many it actually relocates per Drain call, so a frame with many
// simultaneous crossings (e.g. a crowd sweeping over a cell boundary)
// never stalls waiting to migrate all of them at once. Satisfies
// physics.ChunkMover by structural typing (ReportMove(ecs.EntityID,
// mgl32.Vec3)); this package never imports physics.
type BudgetMover struct {
	Level     *Level
	Mapper    CellMapper
	Relocator Relocator
	Budget    int

	mu      sync.Mutex
	current map[ecs.EntityID]cellKey
	pending []ecs.EntityID
	target  map[ecs.EntityID]cellKey
	queued  map[ecs.EntityID]bool
}

// NewBudgetMover constructs a BudgetMover. budget must be positive; it
// bounds how many crossings Drain relocates per call.
func NewBudgetMover(level *Level, mapper CellMapper, relocator Relocator, budget int) *BudgetMover {
	return &BudgetMover{
		Level:     level,
		Mapper:    mapper,
		Relocator: relocator,
		Budget:    budget,
		current:   make(map[ecs.EntityID]cellKey),
		target:    make(map[ecs.EntityID]cellKey),
		queued:    make(map[ecs.EntityID]bool),
	}
}

// ReportMove records pos as entity's render position this frame. If that
// puts entity in a different cell than the last one BudgetMover placed it
// in, the crossing is queued for Drain; a second report before Drain runs
// just updates the queued target cell, it doesn't queue twice.
func (m *BudgetMover) ReportMove(entity ecs.EntityID, pos mgl32.Vec3) {
	scheme, depth, code := m.Mapper(pos)
	newCell := cellKey{scheme, depth, code}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.current[entity]; !ok {
		// First sighting: trust the entity is already filed correctly.
		m.current[entity] = newCell
		return
	} else if old == newCell {
		return
	}

	m.target[entity] = newCell
	if !m.queued[entity] {
		m.queued[entity] = true
		m.pending = append(m.pending, entity)
	}
}

// Drain relocates up to Budget queued crossings, oldest-reported first,
// and returns how many it actually moved. Anything left over stays queued
// for the next Drain call.
func (m *BudgetMover) Drain() int {
	m.mu.Lock()
	n := len(m.pending)
	if n > m.Budget {
		n = m.Budget
	}
	batch := m.pending[:n]
	m.pending = m.pending[n:]
	targets := make(map[ecs.EntityID]cellKey, n)
	oldCells := make(map[ecs.EntityID]cellKey, n)
	for _, e := range batch {
		targets[e] = m.target[e]
		oldCells[e] = m.current[e]
		delete(m.target, e)
		delete(m.queued, e)
	}
	m.mu.Unlock()

	moved := 0
	for _, e := range batch {
		oldCell := oldCells[e]
		newCell := targets[e]

		fromChunk, ok := m.Level.Chunk(oldCell.scheme, oldCell.depth, oldCell.code)
		if !ok {
			continue
		}
		toChunk, err := m.Level.EnsureChunk(newCell.scheme, newCell.depth, newCell.code)
		if err != nil {
			continue
		}
		if err := m.Relocator.Relocate(e, fromChunk.EntityManager(), toChunk.EntityManager()); err != nil {
			continue
		}

		m.mu.Lock()
		m.current[e] = newCell
		m.mu.Unlock()
		moved++
	}
	return moved
}

// Pending returns the number of crossings currently queued but not yet
// drained.
func (m *BudgetMover) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
