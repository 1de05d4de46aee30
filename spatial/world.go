package spatial

import (
	"sync"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
)

// LevelType distinguishes the level vectors a World keeps, e.g. an
// overworld streaming volume versus an always-resident UI level. It's an
// opaque tag the caller defines; World only uses it to bucket Levels.
type LevelType uint32

// World owns a tuple of level vectors, one vector per LevelType. A caller
// schedules systems over the chunks of whichever levels it cares about by
// asking for QueryChunks across that level set; composing one
// scheduler.Level per spatial.Chunk is how those chunks actually get
// dispatched by the scheduler.
type World struct {
	mu     sync.RWMutex
	byType map[LevelType][]*Level
}

// NewWorld constructs an empty World.
func NewWorld() *World {
	return &World{byType: make(map[LevelType][]*Level)}
}

// AddLevel appends lvl to the vector for t.
func (w *World) AddLevel(t LevelType, lvl *Level) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byType[t] = append(w.byType[t], lvl)
}

// Levels returns the level vector for t.
func (w *World) Levels(t LevelType) []*Level {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*Level(nil), w.byType[t]...)
}

// AllLevels returns every level across every LevelType, in no particular
// order.
func (w *World) AllLevels() []*Level {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []*Level
	for _, levels := range w.byType {
		out = append(out, levels...)
	}
	return out
}

// QueryChunks collects every archetype chunk, across every chunk's entity
// manager, of every given Level, whose archetype mask satisfies query.
// This is the multi-spatial-chunk counterpart of ecs.NewCursor, which only
// ever walks a single entity manager.
func QueryChunks(levels []*Level, query ecs.QueryNode) []*ecs.Chunk {
	var result []*ecs.Chunk
	for _, lvl := range levels {
		for _, chunk := range lvl.Chunks() {
			for _, arch := range chunk.EntityManager().Archetypes() {
				if query.Evaluate(arch) {
					result = append(result, arch.Chunks()...)
				}
			}
		}
	}
	return result
}
