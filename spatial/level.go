package spatial

import (
	"sync"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
)

// Kind distinguishes a level scheduled for a full per-frame update (Main)
// from one given only a limited update, such as streaming (Sub). It mirrors
// scheduler.Level's Sub flag, by which the scheduler's World partitions
// levels before dispatch.
type Kind uint8

const (
	// Main levels receive a full system update every frame, dispatched to
	// the thread pool executor.
	Main Kind = iota
	// Sub levels receive a limited update (e.g. streaming only), run
	// serially on the calling thread after every Main level completes.
	Sub
)

// cellKey is the part of ChunkKey a Level indexes chunks by; Generation is
// carried on the Chunk itself, not the index, so bumping it doesn't move
// the chunk to a new map slot.
type cellKey struct {
	scheme Scheme
	depth  uint8
	code   uint64
}

// Level is one level of the World's level tuple: a Kind plus the set of
// Chunks currently partitioning it. Chunks are created on demand as
// entities stream into previously-empty cells.
type Level struct {
	ID   uint32
	Kind Kind

	mu     sync.RWMutex
	chunks map[cellKey]*Chunk
	cfg    ecs.Config
}

// NewLevel constructs an empty level. cfg is used to build every chunk's
// entity manager as chunks are created.
func NewLevel(id uint32, kind Kind, cfg ecs.Config) *Level {
	return &Level{ID: id, Kind: kind, chunks: make(map[cellKey]*Chunk), cfg: cfg}
}

// Chunk returns the chunk at (scheme, depth, code), if it currently
// exists.
func (l *Level) Chunk(scheme Scheme, depth uint8, code uint64) (*Chunk, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.chunks[cellKey{scheme, depth, code}]
	return c, ok
}

// EnsureChunk returns the chunk at (scheme, depth, code), creating it with
// generation 0 if it doesn't yet exist.
func (l *Level) EnsureChunk(scheme Scheme, depth uint8, code uint64) (*Chunk, error) {
	key := cellKey{scheme, depth, code}

	l.mu.RLock()
	c, ok := l.chunks[key]
	l.mu.RUnlock()
	if ok {
		return c, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.chunks[key]; ok {
		return c, nil
	}
	c, err := NewChunk(ChunkKey{LevelID: l.ID, Scheme: scheme, Depth: depth, Code: code}, l.cfg)
	if err != nil {
		return nil, err
	}
	l.chunks[key] = c
	return c, nil
}

// RemoveChunk tears down the chunk at (scheme, depth, code). Entities
// inside it are not migrated; callers must drain a chunk before removing
// it.
func (l *Level) RemoveChunk(scheme Scheme, depth uint8, code uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.chunks, cellKey{scheme, depth, code})
}

// Chunks returns a snapshot of every chunk currently held by the level.
func (l *Level) Chunks() []*Chunk {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Chunk, 0, len(l.chunks))
	for _, c := range l.chunks {
		out = append(out, c)
	}
	return out
}
