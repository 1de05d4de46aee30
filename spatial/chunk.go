package spatial

import "github.com/YamadaSeigo/Sector3X-sub002/ecs"

// Chunk is one partition cell: a key plus its own entity manager. Every
// entity inside a Chunk lives in that Chunk's archetype storage, not a
// level-wide one, so a system scoped to a handful of nearby chunks never
// walks entities outside them.
type Chunk struct {
	key     ChunkKey
	manager *ecs.EntityManager
}

// NewChunk constructs a Chunk keyed by key, with its own entity manager
// built from cfg.
func NewChunk(key ChunkKey, cfg ecs.Config) (*Chunk, error) {
	mgr, err := ecs.NewEntityManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Chunk{key: key, manager: mgr}, nil
}

// Key returns the chunk's current key, including its current generation.
func (c *Chunk) Key() ChunkKey { return c.key }

// EntityManager returns the chunk's entity manager.
func (c *Chunk) EntityManager() *ecs.EntityManager { return c.manager }

// BumpGeneration increments the chunk's generation, invalidating any key
// captured before this call.
func (c *Chunk) BumpGeneration() { c.key.Generation++ }
