/*
Package ecs provides the archetype-based entity store at the core of the
engine: generational entity handles, a global component type registry,
fixed-capacity SoA chunks, and mask-driven queries over them.

Entities with an identical component mask share one Archetype. Each
Archetype owns an ordered list of Chunks; a Chunk is a capacity-bounded
Structure-of-Arrays buffer, one column per component plus a parallel
entity-id column, sized so every column fits inside the configured chunk
byte budget (see Config.ChunkByteSize).

Basic usage:

	position := ecs.RegisterComponent[Position]()
	velocity := ecs.RegisterComponent[Velocity]()

	mgr, _ := ecs.NewEntityManager(ecs.DefaultConfig())
	ids, _ := mgr.CreateEntities(100, position, velocity)

	query := ecs.NewQuery().And(position, velocity)
	cursor := ecs.NewCursor(query, mgr)
	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

ecs is the innermost layer of the engine core; the scheduler, render, and
physics packages all iterate entities through it.
*/
package ecs
