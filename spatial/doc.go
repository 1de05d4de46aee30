/*
Package spatial partitions a world into cells. A Level holds one or more
Chunks (Grid2D, Grid3D, Quadtree, or Octree cells), each identified by a
ChunkKey and each owning its own *ecs.EntityManager. Systems scheduled on a
Level iterate the chunks it currently holds; BudgetMover batches
chunk-crossing entity moves across a frame so no single frame pays for an
unbounded number of reassignments.
*/
package spatial
