package ecs

// entityOperation is a structural mutation deferred because it was
// requested while a cursor held the manager's shared lock for iteration.
type entityOperation interface {
	apply(*EntityManager) error
}

// operationQueue buffers entityOperations raised during iteration and
// replays them once the last cursor finishes: mutation requests made
// mid-iteration cannot safely reshape the chunk being walked.
type operationQueue struct {
	ops []entityOperation
}

func newOperationQueue() *operationQueue {
	return &operationQueue{}
}

func (q *operationQueue) enqueue(op entityOperation) {
	q.ops = append(q.ops, op)
}

// processAll drains and applies every queued operation in order. Errors
// are swallowed per-operation rather than aborting the whole batch, since
// a single stale handle in the batch should not drop the rest.
func (q *operationQueue) processAll(mgr *EntityManager) {
	ops := q.ops
	q.ops = nil
	for _, op := range ops {
		_ = op.apply(mgr)
	}
}

type createEntitiesOp struct {
	count      int
	components []Component
}

func (op createEntitiesOp) apply(mgr *EntityManager) error {
	_, err := mgr.createEntities(op.count, op.components)
	return err
}

type destroyEntityOp struct {
	id EntityID
}

func (op destroyEntityOp) apply(mgr *EntityManager) error {
	return mgr.destroyEntity(op.id)
}

type addComponentOp struct {
	id        EntityID
	component Component
}

func (op addComponentOp) apply(mgr *EntityManager) error {
	return mgr.moveComponent(op.id, op.component, true)
}

type removeComponentOp struct {
	id        EntityID
	component Component
}

func (op removeComponentOp) apply(mgr *EntityManager) error {
	return mgr.moveComponent(op.id, op.component, false)
}
