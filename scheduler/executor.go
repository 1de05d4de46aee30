/*
Package scheduler drives Levels and Systems against a frame loop: services
update first, then every Main-level update is dispatched onto a
work-stealing thread pool and synchronized with a count-down latch, then
every Sub-level update runs serially on the driver thread.
*/
package scheduler

import "github.com/panjf2000/ants/v2"

// Executor submits jobs to a worker pool. The Scheduler uses it to
// dispatch Main-level system batches; Sub-levels always run on the calling
// goroutine.
type Executor interface {
	Submit(job func()) error
	Concurrency() int
	Release()
}

// antsExecutor adapts github.com/panjf2000/ants/v2's goroutine pool to the
// Executor interface.
type antsExecutor struct {
	pool *ants.Pool
}

// NewExecutor constructs a bounded worker pool with the given concurrency.
// size <= 0 uses ants.DefaultAntsPoolSize as the pool capacity.
func NewExecutor(size int) (Executor, error) {
	opts := []ants.Option{ants.WithNonblocking(false)}
	var pool *ants.Pool
	var err error
	if size > 0 {
		pool, err = ants.NewPool(size, opts...)
	} else {
		pool, err = ants.NewPool(ants.DefaultAntsPoolSize, opts...)
	}
	if err != nil {
		return nil, err
	}
	return &antsExecutor{pool: pool}, nil
}

func (e *antsExecutor) Submit(job func()) error { return e.pool.Submit(job) }
func (e *antsExecutor) Concurrency() int        { return e.pool.Cap() }
func (e *antsExecutor) Release()                { e.pool.Release() }

// inlineExecutor runs jobs synchronously on the caller's goroutine. Sub
// levels use it so their systems always execute on the driver thread,
// after every Main level's batches have fully settled.
type inlineExecutor struct{}

func (inlineExecutor) Submit(job func()) error { job(); return nil }
func (inlineExecutor) Concurrency() int        { return 1 }
func (inlineExecutor) Release()                {}
