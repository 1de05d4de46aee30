package scheduler

import (
	"fmt"
	"sync"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
	"github.com/YamadaSeigo/Sector3X-sub002/service"
)

// Level is one independently-schedulable slice of the world: its own
// entity manager plus an ordered list of Systems. Main levels run
// concurrently with every other Main level on the Executor; Sub levels
// always run after all Main levels finish, one at a time on the calling
// goroutine, so a Sub level may safely assume the frame's Main-level
// structural mutations have already landed.
type Level struct {
	Name    string
	Sub     bool
	Manager *ecs.EntityManager
	Systems []System

	batches [][]System
}

// NewLevel constructs a Level and precomputes its system conflict batches.
func NewLevel(name string, mgr *ecs.EntityManager, sub bool, systems ...System) *Level {
	return &Level{
		Name:    name,
		Sub:     sub,
		Manager: mgr,
		Systems: systems,
		batches: buildBatches(systems),
	}
}

// update runs every system batch in order, each batch's members
// concurrently via exec and synchronized with a CountDownLatch, then
// proceeds to the next batch only once the prior one has fully settled.
func (lvl *Level) update(exec Executor, services *service.Locator, dt float64) error {
	for _, batch := range lvl.batches {
		if len(batch) == 0 {
			continue
		}
		latch := NewCountDownLatch(len(batch))
		var errMu sync.Mutex
		var firstErr error
		setFirstErr := func(err error) {
			errMu.Lock()
			defer errMu.Unlock()
			if firstErr == nil {
				firstErr = err
			}
		}
		for _, sys := range batch {
			sys := sys
			ctx := &UpdateContext{Manager: lvl.Manager, Services: services, DeltaTime: dt}
			job := func() {
				defer latch.CountDown()
				defer func() {
					if r := recover(); r != nil {
						setFirstErr(fmt.Errorf("scheduler: level %q system panicked: %v", lvl.Name, r))
					}
				}()
				sys.Update(ctx)
			}
			if err := exec.Submit(job); err != nil {
				latch.CountDown()
				setFirstErr(fmt.Errorf("scheduler: level %q submit failed: %w", lvl.Name, err))
			}
		}
		latch.Wait()
		if firstErr != nil {
			return firstErr
		}
	}
	return nil
}
