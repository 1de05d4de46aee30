package scheduler

import (
	"errors"

	"github.com/YamadaSeigo/Sector3X-sub002/service"
)

// World composes the service locator with every Level and drives them
// through one frame at a time: services first, then Main levels
// concurrently against each other, then Sub levels in declaration order on
// the calling goroutine.
type World struct {
	Services *service.Locator
	Levels   []*Level
	Exec     Executor
}

// NewWorld constructs a World. exec is used to dispatch Main-level
// batches; pass nil to run everything inline on the calling goroutine.
func NewWorld(services *service.Locator, exec Executor, levels ...*Level) *World {
	if exec == nil {
		exec = inlineExecutor{}
	}
	return &World{Services: services, Levels: levels, Exec: exec}
}

// UpdateAllLevels runs one frame: Locator.UpdateService first, then every
// Main level concurrently (each dispatched onto Exec and synchronized with
// its own per-batch CountDownLatch), then every Sub level serially on the
// calling goroutine, in the order levels were supplied.
func (w *World) UpdateAllLevels(dt float64) error {
	w.Services.UpdateService(dt)

	var mainLevels, subLevels []*Level
	for _, lvl := range w.Levels {
		if lvl.Sub {
			subLevels = append(subLevels, lvl)
		} else {
			mainLevels = append(mainLevels, lvl)
		}
	}

	if err := w.updateMainLevels(mainLevels, dt); err != nil {
		return err
	}
	for _, lvl := range subLevels {
		if err := lvl.update(inlineExecutor{}, w.Services, dt); err != nil {
			return err
		}
	}
	return nil
}

// updateMainLevels drives every Main level's update concurrently. Level
// coordination runs on plain goroutines (cheap, unbounded); the bounded
// Exec pool is reserved for the per-level system batches themselves, so a
// level's own goroutine never recursively occupies an Exec worker it is
// also waiting on.
func (w *World) updateMainLevels(levels []*Level, dt float64) error {
	if len(levels) == 0 {
		return nil
	}
	latch := NewCountDownLatch(len(levels))
	errs := make([]error, len(levels))
	for i, lvl := range levels {
		i, lvl := i, lvl
		go func() {
			defer latch.CountDown()
			errs[i] = lvl.update(w.Exec, w.Services, dt)
		}()
	}
	latch.Wait()
	return errors.Join(errs...)
}
