package engine

import "github.com/YamadaSeigo/Sector3X-sub002/timing"

// MainLoop drives w one frame at a time using timer for pacing, until
// quit returns true. Each iteration: advance the frame timer, update
// every level and service, flush the render graph, and publish this
// frame's telemetry. Errors from World.Update are fatal to the loop (a
// system panicked or a level's executor submission failed); MainLoop
// returns immediately rather than continuing on inconsistent state.
func MainLoop(timer *timing.FrameTimer, w *World, quit func() bool) error {
	for !quit() {
		dt := timer.Tick()

		if err := w.Update(dt); err != nil {
			return err
		}
		w.Draw()
		w.PublishTelemetry(float32(timer.DeltaTime()*1000), "running")
	}
	return nil
}
