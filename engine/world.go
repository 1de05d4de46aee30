package engine

import (
	"github.com/YamadaSeigo/Sector3X-sub002/physics"
	"github.com/YamadaSeigo/Sector3X-sub002/render"
	"github.com/YamadaSeigo/Sector3X-sub002/scheduler"
	"github.com/YamadaSeigo/Sector3X-sub002/service"
	"github.com/YamadaSeigo/Sector3X-sub002/spatial"
	"github.com/YamadaSeigo/Sector3X-sub002/telemetry"
)

// World is the engine's composition root: the service locator, the
// scheduler that drives levels and systems, the spatial partition those
// levels are built from, the render graph, the physics coupling, the
// telemetry bus, and whichever platform backends were supplied at
// construction. This is distinct from scheduler.World (the system
// dispatcher for one frame) and spatial.World (the level/chunk
// container); this World composes both plus everything process-level
// around them.
type World struct {
	Services *service.Locator
	Scheduler *scheduler.World
	Spatial   *spatial.World
	Graph     *render.Graph
	Physics   *physics.Service
	Telemetry *telemetry.Bus

	Graphics GraphicsBackend
	Audio    AudioBackend
	Input    InputBackend
}

// New constructs a World. physicsSvc and graphicsBackend may be nil if this
// process doesn't drive physics or rendering (e.g. a headless server build);
// a nil graphicsBackend leaves Graph nil.
func New(services *service.Locator, exec scheduler.Executor, graphicsBackend GraphicsBackend, audio AudioBackend, input InputBackend, physicsSvc *physics.Service) *World {
	w := &World{
		Services:  services,
		Scheduler: scheduler.NewWorld(services, exec),
		Spatial:   spatial.NewWorld(),
		Physics:   physicsSvc,
		Telemetry: telemetry.NewBus(),
		Graphics:  graphicsBackend,
		Audio:     audio,
		Input:     input,
	}
	if graphicsBackend != nil {
		w.Graph = render.NewGraph(graphicsBackend)
	}
	if physicsSvc != nil {
		service.RegisterDynamic(services, physicsSvc)
	}
	return w
}

// AddLevel appends lvl to the scheduler's level list. Callers building a
// level from a spatial.Chunk construct lvl with that chunk's own entity
// manager (scheduler.NewLevel(name, chunk.EntityManager(), sub, systems...)),
// so "systems iterate over the chunks of the levels they are scheduled
// on" without scheduler needing to know about spatial chunks at all.
func (w *World) AddLevel(lvl *scheduler.Level) {
	w.Scheduler.Levels = append(w.Scheduler.Levels, lvl)
}

// Update advances one frame's simulation: the scheduler runs every
// registered service's PreUpdate/Update (physics among them, if
// registered), then every Main level concurrently, then every Sub level
// serially.
func (w *World) Update(dt float64) error {
	return w.Scheduler.UpdateAllLevels(dt)
}

// Draw flushes the render graph's passes to the graphics backend and
// drains the backend's own deferred deletes (distinct from any
// render.ResourceManager's, which Graph.Execute already drives). A nil
// Graph (headless build) makes Draw a no-op.
func (w *World) Draw() {
	if w.Graph == nil {
		return
	}
	w.Graph.Execute()
	if w.Graphics != nil {
		w.Graphics.ProcessDeferredDeletes(w.Graph.CurrentFrame())
	}
}

// PublishTelemetry records this frame's pacing counters onto the
// telemetry bus. Call once per frame after Draw; safe to skip entirely
// in a release build.
func (w *World) PublishTelemetry(frameTimeMS float32, status string) {
	w.Telemetry.Publish(telemetry.Snapshot{
		Counters: telemetry.Counters{
			FrameTimeMS:  frameTimeMS,
			StatusString: status,
		},
	})
}
