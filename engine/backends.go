package engine

import "github.com/YamadaSeigo/Sector3X-sub002/render"

// GraphicsBackend is the full platform device contract: render.Backend's
// pass/draw dispatch (SetRenderTargets, ExecuteDrawInstanced) plus the
// binding and single-draw surface the render graph itself doesn't need
// but systems issuing individual draws do, plus the device's own
// deferred-delete drain (distinct from any one render.ResourceManager's:
// a device may own per-frame resources, like a swapchain backbuffer,
// that were never allocated through a ResourceManager).
type GraphicsBackend interface {
	render.Backend

	BindSRVs(slot int, handles []render.Handle)
	BindCBVs(slot int, handles []render.Handle)
	ExecuteDraw(cmd render.DrawCommand)
	ProcessDeferredDeletes(frame uint64)
}

// InputBackend is a keyboard+mouse device snapshot: a system reads it,
// never mutates it, and never blocks on it.
type InputBackend interface {
	IsKeyPressed(key int) bool
	IsKeyReleased(key int) bool
	IsKeyTrigger(key int) bool

	MouseDelta() (dx, dy float32)
	MouseWheel() float32
	MouseCaptured() bool
}
