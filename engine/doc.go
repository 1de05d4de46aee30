/*
Package engine is the top-level composition root: it wires a
scheduler.World, a spatial.World, a physics.Service, and a telemetry.Bus
together behind the collaborator interfaces a concrete platform backend
(graphics, audio, input) must satisfy, and drives them through MainLoop.
Nothing in this package knows about a specific graphics API, audio
mixer, or input device; it only knows the contracts in backends.go.
*/
package engine
