/*
Package telemetry is the engine's optional, debug-build-only observation
surface: a lock-free bus (one atomically swapped snapshot pointer) carrying per-frame counters (CPU
load, GPU load, frame time, a status string) and an optional tree
snapshot, plus a fixed-size RollingBuffer for keeping recent-history
sparklines of any one counter. Nothing in here affects correctness; a
release build is free to never call Publish.
*/
package telemetry
