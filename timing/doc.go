/*
Package timing provides the driver thread's frame clock: a monotonic
FrameTimer that paces Tick to an optional maximum frame rate, clamps the
reported delta time against OS stalls, and tracks an EMA-smoothed FPS.
*/
package timing
