package timing

import "time"

// MaxDeltaTime is the hard ceiling Tick clamps its reported delta time to,
// so a debugger pause or an OS scheduling stall never hands the rest of
// the frame a multi-second step.
const MaxDeltaTime = 1.0 / 15.0

// FPSUpdateInterval is how often the smoothed FPS estimate is recomputed.
const FPSUpdateInterval = 0.25

// DefaultSleepMargin is how far short of the target frame boundary Tick
// wakes from sleep, leaving the remainder to a tight busy-wait loop for
// precision sleep_for can't guarantee.
const DefaultSleepMargin = 2 * time.Millisecond

// emaSmoothing is the exponential weight given to each new FPS sample
// computed over an FPSUpdateInterval window.
const emaSmoothing = 0.2

// FrameTimer is a monotonic per-frame clock. The zero value is not usable;
// construct with New.
type FrameTimer struct {
	now func() time.Time

	start time.Time
	last  time.Time

	deltaTime    float64
	maxFrameRate float64
	sleepMargin  time.Duration

	fps                    float64
	frameCount             int
	timeSinceLastFPSUpdate float64
}

// New constructs a FrameTimer started at the current time, with no
// maximum frame rate.
func New() *FrameTimer {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *FrameTimer {
	t0 := now()
	return &FrameTimer{
		now:         now,
		start:       t0,
		last:        t0,
		sleepMargin: DefaultSleepMargin,
	}
}

// Reset restarts the timer's clock and FPS accumulator without touching
// MaxFrameRate.
func (t *FrameTimer) Reset() {
	now := t.now()
	t.start = now
	t.last = now
	t.deltaTime = 0
	t.frameCount = 0
	t.fps = 0
	t.timeSinceLastFPSUpdate = 0
}

// SetMaxFrameRate caps Tick's pacing to at most fps frames per second.
// fps <= 0 disables the cap.
func (t *FrameTimer) SetMaxFrameRate(fps float64) { t.maxFrameRate = fps }

// SetSleepMargin overrides DefaultSleepMargin: how far short of the
// target frame boundary Tick sleeps before busy-waiting the remainder.
func (t *FrameTimer) SetSleepMargin(d time.Duration) { t.sleepMargin = d }

// Tick advances the timer by one frame: if a max frame rate is set, it
// sleeps (and then busy-waits the remainder) until that frame's minimum
// duration has elapsed, then returns the clamped delta time since the
// previous Tick and updates the smoothed FPS every FPSUpdateInterval
// seconds.
func (t *FrameTimer) Tick() float64 {
	now := t.now()
	frameDuration := now.Sub(t.last).Seconds()

	if t.maxFrameRate > 0 {
		minFrameTime := 1.0 / t.maxFrameRate
		if frameDuration < minFrameTime {
			sleepFor := time.Duration((minFrameTime-frameDuration)*float64(time.Second)) - t.sleepMargin
			if sleepFor > 0 {
				t.sleep(sleepFor)
			}
			for {
				now = t.now()
				frameDuration = now.Sub(t.last).Seconds()
				if frameDuration >= minFrameTime {
					break
				}
			}
		}
	}

	if frameDuration < 0 {
		frameDuration = 0
	}
	if frameDuration > MaxDeltaTime {
		frameDuration = MaxDeltaTime
	}

	t.deltaTime = frameDuration
	t.last = now

	t.frameCount++
	t.timeSinceLastFPSUpdate += frameDuration
	if t.timeSinceLastFPSUpdate >= FPSUpdateInterval {
		sample := float64(t.frameCount) / t.timeSinceLastFPSUpdate
		if t.fps == 0 {
			t.fps = sample
		} else {
			t.fps += emaSmoothing * (sample - t.fps)
		}
		t.frameCount = 0
		t.timeSinceLastFPSUpdate = 0
	}

	return t.deltaTime
}

// sleepFunc is overridden in tests to avoid real wall-clock waits.
var sleepFunc = time.Sleep

func (t *FrameTimer) sleep(d time.Duration) { sleepFunc(d) }

// DeltaTime returns the clamped delta time reported by the most recent
// Tick.
func (t *FrameTimer) DeltaTime() float64 { return t.deltaTime }

// TotalTime returns the time elapsed since construction or the last
// Reset.
func (t *FrameTimer) TotalTime() float64 { return t.now().Sub(t.start).Seconds() }

// FPS returns the current EMA-smoothed frames-per-second estimate.
func (t *FrameTimer) FPS() float64 { return t.fps }
