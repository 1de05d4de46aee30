package timing

import (
	"testing"
	"time"
)

// fakeClock is a manually-advanced clock, avoiding any real sleeping or
// wall-clock flakiness in tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestTickReturnsElapsedDeltaTime(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	ft := newWithClock(clock.Now)

	clock.Advance(16 * time.Millisecond)
	dt := ft.Tick()

	want := 0.016
	if dt < want-1e-6 || dt > want+1e-6 {
		t.Fatalf("Tick() = %v, want ~%v", dt, want)
	}
}

func TestTickClampsDeltaTimeAfterAStall(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	ft := newWithClock(clock.Now)

	clock.Advance(2 * time.Second)
	dt := ft.Tick()

	if dt != MaxDeltaTime {
		t.Fatalf("Tick() = %v, want clamp to MaxDeltaTime=%v", dt, MaxDeltaTime)
	}
}

func TestTickSleepsToHitMaxFrameRate(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	// Every clock read advances 1µs, so time passes while Tick busy-waits
	// the remainder after its sleep, as it does on a real clock.
	ft := newWithClock(func() time.Time {
		clock.Advance(time.Microsecond)
		return clock.Now()
	})
	ft.SetMaxFrameRate(60)
	ft.SetSleepMargin(0)

	origSleep := sleepFunc
	defer func() { sleepFunc = origSleep }()
	var slept time.Duration
	sleepFunc = func(d time.Duration) {
		slept = d
		clock.Advance(d)
	}

	clock.Advance(1 * time.Millisecond) // far short of the 1/60s frame budget
	dt := ft.Tick()

	wantFrame := 1.0 / 60.0
	if dt < wantFrame-1e-6 {
		t.Fatalf("Tick() = %v, want at least %v (paced to max frame rate)", dt, wantFrame)
	}
	if slept <= 0 {
		t.Fatal("expected Tick to sleep when running faster than the max frame rate")
	}
}

func TestFPSSmoothsAcrossUpdateIntervals(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	ft := newWithClock(clock.Now)

	// Drive 60 ticks of 1/60s each: every FPS window closes once at least
	// 0.25s has accumulated (16 ticks), so three windows each sample ~60fps.
	for i := 0; i < 60; i++ {
		clock.Advance(time.Second / 60)
		ft.Tick()
	}

	if ft.FPS() < 55 || ft.FPS() > 65 {
		t.Fatalf("FPS() = %v, want ~60", ft.FPS())
	}
}

func TestTotalTimeTracksSinceConstruction(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	ft := newWithClock(clock.Now)

	clock.Advance(500 * time.Millisecond)
	if got := ft.TotalTime(); got < 0.499 || got > 0.501 {
		t.Fatalf("TotalTime() = %v, want ~0.5", got)
	}
}
