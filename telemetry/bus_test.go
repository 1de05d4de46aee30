package telemetry

import (
	"sync"
	"testing"
)

func TestBusLatestIsZeroValueBeforeFirstPublish(t *testing.T) {
	b := NewBus()
	snap := b.Latest()
	if snap.Counters.FrameTimeMS != 0 || snap.Tree != nil {
		t.Fatalf("Latest() before Publish = %+v, want zero value", snap)
	}
}

func TestBusPublishIsVisibleToLatest(t *testing.T) {
	b := NewBus()
	b.Publish(Snapshot{Counters: Counters{FrameTimeMS: 16.6, StatusString: "ok"}})
	snap := b.Latest()
	if snap.Counters.FrameTimeMS != 16.6 || snap.Counters.StatusString != "ok" {
		t.Fatalf("Latest() = %+v, want the published snapshot", snap)
	}
}

func TestBusConcurrentPublishAndLatestDontRace(t *testing.T) {
	b := NewBus()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.Publish(Snapshot{Counters: Counters{FrameTimeMS: float32(i)}})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = b.Latest()
		}
	}()
	wg.Wait()
}
