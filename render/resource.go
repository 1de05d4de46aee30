/*
Package render implements the render graph: ordered passes, a
double-buffered per-pass draw queue sorted by a 64-bit key, and a
ref-counted, generation-checked resource manager with frame-synchronized
deferred deletion.
*/
package render

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/YamadaSeigo/Sector3X-sub002/ecs"
)

// contentCacheCapacity bounds the number of distinct content keys a
// ResourceManager will track for deduplication. Resource counts in this
// engine are dense-index bounded well under this in practice; it exists
// so SimpleCache has a concrete capacity rather than growing unbounded.
const contentCacheCapacity = 1 << 20

// Handle identifies a resource slot by dense index and generation, the
// same shape as ecs.Handle: a stale handle (wrong generation, or an index
// whose slot was recycled) is detectable rather than silently aliasing a
// different resource.
type Handle struct {
	Index      uint32
	Generation uint32
}

type resourceSlot[R any] struct {
	data       R
	generation uint32
	alive      bool
	key        string
}

type deferredDestroy struct {
	index      uint32
	syncValue  uint64
}

// ResourceManager is a ref-counted pool of resources of type R, created
// from descriptors of type D. Release defers the actual destroy call
// until ProcessDeferredDeletes is told a frame counter has advanced past
// the sync value recorded at release time, so a resource still in flight
// on the GPU (or referenced by an in-flight render queue submission) is
// not destroyed out from under it.
type ResourceManager[D any, R any] struct {
	create  func(D) R
	destroy func(R)

	mu       sync.RWMutex
	slots    []resourceSlot[R]
	refCount []atomic.Uint32
	freeList []uint32

	deleteMu sync.Mutex
	deferred []deferredDestroy

	contentCache *ecs.SimpleCache[Handle]
}

// NewResourceManager constructs a manager. create builds a resource from
// a descriptor on Add; destroy releases one resource's backing state
// during ProcessDeferredDeletes.
func NewResourceManager[D any, R any](create func(D) R, destroy func(R)) *ResourceManager[D, R] {
	return &ResourceManager[D, R]{
		create:       create,
		destroy:      destroy,
		contentCache: ecs.NewSimpleCache[Handle](contentCacheCapacity),
	}
}

// contentKey derives a deduplication key from a descriptor's content.
// Descriptors in this engine are plain value types (create/destroy
// parameters, shape/texture/material descriptions), so their %#v
// representation is a faithful content hash: two descriptors with equal
// fields produce the same key regardless of which Add call built them.
func contentKey[D any](desc D) string {
	return fmt.Sprintf("%#v", desc)
}

// Add looks up desc in the content cache first. On a hit it AddRefs the
// existing slot, cancels any pending deferred delete recorded against
// it (an Add can reanimate a slot between Release and
// ProcessDeferredDeletes observing the sync value), and returns the
// existing handle with found=true. On a miss it creates a new resource,
// registers desc's key against the new handle, and returns found=false.
func (m *ResourceManager[D, R]) Add(desc D) (h Handle, found bool) {
	key := contentKey(desc)

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.contentCache.GetIndex(key); ok {
		existing := *m.contentCache.GetItem(idx)
		if m.slots[existing.Index].generation == existing.Generation && m.slots[existing.Index].alive {
			m.refCount[existing.Index].Add(1)
			m.cancelPendingDelete(existing.Index)
			return existing, true
		}
	}

	var idx uint32
	if n := len(m.freeList); n > 0 {
		idx = m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		m.slots[idx].generation++
	} else {
		idx = uint32(len(m.slots))
		m.slots = append(m.slots, resourceSlot[R]{})
		m.refCount = append(m.refCount, atomic.Uint32{})
	}

	m.slots[idx].data = m.create(desc)
	m.slots[idx].alive = true
	m.slots[idx].key = key
	m.refCount[idx].Store(1)

	h = Handle{Index: idx, Generation: m.slots[idx].generation}
	// A Register error (cache at capacity) just means this content key
	// won't be found by a later Add; the resource itself is still valid.
	_, _ = m.contentCache.Register(key, h)
	return h, false
}

// cancelPendingDelete removes any deferred delete recorded for idx. Must
// be called with m.mu held.
func (m *ResourceManager[D, R]) cancelPendingDelete(idx uint32) {
	m.deleteMu.Lock()
	defer m.deleteMu.Unlock()
	if len(m.deferred) == 0 {
		return
	}
	kept := m.deferred[:0]
	for _, d := range m.deferred {
		if d.index != idx {
			kept = append(kept, d)
		}
	}
	m.deferred = kept
}

// AddRef increments h's refcount. Callers that stash a handle beyond the
// scope that created it must AddRef to keep it alive.
func (m *ResourceManager[D, R]) AddRef(h Handle) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.isValid(h) {
		return
	}
	m.refCount[h.Index].Add(1)
}

// Release drops h's refcount by one. When it reaches zero the resource is
// queued for destruction once ProcessDeferredDeletes observes a frame
// counter >= deleteSyncValue, rather than destroyed immediately: a
// resource that just lost its last ref may still be referenced by a draw
// queue submission already handed to the backend for this frame.
func (m *ResourceManager[D, R]) Release(h Handle, deleteSyncValue uint64) {
	m.mu.RLock()
	valid := m.isValid(h)
	m.mu.RUnlock()
	if !valid {
		return
	}
	if m.refCount[h.Index].Add(^uint32(0)) == 0 {
		m.deleteMu.Lock()
		m.deferred = append(m.deferred, deferredDestroy{index: h.Index, syncValue: deleteSyncValue})
		m.deleteMu.Unlock()
	}
}

// Get returns h's resource and whether h is currently valid.
func (m *ResourceManager[D, R]) Get(h Handle) (R, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.isValid(h) {
		var zero R
		return zero, false
	}
	return m.slots[h.Index].data, true
}

// MustGet returns h's resource, panicking if h is not valid.
func (m *ResourceManager[D, R]) MustGet(h Handle) R {
	v, ok := m.Get(h)
	if !ok {
		panic(fmt.Sprintf("render: handle %+v is not valid", h))
	}
	return v
}

func (m *ResourceManager[D, R]) isValid(h Handle) bool {
	return int(h.Index) < len(m.slots) &&
		m.slots[h.Index].generation == h.Generation &&
		m.slots[h.Index].alive
}

// ProcessDeferredDeletes destroys every resource whose deferred delete was
// recorded with a sync value <= syncValue, freeing its slot for reuse.
// Single-threaded: callers must not call Add/Release concurrently with
// this call (the render graph calls it once per frame, after Execute).
func (m *ResourceManager[D, R]) ProcessDeferredDeletes(syncValue uint64) {
	m.deleteMu.Lock()
	var ready []deferredDestroy
	var pending []deferredDestroy
	for _, d := range m.deferred {
		if d.syncValue <= syncValue {
			ready = append(ready, d)
		} else {
			pending = append(pending, d)
		}
	}
	m.deferred = pending
	m.deleteMu.Unlock()

	if len(ready) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range ready {
		slot := &m.slots[d.index]
		if !slot.alive || m.refCount[d.index].Load() != 0 {
			continue
		}
		if slot.key != "" {
			m.contentCache.Remove(slot.key)
		}
		m.destroy(slot.data)
		var zero R
		slot.data = zero
		slot.alive = false
		slot.key = ""
		m.freeList = append(m.freeList, d.index)
	}
}
