package render

const drawQueueBufferCount = 2

// DrawCommand is one instanced draw submission, carrying the resource
// handles (mesh/material/pso) and per-instance transform a backend needs
// to issue it.
type DrawCommand struct {
	SortKey  uint64
	Mesh     Handle
	Material Handle
	PSO      Handle
	World    [16]float32
}

// MakeSortKey packs pso, material, and mesh indices into one 64-bit key so
// sorting draw commands by key groups them by PSO first, then material,
// then mesh, minimizing state changes during submission.
func MakeSortKey(psoIndex, materialIndex, meshIndex uint32) uint64 {
	return uint64(psoIndex)<<40 | uint64(materialIndex)<<20 | uint64(meshIndex)
}

// DrawQueue is a double-buffered draw command queue: producers Push into
// the current buffer from any number of goroutines across the frame,
// and a single consumer calls Submit once per frame to swap buffers and
// drain the one just closed off, sorted by SortKey.
//
// No library in the retrieval pack offers a lock-free MPSC queue (the
// original uses moodycamel::ConcurrentQueue, which has no Go
// equivalent among the pack's dependencies), so Push is backed by a
// mutex-guarded slice per buffer rather than a genuinely lock-free
// structure; the double-buffering still gives producers and the drain
// non-overlapping critical sections across a frame boundary.
type DrawQueue struct {
	buffers [drawQueueBufferCount]bufferedQueue
	current int
}

type bufferedQueue struct {
	mu   chan struct{} // 1-buffered channel used as a cheap mutex
	cmds []DrawCommand
}

func newBufferedQueue() bufferedQueue {
	mu := make(chan struct{}, 1)
	mu <- struct{}{}
	return bufferedQueue{mu: mu}
}

func (b *bufferedQueue) push(cmd DrawCommand) {
	<-b.mu
	b.cmds = append(b.cmds, cmd)
	b.mu <- struct{}{}
}

func (b *bufferedQueue) drain() []DrawCommand {
	<-b.mu
	cmds := b.cmds
	b.cmds = nil
	b.mu <- struct{}{}
	return cmds
}

// NewDrawQueue constructs an empty, ready-to-use DrawQueue.
func NewDrawQueue() *DrawQueue {
	q := &DrawQueue{}
	for i := range q.buffers {
		q.buffers[i] = newBufferedQueue()
	}
	return q
}

// Push enqueues cmd into the currently-open buffer. Safe for concurrent
// use by multiple producer goroutines.
func (q *DrawQueue) Push(cmd DrawCommand) {
	q.buffers[q.current].push(cmd)
}

// Submit closes the current buffer, advances to the next one, and
// returns every command drained from the one just closed, sorted by
// SortKey. Must be called by a single consumer (the render graph, once
// per pass per frame); concurrent Submit calls race on q.current.
func (q *DrawQueue) Submit() []DrawCommand {
	idx := q.current
	q.current = (q.current + 1) % drawQueueBufferCount
	cmds := q.buffers[idx].drain()
	sortDrawCommands(cmds)
	return cmds
}
