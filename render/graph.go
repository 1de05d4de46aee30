package render

import "fmt"

// Backend is the graphics device abstraction a RenderGraph drives: set
// the active render targets for a pass, execute its sorted draw commands
// (with the opportunity to batch same-(pso,material,mesh) commands into
// instanced draws). Advancing the frame counter and sweeping deferred
// resource deletes is done by Graph.Execute, not by the Backend.
type Backend interface {
	SetRenderTargets(pass *Pass)
	ExecuteDrawInstanced(cmds []DrawCommand)
}

// Pass is one ordered step of a frame: a named render target set plus its
// own draw queue. Passes execute strictly in the order they were added to
// the Graph.
type Pass struct {
	Name  string
	RTVs  []uint32
	DSV   uint32
	Queue *DrawQueue

	CustomExecute func() // e.g. a fullscreen quad blit with no draw commands
}

// Graph orders a frame's render passes and owns the frame counter that
// deferred resource destruction is synchronized against.
type Graph struct {
	backend      Backend
	passes       []*Pass
	passIndex    map[string]int
	currentFrame uint64

	deferredDeleters []func(syncValue uint64)
}

// NewGraph constructs a Graph driving backend.
func NewGraph(backend Backend) *Graph {
	return &Graph{backend: backend, passIndex: make(map[string]int)}
}

// AddPass appends a new named pass with its own draw queue. Pass order is
// insertion order.
func (g *Graph) AddPass(name string, rtvs []uint32, dsv uint32) *Pass {
	pass := &Pass{Name: name, RTVs: rtvs, DSV: dsv, Queue: NewDrawQueue()}
	g.passIndex[name] = len(g.passes)
	g.passes = append(g.passes, pass)
	return pass
}

// Pass returns the named pass, or an error if it was never added.
func (g *Graph) Pass(name string) (*Pass, error) {
	idx, ok := g.passIndex[name]
	if !ok {
		return nil, fmt.Errorf("render: no pass named %q", name)
	}
	return g.passes[idx], nil
}

// RegisterResourceManager hooks a ResourceManager's ProcessDeferredDeletes
// into the Graph's frame-advance call, so Execute's deferred-delete sweep
// covers every resource kind a backend's managers create.
func RegisterResourceManager[D any, R any](g *Graph, mgr *ResourceManager[D, R]) {
	g.deferredDeleters = append(g.deferredDeleters, mgr.ProcessDeferredDeletes)
}

// Execute runs every pass in declaration order: set its render targets,
// submit its draw queue (swap buffers, drain and sort the closed one),
// hand the sorted commands to the backend, then run any CustomExecute
// hook. After every pass has run, the frame counter is advanced and every
// registered resource manager's deferred deletes are processed against
// it.
func (g *Graph) Execute() {
	for _, pass := range g.passes {
		g.backend.SetRenderTargets(pass)
		cmds := pass.Queue.Submit()
		g.backend.ExecuteDrawInstanced(cmds)
		if pass.CustomExecute != nil {
			pass.CustomExecute()
		}
	}
	g.currentFrame++
	for _, sweep := range g.deferredDeleters {
		sweep(g.currentFrame)
	}
}

// CurrentFrame returns the frame counter deferred deletes are
// synchronized against.
func (g *Graph) CurrentFrame() uint64 {
	return g.currentFrame
}
