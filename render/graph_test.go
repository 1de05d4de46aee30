package render

import "testing"

type fakeBackend struct {
	setTargetsLog []string
	executedCmds  [][]DrawCommand
}

func (b *fakeBackend) SetRenderTargets(pass *Pass) {
	b.setTargetsLog = append(b.setTargetsLog, pass.Name)
}

func (b *fakeBackend) ExecuteDrawInstanced(cmds []DrawCommand) {
	b.executedCmds = append(b.executedCmds, cmds)
}

func TestGraphExecuteRunsPassesInDeclarationOrder(t *testing.T) {
	backend := &fakeBackend{}
	g := NewGraph(backend)
	g.AddPass("shadow", nil, 0)
	g.AddPass("opaque", nil, 0)
	g.AddPass("ui", nil, 0)

	g.Execute()

	want := []string{"shadow", "opaque", "ui"}
	if len(backend.setTargetsLog) != len(want) {
		t.Fatalf("got %v, want %v", backend.setTargetsLog, want)
	}
	for i, name := range want {
		if backend.setTargetsLog[i] != name {
			t.Errorf("pass %d = %q, want %q", i, backend.setTargetsLog[i], name)
		}
	}
}

func TestGraphExecuteSweepsDeferredDeletesAfterEveryPass(t *testing.T) {
	backend := &fakeBackend{}
	g := NewGraph(backend)
	g.AddPass("opaque", nil, 0)

	var destroyed bool
	mgr := NewResourceManager(
		func(int) int { return 0 },
		func(int) { destroyed = true },
	)
	RegisterResourceManager(g, mgr)

	h, _ := mgr.Add(1)
	mgr.Release(h, 1) // eligible for destruction once the frame counter reaches 1

	g.Execute() // frame counter becomes 1
	if !destroyed {
		t.Error("resource should be destroyed once Execute's frame counter reaches its sync value")
	}
	if g.CurrentFrame() != 1 {
		t.Errorf("CurrentFrame() = %d, want 1", g.CurrentFrame())
	}
}

func TestGraphExecuteRunsCustomExecuteHook(t *testing.T) {
	backend := &fakeBackend{}
	g := NewGraph(backend)
	pass := g.AddPass("post", nil, 0)

	var ran bool
	pass.CustomExecute = func() { ran = true }

	g.Execute()
	if !ran {
		t.Error("CustomExecute hook never ran")
	}
}
