package engine

import "github.com/YamadaSeigo/Sector3X-sub002/render"

// fakeGraphicsBackend records calls instead of touching a real GPU
// device, enough to exercise World.Draw's flush-then-deferred-delete
// sequencing.
type fakeGraphicsBackend struct {
	setTargets       int
	executedInstanced int
	deferredFrames   []uint64
}

func (b *fakeGraphicsBackend) SetRenderTargets(pass *render.Pass)          { b.setTargets++ }
func (b *fakeGraphicsBackend) ExecuteDrawInstanced(cmds []render.DrawCommand) {
	b.executedInstanced++
}
func (b *fakeGraphicsBackend) BindSRVs(slot int, handles []render.Handle) {}
func (b *fakeGraphicsBackend) BindCBVs(slot int, handles []render.Handle) {}
func (b *fakeGraphicsBackend) ExecuteDraw(cmd render.DrawCommand)         {}
func (b *fakeGraphicsBackend) ProcessDeferredDeletes(frame uint64) {
	b.deferredFrames = append(b.deferredFrames, frame)
}

// fakeAudioBackend hands out sequential tickets without ever resolving
// them to a voice id, enough to exercise the command/ticket contract
// shape.
type fakeAudioBackend struct {
	commands []AudioCommand
	nextIdx  uint32
}

func (b *fakeAudioBackend) Enqueue(cmd AudioCommand) AudioTicket {
	b.commands = append(b.commands, cmd)
	if _, ok := cmd.(PlayCmd); !ok {
		return AudioTicket{}
	}
	t := AudioTicket{Index: b.nextIdx, Generation: 1}
	b.nextIdx++
	return t
}

func (b *fakeAudioBackend) ResolveVoice(ticket AudioTicket) (uint32, bool) { return 0, false }

// fakeInputBackend reports nothing pressed and a still mouse.
type fakeInputBackend struct{}

func (fakeInputBackend) IsKeyPressed(key int) bool  { return false }
func (fakeInputBackend) IsKeyReleased(key int) bool { return false }
func (fakeInputBackend) IsKeyTrigger(key int) bool  { return false }
func (fakeInputBackend) MouseDelta() (float32, float32) { return 0, 0 }
func (fakeInputBackend) MouseWheel() float32        { return 0 }
func (fakeInputBackend) MouseCaptured() bool        { return false }
