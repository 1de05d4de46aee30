package engine

import "github.com/YamadaSeigo/Sector3X-sub002/render"

// AudioTicket resolves to a voice id once the audio thread has processed
// the Play command it was issued for. It reuses render.Handle's
// (index, generation) shape rather than inventing a parallel slot-table
// handle type: a ticket is exactly a generational reference into the
// backend's own voice slot table.
type AudioTicket = render.Handle

// AudioCommand is one command enqueued to an AudioBackend. Concrete
// command types implement isAudioCommand to close the set, mirroring the
// physics package's Command sum type.
type AudioCommand interface {
	isAudioCommand()
}

// LoadWavCmd loads a fully-decoded WAV asset under Name from Path.
type LoadWavCmd struct {
	Name string
	Path string
}

// LoadStreamCmd opens Path for streamed (not fully decoded) playback
// under Name.
type LoadStreamCmd struct {
	Name string
	Path string
}

// UnloadCmd releases a previously loaded asset.
type UnloadCmd struct{ Name string }

// PlayCmd starts playback of a loaded asset, returning a ticket the
// caller can later resolve to a voice id.
type PlayCmd struct {
	Name   string
	Loop   bool
	Volume float32
}

// StopCmd halts the voice a ticket resolved to.
type StopCmd struct{ Ticket AudioTicket }

// SetVolumeCmd adjusts a live voice's volume.
type SetVolumeCmd struct {
	Ticket AudioTicket
	Volume float32
}

// SetPanCmd adjusts a live voice's stereo pan.
type SetPanCmd struct {
	Ticket AudioTicket
	Pan    float32
}

// SetPitchCmd adjusts a live voice's playback pitch.
type SetPitchCmd struct {
	Ticket AudioTicket
	Pitch  float32
}

// Set3DCmd positions a live voice in 3D space for distance attenuation
// and panning.
type Set3DCmd struct {
	Ticket            AudioTicket
	X, Y, Z           float32
	VelX, VelY, VelZ  float32
}

// SetListenerCmd positions the 3D listener.
type SetListenerCmd struct {
	X, Y, Z                      float32
	ForwardX, ForwardY, ForwardZ float32
	UpX, UpY, UpZ                float32
}

// ShutdownCmd tears down the audio backend.
type ShutdownCmd struct{}

func (LoadWavCmd) isAudioCommand()     {}
func (LoadStreamCmd) isAudioCommand()  {}
func (UnloadCmd) isAudioCommand()      {}
func (PlayCmd) isAudioCommand()        {}
func (StopCmd) isAudioCommand()        {}
func (SetVolumeCmd) isAudioCommand()   {}
func (SetPanCmd) isAudioCommand()      {}
func (SetPitchCmd) isAudioCommand()    {}
func (Set3DCmd) isAudioCommand()       {}
func (SetListenerCmd) isAudioCommand() {}
func (ShutdownCmd) isAudioCommand()    {}

// AudioBackend accepts AudioCommands and resolves tickets to voice ids.
// Enqueue returns immediately with a ticket for any command that will
// eventually produce a voice (only PlayCmd does); other commands return
// the zero AudioTicket.
type AudioBackend interface {
	Enqueue(cmd AudioCommand) AudioTicket
	ResolveVoice(ticket AudioTicket) (voiceID uint32, ready bool)
}
