package glimpse

import "github.com/oliverbestmann/webgpu/wgpu"

type Window interface {
	// GetSize returns the size of the drawable area in pixels.
	GetSize() (uint32, uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// SetEventHandler installs the function receiving translated events.
	// Events are delivered synchronously from PollEvents and WaitEvents.
	SetEventHandler(handler func(Event))

	// PollEvents processes pending events and returns immediately.
	PollEvents()

	// WaitEvents blocks until at least one event was processed.
	WaitEvents()

	// Wake unblocks a pending WaitEvents. Safe to call from any goroutine.
	Wake()

	Terminate()
}
