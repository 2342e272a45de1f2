package orion

import (
	"context"
	"fmt"
	"log/slog"
)

// EventPump delivers pending window events to the installed handler.
type EventPump interface {
	PollEvents()
	WaitEvents()
	Wake()
}

// FrameState is shared between the pacer and the event handlers. It is
// only accessed on the main thread.
type FrameState struct {
	Minimized   bool
	PendingQuit bool
	ExitCode    int
}

// Quit requests the pacer to stop. The first exit code wins.
func (f *FrameState) Quit(code int) {
	if f.PendingQuit {
		return
	}

	f.PendingQuit = true
	f.ExitCode = code
}

// Pacer drives frames of the active session and pumps window events
// between two frames.
type Pacer struct {
	controller *Controller
	events     EventPump
	state      *FrameState
	stats      frameStats
}

func NewPacer(controller *Controller, events EventPump, state *FrameState) *Pacer {
	return &Pacer{
		controller: controller,
		events:     events,
		state:      state,
	}
}

// Run produces frames until a quit is requested or the context is
// cancelled. Each iteration finishes the previous frame, handles pending
// events and starts the next frame, so events are never handled while a
// frame is in flight. The sessions are torn down before Run returns.
func (p *Pacer) Run(ctx context.Context) (int, error) {
	stop := context.AfterFunc(ctx, p.events.Wake)
	defer stop()

	defer p.controller.Teardown()

	for !p.state.PendingQuit {
		if ctx.Err() != nil {
			slog.Info("Interrupted, shutting down")
			return 0, nil
		}

		if err := p.finishFrame(); err != nil {
			return 1, fmt.Errorf("finish frame: %w", err)
		}

		if p.state.Minimized || !p.controller.Active() {
			// nothing to draw, sleep until something happens
			p.stats.Reset()
			p.events.WaitEvents()
			continue
		}

		p.events.PollEvents()

		if p.state.PendingQuit || p.state.Minimized {
			continue
		}

		if err := p.controller.StartFrame(); err != nil {
			return 1, fmt.Errorf("start frame: %w", err)
		}
	}

	return p.state.ExitCode, nil
}

func (p *Pacer) finishFrame() error {
	if !p.controller.InFlight() {
		return nil
	}

	p.stats.StartFinish()

	if err := p.controller.FinishFrame(); err != nil {
		return err
	}

	if p.stats.EndFinish() {
		p.stats.Log()
	}

	return nil
}
