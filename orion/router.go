package orion

import (
	"log/slog"

	"github.com/oliverbestmann/nativehost/glimpse"
)

type pointerPhase int

const (
	phaseDown pointerPhase = iota
	phaseMove
	phaseUp
)

// Router classifies window events and forwards them to the controller or
// to the input binding of the active session. Input arriving while no
// session is active is dropped.
type Router struct {
	controller *Controller
	window     Surface
	state      *FrameState
	reloadKey  glimpse.Key
}

func NewRouter(controller *Controller, window Surface, state *FrameState, reloadKey glimpse.Key) *Router {
	return &Router{
		controller: controller,
		window:     window,
		state:      state,
		reloadKey:  reloadKey,
	}
}

func (r *Router) Dispatch(ev glimpse.Event) {
	switch ev := ev.(type) {
	case glimpse.Resize:
		if err := r.controller.Resize(ev.Width, ev.Height); err != nil {
			slog.Debug("Ignoring resize", slog.String("error", err.Error()))
		}

	case glimpse.Minimize:
		r.state.Minimized = ev.Minimized

	case glimpse.PointerDown:
		r.pointer(ev.Pointer, phaseDown)

	case glimpse.PointerMove:
		r.pointer(ev.Pointer, phaseMove)

	case glimpse.PointerUp:
		r.pointer(ev.Pointer, phaseUp)

	case glimpse.Wheel:
		if input := r.controller.Input(); input != nil {
			input.MouseWheel(glimpse.WheelY, -ev.Delta)
		}

	case glimpse.KeyInput:
		if ev.Key == r.reloadKey && ev.Down && !ev.Repeat {
			r.reload()
		}

	case glimpse.Close:
		r.controller.Teardown()
		r.state.Quit(0)
	}
}

func (r *Router) reload() {
	slog.Info("Reloading")

	if err := r.controller.Reinitialize(r.window); err != nil {
		slog.Error("Reload failed", slog.String("error", err.Error()))
	}
}

func (r *Router) pointer(pointer glimpse.Pointer, phase pointerPhase) {
	input := r.controller.Input()
	if input == nil {
		return
	}

	switch pointer.Type {
	case glimpse.PointerMouse:
		mouseButtons(input, pointer)

		if phase == phaseMove {
			input.MouseMove(pointer.X, pointer.Y)
		}

	case glimpse.PointerTouch, glimpse.PointerPen:
		switch phase {
		case phaseDown:
			input.TouchDown(pointer.ID, pointer.X, pointer.Y)
		case phaseMove:
			input.TouchMove(pointer.ID, pointer.X, pointer.Y)
		case phaseUp:
			input.TouchUp(pointer.ID, pointer.X, pointer.Y)
		}
	}
}

// mouseButtons forwards the button transition carried by a mouse pointer event.
func mouseButtons(input InputBinding, pointer glimpse.Pointer) {
	x, y := pointer.X, pointer.Y

	switch pointer.Change {
	case glimpse.ButtonChangeFirstDown:
		input.MouseDown(glimpse.MouseButtonLeft, x, y)
	case glimpse.ButtonChangeFirstUp:
		input.MouseUp(glimpse.MouseButtonLeft, x, y)
	case glimpse.ButtonChangeSecondDown:
		input.MouseDown(glimpse.MouseButtonRight, x, y)
	case glimpse.ButtonChangeSecondUp:
		input.MouseUp(glimpse.MouseButtonRight, x, y)
	case glimpse.ButtonChangeThirdDown:
		input.MouseDown(glimpse.MouseButtonMiddle, x, y)
	case glimpse.ButtonChangeThirdUp:
		input.MouseUp(glimpse.MouseButtonMiddle, x, y)
	}
}
