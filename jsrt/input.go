package jsrt

import (
	"sync/atomic"

	"github.com/dop251/goja"
	"github.com/oliverbestmann/nativehost/glimpse"
)

type inputEvent struct {
	kind      string
	pointerID int32
	button    glimpse.MouseButton
	axis      glimpse.WheelAxis
	delta     float64
	x, y      int32
}

// Input is the native input binding. Events are posted to the loop in the
// order they arrive and delivered to the listeners scripts registered with
// _native.Input.addListener. Once the session is destroyed all methods are
// no-ops.
type Input struct {
	session *Session
	closed  atomic.Bool

	// only accessed on the loop
	listeners []goja.Value
}

func newInput(session *Session) *Input {
	return &Input{session: session}
}

func (in *Input) register(vm *goja.Runtime) error {
	input := vm.NewObject()

	err := setAll(input, map[string]any{
		"addListener": func(listener goja.Value) {
			if _, ok := goja.AssertFunction(listener); !ok {
				panic(vm.NewTypeError("addListener expects a function"))
			}

			in.listeners = append(in.listeners, listener)
		},

		"removeListener": func(listener goja.Value) {
			for idx, l := range in.listeners {
				if l.StrictEquals(listener) {
					in.listeners = append(in.listeners[:idx], in.listeners[idx+1:]...)
					return
				}
			}
		},
	})

	if err != nil {
		return err
	}

	return nativeNamespace(vm).Set("Input", input)
}

func (in *Input) MouseDown(button glimpse.MouseButton, x, y int32) {
	in.post(inputEvent{kind: "mousedown", pointerID: glimpse.MousePointerID, button: button, x: x, y: y})
}

func (in *Input) MouseUp(button glimpse.MouseButton, x, y int32) {
	in.post(inputEvent{kind: "mouseup", pointerID: glimpse.MousePointerID, button: button, x: x, y: y})
}

func (in *Input) MouseMove(x, y int32) {
	in.post(inputEvent{kind: "mousemove", pointerID: glimpse.MousePointerID, x: x, y: y})
}

func (in *Input) MouseWheel(axis glimpse.WheelAxis, delta float64) {
	in.post(inputEvent{kind: "wheel", pointerID: glimpse.MousePointerID, axis: axis, delta: delta})
}

func (in *Input) TouchDown(id, x, y int32) {
	in.post(inputEvent{kind: "touchdown", pointerID: id, x: x, y: y})
}

func (in *Input) TouchMove(id, x, y int32) {
	in.post(inputEvent{kind: "touchmove", pointerID: id, x: x, y: y})
}

func (in *Input) TouchUp(id, x, y int32) {
	in.post(inputEvent{kind: "touchup", pointerID: id, x: x, y: y})
}

func (in *Input) close() {
	in.closed.Store(true)
}

func (in *Input) post(ev inputEvent) {
	if in.closed.Load() {
		return
	}

	in.session.post(func(vm *goja.Runtime) {
		in.deliver(vm, ev)
	})
}

func (in *Input) deliver(vm *goja.Runtime, ev inputEvent) {
	if len(in.listeners) == 0 {
		return
	}

	obj := vm.NewObject()
	_ = setAll(obj, map[string]any{
		"type":      ev.kind,
		"pointerId": ev.pointerID,
		"button":    int(ev.button),
		"axis":      int(ev.axis),
		"delta":     ev.delta,
		"x":         ev.x,
		"y":         ev.y,
	})

	for _, listener := range append([]goja.Value(nil), in.listeners...) {
		fn, _ := goja.AssertFunction(listener)
		if _, err := fn(goja.Undefined(), obj); err != nil {
			reportException(in.session.opts.Log, "input listener", err)
		}
	}
}
