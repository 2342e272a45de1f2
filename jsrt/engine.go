package jsrt

import (
	"strconv"
	"time"

	"github.com/dop251/goja"
)

type animationFrame struct {
	id       int64
	callback goja.Callable
}

// nativeEngine exposes the graphics session to the rendering engine
// scripts. Its state is only accessed on the loop.
type nativeEngine struct {
	gfx   Graphics
	log   LogFunc
	start time.Time

	nextID  int64
	pending []animationFrame
}

func newNativeEngine(gfx Graphics, log LogFunc) *nativeEngine {
	return &nativeEngine{gfx: gfx, log: log, start: time.Now()}
}

func (e *nativeEngine) register(vm *goja.Runtime) error {
	engine := vm.NewObject()

	err := setAll(engine, map[string]any{
		"getRenderWidth": func() uint32 {
			width, _ := e.gfx.Size()
			return width
		},

		"getRenderHeight": func() uint32 {
			_, height := e.gfx.Size()
			return height
		},

		"setClearColor": func(r, g, b, a float64) {
			e.gfx.SetClearColor(float32(r), float32(g), float32(b), float32(a))
		},

		"requestAnimationFrame": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(e.requestAnimationFrame(vm, call.Argument(0)))
		},

		"cancelAnimationFrame": func(id int64) {
			e.cancelAnimationFrame(id)
		},
	})

	if err != nil {
		return err
	}

	return nativeNamespace(vm).Set("Engine", engine)
}

func (e *nativeEngine) requestAnimationFrame(vm *goja.Runtime, value goja.Value) int64 {
	callback, ok := goja.AssertFunction(value)
	if !ok {
		panic(vm.NewTypeError("requestAnimationFrame expects a function"))
	}

	e.nextID++
	e.pending = append(e.pending, animationFrame{id: e.nextID, callback: callback})

	return e.nextID
}

func (e *nativeEngine) cancelAnimationFrame(id int64) {
	for idx, frame := range e.pending {
		if frame.id == id {
			e.pending = append(e.pending[:idx], e.pending[idx+1:]...)
			return
		}
	}
}

// runAnimationFrame invokes the callbacks requested before this frame.
// Callbacks requested while running are deferred to the next frame.
func (e *nativeEngine) runAnimationFrame(vm *goja.Runtime) {
	frames := e.pending
	e.pending = nil

	timestamp := vm.ToValue(float64(time.Since(e.start).Microseconds()) / 1000)

	for _, frame := range frames {
		if _, err := frame.callback(goja.Undefined(), timestamp); err != nil {
			reportException(e.log, "animation frame", err)
		}
	}
}

func registerGraphics(vm *goja.Runtime, gfx Graphics) error {
	graphics := vm.NewObject()

	getter := func(fn func() uint32) goja.Value {
		return vm.ToValue(func() uint32 { return fn() })
	}

	err := graphics.DefineAccessorProperty("width", getter(func() uint32 {
		width, _ := gfx.Size()
		return width
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	if err != nil {
		return err
	}

	err = graphics.DefineAccessorProperty("height", getter(func() uint32 {
		_, height := gfx.Size()
		return height
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	if err != nil {
		return err
	}

	return nativeNamespace(vm).Set("Graphics", graphics)
}

func registerOptimizations(vm *goja.Runtime) error {
	optimizations := vm.NewObject()

	err := setAll(optimizations, map[string]any{
		"multiplyMatrices": func(a, b, out *goja.Object) {
			multiplyMatrices(a, b, out)
		},
	})

	if err != nil {
		return err
	}

	return nativeNamespace(vm).Set("Optimizations", optimizations)
}

// multiplyMatrices multiplies two 4x4 matrices stored as flat, row major
// arrays. Works on plain arrays and typed arrays alike. out may alias a or b.
func multiplyMatrices(a, b, out *goja.Object) {
	var lhs, rhs, result [16]float64

	for idx := range 16 {
		key := strconv.Itoa(idx)
		lhs[idx] = a.Get(key).ToFloat()
		rhs[idx] = b.Get(key).ToFloat()
	}

	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += lhs[row*4+k] * rhs[k*4+col]
			}

			result[row*4+col] = sum
		}
	}

	for idx, value := range result {
		_ = out.Set(strconv.Itoa(idx), value)
	}
}

func setAll(obj *goja.Object, values map[string]any) error {
	for name, value := range values {
		if err := obj.Set(name, value); err != nil {
			return err
		}
	}

	return nil
}
