package jsrt

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dop251/goja"
)

const defaultFont = "10px sans-serif"

// Canvas backs the offscreen canvas polyfill. It only tracks the canvases
// created by scripts, drawing operations are accepted and ignored.
type Canvas struct {
	mu       sync.Mutex
	live     int
	released bool
}

func newCanvas() *Canvas {
	return &Canvas{}
}

func (c *Canvas) register(vm *goja.Runtime) error {
	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		return c.construct(vm, call)
	})

	if err := vm.Set("OffscreenCanvas", ctor); err != nil {
		return err
	}

	return nativeNamespace(vm).Set("Canvas", ctor)
}

func (c *Canvas) construct(vm *goja.Runtime, call goja.ConstructorCall) *goja.Object {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		panic(vm.NewTypeError("canvas polyfill has been released"))
	}

	c.live++
	c.mu.Unlock()

	canvas := call.This
	_ = canvas.Set("width", call.Argument(0).ToInteger())
	_ = canvas.Set("height", call.Argument(1).ToInteger())

	var context2d *goja.Object

	_ = canvas.Set("getContext", func(kind string) goja.Value {
		if kind != "2d" {
			return goja.Null()
		}

		if context2d == nil {
			context2d = newContext2D(vm, canvas)
		}

		return context2d
	})

	return nil
}

func newContext2D(vm *goja.Runtime, canvas *goja.Object) *goja.Object {
	ctx := vm.NewObject()

	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }

	_ = setAll(ctx, map[string]any{
		"canvas":       canvas,
		"font":         defaultFont,
		"fillStyle":    "#000000",
		"strokeStyle":  "#000000",
		"textAlign":    "start",
		"textBaseline": "alphabetic",

		"fillRect":   noop,
		"clearRect":  noop,
		"strokeRect": noop,
		"fillText":   noop,
		"strokeText": noop,
		"drawImage":  noop,
		"beginPath":  noop,
		"closePath":  noop,
		"moveTo":     noop,
		"lineTo":     noop,
		"arc":        noop,
		"fill":       noop,
		"stroke":     noop,
		"save":       noop,
		"restore":    noop,
		"scale":      noop,
		"translate":  noop,
		"rotate":     noop,
	})

	_ = ctx.Set("measureText", func(text string) goja.Value {
		metrics := vm.NewObject()
		size := fontSize(ctx.Get("font").String())
		_ = metrics.Set("width", float64(utf8.RuneCountInString(text))*size*0.6)
		return metrics
	})

	return ctx
}

// fontSize extracts the pixel size from a css font shorthand.
func fontSize(font string) float64 {
	for _, part := range strings.Fields(font) {
		if value, ok := strings.CutSuffix(part, "px"); ok {
			if size, err := strconv.ParseFloat(value, 64); err == nil {
				return size
			}
		}
	}

	return 10
}

// Live returns the number of canvases created since the session started.
func (c *Canvas) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.live
}

func (c *Canvas) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.released = true
	c.live = 0
}
