package jsrt

import (
	"encoding/base64"
	"errors"
	"runtime"

	"github.com/dop251/goja"
)

// registerWindow makes the global object look enough like a browser window
// for the rendering engine to start up.
func registerWindow(vm *goja.Runtime, gfx Graphics, engine *nativeEngine, userAgent string) error {
	global := vm.GlobalObject()

	navigator := vm.NewObject()
	err := setAll(navigator, map[string]any{
		"userAgent": userAgent,
		"platform":  runtime.GOOS,
		"language":  "en-US",
	})

	if err != nil {
		return err
	}

	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }

	err = setAll(global, map[string]any{
		"window":           global,
		"self":             global,
		"navigator":        navigator,
		"devicePixelRatio": 1,

		"addEventListener":    noop,
		"removeEventListener": noop,
		"dispatchEvent":       func(goja.FunctionCall) goja.Value { return vm.ToValue(true) },

		"atob": func(encoded string) string {
			decoded, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				panic(domException(vm, "InvalidCharacterError", err.Error()))
			}

			// one code unit per byte
			chars := make([]rune, len(decoded))
			for idx, b := range decoded {
				chars[idx] = rune(b)
			}

			return string(chars)
		},

		"btoa": func(value string) string {
			raw := make([]byte, 0, len(value))
			for _, char := range value {
				if char > 0xff {
					panic(domException(vm, "InvalidCharacterError", "string contains characters outside of the Latin1 range"))
				}

				raw = append(raw, byte(char))
			}

			return base64.StdEncoding.EncodeToString(raw)
		},

		"requestAnimationFrame": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(engine.requestAnimationFrame(vm, call.Argument(0)))
		},

		"cancelAnimationFrame": func(id int64) {
			engine.cancelAnimationFrame(id)
		},
	})

	if err != nil {
		return err
	}

	size := func(pick func(width, height uint32) uint32) goja.Value {
		return vm.ToValue(func() uint32 { return pick(gfx.Size()) })
	}

	err = global.DefineAccessorProperty("innerWidth",
		size(func(width, _ uint32) uint32 { return width }),
		nil, goja.FLAG_TRUE, goja.FLAG_TRUE)

	if err != nil {
		return err
	}

	return global.DefineAccessorProperty("innerHeight",
		size(func(_, height uint32) uint32 { return height }),
		nil, goja.FLAG_TRUE, goja.FLAG_TRUE)
}

// domException creates an Error object carrying the given DOMException name.
func domException(vm *goja.Runtime, name, message string) *goja.Object {
	ex := vm.NewGoError(errors.New(message))
	_ = ex.Set("name", name)
	return ex
}
