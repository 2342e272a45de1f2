package glimpse

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/oliverbestmann/webgpu/wgpuglfw"
)

func init() {
	// glfw must only be used from the main thread
	runtime.LockOSThread()
}

type glfwWindow struct {
	win     *glfw.Window
	handler func(Event)
}

// NewWindow creates and shows a native window without a client api, ready
// to have a webgpu surface attached. Must be called from the main thread.
func NewWindow(width, height int, title string) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{win: window}

	configureInput(window, w.emit)

	return w, nil
}

func (g *glfwWindow) emit(ev Event) {
	if g.handler != nil {
		g.handler(ev)
	}
}

func (g *glfwWindow) SetEventHandler(handler func(Event)) {
	g.handler = handler
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return extent(width), extent(height)
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) PollEvents() {
	glfw.PollEvents()
}

func (g *glfwWindow) WaitEvents() {
	glfw.WaitEvents()
}

func (g *glfwWindow) Wake() {
	glfw.PostEmptyEvent()
}

func (g *glfwWindow) Terminate() {
	g.win.Destroy()
	glfw.Terminate()
}

func configureInput(window *glfw.Window, emit func(Event)) {
	window.SetCloseCallback(func(_win *glfw.Window) {
		emit(Close{})
	})

	window.SetFramebufferSizeCallback(func(_win *glfw.Window, width, height int) {
		emit(Resize{Width: extent(width), Height: extent(height)})
	})

	window.SetIconifyCallback(func(_win *glfw.Window, iconified bool) {
		emit(Minimize{Minimized: iconified})
	})

	window.SetKeyCallback(func(_win *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		key, ok := keyOf(glfwKey)
		if !ok {
			return
		}

		emit(KeyInput{
			Key:    key,
			Down:   action != glfw.Release,
			Repeat: action == glfw.Repeat,
		})
	})

	window.SetMouseButtonCallback(func(win *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		change := buttonChangeOf(btn, action)
		if change == ButtonChangeNone {
			return
		}

		xpos, ypos := win.GetCursorPos()

		pointer := Pointer{
			ID:     MousePointerID,
			Type:   PointerMouse,
			X:      pixel(xpos),
			Y:      pixel(ypos),
			Change: change,
		}

		if action == glfw.Press {
			emit(PointerDown{pointer})
		} else {
			emit(PointerUp{pointer})
		}
	})

	window.SetCursorPosCallback(func(_win *glfw.Window, xpos float64, ypos float64) {
		emit(PointerMove{Pointer{
			ID:   MousePointerID,
			Type: PointerMouse,
			X:    pixel(xpos),
			Y:    pixel(ypos),
		}})
	})

	window.SetScrollCallback(func(_win *glfw.Window, xoff float64, yoff float64) {
		if yoff == 0 {
			return
		}

		emit(Wheel{Delta: yoff * WheelDeltaPerNotch})
	})
}

func buttonChangeOf(btn glfw.MouseButton, action glfw.Action) ButtonChange {
	down := action == glfw.Press

	switch btn {
	case glfw.MouseButtonLeft:
		return pick(down, ButtonChangeFirstDown, ButtonChangeFirstUp)
	case glfw.MouseButtonRight:
		return pick(down, ButtonChangeSecondDown, ButtonChangeSecondUp)
	case glfw.MouseButtonMiddle:
		return pick(down, ButtonChangeThirdDown, ButtonChangeThirdUp)
	default:
		return ButtonChangeNone
	}
}

func pick[T any](cond bool, ifTrue, ifFalse T) T {
	if cond {
		return ifTrue
	}

	return ifFalse
}

func keyOf(glfwKey glfw.Key) (key Key, ok bool) {
	key, ok = glfwToKey[glfwKey]
	if !ok {
		slog.Debug(
			"Unknown key code",
			slog.String("key", glfw.GetKeyName(glfwKey, 0)),
		)
	}

	return
}

var glfwToKey = map[glfw.Key]Key{
	glfw.KeyEscape:    KeyEscape,
	glfw.KeyEnter:     KeyEnter,
	glfw.KeySpace:     KeySpace,
	glfw.KeyTab:       KeyTab,
	glfw.KeyBackspace: KeyBackspace,
	glfw.KeyLeft:      KeyLeft,
	glfw.KeyRight:     KeyRight,
	glfw.KeyUp:        KeyUp,
	glfw.KeyDown:      KeyDown,
	glfw.KeyF1:        KeyF1,
	glfw.KeyF2:        KeyF2,
	glfw.KeyF3:        KeyF3,
	glfw.KeyF4:        KeyF4,
	glfw.KeyF5:        KeyF5,
	glfw.KeyF6:        KeyF6,
	glfw.KeyF7:        KeyF7,
	glfw.KeyF8:        KeyF8,
	glfw.KeyF9:        KeyF9,
	glfw.KeyF10:       KeyF10,
	glfw.KeyF11:       KeyF11,
	glfw.KeyF12:       KeyF12,
	glfw.KeyA:         KeyA,
	glfw.KeyB:         KeyB,
	glfw.KeyC:         KeyC,
	glfw.KeyD:         KeyD,
	glfw.KeyE:         KeyE,
	glfw.KeyF:         KeyF,
	glfw.KeyG:         KeyG,
	glfw.KeyH:         KeyH,
	glfw.KeyI:         KeyI,
	glfw.KeyJ:         KeyJ,
	glfw.KeyK:         KeyK,
	glfw.KeyL:         KeyL,
	glfw.KeyM:         KeyM,
	glfw.KeyN:         KeyN,
	glfw.KeyO:         KeyO,
	glfw.KeyP:         KeyP,
	glfw.KeyQ:         KeyQ,
	glfw.KeyR:         KeyR,
	glfw.KeyS:         KeyS,
	glfw.KeyT:         KeyT,
	glfw.KeyU:         KeyU,
	glfw.KeyV:         KeyV,
	glfw.KeyW:         KeyW,
	glfw.KeyX:         KeyX,
	glfw.KeyY:         KeyY,
	glfw.KeyZ:         KeyZ,
}
