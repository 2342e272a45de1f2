package orion

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/nativehost/glimpse"
	"github.com/oliverbestmann/nativehost/jsrt"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Surface is the part of the host window the controller needs. The window
// is borrowed, the controller never destroys it.
type Surface interface {
	GetSize() (uint32, uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// GraphicsSession is a device bound to a window surface, see pulse.Session.
type GraphicsSession interface {
	jsrt.Graphics

	StartFrame() error
	FinishFrame() error
	UpdateSize(width, height uint32) error
	Destroy()
}

// ScriptSession is a script runtime, see jsrt.Session.
type ScriptSession interface {
	RegisterBindings(gfx jsrt.Graphics) (InputBinding, error)
	LoadScripts(urls []string) error
	Destroy()
}

// InputBinding receives input forwarded by the Router.
type InputBinding interface {
	MouseDown(button glimpse.MouseButton, x, y int32)
	MouseUp(button glimpse.MouseButton, x, y int32)
	MouseMove(x, y int32)
	MouseWheel(axis glimpse.WheelAxis, delta float64)
	TouchDown(id, x, y int32)
	TouchMove(id, x, y int32)
	TouchUp(id, x, y int32)
}

type GraphicsFactory func(win Surface, width, height, msaaSamples uint32) (GraphicsSession, error)

type ScriptFactory func() (ScriptSession, error)

type ControllerOptions struct {
	NewGraphics GraphicsFactory
	NewScripts  ScriptFactory

	// Scripts are loaded in order after the bindings are registered.
	Scripts []string

	// MSAASamples is used by Reinitialize until Initialize was called
	// with an explicit sample count. Defaults to 1.
	MSAASamples uint32
}

type size struct {
	width, height uint32
}

// Controller owns the graphics session and the script session and moves
// them through initialize, teardown and reinitialize as a single unit.
// It is not safe for concurrent use, all methods must be called from the
// main thread.
type Controller struct {
	opts ControllerOptions

	graphics slot[GraphicsSession]
	scripts  slot[ScriptSession]
	input    InputBinding

	size        size
	msaaSamples uint32

	inFlight      bool
	pendingResize *size
}

func NewController(opts ControllerOptions) *Controller {
	if opts.MSAASamples == 0 {
		opts.MSAASamples = 1
	}

	return &Controller{
		opts:        opts,
		msaaSamples: opts.MSAASamples,
	}
}

// Initialize creates the graphics session, then a script session bound to
// it, registers the bindings and loads the scripts. If any step fails,
// everything created so far is destroyed again.
func (c *Controller) Initialize(win Surface, width, height, msaaSamples uint32) error {
	if c.graphics.has() {
		return ErrAlreadyInitialized
	}

	if win == nil {
		return fmt.Errorf("%w: no window", ErrDeviceCreationFailed)
	}

	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %w: %dx%d", ErrDeviceCreationFailed, ErrInvalidSize, width, height)
	}

	slog.Info("Initialize session",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Int("msaa", int(msaaSamples)),
	)

	graphics, err := c.opts.NewGraphics(win, width, height, msaaSamples)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceCreationFailed, err)
	}

	scripts, input, err := c.createScripts(graphics)
	if err != nil {
		graphics.Destroy()
		return fmt.Errorf("%w: %w", ErrScriptLoadFailed, err)
	}

	c.graphics.set(graphics)
	c.scripts.set(scripts)
	c.input = input

	c.size = size{width, height}
	c.msaaSamples = msaaSamples
	c.inFlight = false
	c.pendingResize = nil

	return nil
}

func (c *Controller) createScripts(graphics GraphicsSession) (ScriptSession, InputBinding, error) {
	scripts, err := c.opts.NewScripts()
	if err != nil {
		return nil, nil, fmt.Errorf("create script runtime: %w", err)
	}

	input, err := scripts.RegisterBindings(graphics)
	if err != nil {
		scripts.Destroy()
		return nil, nil, fmt.Errorf("register bindings: %w", err)
	}

	if err := scripts.LoadScripts(c.opts.Scripts); err != nil {
		scripts.Destroy()
		return nil, nil, err
	}

	return scripts, input, nil
}

// Teardown stops accepting input, finishes the frame in flight and destroys
// the script session before the graphics session. Does nothing if there
// is no active session.
func (c *Controller) Teardown() {
	c.input = nil
	c.pendingResize = nil
	c.size = size{}

	if graphics, ok := c.graphics.get(); ok && c.inFlight {
		c.inFlight = false

		if err := graphics.FinishFrame(); err != nil {
			slog.Warn("Failed to finish frame during teardown", slog.String("error", err.Error()))
		}
	}

	scripts, hadScripts := c.scripts.take()
	if hadScripts {
		scripts.Destroy()
	}

	graphics, hadGraphics := c.graphics.take()
	if hadGraphics {
		graphics.Destroy()
	}

	if hadScripts || hadGraphics {
		slog.Info("Session destroyed")
	}
}

// Reinitialize tears down the current sessions and creates new ones using
// the window's current size.
func (c *Controller) Reinitialize(win Surface) error {
	c.Teardown()

	if win == nil {
		return fmt.Errorf("%w: no window", ErrDeviceCreationFailed)
	}

	width, height := win.GetSize()
	return c.Initialize(win, width, height, c.msaaSamples)
}

// Resize forwards a new surface size to the graphics session. Sizes with
// a zero dimension are rejected with ErrInvalidSize and the previous size
// stays in effect. A resize during a frame is applied once the frame is
// finished.
func (c *Controller) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	graphics, ok := c.graphics.get()
	if !ok {
		return nil
	}

	if c.inFlight {
		c.pendingResize = &size{width, height}
		return nil
	}

	return c.resize(graphics, size{width, height})
}

func (c *Controller) resize(graphics GraphicsSession, sz size) error {
	if sz == c.size {
		return nil
	}

	if err := graphics.UpdateSize(sz.width, sz.height); err != nil {
		return err
	}

	slog.Debug("Resize surface",
		slog.Int("width", int(sz.width)),
		slog.Int("height", int(sz.height)),
	)

	c.size = sz

	return nil
}

// StartFrame begins a frame on the active session. Returns ErrFrameInFlight
// if the previous frame was not finished.
func (c *Controller) StartFrame() error {
	graphics, ok := c.graphics.get()
	if !ok {
		return nil
	}

	if c.inFlight {
		return ErrFrameInFlight
	}

	if err := graphics.StartFrame(); err != nil {
		return err
	}

	c.inFlight = true

	return nil
}

// FinishFrame waits for the frame started by StartFrame to complete and
// then applies a deferred resize. Without a frame in flight it does nothing.
func (c *Controller) FinishFrame() error {
	graphics, ok := c.graphics.get()
	if !ok || !c.inFlight {
		return nil
	}

	c.inFlight = false

	if err := graphics.FinishFrame(); err != nil {
		return err
	}

	if pending := c.pendingResize; pending != nil {
		c.pendingResize = nil

		if err := c.resize(graphics, *pending); err != nil {
			return fmt.Errorf("apply resize: %w", err)
		}
	}

	return nil
}

func (c *Controller) Active() bool {
	return c.graphics.has()
}

func (c *Controller) InFlight() bool {
	return c.inFlight
}

// Input returns the input binding of the active script session, or nil
// outside of initialize and teardown.
func (c *Controller) Input() InputBinding {
	return c.input
}

// Size returns the current surface size of the active session.
func (c *Controller) Size() (uint32, uint32) {
	return c.size.width, c.size.height
}
