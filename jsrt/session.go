package jsrt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
)

// BootstrapScript is evaluated before any other script, for scripts that
// expect a browser like environment.
const BootstrapScript = "document = {}"

var (
	ErrClosed                = errors.New("script runtime closed")
	ErrBindingsRegistered    = errors.New("bindings already registered")
	ErrBindingsNotRegistered = errors.New("bindings not registered")
)

// Graphics is the part of the graphics session the native bindings use.
type Graphics interface {
	Size() (uint32, uint32)
	SetClearColor(r, g, b, a float32)
	OnFrame(fn func(done func())) (remove func())
}

type Options struct {
	// Loader resolves and compiles scripts. Share one Loader between
	// sessions to reuse compiled programs after a reload.
	Loader *Loader

	// Log receives console output. Defaults to SlogSink.
	Log LogFunc

	UserAgent string
}

// Session owns a javascript runtime running on its own event loop. All
// access to the runtime happens on the loop, either through Dispatch or
// through callbacks scheduled by the bindings.
type Session struct {
	opts Options
	loop *eventloop.EventLoop

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool

	registered  bool
	bindings    []string
	engine      *nativeEngine
	canvas      *Canvas
	input       *Input
	removeFrame func()
}

func New(opts Options) (*Session, error) {
	if opts.Loader == nil {
		opts.Loader = NewLoader(".", DefaultCacheSize)
	}

	if opts.Log == nil {
		opts.Log = SlogSink
	}

	if opts.UserAgent == "" {
		opts.UserAgent = "nativehost"
	}

	registry := require.NewRegistry()
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(printer{log: opts.Log}))

	loop := eventloop.NewEventLoop(
		eventloop.EnableConsole(false),
		eventloop.WithRegistry(registry),
	)

	loop.Start()

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		opts:   opts,
		loop:   loop,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Dispatch runs fn on the runtime's loop and waits for it to complete.
// Must not be called from the loop itself.
func (s *Session) Dispatch(fn func(vm *goja.Runtime) error) error {
	if s.isClosed() {
		return ErrClosed
	}

	result := make(chan error, 1)

	scheduled := s.loop.RunOnLoop(func(vm *goja.Runtime) {
		defer func() {
			if r := recover(); r != nil {
				result <- panicError(r)
			}
		}()

		result <- fn(vm)
	})

	if !scheduled {
		return ErrClosed
	}

	return <-result
}

// post schedules fn on the loop without waiting. Returns false if the
// session is closed.
func (s *Session) post(fn func(vm *goja.Runtime)) bool {
	if s.isClosed() {
		return false
	}

	return s.loop.RunOnLoop(fn)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// RegisterBindings installs the host provided globals into the runtime.
// Must be called exactly once, before LoadScripts.
func (s *Session) RegisterBindings(gfx Graphics) (*Input, error) {
	if s.registered {
		return nil, ErrBindingsRegistered
	}

	s.engine = newNativeEngine(gfx, s.opts.Log)
	s.canvas = newCanvas()
	s.input = newInput(s)

	xhr := &xhrBinding{session: s}

	steps := []struct {
		name     string
		register func(vm *goja.Runtime) error
	}{
		{"Graphics", func(vm *goja.Runtime) error { return registerGraphics(vm, gfx) }},
		{"Console", registerConsole},
		{"Window", func(vm *goja.Runtime) error { return registerWindow(vm, gfx, s.engine, s.opts.UserAgent) }},
		{"XMLHttpRequest", xhr.register},
		{"Canvas", s.canvas.register},
		{"NativeEngine", s.engine.register},
		{"NativeOptimizations", registerOptimizations},
		{"NativeInput", s.input.register},
	}

	err := s.Dispatch(func(vm *goja.Runtime) error {
		for _, step := range steps {
			if err := step.register(vm); err != nil {
				return fmt.Errorf("register %s: %w", step.name, err)
			}

			s.bindings = append(s.bindings, step.name)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.removeFrame = gfx.OnFrame(s.onFrame)
	s.registered = true

	return s.input, nil
}

// Bindings returns the names of the registered bindings in registration order.
func (s *Session) Bindings() []string {
	return append([]string(nil), s.bindings...)
}

// onFrame runs the pending animation frame callbacks as part of a graphics frame.
func (s *Session) onFrame(done func()) {
	scheduled := s.post(func(vm *goja.Runtime) {
		defer done()
		s.engine.runAnimationFrame(vm)
	})

	if !scheduled {
		done()
	}
}

// LoadScripts evaluates the bootstrap script, followed by the given scripts
// in order. Loading stops at the first script that fails.
func (s *Session) LoadScripts(urls []string) error {
	if !s.registered {
		return ErrBindingsNotRegistered
	}

	err := s.Dispatch(func(vm *goja.Runtime) error {
		_, err := vm.RunScript("bootstrap", BootstrapScript)
		return err
	})

	if err != nil {
		return fmt.Errorf("evaluate bootstrap: %w", err)
	}

	for _, url := range urls {
		program, err := s.opts.Loader.Compile(s.ctx, url)
		if err != nil {
			return fmt.Errorf("load script %q: %w", url, err)
		}

		err = s.Dispatch(func(vm *goja.Runtime) error {
			_, err := vm.RunProgram(program)
			return err
		})

		if err != nil {
			return fmt.Errorf("load script %q: %w", url, err)
		}

		slog.Debug("Script loaded", slog.String("url", url))
	}

	return nil
}

// Destroy stops the runtime and releases the bindings. The graphics frame
// this session participates in must have finished before. Calling Destroy
// more than once has no effect.
func (s *Session) Destroy() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.closed = true
	s.mu.Unlock()

	if s.removeFrame != nil {
		s.removeFrame()
		s.removeFrame = nil
	}

	if s.input != nil {
		s.input.close()
	}

	s.cancel()
	s.loop.Terminate()

	if s.canvas != nil {
		s.canvas.Release()
	}

	slog.Debug("Script runtime destroyed")
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}

	return fmt.Errorf("panic: %v", r)
}

// nativeNamespace returns the _native object, creating it if needed.
func nativeNamespace(vm *goja.Runtime) *goja.Object {
	if value := vm.Get("_native"); value != nil && !goja.IsUndefined(value) && !goja.IsNull(value) {
		return value.ToObject(vm)
	}

	native := vm.NewObject()
	_ = vm.Set("_native", native)

	return native
}

// reportException forwards an exception thrown by a script callback.
func reportException(log LogFunc, what string, err error) {
	var exc *goja.Exception
	if errors.As(err, &exc) {
		log(LogLevelError, fmt.Sprintf("Uncaught exception in %s: %s", what, exc.String()))
		return
	}

	log(LogLevelError, fmt.Sprintf("Error in %s: %s", what, err))
}
