package orion

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oliverbestmann/nativehost/glimpse"
	"github.com/oliverbestmann/nativehost/jsrt"
	"github.com/oliverbestmann/nativehost/pulse"
)

// DefaultScripts is the load order of the engine and its add-ons,
// followed by the application script.
var DefaultScripts = []string{
	"app:///Scripts/ammo.js",
	// "app:///Scripts/recast.js",
	"app:///Scripts/babylon.max.js",
	"app:///Scripts/babylonjs.loaders.js",
	"app:///Scripts/babylonjs.materials.js",
	"app:///Scripts/babylon.gui.js",
	"app:///Scripts/meshwriter.min.js",
	"app:///Scripts/app.js",
}

type RunAppOptions struct {
	// ScriptRoot is the directory app:/// urls are resolved against.
	ScriptRoot string

	// Scripts to load, defaults to DefaultScripts
	Scripts []string

	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	// MSAASamples must be 1 or 4
	MSAASamples uint32

	// ReloadKey tears down and recreates both sessions. Defaults to R.
	ReloadKey glimpse.Key

	// Log receives the console output of the scripts.
	Log jsrt.LogFunc

	// CacheSize is the number of compiled scripts kept between reloads.
	CacheSize int
}

// RunApp opens the window, initializes the sessions and runs frames until
// the window is closed. Returns the exit code of the process. Must be
// called from the main goroutine.
func RunApp(opts RunAppOptions) (int, error) {
	if opts.ScriptRoot == "" {
		opts.ScriptRoot = "."
	}

	if len(opts.Scripts) == 0 {
		opts.Scripts = DefaultScripts
	}

	if opts.WindowWidth == 0 {
		opts.WindowWidth = 1280
	}

	if opts.WindowHeight == 0 {
		opts.WindowHeight = 720
	}

	if opts.WindowTitle == "" {
		opts.WindowTitle = "Native Host"
	}

	if opts.MSAASamples == 0 {
		opts.MSAASamples = 4
	}

	if opts.ReloadKey == glimpse.KeyUnknown {
		opts.ReloadKey = glimpse.KeyR
	}

	if opts.CacheSize == 0 {
		opts.CacheSize = jsrt.DefaultCacheSize
	}

	// create a new window
	win, err := glimpse.NewWindow(
		opts.WindowWidth,
		opts.WindowHeight,
		opts.WindowTitle,
	)
	if err != nil {
		return 1, fmt.Errorf("%w: %w", ErrWindowCreationFailed, err)
	}

	defer win.Terminate()

	// shared between reloads, unchanged scripts are not compiled again
	loader := jsrt.NewLoader(opts.ScriptRoot, opts.CacheSize)

	controller := NewController(ControllerOptions{
		NewGraphics: newGraphicsSession,
		NewScripts: func() (ScriptSession, error) {
			return newScriptSession(jsrt.Options{Loader: loader, Log: opts.Log})
		},
		Scripts:     opts.Scripts,
		MSAASamples: opts.MSAASamples,
	})

	state := &FrameState{}

	router := NewRouter(controller, win, state, opts.ReloadKey)
	win.SetEventHandler(router.Dispatch)

	width, height := win.GetSize()
	if err := controller.Initialize(win, width, height, opts.MSAASamples); err != nil {
		return 1, fmt.Errorf("initialize: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewPacer(controller, win, state).Run(ctx)
}

func newGraphicsSession(win Surface, width, height, msaaSamples uint32) (GraphicsSession, error) {
	session, err := pulse.NewSession(win.SurfaceDescriptor(), width, height, msaaSamples)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// scriptSession adapts jsrt.Session to the ScriptSession interface.
type scriptSession struct {
	*jsrt.Session
}

func newScriptSession(opts jsrt.Options) (ScriptSession, error) {
	session, err := jsrt.New(opts)
	if err != nil {
		return nil, err
	}

	return scriptSession{session}, nil
}

func (s scriptSession) RegisterBindings(gfx jsrt.Graphics) (InputBinding, error) {
	input, err := s.Session.RegisterBindings(gfx)
	if err != nil {
		return nil, err
	}

	return input, nil
}
