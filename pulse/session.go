package pulse

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oliverbestmann/webgpu/wgpu"
)

var (
	ErrFrameInFlight   = errors.New("frame already in flight")
	ErrNoFrameInFlight = errors.New("no frame in flight")
	ErrInvalidSize     = errors.New("invalid surface size")
	ErrDestroyed       = errors.New("session destroyed")
)

type frameListener struct {
	id uint64
	fn func(done func())
}

// Session owns the graphics device bound to a window surface, and drives
// the frame cycle: StartFrame and FinishFrame must be called in pairs.
// All methods but Size, SetClearColor and OnFrame must be called from the
// goroutine owning the window.
type Session struct {
	ctx    *Context
	view   *View
	update *DeviceUpdate

	// surface texture of the frame in flight
	surface  *wgpu.Texture
	inFlight bool

	mu         sync.Mutex
	width      uint32
	height     uint32
	clearColor Color
	listeners  []frameListener
	listenerID uint64
}

func NewSession(sd *wgpu.SurfaceDescriptor, width, height, sampleCount uint32) (s *Session, err error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	ctx, err := New(sd, DeviceOptions{SampleCount: sampleCount})
	if err != nil {
		return nil, fmt.Errorf("initializing wgpu: %w", err)
	}

	ctxGuard := NewReleaseGuard(ctx)
	defer ctxGuard.Release()

	view := NewView(ctx)

	viewGuard := NewReleaseGuard(view)
	defer viewGuard.Release()

	if err := view.Configure(width, height); err != nil {
		return nil, fmt.Errorf("configure surface: %w", err)
	}

	ctxGuard.Keep()
	viewGuard.Keep()

	slog.Info("Graphics session created",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Int("samples", int(sampleCount)),
		slog.String("format", ctx.SurfaceFormat.String()),
	)

	return &Session{
		ctx:        ctx,
		view:       view,
		update:     NewDeviceUpdate(),
		width:      width,
		height:     height,
		clearColor: ColorDefaultClear,
	}, nil
}

// Size returns the current size of the surface.
func (s *Session) Size() (uint32, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.width, s.height
}

func (s *Session) SetClearColor(r, g, b, a float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearColor = ColorLinearRGBA(r, g, b, a)
}

// OnFrame registers a listener invoked at the start of each frame. The frame
// does not finish before the listener called done. The returned function
// removes the listener again.
func (s *Session) OnFrame(fn func(done func())) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listenerID++
	id := s.listenerID

	s.listeners = append(s.listeners, frameListener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for idx, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:idx], s.listeners[idx+1:]...)
				return
			}
		}
	}
}

func (s *Session) InFlight() bool {
	return s.inFlight
}

func (s *Session) StartFrame() error {
	if s.ctx == nil {
		return ErrDestroyed
	}

	if s.inFlight {
		return ErrFrameInFlight
	}

	surface, err := s.view.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}

	s.surface = surface
	s.inFlight = true

	s.update.Start()

	s.mu.Lock()
	listeners := append([]frameListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		done, _ := s.update.Enqueue()
		l.fn(done)
	}

	return nil
}

// FinishFrame waits for the work enqueued for the current frame, then
// renders and presents it. Blocks until the gpu queue is idle.
func (s *Session) FinishFrame() error {
	if !s.inFlight {
		return ErrNoFrameInFlight
	}

	s.update.Finish()
	s.inFlight = false

	surface := s.surface
	s.surface = nil

	surfaceGuard := NewReleaseGuard(surface)
	defer surfaceGuard.Release()

	if err := s.render(surface); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}

	// present the rendered image
	s.view.Surface.Present()

	// we do not need to release the screen if present was successful
	surfaceGuard.Keep()

	s.ctx.Poll(true, nil)

	return nil
}

func (s *Session) render(surface *wgpu.Texture) error {
	surfaceView, err := surface.TryCreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}

	defer surfaceView.Release()

	s.mu.Lock()
	clearColor := s.clearColor
	s.mu.Unlock()

	enc := s.ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Frame"})
	defer enc.Release()

	encodeClear(enc, s.view.RenderTarget(surfaceView), clearColor)

	buf := enc.Finish(&wgpu.CommandBufferDescriptor{Label: "Frame"})
	defer buf.Release()

	s.ctx.Submit(buf)

	return nil
}

// UpdateSize reconfigures the surface for subsequent frames.
// Must not be called while a frame is in flight.
func (s *Session) UpdateSize(width, height uint32) error {
	if s.ctx == nil {
		return ErrDestroyed
	}

	if s.inFlight {
		return ErrFrameInFlight
	}

	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	if err := s.view.Configure(width, height); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}

	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()

	slog.Debug("Resize surface",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
	)

	return nil
}

// Destroy finishes a frame still in flight and releases the device.
// Calling Destroy more than once has no effect.
func (s *Session) Destroy() {
	if s.ctx == nil {
		return
	}

	if s.inFlight {
		if err := s.FinishFrame(); err != nil {
			slog.Warn("Failed to finish frame during destroy", slog.String("error", err.Error()))
		}
	}

	s.update = nil

	s.view.Release()
	s.view = nil

	s.ctx.Release()
	s.ctx = nil

	slog.Info("Graphics session destroyed")
}
