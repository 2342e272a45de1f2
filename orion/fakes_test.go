package orion

import (
	"fmt"

	"github.com/oliverbestmann/nativehost/glimpse"
	"github.com/oliverbestmann/nativehost/jsrt"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// calls records the order of operations across all fakes
type calls struct {
	log []string
}

func (c *calls) add(call string) {
	c.log = append(c.log, call)
}

type fakeSurface struct {
	width, height uint32
}

func (s *fakeSurface) GetSize() (uint32, uint32) {
	return s.width, s.height
}

func (s *fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

type fakeGraphics struct {
	calls *calls

	width, height uint32
	inFlight      bool
	destroyed     bool
	startErr      error

	starts   int
	finishes int
	resizes  [][2]uint32
}

func (g *fakeGraphics) Size() (uint32, uint32) {
	return g.width, g.height
}

func (g *fakeGraphics) SetClearColor(r, gr, b, a float32) {}

func (g *fakeGraphics) OnFrame(fn func(done func())) func() {
	return func() {}
}

func (g *fakeGraphics) StartFrame() error {
	if g.inFlight {
		return ErrFrameInFlight
	}

	if g.startErr != nil {
		return g.startErr
	}

	g.calls.add("graphics.start")
	g.inFlight = true
	g.starts++

	return nil
}

func (g *fakeGraphics) FinishFrame() error {
	if !g.inFlight {
		return ErrNoFrameInFlight
	}

	g.calls.add("graphics.finish")
	g.inFlight = false
	g.finishes++

	return nil
}

func (g *fakeGraphics) UpdateSize(width, height uint32) error {
	if g.inFlight {
		return ErrFrameInFlight
	}

	g.resizes = append(g.resizes, [2]uint32{width, height})
	g.width, g.height = width, height

	return nil
}

func (g *fakeGraphics) Destroy() {
	g.calls.add("graphics.destroy")
	g.destroyed = true
}

type fakeInput struct {
	events []string
}

func (in *fakeInput) MouseDown(button glimpse.MouseButton, x, y int32) {
	in.events = append(in.events, fmt.Sprintf("mousedown:%d:%d,%d", button, x, y))
}

func (in *fakeInput) MouseUp(button glimpse.MouseButton, x, y int32) {
	in.events = append(in.events, fmt.Sprintf("mouseup:%d:%d,%d", button, x, y))
}

func (in *fakeInput) MouseMove(x, y int32) {
	in.events = append(in.events, fmt.Sprintf("mousemove:%d,%d", x, y))
}

func (in *fakeInput) MouseWheel(axis glimpse.WheelAxis, delta float64) {
	in.events = append(in.events, fmt.Sprintf("wheel:%d:%g", axis, delta))
}

func (in *fakeInput) TouchDown(id, x, y int32) {
	in.events = append(in.events, fmt.Sprintf("touchdown:%d:%d,%d", id, x, y))
}

func (in *fakeInput) TouchMove(id, x, y int32) {
	in.events = append(in.events, fmt.Sprintf("touchmove:%d:%d,%d", id, x, y))
}

func (in *fakeInput) TouchUp(id, x, y int32) {
	in.events = append(in.events, fmt.Sprintf("touchup:%d:%d,%d", id, x, y))
}

type fakeScripts struct {
	calls *calls

	input       *fakeInput
	registerErr error
	loadErr     error
	loaded      []string
	destroyed   bool
	onDestroy   func()
}

func (s *fakeScripts) RegisterBindings(gfx jsrt.Graphics) (InputBinding, error) {
	s.calls.add("scripts.register")

	if s.registerErr != nil {
		return nil, s.registerErr
	}

	return s.input, nil
}

func (s *fakeScripts) LoadScripts(urls []string) error {
	s.calls.add("scripts.load")

	if s.loadErr != nil {
		return s.loadErr
	}

	s.loaded = append(s.loaded, urls...)
	return nil
}

func (s *fakeScripts) Destroy() {
	if s.onDestroy != nil {
		s.onDestroy()
	}

	s.calls.add("scripts.destroy")
	s.destroyed = true
}

// harness creates controllers backed by fakes and keeps track of every
// session they create.
type harness struct {
	calls calls

	graphicsErr error
	scriptsErr  error
	registerErr error
	loadErr     error
	startErr    error

	graphics []*fakeGraphics
	scripts  []*fakeScripts

	controller *Controller
	surface    *fakeSurface
}

func newHarness() *harness {
	h := &harness{surface: &fakeSurface{width: 800, height: 600}}

	h.controller = NewController(ControllerOptions{
		NewGraphics: h.newGraphics,
		NewScripts:  h.newScripts,
		Scripts:     []string{"app:///Scripts/a.js", "app:///Scripts/b.js"},
		MSAASamples: 4,
	})

	return h
}

func (h *harness) newGraphics(win Surface, width, height, msaaSamples uint32) (GraphicsSession, error) {
	h.calls.add("graphics.create")

	if h.graphicsErr != nil {
		return nil, h.graphicsErr
	}

	g := &fakeGraphics{calls: &h.calls, width: width, height: height, startErr: h.startErr}
	h.graphics = append(h.graphics, g)

	return g, nil
}

func (h *harness) newScripts() (ScriptSession, error) {
	h.calls.add("scripts.create")

	if h.scriptsErr != nil {
		return nil, h.scriptsErr
	}

	s := &fakeScripts{
		calls:       &h.calls,
		input:       &fakeInput{},
		registerErr: h.registerErr,
		loadErr:     h.loadErr,
	}

	h.scripts = append(h.scripts, s)

	return s, nil
}

func (h *harness) initialize() error {
	return h.controller.Initialize(h.surface, h.surface.width, h.surface.height, 4)
}

// live returns the number of graphics and script sessions not yet destroyed.
func (h *harness) live() (graphics, scripts int) {
	for _, g := range h.graphics {
		if !g.destroyed {
			graphics++
		}
	}

	for _, s := range h.scripts {
		if !s.destroyed {
			scripts++
		}
	}

	return graphics, scripts
}

func (h *harness) lastGraphics() *fakeGraphics {
	return h.graphics[len(h.graphics)-1]
}

func (h *harness) lastInput() *fakeInput {
	return h.scripts[len(h.scripts)-1].input
}

// fakePump runs one batch of events per PollEvents or WaitEvents call.
// Once all batches are consumed, it delivers a Close event.
type fakePump struct {
	router  *Router
	batches []func()

	polls int
	waits int
}

func (p *fakePump) PollEvents() {
	p.polls++
	p.next()
}

func (p *fakePump) WaitEvents() {
	p.waits++
	p.next()
}

func (p *fakePump) Wake() {}

func (p *fakePump) next() {
	if len(p.batches) == 0 {
		p.router.Dispatch(glimpse.Close{})
		return
	}

	batch := p.batches[0]
	p.batches = p.batches[1:]

	batch()
}
