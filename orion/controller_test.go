package orion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAndTeardown(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.initialize())
	assert.True(t, h.controller.Active())
	assert.NotNil(t, h.controller.Input())

	width, height := h.controller.Size()
	assert.EqualValues(t, 800, width)
	assert.EqualValues(t, 600, height)

	assert.Equal(t, []string{"app:///Scripts/a.js", "app:///Scripts/b.js"}, h.scripts[0].loaded)

	h.controller.Teardown()
	assert.False(t, h.controller.Active())
	assert.Nil(t, h.controller.Input())

	graphics, scripts := h.live()
	assert.Zero(t, graphics)
	assert.Zero(t, scripts)

	// a second teardown does nothing
	h.controller.Teardown()

	assert.Equal(t, []string{
		"graphics.create",
		"scripts.create",
		"scripts.register",
		"scripts.load",
		"scripts.destroy",
		"graphics.destroy",
	}, h.calls.log)
}

func TestTeardownWithoutSession(t *testing.T) {
	h := newHarness()

	h.controller.Teardown()

	assert.Empty(t, h.calls.log)
}

func TestTeardownFinishesFrameInFlight(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	require.NoError(t, h.controller.StartFrame())
	h.controller.Teardown()

	assert.Equal(t, []string{
		"graphics.start",
		"graphics.finish",
		"scripts.destroy",
		"graphics.destroy",
	}, h.calls.log[4:])
}

func TestTeardownClearsInputBeforeDestroy(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	var inputDuringDestroy InputBinding = &fakeInput{}
	h.scripts[0].onDestroy = func() {
		inputDuringDestroy = h.controller.Input()
	}

	h.controller.Teardown()

	assert.Nil(t, inputDuringDestroy)
}

func TestInitializeTwice(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	assert.ErrorIs(t, h.initialize(), ErrAlreadyInitialized)

	graphics, scripts := h.live()
	assert.Equal(t, 1, graphics)
	assert.Equal(t, 1, scripts)
}

func TestInitializeZeroSize(t *testing.T) {
	h := newHarness()

	err := h.controller.Initialize(h.surface, 0, 600, 4)
	assert.ErrorIs(t, err, ErrDeviceCreationFailed)
	assert.ErrorIs(t, err, ErrInvalidSize)

	assert.Empty(t, h.graphics)
	assert.False(t, h.controller.Active())
}

func TestInitializeWithoutWindow(t *testing.T) {
	h := newHarness()

	err := h.controller.Initialize(nil, 800, 600, 4)
	assert.ErrorIs(t, err, ErrDeviceCreationFailed)
}

func TestInitializeDeviceFailure(t *testing.T) {
	h := newHarness()

	cause := errors.New("no adapter")
	h.graphicsErr = cause

	err := h.initialize()
	assert.ErrorIs(t, err, ErrDeviceCreationFailed)
	assert.ErrorIs(t, err, cause)

	assert.False(t, h.controller.Active())
	assert.Nil(t, h.controller.Input())
	assert.Equal(t, []string{"graphics.create"}, h.calls.log)
}

func TestInitializeScriptFailures(t *testing.T) {
	cause := errors.New("boom")

	cases := []struct {
		name  string
		setup func(h *harness)
	}{
		{"create", func(h *harness) { h.scriptsErr = cause }},
		{"register", func(h *harness) { h.registerErr = cause }},
		{"load", func(h *harness) { h.loadErr = cause }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			tc.setup(h)

			err := h.initialize()
			assert.ErrorIs(t, err, ErrScriptLoadFailed)
			assert.ErrorIs(t, err, cause)

			assert.False(t, h.controller.Active())
			assert.Nil(t, h.controller.Input())

			graphics, scripts := h.live()
			assert.Zero(t, graphics)
			assert.Zero(t, scripts)

			// graphics is destroyed last
			assert.Equal(t, "graphics.destroy", h.calls.log[len(h.calls.log)-1])
		})
	}
}

func TestReinitializeRepeatedly(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	for range 5 {
		require.NoError(t, h.controller.Reinitialize(h.surface))
	}

	graphics, scripts := h.live()
	assert.Equal(t, 1, graphics)
	assert.Equal(t, 1, scripts)

	assert.Len(t, h.graphics, 6)
	assert.Same(t, h.lastInput(), h.controller.Input())
}

func TestReinitializeUsesCurrentWindowSize(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	h.surface.width, h.surface.height = 1024, 768
	require.NoError(t, h.controller.Reinitialize(h.surface))

	width, height := h.lastGraphics().Size()
	assert.EqualValues(t, 1024, width)
	assert.EqualValues(t, 768, height)
}

func TestReinitializeFailureLeavesNoSession(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	h.loadErr = errors.New("syntax error")
	assert.ErrorIs(t, h.controller.Reinitialize(h.surface), ErrScriptLoadFailed)
	assert.False(t, h.controller.Active())

	graphics, scripts := h.live()
	assert.Zero(t, graphics)
	assert.Zero(t, scripts)

	// the next reload recovers
	h.loadErr = nil
	require.NoError(t, h.controller.Reinitialize(h.surface))
	assert.True(t, h.controller.Active())
}

func TestStartFrameReentry(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	require.NoError(t, h.controller.StartFrame())
	assert.ErrorIs(t, h.controller.StartFrame(), ErrFrameInFlight)

	require.NoError(t, h.controller.FinishFrame())
	require.NoError(t, h.controller.StartFrame())
	require.NoError(t, h.controller.FinishFrame())

	assert.Equal(t, 2, h.lastGraphics().starts)
	assert.Equal(t, 2, h.lastGraphics().finishes)
}

func TestFramesWithoutSession(t *testing.T) {
	h := newHarness()

	assert.NoError(t, h.controller.StartFrame())
	assert.NoError(t, h.controller.FinishFrame())
	assert.False(t, h.controller.InFlight())
}

func TestFinishFrameWithoutStart(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	assert.NoError(t, h.controller.FinishFrame())
	assert.Zero(t, h.lastGraphics().finishes)
}

func TestStartFrameError(t *testing.T) {
	h := newHarness()
	h.startErr = errors.New("surface lost")
	require.NoError(t, h.initialize())

	assert.ErrorIs(t, h.controller.StartFrame(), h.startErr)
	assert.False(t, h.controller.InFlight())
}

func TestResize(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	require.NoError(t, h.controller.Resize(1024, 768))

	// same size again is not forwarded
	require.NoError(t, h.controller.Resize(1024, 768))

	assert.Equal(t, [][2]uint32{{1024, 768}}, h.lastGraphics().resizes)

	width, height := h.controller.Size()
	assert.EqualValues(t, 1024, width)
	assert.EqualValues(t, 768, height)
}

func TestResizeRejectsZeroSize(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	assert.ErrorIs(t, h.controller.Resize(0, 768), ErrInvalidSize)
	assert.ErrorIs(t, h.controller.Resize(1024, 0), ErrInvalidSize)

	assert.Empty(t, h.lastGraphics().resizes)

	width, height := h.controller.Size()
	assert.EqualValues(t, 800, width)
	assert.EqualValues(t, 600, height)

	// frames keep working with the previous size
	require.NoError(t, h.controller.StartFrame())
	require.NoError(t, h.controller.FinishFrame())
}

func TestResizeWithoutSession(t *testing.T) {
	h := newHarness()

	assert.NoError(t, h.controller.Resize(1024, 768))
	assert.Empty(t, h.graphics)
}

func TestResizeDuringFrameIsDeferred(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.initialize())

	require.NoError(t, h.controller.StartFrame())
	require.NoError(t, h.controller.Resize(640, 480))
	require.NoError(t, h.controller.Resize(1024, 768))

	assert.Empty(t, h.lastGraphics().resizes)

	require.NoError(t, h.controller.FinishFrame())

	// only the most recent size is applied
	assert.Equal(t, [][2]uint32{{1024, 768}}, h.lastGraphics().resizes)
}
