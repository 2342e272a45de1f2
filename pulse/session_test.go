package pulse

import (
	"testing"

	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionRejectsEmptySurface(t *testing.T) {
	_, err := NewSession(nil, 0, 480, 4)
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewSession(nil, 640, 0, 4)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestNewSessionRejectsSampleCount(t *testing.T) {
	_, err := NewSession(nil, 640, 480, 3)
	require.Error(t, err)
}

func TestNewContextRequiresDescriptor(t *testing.T) {
	_, err := New(nil, DeviceOptions{SampleCount: 1})
	require.Error(t, err)
}

func TestNewContextRejectsSampleCount(t *testing.T) {
	_, err := New(&wgpu.SurfaceDescriptor{}, DeviceOptions{SampleCount: 2})
	require.ErrorContains(t, err, "sample count 2")
}

func TestChooseSurfaceFormat(t *testing.T) {
	supported := []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8Unorm}

	format, err := chooseSurfaceFormat(supported, DefaultSurfaceFormats)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, format)

	format, err = chooseSurfaceFormat(supported, []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8Unorm})
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, format)

	_, err = chooseSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb}, DefaultSurfaceFormats)
	assert.ErrorIs(t, err, ErrSurfaceIncompatible)
}

func TestDestroyedSession(t *testing.T) {
	s := &Session{}

	assert.ErrorIs(t, s.StartFrame(), ErrDestroyed)
	assert.ErrorIs(t, s.FinishFrame(), ErrNoFrameInFlight)
	assert.ErrorIs(t, s.UpdateSize(10, 10), ErrDestroyed)

	// destroying twice is fine
	s.Destroy()
	s.Destroy()
}

func TestFrameListenerRemoval(t *testing.T) {
	s := &Session{}

	var calls []string
	removeA := s.OnFrame(func(done func()) { calls = append(calls, "a"); done() })
	s.OnFrame(func(done func()) { calls = append(calls, "b"); done() })

	removeA()
	removeA()

	require.Len(t, s.listeners, 1)

	s.listeners[0].fn(func() {})
	assert.Equal(t, []string{"b"}, calls)
}

func TestColorDefaultsToWhite(t *testing.T) {
	var c Color

	r, g, b, a := c.Components()
	assert.Equal(t, []float32{1, 1, 1, 1}, []float32{r, g, b, a})

	r, g, b, a = ColorLinearRGBA(0.2, 0.4, 0.6, 0.5).Components()
	assert.InDeltaSlice(t, []float32{0.2, 0.4, 0.6, 0.5}, []float32{r, g, b, a}, 1e-6)
}
