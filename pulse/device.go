package pulse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/oliverbestmann/webgpu/wgpu"
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	switch strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL")) {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

var ErrSurfaceIncompatible = errors.New("surface is not compatible with the adapter")

// DefaultSurfaceFormats are the surface formats a session renders to,
// most preferred first. The clear color is given in linear values, so
// non srgb formats come first.
var DefaultSurfaceFormats = []wgpu.TextureFormat{
	wgpu.TextureFormatBGRA8Unorm,
	wgpu.TextureFormatRGBA8Unorm,
}

// DeviceOptions describes what a session requires from the device it
// renders with.
type DeviceOptions struct {
	// SampleCount of the render target, 1 or 4
	SampleCount uint32

	// SurfaceFormats lists the accepted surface formats, most preferred first.
	// Defaults to DefaultSurfaceFormats.
	SurfaceFormats []wgpu.TextureFormat

	PowerPreference wgpu.PowerPreference
}

// Context encapsulates the low level state of the webgpu context,
// this includes the Device, Surface and active Adapter
type Context struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter

	// negotiated with the adapter
	SurfaceFormat wgpu.TextureFormat
	AlphaMode     wgpu.CompositeAlphaMode
	SampleCount   uint32
}

func New(sd *wgpu.SurfaceDescriptor, opts DeviceOptions) (st *Context, err error) {
	if sd == nil {
		return nil, errors.New("no surface descriptor")
	}

	if !validSampleCount(opts.SampleCount) {
		return nil, fmt.Errorf("unsupported sample count %d", opts.SampleCount)
	}

	if len(opts.SurfaceFormats) == 0 {
		opts.SurfaceFormats = DefaultSurfaceFormats
	}

	defer func() {
		if err != nil && st != nil {
			st.Release()
			st = nil
		}
	}()

	st = &Context{SampleCount: opts.SampleCount}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	st.Surface = instance.CreateSurface(sd)
	if st.Surface == nil {
		return st, errors.New("create surface")
	}

	// the adapter must be able to present to the surface
	st.Adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		PowerPreference:      opts.PowerPreference,
		CompatibleSurface:    st.Surface,
	})

	if err != nil {
		return st, fmt.Errorf("request adapter: %w", err)
	}

	info := st.Adapter.GetInfo()
	slog.Info("Using adapter",
		slog.String("device", info.Device),
		slog.String("type", info.AdapterType.String()),
		slog.String("backend", info.BackendType.String()),
	)

	caps := st.Surface.GetCapabilities(st.Adapter)
	slog.Debug("Available surface formats", slog.Any("formats", caps.Formats))

	if len(caps.AlphaModes) == 0 {
		return st, ErrSurfaceIncompatible
	}

	st.AlphaMode = caps.AlphaModes[0]

	st.SurfaceFormat, err = chooseSurfaceFormat(caps.Formats, opts.SurfaceFormats)
	if err != nil {
		return st, err
	}

	st.Device, err = st.Adapter.RequestDevice(nil)
	if err != nil {
		return st, fmt.Errorf("request device: %w", err)
	}

	st.Queue = st.Device.GetQueue()

	return st, nil
}

// chooseSurfaceFormat returns the first preferred format the surface supports.
func chooseSurfaceFormat(supported, preferred []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	for _, format := range preferred {
		if slices.Contains(supported, format) {
			return format, nil
		}
	}

	return wgpu.TextureFormatUndefined, fmt.Errorf("%w: no format out of %v", ErrSurfaceIncompatible, preferred)
}

func (d *Context) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}
