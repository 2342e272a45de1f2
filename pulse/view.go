package pulse

import (
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// View holds the surface configuration of a Context, and the multisample
// texture frames are rendered to before being resolved onto the surface.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration

	// only configured if we have a multisample texture configured
	msaaTexture *Texture

	sampleCount uint32
}

func NewView(dev *Context) *View {
	return &View{
		Context:     dev,
		sampleCount: dev.SampleCount,
		surfaceConfig: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      dev.SurfaceFormat,
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   dev.AlphaMode,

			// try to reduce input latency
			DesiredMaximumFrameLatency: 1,
		},
	}
}

func validSampleCount(sampleCount uint32) bool {
	return sampleCount == 1 || sampleCount == 4
}

func (vs *View) MSAA() bool {
	return vs.sampleCount > 1
}

// RenderTarget returns the target to render a frame onto the given surface
// texture view. With multisampling enabled, rendering happens into the msaa
// texture and is resolved onto the surface.
func (vs *View) RenderTarget(surfaceView *wgpu.TextureView) RenderTarget {
	target := RenderTarget{
		View:        surfaceView,
		Format:      vs.surfaceConfig.Format,
		Width:       vs.surfaceConfig.Width,
		Height:      vs.surfaceConfig.Height,
		SampleCount: 1,
	}

	if vs.MSAA() && vs.msaaTexture != nil {
		target.View = vs.msaaTexture.View()
		target.ResolveTarget = surfaceView
		target.SampleCount = vs.sampleCount
	}

	return target
}

func (vs *View) ReleaseTexture() {
	if vs.msaaTexture != nil {
		vs.msaaTexture.Release()
		vs.msaaTexture = nil
	}
}

func (vs *View) Configure(width, height uint32) error {
	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Device, vs.surfaceConfig)

	// release the texture of the previous configuration
	vs.ReleaseTexture()

	if vs.MSAA() {
		// create msaa render target texture
		texture, err := createMultisampleTexture(vs.Context, vs.surfaceConfig, vs.sampleCount)
		if err != nil {
			return fmt.Errorf("create multisample texture: %w", err)
		}

		vs.msaaTexture = texture
	}

	return nil
}

func (vs *View) Release() {
	vs.ReleaseTexture()
}

func createMultisampleTexture(ctx *Context, surfaceConfig *wgpu.SurfaceConfiguration, sampleCount uint32) (*Texture, error) {
	return NewTextureFromDesc(ctx, &wgpu.TextureDescriptor{
		Label: "MultisampleRenderTarget",
		Usage: wgpu.TextureUsageRenderAttachment,
		Size: wgpu.Extent3D{
			Width:              surfaceConfig.Width,
			Height:             surfaceConfig.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        surfaceConfig.Format,
		Dimension:     wgpu.TextureDimension2D,
		SampleCount:   sampleCount,
		MipLevelCount: 1,
	})
}
