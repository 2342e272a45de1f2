package pulse

import (
	"github.com/oliverbestmann/webgpu/wgpu"
)

// encodeClear records a render pass clearing the target to the given color.
func encodeClear(enc *wgpu.CommandEncoder, target RenderTarget, color Color) {
	r, g, b, a := color.Components()

	pass := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "ClearFrame",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          target.View,
				ResolveTarget: target.ResolveTarget,
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(r),
					G: float64(g),
					B: float64(b),
					A: float64(a),
				},
			},
		},
	})

	defer pass.Release()

	pass.End()
}

type Releaser interface {
	Release()
}

type ReleaseGuard struct {
	delegate Releaser
}

func NewReleaseGuard(delegate Releaser) ReleaseGuard {
	return ReleaseGuard{delegate: delegate}
}

func (r *ReleaseGuard) Keep() {
	r.delegate = nil
}

func (r *ReleaseGuard) Release() {
	if r.delegate != nil {
		r.delegate.Release()
		r.delegate = nil
	}
}
