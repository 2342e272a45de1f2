package pulse

import (
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture and an identity wgpu.TextureView.
type Texture struct {
	texture     *wgpu.Texture
	textureView *wgpu.TextureView
}

// NewTextureFromDesc creates a texture directly from a texture descriptor
func NewTextureFromDesc(ctx *Context, desc *wgpu.TextureDescriptor) (*Texture, error) {
	texture, err := ctx.Device.TryCreateTexture(desc)
	if err != nil {
		return nil, err
	}

	guard := NewReleaseGuard(texture)
	defer guard.Release()

	// now create a default texture view
	textureView, err := texture.TryCreateView(nil)
	if err != nil {
		return nil, err
	}

	guard.Keep()

	return &Texture{
		texture:     texture,
		textureView: textureView,
	}, nil
}

func (t *Texture) View() *wgpu.TextureView {
	return t.textureView
}

func (t *Texture) Release() {
	if t.textureView != nil {
		t.textureView.Release()
		t.textureView = nil
	}

	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
