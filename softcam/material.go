package softcam

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/portal"
	"github.com/gogpu/portal/render"
)

// Material is a portal surface material. While textures are assigned the
// camera shows the color texture through the portal; otherwise it fills
// the portal with Default.
type Material struct {
	Default gg.RGBA

	color        render.RenderTarget
	depthNormals render.RenderTarget
}

// NewMaterial returns a material showing def until textures are assigned.
func NewMaterial(def gg.RGBA) *Material {
	return &Material{Default: def}
}

// SetTextures assigns the textures of the current frame.
func (m *Material) SetTextures(color, depthNormals render.RenderTarget) {
	m.color = color
	m.depthNormals = depthNormals
}

// UseDefault drops the assigned textures.
func (m *Material) UseDefault() {
	m.color = nil
	m.depthNormals = nil
}

// Texture returns the assigned color texture, nil when showing the default.
func (m *Material) Texture() render.RenderTarget { return m.color }

// DepthNormals returns the assigned depth/normal texture.
func (m *Material) DepthNormals() render.RenderTarget { return m.depthNormals }

// IsDefault reports whether the material shows its default color.
func (m *Material) IsDefault() bool { return m.color == nil }

var _ portal.Material = (*Material)(nil)
