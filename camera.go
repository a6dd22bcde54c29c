package portal

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/portal/render"
)

// Pass selects what a camera writes during Render.
type Pass int

const (
	// PassColor renders the lit scene with post effects.
	PassColor Pass = iota

	// PassDepthNormals renders raw geometry: view-space normal and linear depth.
	PassDepthNormals

	// PassPortalMask renders the portal mask replacement shader: each portal
	// surface is written with its identifier, everything else is cleared.
	PassPortalMask
)

// String returns the pass name.
func (p Pass) String() string {
	switch p {
	case PassColor:
		return "color"
	case PassDepthNormals:
		return "depth-normals"
	case PassPortalMask:
		return "portal-mask"
	default:
		return "unknown"
	}
}

// Camera is the capability the renderer needs from an engine camera.
type Camera interface {
	Pose() Pose
	SetPose(Pose)

	// Projection returns the camera-to-clip matrix.
	Projection() mgl64.Mat4
	SetProjection(mgl64.Mat4)

	EdgeColors() EdgeColors
	SetEdgeColors(EdgeColors)

	// Render draws the scene as seen from the current pose into target.
	Render(target render.RenderTarget, pass Pass) error
}

// DepthNormalsFormatter is implemented by cameras that own a depth/normal
// buffer. The renderer checks that the target pool uses the same format.
type DepthNormalsFormatter interface {
	DepthNormalsFormat() gputypes.TextureFormat
}

// EdgeColorMode selects how EdgeColors highlights geometry edges.
type EdgeColorMode int

const (
	// EdgeColorFlat draws every edge with Color.
	EdgeColorFlat EdgeColorMode = iota

	// EdgeColorGradient picks the edge color from Gradient by screen height.
	EdgeColorGradient
)

// EdgeColors is the edge-highlight state a portal camera copies from the
// main camera. A portal may override it for everything seen through it.
type EdgeColors struct {
	Mode     EdgeColorMode
	Color    gg.RGBA
	Gradient []gg.ColorStop
}

// Clone returns a deep copy, so a snapshot never aliases a live gradient.
func (e EdgeColors) Clone() EdgeColors {
	e.Gradient = slices.Clone(e.Gradient)
	return e
}

// At returns the edge color at normalized screen height y in [0, 1].
func (e EdgeColors) At(y float64) gg.RGBA {
	if e.Mode != EdgeColorGradient || len(e.Gradient) == 0 {
		return e.Color
	}
	stops := e.Gradient
	if y <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if y <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return a.Color.Lerp(b.Color, (y-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

// CameraState is an immutable snapshot of the camera state portal rendering
// mutates: pose, projection and edge colors.
type CameraState struct {
	pose       Pose
	projection mgl64.Mat4
	edges      EdgeColors
}

// Capture snapshots cam.
func Capture(cam Camera) CameraState {
	return CameraState{
		pose:       cam.Pose(),
		projection: cam.Projection(),
		edges:      cam.EdgeColors().Clone(),
	}
}

// Apply writes the snapshot back onto cam.
func (s CameraState) Apply(cam Camera) {
	cam.SetPose(s.pose)
	cam.SetProjection(s.projection)
	cam.SetEdgeColors(s.edges.Clone())
}

// Pose returns the captured pose.
func (s CameraState) Pose() Pose { return s.pose }

// Projection returns the captured projection matrix.
func (s CameraState) Projection() mgl64.Mat4 { return s.projection }

// EdgeColors returns a copy of the captured edge colors.
func (s CameraState) EdgeColors() EdgeColors { return s.edges.Clone() }

// PostEffect is an image effect attached to the portal camera. Effects are
// switched off for the depth/normal pass.
type PostEffect interface {
	Enabled() bool
	SetEnabled(bool)
}

// Globals publishes values for arbitrary shaders to sample.
type Globals interface {
	SetGlobalTexture(name string, t render.RenderTarget)
	SetGlobalFloat(name string, v float64)
}

// Names of the values published through Globals.
const (
	PortalMaskTextureName = "_PortalMask"
	ResolutionXName       = "_ResolutionX"
	ResolutionYName       = "_ResolutionY"
)
