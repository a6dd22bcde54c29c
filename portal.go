package portal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/portal/render"
)

// Material is the surface material of a portal. The renderer writes the
// textures of the current frame, or switches the material back to its
// default look when the portal was not rendered.
type Material interface {
	SetTextures(color, depthNormals render.RenderTarget)
	UseDefault()
}

// Surface is one rectangle of a portal's physical surface, lying in the
// portal's local XY plane.
type Surface struct {
	Center mgl64.Vec3
	Width  float64
	Height float64
}

// Area returns the surface area.
func (s Surface) Area() float64 {
	return s.Width * s.Height
}

// corners returns the local corners counter-clockwise from bottom-left.
func (s Surface) corners() [4]mgl64.Vec3 {
	hw, hh := s.Width/2, s.Height/2
	c := s.Center
	return [4]mgl64.Vec3{
		{c[0] - hw, c[1] - hh, c[2]},
		{c[0] + hw, c[1] - hh, c[2]},
		{c[0] + hw, c[1] + hh, c[2]},
		{c[0] - hw, c[1] + hh, c[2]},
	}
}

// Portal is one side of a portal pair.
//
// The surface normal is local +Z. A camera looks into the portal from the
// -Z side and sees the world on the -Z side of Other.
type Portal struct {
	Name     string
	Pose     Pose
	Surfaces []Surface

	// Other is the linked side. The registry sets it when the channel
	// activates; single-sided portals link to themselves.
	Other *Portal

	// PauseRenderingAndLogic stops rendering and all portal logic.
	PauseRenderingAndLogic bool
	// PauseRenderingOnly stops rendering but keeps portal logic running.
	PauseRenderingOnly bool

	// RenderRecursive allows portals seen through this one to be rendered.
	RenderRecursive bool

	// Volumetric forces the portal to render whatever the visibility tests
	// say. It is set while the camera stands inside the portal volume.
	Volumetric bool

	// EdgeOverride, when set, replaces the edge colors of everything seen
	// through this portal.
	EdgeOverride *EdgeColors

	Material Material

	enabled  bool
	textures *render.TargetPair
}

// New returns a disabled portal with the given surfaces. Without surfaces
// the portal gets a single 1x2 surface centered on its pose.
func New(name string, pose Pose, surfaces ...Surface) *Portal {
	if len(surfaces) == 0 {
		surfaces = []Surface{{Width: 1, Height: 2}}
	}
	return &Portal{
		Name:            name,
		Pose:            pose,
		Surfaces:        surfaces,
		RenderRecursive: true,
	}
}

func (p *Portal) String() string {
	if p == nil {
		return "<nil>"
	}
	return p.Name
}

// Normal returns the world-space surface normal (local +Z).
func (p *Portal) Normal() mgl64.Vec3 {
	return p.Pose.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
}

// SurfaceArea returns the summed area of all surfaces.
func (p *Portal) SurfaceArea() float64 {
	var a float64
	for _, s := range p.Surfaces {
		a += s.Area()
	}
	return a
}

// ClosestPoint returns the point on the portal's surfaces nearest to world.
func (p *Portal) ClosestPoint(world mgl64.Vec3) mgl64.Vec3 {
	local := p.Pose.ToLocal(world)
	best := p.Pose.Position
	bestDist := math.Inf(1)
	for _, s := range p.Surfaces {
		hw, hh := s.Width/2, s.Height/2
		q := mgl64.Vec3{
			mgl64.Clamp(local[0], s.Center[0]-hw, s.Center[0]+hw),
			mgl64.Clamp(local[1], s.Center[1]-hh, s.Center[1]+hh),
			s.Center[2],
		}
		if d := q.Sub(local).LenSqr(); d < bestDist {
			best, bestDist = q, d
		}
	}
	if math.IsInf(bestDist, 1) {
		return best
	}
	return p.Pose.ToWorld(best)
}

// DistanceTo returns the distance from world to the closest surface point.
func (p *Portal) DistanceTo(world mgl64.Vec3) float64 {
	return p.ClosestPoint(world).Sub(world).Len()
}

// worldCorners returns the world-space corners of s.
func (p *Portal) worldCorners(s Surface) [4]mgl64.Vec3 {
	c := s.corners()
	for i := range c {
		c[i] = p.Pose.ToWorld(c[i])
	}
	return c
}

// WorldCorners returns the world-space corners of every surface, counter-
// clockwise from bottom-left as seen from the +Z side.
func (p *Portal) WorldCorners() [][4]mgl64.Vec3 {
	out := make([][4]mgl64.Vec3, len(p.Surfaces))
	for i, s := range p.Surfaces {
		out[i] = p.worldCorners(s)
	}
	return out
}

// ScreenRects returns one normalized viewport rect per surface on screen,
// for the camera with view-projection matrix vp. Viewport coordinates have
// the origin at the bottom-left. Surfaces behind the camera are clipped
// against the near plane in clip space before projection.
func (p *Portal) ScreenRects(vp mgl64.Mat4) []Rect {
	var rects []Rect
	for _, s := range p.Surfaces {
		corners := p.worldCorners(s)
		poly := make([]mgl64.Vec4, 0, 4)
		for _, c := range corners {
			poly = append(poly, vp.Mul4x1(c.Vec4(1)))
		}
		poly = ClipNear(poly)
		if len(poly) < 3 {
			continue
		}
		r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
		for _, v := range poly {
			x := (v[0]/v[3] + 1) / 2
			y := (v[1]/v[3] + 1) / 2
			r.MinX, r.MaxX = math.Min(r.MinX, x), math.Max(r.MaxX, x)
			r.MinY, r.MaxY = math.Min(r.MinY, y), math.Max(r.MaxY, y)
		}
		if r = r.Clamp(); !r.Empty() {
			rects = append(rects, r)
		}
	}
	return rects
}

// IsVisibleFrom reports whether any surface's bounding box intersects the
// frustum of vp.
func (p *Portal) IsVisibleFrom(vp mgl64.Mat4) bool {
	f := FrustumFromMatrix(vp)
	for _, s := range p.Surfaces {
		corners := p.worldCorners(s)
		lo, hi := corners[0], corners[0]
		for _, c := range corners[1:] {
			for i := 0; i < 3; i++ {
				lo[i] = math.Min(lo[i], c[i])
				hi[i] = math.Max(hi[i], c[i])
			}
		}
		if f.IntersectsAABB(lo, hi) {
			return true
		}
	}
	return false
}

// Faces reports whether the surface faces a camera at camPos: the direction
// from the closest surface point to the camera points against the normal.
func (p *Portal) Faces(camPos mgl64.Vec3, threshold float64) bool {
	d := camPos.Sub(p.ClosestPoint(camPos))
	if d.LenSqr() < 1e-12 {
		return true
	}
	return p.Normal().Dot(d.Normalize()) < threshold
}

// SeenBy reports whether test is seen by a camera at camPos with
// view-projection vp: it must be inside the frustum, one of testBounds must
// overlap one of parentBounds, and it must face the camera.
func SeenBy(test *Portal, camPos mgl64.Vec3, vp mgl64.Mat4, parentBounds, testBounds []Rect, threshold float64) bool {
	return test.IsVisibleFrom(vp) &&
		OverlapsAny(parentBounds, testBounds) &&
		test.Faces(camPos, threshold)
}

// TransformPoint maps a world point seen relative to this side onto the
// equivalent point relative to Other.
func (p *Portal) TransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	local := halfTurn.Rotate(p.Pose.ToLocal(world))
	return p.Other.Pose.ToWorld(local)
}

// TransformRotation maps a world rotation through the portal.
func (p *Portal) TransformRotation(q mgl64.Quat) mgl64.Quat {
	r := p.Other.Pose.Rotation.Mul(halfTurn).Mul(p.Pose.Rotation.Inverse()).Mul(q)
	return r.Normalize()
}

// TransformPose maps a camera pose through the portal. Applied repeatedly it
// follows a chain of portals.
func (p *Portal) TransformPose(pose Pose) Pose {
	return Pose{
		Position: p.TransformPoint(pose.Position),
		Rotation: p.TransformRotation(pose.Rotation),
	}
}

// IsEnabled reports whether the portal's channel is active.
func (p *Portal) IsEnabled() bool { return p.enabled }

// IsPaused reports whether rendering through the portal is paused.
func (p *Portal) IsPaused() bool {
	return p.PauseRenderingAndLogic || p.PauseRenderingOnly
}

// Enable links the portal to other and marks it enabled.
func (p *Portal) Enable(other *Portal) error {
	if other == nil {
		return ErrMissingLink
	}
	p.Other = other
	p.enabled = true
	return nil
}

// Disable unlinks the portal and restores its default material.
func (p *Portal) Disable() {
	p.enabled = false
	p.Other = nil
	p.UseDefaultMaterial()
}

// SetTextures assigns the textures rendered this frame.
func (p *Portal) SetTextures(pair *render.TargetPair) {
	if pair == nil {
		p.UseDefaultMaterial()
		return
	}
	p.textures = pair
	if p.Material != nil {
		p.Material.SetTextures(pair.Color, pair.DepthNormals)
	}
}

// UseDefaultMaterial drops the frame's textures and shows the default material.
func (p *Portal) UseDefaultMaterial() {
	p.textures = nil
	if p.Material != nil {
		p.Material.UseDefault()
	}
}

// Textures returns the textures assigned this frame, or nil.
func (p *Portal) Textures() *render.TargetPair { return p.textures }
