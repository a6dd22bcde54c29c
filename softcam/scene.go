package softcam

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"

	"github.com/gogpu/portal"
)

// Quad is a flat, double-sided polygon with four world-space corners.
type Quad struct {
	Corners [4]mgl64.Vec3
	Color   gg.RGBA
}

// Wall returns a width x height quad in the XY plane of pose, centered on
// its position.
func Wall(pose portal.Pose, width, height float64, color gg.RGBA) Quad {
	hw, hh := width/2, height/2
	local := [4]mgl64.Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}}
	q := Quad{Color: color}
	for i, c := range local {
		q.Corners[i] = pose.ToWorld(c)
	}
	return q
}

// Floor returns a horizontal quad centered on center.
func Floor(center mgl64.Vec3, width, depth float64, color gg.RGBA) Quad {
	hw, hd := width/2, depth/2
	return Quad{
		Corners: [4]mgl64.Vec3{
			center.Add(mgl64.Vec3{-hw, 0, hd}),
			center.Add(mgl64.Vec3{hw, 0, hd}),
			center.Add(mgl64.Vec3{hw, 0, -hd}),
			center.Add(mgl64.Vec3{-hw, 0, -hd}),
		},
		Color: color,
	}
}

// normal returns the unit normal of the quad's plane.
func (q Quad) normal() mgl64.Vec3 {
	n := q.Corners[1].Sub(q.Corners[0]).Cross(q.Corners[3].Sub(q.Corners[0]))
	if n.Len() == 0 {
		return mgl64.Vec3{0, 0, 1}
	}
	return n.Normalize()
}

// Scene is the world a Camera renders.
type Scene struct {
	Quads   []Quad
	Portals []*portal.Portal

	// Background fills pixels no polygon covers.
	Background gg.RGBA

	// PortalColor is used for portals whose material is not a *Material.
	PortalColor gg.RGBA
}

// AddQuad appends quads to the scene.
func (s *Scene) AddQuad(q ...Quad) {
	s.Quads = append(s.Quads, q...)
}

// AddPortal appends portals to the scene. The order fixes the mask ids.
func (s *Scene) AddPortal(p ...*portal.Portal) {
	s.Portals = append(s.Portals, p...)
}

// PortalIndex returns the index of p in the scene, or -1.
func (s *Scene) PortalIndex(p *portal.Portal) int {
	for i, q := range s.Portals {
		if q == p {
			return i
		}
	}
	return -1
}
