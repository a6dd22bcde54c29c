package portal

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// PlaneFromPoint returns the plane with the given normal passing through point.
func PlaneFromPoint(normal, point mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// Distance returns the signed distance from the plane to p.
// Positive values are on the side the normal points to.
func (pl Plane) Distance(p mgl64.Vec3) float64 {
	return pl.Normal.Dot(p) + pl.D
}

// Vec4 returns the plane as homogeneous coefficients (a, b, c, d).
func (pl Plane) Vec4() mgl64.Vec4 {
	return mgl64.Vec4{pl.Normal[0], pl.Normal[1], pl.Normal[2], pl.D}
}

// Frustum planes, normals pointing inward.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the frustum planes from a view-projection matrix
// using the Gribb/Hartmann method. Clip space follows the OpenGL convention,
// -w <= z <= w. An oblique projection yields its tilted near plane here.
func FrustumFromMatrix(vp mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[FrustumLeft] = normalizePlane(r3.Add(r0))
	f.Planes[FrustumRight] = normalizePlane(r3.Sub(r0))
	f.Planes[FrustumBottom] = normalizePlane(r3.Add(r1))
	f.Planes[FrustumTop] = normalizePlane(r3.Sub(r1))
	f.Planes[FrustumNear] = normalizePlane(r3.Add(r2))
	f.Planes[FrustumFar] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(v mgl64.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v[3] / l}
}

// ContainsPoint reports whether p lies inside all six planes.
func (f *Frustum) ContainsPoint(p mgl64.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsAABB returns false if the box lies completely outside any plane.
// It uses the positive-vertex test, so it may report boxes near frustum
// corners as visible when they are not.
func (f *Frustum) IntersectsAABB(lo, hi mgl64.Vec3) bool {
	for i := range f.Planes {
		pl := f.Planes[i]
		pv := hi
		for k := 0; k < 3; k++ {
			if pl.Normal[k] < 0 {
				pv[k] = lo[k]
			}
		}
		if pl.Distance(pv) < 0 {
			return false
		}
	}
	return true
}

// ObliqueProjection replaces the near plane of proj with clipPlane, given in
// camera space as (a, b, c, d). The camera must lie on the negative side of
// the plane (d < 0). Far-plane depth precision degrades the more the plane
// is tilted.
func ObliqueProjection(proj mgl64.Mat4, clipPlane mgl64.Vec4) mgl64.Mat4 {
	corner := mgl64.Vec4{sign(clipPlane[0]), sign(clipPlane[1]), 1, 1}
	q := proj.Inv().Mul4x1(corner)
	c := clipPlane.Mul(2 / clipPlane.Dot(q))

	m := proj
	for col := 0; col < 4; col++ {
		m.Set(2, col, c[col]-m.At(3, col))
	}
	return m
}

// WorldPlaneToCamera transforms a world-space plane into the camera space of
// the given view matrix.
func WorldPlaneToCamera(view mgl64.Mat4, plane Plane) mgl64.Vec4 {
	return view.Inv().Transpose().Mul4x1(plane.Vec4())
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// minClipW keeps clipped vertices strictly in front of the eye so that the
// perspective divide stays finite.
const minClipW = 1e-6

// ClipNear clips a convex polygon given in homogeneous clip coordinates
// against the near plane z >= -w (and w > 0, which an oblique near plane
// does not imply) and returns the remaining vertices. Backends rasterize
// with it so that they agree with ScreenRects.
func ClipNear(poly []mgl64.Vec4) []mgl64.Vec4 {
	poly = clipPolygon(poly, func(v mgl64.Vec4) float64 { return v[2] + v[3] })
	return clipPolygon(poly, func(v mgl64.Vec4) float64 { return v[3] - minClipW })
}

// clipPolygon keeps the part of poly where dist >= 0 (Sutherland-Hodgman).
func clipPolygon(poly []mgl64.Vec4, dist func(mgl64.Vec4) float64) []mgl64.Vec4 {
	if len(poly) == 0 {
		return nil
	}
	out := make([]mgl64.Vec4, 0, len(poly)+2)
	prev := poly[len(poly)-1]
	prevD := dist(prev)
	for _, cur := range poly {
		curD := dist(cur)
		if curD >= 0 {
			if prevD < 0 {
				out = append(out, lerpVec4(prev, cur, prevD/(prevD-curD)))
			}
			out = append(out, cur)
		} else if prevD >= 0 {
			out = append(out, lerpVec4(prev, cur, prevD/(prevD-curD)))
		}
		prev, prevD = cur, curD
	}
	return out
}

func lerpVec4(a, b mgl64.Vec4, t float64) mgl64.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}
