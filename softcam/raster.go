package softcam

import (
	"cmp"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/gogpu/portal"
)

// polygon is a projected, near-clipped polygon ready to fill.
type polygon struct {
	pts    []mgl64.Vec2 // pixel coordinates, origin top-left
	depth  float64      // mean view-space distance, for sorting
	normal mgl64.Vec3   // view space, facing the camera
	color  gg.RGBA
	portal int // index into Scene.Portals, -1 for quads
}

// project collects every visible polygon of the scene for a w x h target,
// sorted back to front.
func (c *Camera) project(w, h int) []polygon {
	view := portal.ViewMatrix(c.pose)
	vp := c.proj.Mul4(view)

	var polys []polygon
	add := func(corners [4]mgl64.Vec3, n mgl64.Vec3, col gg.RGBA, idx int) {
		clip := make([]mgl64.Vec4, 0, 4)
		depth := 0.0
		for _, p := range corners {
			clip = append(clip, vp.Mul4x1(p.Vec4(1)))
			depth -= view.Mul4x1(p.Vec4(1)).Z()
		}
		clip = portal.ClipNear(clip)
		if len(clip) < 3 {
			return
		}
		pts := make([]mgl64.Vec2, len(clip))
		for i, v := range clip {
			pts[i] = mgl64.Vec2{
				(v[0]/v[3] + 1) / 2 * float64(w),
				(1 - v[1]/v[3]) / 2 * float64(h),
			}
		}
		vn := view.Mul4x1(n.Vec4(0)).Vec3()
		if vn.Z() < 0 {
			vn = vn.Mul(-1)
		}
		polys = append(polys, polygon{pts: pts, depth: depth / 4, normal: vn, color: col, portal: idx})
	}

	for _, q := range c.scene.Quads {
		add(q.Corners, q.normal(), q.Color, -1)
	}
	for i, p := range c.scene.Portals {
		// Portals are one-sided: from behind there is nothing to see.
		if !p.Faces(c.pose.Position, 0) {
			continue
		}
		col := c.scene.PortalColor
		if m, ok := p.Material.(*Material); ok {
			col = m.Default
		}
		for _, corners := range p.WorldCorners() {
			add(corners, p.Normal(), col, i)
		}
	}

	slices.SortStableFunc(polys, func(a, b polygon) int {
		return cmp.Compare(b.depth, a.depth)
	})
	return polys
}

// fill draws polys into dc back to front, shading each with shade.
func fill(dc *gg.Context, polys []polygon, shade func(*polygon) gg.RGBA) error {
	for i := range polys {
		p := &polys[i]
		col := shade(p)
		dc.SetRGBA(col.R, col.G, col.B, col.A)
		dc.MoveTo(p.pts[0].X(), p.pts[0].Y())
		for _, pt := range p.pts[1:] {
			dc.LineTo(pt.X(), pt.Y())
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

// toRGBA returns img as *image.RGBA, converting when needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Mask ids are spread over R and G in buckets of maskBucket so that the
// 8-bit quantization of the rasterizer never moves a value into the next id.
const (
	maskBucket   = 8
	maskPerByte  = 256 / maskBucket
	MaxMaskIndex = maskPerByte*maskPerByte - 2
)

// maskColor returns the mask color of portal index i.
func maskColor(i int) gg.RGBA {
	k := i + 1
	r, g := k%maskPerByte, k/maskPerByte
	return gg.RGBA{
		R: float64(r*maskBucket+maskBucket/2) / 255,
		G: float64(g*maskBucket+maskBucket/2) / 255,
		B: 1,
		A: 1,
	}
}

// maskOccluder hides portals behind scene geometry in the mask.
var maskOccluder = gg.RGBA{A: 1}

// DecodeMask returns the portal index encoded in a mask pixel. Pixels not
// fully covered by a portal report false.
func DecodeMask(c color.RGBA) (int, bool) {
	if c.A < 250 || c.B < 250 {
		return 0, false
	}
	k := int(c.R)/maskBucket + int(c.G)/maskBucket*maskPerByte
	if k == 0 {
		return 0, false
	}
	return k - 1, true
}

// encodeDepthNormals packs a view-space normal and linear depth in [0, 1].
func encodeDepthNormals(n mgl64.Vec3, depth float64) gg.RGBA {
	return gg.RGBA{
		R: n.X()*0.5 + 0.5,
		G: n.Y()*0.5 + 0.5,
		B: clamp01(depth),
		A: 1,
	}
}

// emptyDepthNormals is what the depth/normal pass writes where nothing is.
var emptyDepthNormals = gg.RGBA{R: 0.5, G: 0.5, B: 1, A: 1}

// DecodeDepthNormals unpacks a depth/normal pixel into the view-space
// normal and the linear depth as a fraction of the far distance.
func DecodeDepthNormals(c color.RGBA) (mgl64.Vec3, float64) {
	x := float64(c.R)/255*2 - 1
	y := float64(c.G)/255*2 - 1
	z := math.Sqrt(math.Max(0, 1-x*x-y*y))
	return mgl64.Vec3{x, y, z}, float64(c.B) / 255
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
