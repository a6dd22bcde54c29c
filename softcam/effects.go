package softcam

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/portal"
)

// Frame is what a post effect works on at the end of a color pass.
type Frame struct {
	Color *image.RGBA

	// DepthNormals is the depth/normal image of the same view, or nil when
	// no matching depth/normal pass ran before the color pass.
	DepthNormals *image.RGBA

	Edges portal.EdgeColors
}

// Effect is a post effect a Camera runs over its color output.
type Effect interface {
	portal.PostEffect
	Apply(f Frame)
}

// toggle implements the enabled flag of portal.PostEffect.
type toggle struct {
	on bool
}

// Enabled reports whether the effect runs.
func (t *toggle) Enabled() bool { return t.on }

// SetEnabled switches the effect on or off.
func (t *toggle) SetEnabled(on bool) { t.on = on }

// EdgeDetect outlines geometry edges found in the depth/normal image with
// the camera's edge colors.
type EdgeDetect struct {
	toggle

	// DepthThreshold is the linear depth step, as a fraction of the far
	// distance, that counts as an edge.
	DepthThreshold float64

	// NormalThreshold is the summed difference of the encoded normal
	// components that counts as an edge.
	NormalThreshold float64
}

// NewEdgeDetect returns an enabled edge detector with default thresholds.
func NewEdgeDetect() *EdgeDetect {
	return &EdgeDetect{
		toggle:          toggle{on: true},
		DepthThreshold:  0.01,
		NormalThreshold: 0.2,
	}
}

// Apply draws edge pixels into f.Color. Without depth/normals it does nothing.
func (e *EdgeDetect) Apply(f Frame) {
	dn := f.DepthNormals
	if dn == nil {
		return
	}
	b := f.Color.Bounds()
	h := float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !e.isEdge(dn, x, y) {
				continue
			}
			// Gradients run bottom to top.
			col := f.Edges.At(1 - (float64(y-b.Min.Y)+0.5)/h)
			setPixel(f.Color, x, y, col)
		}
	}
}

// isEdge compares a pixel with its right and lower neighbors.
func (e *EdgeDetect) isEdge(dn *image.RGBA, x, y int) bool {
	n0, d0 := DecodeDepthNormals(dn.RGBAAt(x, y))
	b := dn.Bounds()
	for _, o := range [2]image.Point{{1, 0}, {0, 1}} {
		p := image.Pt(x+o.X, y+o.Y)
		if !p.In(b) {
			continue
		}
		n1, d1 := DecodeDepthNormals(dn.RGBAAt(p.X, p.Y))
		if math.Abs(d1-d0) > e.DepthThreshold {
			return true
		}
		if math.Abs(n1.X()-n0.X())+math.Abs(n1.Y()-n0.Y()) > e.NormalThreshold {
			return true
		}
	}
	return false
}

// Fog blends distant pixels toward Color by linear depth.
type Fog struct {
	toggle

	Color gg.RGBA

	// Start and End are depths, as fractions of the far distance, where the
	// fog begins and where it is fully opaque.
	Start, End float64
}

// NewFog returns an enabled fog effect.
func NewFog(color gg.RGBA, start, end float64) *Fog {
	return &Fog{toggle: toggle{on: true}, Color: color, Start: start, End: end}
}

// Apply fogs f.Color. Without depth/normals it does nothing.
func (fg *Fog) Apply(f Frame) {
	dn := f.DepthNormals
	if dn == nil || fg.End <= fg.Start {
		return
	}
	b := f.Color.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, d := DecodeDepthNormals(dn.RGBAAt(x, y))
			t := clamp01((d - fg.Start) / (fg.End - fg.Start))
			if t == 0 {
				continue
			}
			setPixel(f.Color, x, y, getPixel(f.Color, x, y).Lerp(fg.Color, t))
		}
	}
}

func getPixel(img *image.RGBA, x, y int) gg.RGBA {
	c := img.RGBAAt(x, y)
	return gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

func setPixel(img *image.RGBA, x, y int, c gg.RGBA) {
	i := img.PixOffset(x, y)
	img.Pix[i+0] = uint8(math.Round(clamp01(c.R) * 255))
	img.Pix[i+1] = uint8(math.Round(clamp01(c.G) * 255))
	img.Pix[i+2] = uint8(math.Round(clamp01(c.B) * 255))
	img.Pix[i+3] = uint8(math.Round(clamp01(c.A) * 255))
}

var (
	_ Effect = (*EdgeDetect)(nil)
	_ Effect = (*Fog)(nil)
)
