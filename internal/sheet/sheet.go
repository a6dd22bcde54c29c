// Package sheet lays out render targets as a contact sheet for debugging.
package sheet

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/portal/render"
)

// Gap is the spacing between thumbnails in pixels.
const Gap = 2

var (
	background  = color.RGBA{R: 24, G: 24, B: 24, A: 255}
	placeholder = color.RGBA{R: 96, G: 32, B: 96, A: 255}
)

// Compose scales every target to thumbWidth pixels wide, keeping its
// aspect ratio, and lays the thumbnails out in a near-square grid in
// order. Targets without CPU pixels are shown as a flat placeholder.
// Compose returns nil when there is nothing to lay out.
func Compose(targets []render.RenderTarget, thumbWidth int) *image.RGBA {
	if len(targets) == 0 || thumbWidth <= 0 {
		return nil
	}
	thumbHeight := thumbWidth
	if t := targets[0]; t.Width() > 0 {
		thumbHeight = max(1, thumbWidth*t.Height()/t.Width())
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(targets)))))
	rows := (len(targets) + cols - 1) / cols
	dst := image.NewRGBA(image.Rect(0, 0,
		cols*thumbWidth+(cols+1)*Gap,
		rows*thumbHeight+(rows+1)*Gap))
	xdraw.Draw(dst, dst.Bounds(), &image.Uniform{C: background}, image.Point{}, xdraw.Src)

	for i, t := range targets {
		x := Gap + (i%cols)*(thumbWidth+Gap)
		y := Gap + (i/cols)*(thumbHeight+Gap)
		cell := image.Rect(x, y, x+thumbWidth, y+thumbHeight)

		src := Image(t)
		if src == nil {
			xdraw.Draw(dst, cell, &image.Uniform{C: placeholder}, image.Point{}, xdraw.Src)
			continue
		}
		xdraw.ApproxBiLinear.Scale(dst, cell, src, src.Bounds(), xdraw.Src, nil)
	}
	return dst
}

// Image wraps the pixels of t without copying, or returns nil when t has
// no CPU-side storage.
func Image(t render.RenderTarget) *image.RGBA {
	if pt, ok := t.(*render.PixmapTarget); ok {
		return pt.Image()
	}
	pix := t.Pixels()
	if pix == nil || t.Width() <= 0 || t.Height() <= 0 {
		return nil
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: t.Stride(),
		Rect:   image.Rect(0, 0, t.Width(), t.Height()),
	}
}
