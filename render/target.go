// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// RenderTarget is a surface a portal camera renders into and a portal
// material samples from.
//
// A RenderTarget is an abstraction over different rendering destinations:
//   - PixmapTarget: CPU-backed *image.RGBA for software rendering
//   - TextureTarget: GPU texture for offscreen rendering
//
// Targets may support CPU access (Pixels), GPU access (TextureView), or both.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// TextureView returns the GPU texture view for this target.
	// Returns nil for CPU-only targets.
	TextureView() TextureView

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int

	// Label returns the debug label the target was allocated with.
	Label() string
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	camera.Render(target, portal.PassColor)
//	img := target.Image()
type PixmapTarget struct {
	img   *image.RGBA
	label string
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// TextureView returns nil as this is a CPU-only target.
func (t *PixmapTarget) TextureView() TextureView {
	return nil
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Label returns the debug label.
func (t *PixmapTarget) Label() string {
	return t.label
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	pix := t.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = rgba.R
		pix[i+1] = rgba.G
		pix[i+2] = rgba.B
		pix[i+3] = rgba.A
	}
}

// SetPixel sets a single pixel at the given coordinates.
func (t *PixmapTarget) SetPixel(x, y int, c color.Color) {
	t.img.Set(x, y, c)
}

// GetPixel returns the color at the given coordinates.
func (t *PixmapTarget) GetPixel(x, y int) color.RGBA {
	return t.img.RGBAAt(x, y)
}

// release drops the pixel buffer so a stale reference cannot be sampled.
func (t *PixmapTarget) release() {
	t.img = image.NewRGBA(image.Rectangle{})
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)

// TextureTarget is a GPU texture-backed render target.
//
// The host application owns texture creation: TextureTarget records the
// descriptor it was allocated with and the view the host attached.
type TextureTarget struct {
	desc TextureDescriptor
	view TextureView
}

// NewTextureTarget creates a GPU texture render target for desc.
// The handle must come from the host application; a NullDeviceHandle yields
// a target with no view, which is enough for bookkeeping and tests.
func NewTextureTarget(handle DeviceHandle, desc TextureDescriptor) (*TextureTarget, error) {
	if handle == nil {
		return nil, ErrNilDevice
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, ErrInvalidSize
	}
	return &TextureTarget{desc: desc}, nil
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int {
	return int(t.desc.Width)
}

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int {
	return int(t.desc.Height)
}

// Format returns the pixel format.
func (t *TextureTarget) Format() gputypes.TextureFormat {
	return t.desc.Format
}

// TextureView returns the GPU texture view.
func (t *TextureTarget) TextureView() TextureView {
	return t.view
}

// SetTextureView attaches the view created by the host for this target.
func (t *TextureTarget) SetTextureView(v TextureView) {
	t.view = v
}

// Pixels returns nil as this is a GPU-only target.
func (t *TextureTarget) Pixels() []byte {
	return nil
}

// Stride returns 0 as this is a GPU-only target.
func (t *TextureTarget) Stride() int {
	return 0
}

// Label returns the descriptor label.
func (t *TextureTarget) Label() string {
	return t.desc.Label
}

// Destroy releases GPU resources.
func (t *TextureTarget) Destroy() {
	if t.view != nil {
		t.view.Destroy()
		t.view = nil
	}
}

// Ensure TextureTarget implements RenderTarget.
var _ RenderTarget = (*TextureTarget)(nil)
