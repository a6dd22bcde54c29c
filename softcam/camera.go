// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softcam

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/portal"
	"github.com/gogpu/portal/render"
)

// ErrNoPixels is returned when a target has no CPU-side pixel storage.
var ErrNoPixels = errors.New("softcam: render target has no pixel storage")

// Lens describes a perspective projection.
type Lens struct {
	// FovY is the vertical field of view in degrees.
	FovY   float64
	Aspect float64
	Near   float64
	Far    float64
}

// DefaultLens returns a 60 degree square lens from 0.1 to 1000.
func DefaultLens() Lens {
	return Lens{FovY: 60, Aspect: 1, Near: 0.1, Far: 1000}
}

// Matrix returns the OpenGL-style projection matrix of the lens.
func (l Lens) Matrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(l.FovY), l.Aspect, l.Near, l.Far)
}

// Camera renders a Scene in software. It implements portal.Camera.
//
// A Camera is not safe for concurrent use.
type Camera struct {
	scene *Scene
	lens  Lens
	pose  portal.Pose
	proj  mgl64.Mat4
	edges portal.EdgeColors

	effects []Effect

	dc     *gg.Context
	lastDN *image.RGBA
}

// NewCamera returns a camera at the origin looking down -Z.
func NewCamera(scene *Scene, lens Lens) *Camera {
	return &Camera{
		scene: scene,
		lens:  lens,
		pose:  portal.IdentityPose(),
		proj:  lens.Matrix(),
		edges: portal.EdgeColors{Color: gg.Black},
	}
}

// Pose returns the camera pose.
func (c *Camera) Pose() portal.Pose { return c.pose }

// SetPose moves the camera.
func (c *Camera) SetPose(p portal.Pose) { c.pose = p }

// Projection returns the current projection matrix.
func (c *Camera) Projection() mgl64.Mat4 { return c.proj }

// SetProjection replaces the projection matrix, e.g. with an oblique one.
func (c *Camera) SetProjection(m mgl64.Mat4) { c.proj = m }

// EdgeColors returns the edge colors used by EdgeDetect.
func (c *Camera) EdgeColors() portal.EdgeColors { return c.edges }

// SetEdgeColors sets the edge colors used by EdgeDetect.
func (c *Camera) SetEdgeColors(e portal.EdgeColors) { c.edges = e }

// Lens returns the lens the camera was configured with.
func (c *Camera) Lens() Lens { return c.lens }

// SetLens changes the lens and resets the projection to it.
func (c *Camera) SetLens(l Lens) {
	c.lens = l
	c.proj = l.Matrix()
}

// DepthNormalsFormat returns the format of depth/normal targets.
func (c *Camera) DepthNormalsFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// AddEffect appends a post effect run at the end of every color pass.
func (c *Camera) AddEffect(e Effect) {
	c.effects = append(c.effects, e)
}

// PostEffects returns the attached effects for portal.WithPostEffects.
func (c *Camera) PostEffects() []portal.PostEffect {
	out := make([]portal.PostEffect, len(c.effects))
	for i, e := range c.effects {
		out[i] = e
	}
	return out
}

// Render draws the scene from the current pose into target.
func (c *Camera) Render(target render.RenderTarget, pass portal.Pass) error {
	if target.Pixels() == nil {
		return fmt.Errorf("%w: %q", ErrNoPixels, target.Label())
	}
	w, h := target.Width(), target.Height()
	polys := c.project(w, h)

	var (
		img *image.RGBA
		err error
	)
	switch pass {
	case portal.PassColor:
		img, err = c.color(w, h, polys)
	case portal.PassDepthNormals:
		img, err = c.paint(w, h, emptyDepthNormals, polys, func(p *polygon) gg.RGBA {
			return encodeDepthNormals(p.normal, p.depth/c.lens.Far)
		})
		c.lastDN = img
	case portal.PassPortalMask:
		img, err = c.mask(w, h, polys)
	default:
		return fmt.Errorf("softcam: unknown pass %v", pass)
	}
	if err != nil {
		return fmt.Errorf("softcam: %s pass into %q: %w", pass, target.Label(), err)
	}

	copyInto(target, img)
	portal.Logger().Debug("softcam: rendered",
		slog.String("pass", pass.String()),
		slog.String("target", target.Label()),
		slog.Int("polygons", len(polys)))
	return nil
}

// color renders the lit scene, shows portal textures and runs the effects.
func (c *Camera) color(w, h int, polys []polygon) (*image.RGBA, error) {
	img, err := c.paint(w, h, c.scene.Background, polys, func(p *polygon) gg.RGBA { return p.color })
	if err != nil {
		return nil, err
	}
	if c.hasPortalTextures() {
		ids, err := c.mask(w, h, polys)
		if err != nil {
			return nil, err
		}
		c.composePortals(img, ids)
	}

	f := Frame{Color: img, Edges: c.edges}
	if c.lastDN != nil && c.lastDN.Bounds() == img.Bounds() {
		f.DepthNormals = c.lastDN
	}
	for _, e := range c.effects {
		if e.Enabled() {
			e.Apply(f)
		}
	}
	return img, nil
}

func (c *Camera) mask(w, h int, polys []polygon) (*image.RGBA, error) {
	return c.paint(w, h, gg.Transparent, polys, func(p *polygon) gg.RGBA {
		if p.portal < 0 || p.portal > MaxMaskIndex {
			return maskOccluder
		}
		return maskColor(p.portal)
	})
}

// paint clears the drawing context to bg, fills polys and returns a copy
// of the result.
func (c *Camera) paint(w, h int, bg gg.RGBA, polys []polygon, shade func(*polygon) gg.RGBA) (*image.RGBA, error) {
	if c.dc == nil || c.dc.Width() != w || c.dc.Height() != h {
		if c.dc != nil {
			_ = c.dc.Close()
		}
		c.dc = gg.NewContext(w, h)
		c.dc.SetRasterizerMode(gg.RasterizerAnalytic)
	}
	c.dc.ClearWithColor(bg)
	if err := fill(c.dc, polys, shade); err != nil {
		return nil, err
	}
	return toRGBA(c.dc.Image()), nil
}

func (c *Camera) hasPortalTextures() bool {
	for _, p := range c.scene.Portals {
		if portalTexture(p) != nil {
			return true
		}
	}
	return false
}

// portalTexture returns the color texture p currently shows, or nil.
func portalTexture(p *portal.Portal) render.RenderTarget {
	if m, ok := p.Material.(*Material); ok {
		return m.Texture()
	}
	if pair := p.Textures(); pair != nil {
		return pair.Color
	}
	return nil
}

// composePortals copies portal textures into img wherever ids holds a
// fully covered portal pixel.
func (c *Camera) composePortals(img, ids *image.RGBA) {
	textures := make([]render.RenderTarget, len(c.scene.Portals))
	for i, p := range c.scene.Portals {
		textures[i] = portalTexture(p)
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			idx, ok := DecodeMask(ids.RGBAAt(x, y))
			if !ok || idx >= len(textures) || textures[idx] == nil {
				continue
			}
			t := textures[idx]
			if x >= t.Width() || y >= t.Height() {
				continue
			}
			src := t.Pixels()
			if src == nil {
				continue
			}
			si := y*t.Stride() + x*4
			di := img.PixOffset(x, y)
			copy(img.Pix[di:di+4], src[si:si+4])
		}
	}
}

// copyInto writes img into the pixel storage of target row by row.
func copyInto(target render.RenderTarget, img *image.RGBA) {
	dst, stride := target.Pixels(), target.Stride()
	w, h := target.Width(), target.Height()
	for y := 0; y < h; y++ {
		copy(dst[y*stride:y*stride+w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
}

// Close releases the drawing context.
func (c *Camera) Close() error {
	if c.dc == nil {
		return nil
	}
	err := c.dc.Close()
	c.dc = nil
	return err
}

var (
	_ portal.Camera                = (*Camera)(nil)
	_ portal.DepthNormalsFormatter = (*Camera)(nil)
)
