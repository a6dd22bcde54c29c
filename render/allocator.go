// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// Allocator creates and releases render targets for a TargetPool.
type Allocator interface {
	// Allocate creates a target matching desc.
	Allocate(desc TextureDescriptor) (RenderTarget, error)

	// Release frees the resources of a target created by Allocate.
	// The target must not be used afterwards.
	Release(t RenderTarget)
}

// PixmapAllocator allocates CPU-backed PixmapTargets.
// Only 8-bit RGBA formats are supported.
type PixmapAllocator struct{}

// Allocate creates a PixmapTarget of the requested size.
func (PixmapAllocator) Allocate(desc TextureDescriptor) (RenderTarget, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, ErrInvalidSize
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("%w: %v (pixmap targets are RGBA8)", ErrUnsupportedFormat, desc.Format)
	}
	return &PixmapTarget{
		img:   image.NewRGBA(image.Rect(0, 0, int(desc.Width), int(desc.Height))),
		label: desc.Label,
	}, nil
}

// Release drops the pixel buffer of a PixmapTarget.
func (PixmapAllocator) Release(t RenderTarget) {
	if pt, ok := t.(*PixmapTarget); ok {
		pt.release()
	}
}

// TextureAllocator allocates GPU TextureTargets on a host-provided device.
type TextureAllocator struct {
	Handle DeviceHandle

	// Attach, when set, is called for every new target so the host can
	// create the texture and attach its view.
	Attach func(t *TextureTarget) error
}

// Allocate creates a TextureTarget for desc.
func (a TextureAllocator) Allocate(desc TextureDescriptor) (RenderTarget, error) {
	t, err := NewTextureTarget(a.Handle, desc)
	if err != nil {
		return nil, err
	}
	if a.Attach != nil {
		if err := a.Attach(t); err != nil {
			return nil, fmt.Errorf("render: attach %q: %w", desc.Label, err)
		}
	}
	return t, nil
}

// Release destroys the texture view of a TextureTarget.
func (TextureAllocator) Release(t RenderTarget) {
	if tt, ok := t.(*TextureTarget); ok {
		tt.Destroy()
	}
}

var (
	_ Allocator = PixmapAllocator{}
	_ Allocator = TextureAllocator{}
)
