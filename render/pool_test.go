// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

// recordingAllocator wraps PixmapAllocator and counts calls.
type recordingAllocator struct {
	PixmapAllocator
	allocated []TextureDescriptor
	released  int
}

func (a *recordingAllocator) Allocate(desc TextureDescriptor) (RenderTarget, error) {
	a.allocated = append(a.allocated, desc)
	return a.PixmapAllocator.Allocate(desc)
}

func (a *recordingAllocator) Release(t RenderTarget) {
	a.released++
	a.PixmapAllocator.Release(t)
}

func TestNewTargetPoolValidation(t *testing.T) {
	tests := []struct {
		name  string
		alloc Allocator
		w, h  int
	}{
		{"nil allocator", nil, 10, 10},
		{"zero width", PixmapAllocator{}, 0, 10},
		{"negative height", PixmapAllocator{}, 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTargetPool(tt.alloc, tt.w, tt.h); err == nil {
				t.Error("NewTargetPool() should fail")
			}
		})
	}
}

func TestTargetPoolGetAllocatesLazily(t *testing.T) {
	alloc := &recordingAllocator{}
	pool, err := NewTargetPool(alloc, 64, 32)
	if err != nil {
		t.Fatalf("NewTargetPool() error = %v", err)
	}

	if pool.Len() != 0 || len(alloc.allocated) != 0 {
		t.Fatalf("new pool should be empty, Len=%d allocations=%d", pool.Len(), len(alloc.allocated))
	}

	pair, err := pool.Get(2)
	if err != nil {
		t.Fatalf("Get(2) error = %v", err)
	}
	if pool.Len() != 3 {
		t.Errorf("Len() = %d, want 3", pool.Len())
	}
	if pool.Allocated() != 1 {
		t.Errorf("Allocated() = %d, want 1", pool.Allocated())
	}
	if pool.Slot(0) != nil {
		t.Error("Slot(0) should not be allocated by Get(2)")
	}
	if pair.Color.Width() != 64 || pair.Color.Height() != 32 {
		t.Errorf("color size = %dx%d, want 64x32", pair.Color.Width(), pair.Color.Height())
	}
	if pair.DepthNormals.Width() != 64 || pair.DepthNormals.Height() != 32 {
		t.Errorf("depth-normals size = %dx%d, want 64x32", pair.DepthNormals.Width(), pair.DepthNormals.Height())
	}

	again, _ := pool.Get(2)
	if again != pair {
		t.Error("Get(2) twice should return the same pair")
	}
	if len(alloc.allocated) != 2 {
		t.Errorf("allocations = %d, want 2", len(alloc.allocated))
	}
	for _, d := range alloc.allocated {
		if d.DepthBits != 24 {
			t.Errorf("DepthBits = %d, want 24", d.DepthBits)
		}
	}
}

func TestTargetPoolResize(t *testing.T) {
	alloc := &recordingAllocator{}
	pool, _ := NewTargetPool(alloc, 100, 100)

	for i := 0; i < 3; i++ {
		if _, err := pool.Get(i); err != nil {
			t.Fatalf("Get(%d) error = %v", i, err)
		}
	}
	if _, err := pool.Mask(); err != nil {
		t.Fatalf("Mask() error = %v", err)
	}

	if err := pool.Resize(200, 50); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}

	if pool.Len() != 3 {
		t.Errorf("Len() after resize = %d, want 3", pool.Len())
	}
	if pool.Allocated() != 0 {
		t.Errorf("Allocated() after resize = %d, want 0", pool.Allocated())
	}
	// three pairs plus the mask
	if alloc.released != 7 {
		t.Errorf("released = %d, want 7", alloc.released)
	}

	pair, err := pool.Get(0)
	if err != nil {
		t.Fatalf("Get(0) error = %v", err)
	}
	if pair.Color.Width() != 200 || pair.Color.Height() != 50 {
		t.Errorf("color size after resize = %dx%d, want 200x50", pair.Color.Width(), pair.Color.Height())
	}
	mask, _ := pool.Mask()
	if mask.Width() != 200 || mask.Height() != 50 {
		t.Errorf("mask size after resize = %dx%d, want 200x50", mask.Width(), mask.Height())
	}

	if err := pool.Resize(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize(0, 10) error = %v, want ErrInvalidSize", err)
	}
}

func TestTargetPoolFormats(t *testing.T) {
	pool, _ := NewTargetPool(PixmapAllocator{}, 8, 8,
		WithDepthNormalsFormat(gputypes.TextureFormatBGRA8Unorm),
	)
	if pool.ColorFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("ColorFormat() = %v, want RGBA8Unorm", pool.ColorFormat())
	}
	if pool.DepthNormalsFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("DepthNormalsFormat() = %v, want BGRA8Unorm", pool.DepthNormalsFormat())
	}

	_, err := pool.Get(0)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Get(0) error = %v, want ErrUnsupportedFormat", err)
	}
	if pool.Allocated() != 0 {
		t.Errorf("failed Get should not occupy a slot, Allocated() = %d", pool.Allocated())
	}
}

func TestTargetPoolTextureAllocator(t *testing.T) {
	var attached []string
	alloc := TextureAllocator{
		Handle: NullDeviceHandle{},
		Attach: func(tt *TextureTarget) error {
			attached = append(attached, tt.Label())
			tt.SetTextureView(&countingView{})
			return nil
		},
	}
	pool, _ := NewTargetPool(alloc, 16, 16)

	pair, err := pool.Get(0)
	if err != nil {
		t.Fatalf("Get(0) error = %v", err)
	}
	if pair.Color.TextureView() == nil {
		t.Error("color target should carry the attached view")
	}
	if len(attached) != 2 {
		t.Errorf("attached = %v, want 2 labels", attached)
	}

	view := pair.Color.TextureView().(*countingView)
	pool.InvalidateAll()
	if view.destroyed != 1 {
		t.Errorf("view destroyed %d times after InvalidateAll, want 1", view.destroyed)
	}
}
