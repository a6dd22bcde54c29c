// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
)

// TargetPair is the pair of surfaces one portal render step writes:
// the color image and the depth/normal image sampled by post effects.
type TargetPair struct {
	Color        RenderTarget
	DepthNormals RenderTarget
}

// PoolOption configures a TargetPool during creation.
type PoolOption func(*poolOptions)

type poolOptions struct {
	colorFormat        gputypes.TextureFormat
	depthNormalsFormat gputypes.TextureFormat
	maskFormat         gputypes.TextureFormat
	logger             *slog.Logger
}

func defaultPoolOptions() poolOptions {
	return poolOptions{
		colorFormat:        gputypes.TextureFormatRGBA8Unorm,
		depthNormalsFormat: gputypes.TextureFormatRGBA8Unorm,
		maskFormat:         gputypes.TextureFormatRGBA8Unorm,
		logger:             slog.New(slog.DiscardHandler),
	}
}

// WithColorFormat sets the format of the color targets.
func WithColorFormat(f gputypes.TextureFormat) PoolOption {
	return func(o *poolOptions) { o.colorFormat = f }
}

// WithDepthNormalsFormat sets the format of the depth/normal targets.
// It must match the main camera's depth/normal buffer so that shaders
// sample both the same way.
func WithDepthNormalsFormat(f gputypes.TextureFormat) PoolOption {
	return func(o *poolOptions) { o.depthNormalsFormat = f }
}

// WithMaskFormat sets the format of the shared portal mask target.
func WithMaskFormat(f gputypes.TextureFormat) PoolOption {
	return func(o *poolOptions) { o.maskFormat = f }
}

// WithPoolLogger sets the logger used for allocation and invalidation events.
func WithPoolLogger(l *slog.Logger) PoolOption {
	return func(o *poolOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// TargetPool owns every render target used for recursive portal rendering.
//
// Targets are indexed by render step. A slot is allocated the first time its
// index is requested, and reused by later frames until the pool is
// invalidated. Portals only ever hold transient references into the pool.
//
// TargetPool is NOT safe for concurrent use; it is driven from the render
// thread, and resizes happen between frames.
type TargetPool struct {
	alloc  Allocator
	width  int
	height int
	opts   poolOptions

	slots []*TargetPair // nil entries are released and reallocate lazily
	mask  RenderTarget
}

// NewTargetPool creates an empty pool producing targets of width x height.
func NewTargetPool(alloc Allocator, width, height int, opts ...PoolOption) (*TargetPool, error) {
	if alloc == nil {
		return nil, fmt.Errorf("render: nil allocator")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	o := defaultPoolOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &TargetPool{alloc: alloc, width: width, height: height, opts: o}, nil
}

// Get returns the pair for render step index, allocating it if necessary.
func (p *TargetPool) Get(index int) (*TargetPair, error) {
	if index < 0 {
		return nil, fmt.Errorf("render: negative target index %d", index)
	}
	for len(p.slots) <= index {
		p.slots = append(p.slots, nil)
	}
	if pair := p.slots[index]; pair != nil {
		return pair, nil
	}

	color, err := p.allocate(fmt.Sprintf("portal step %d color", index), p.opts.colorFormat)
	if err != nil {
		return nil, err
	}
	depthNormals, err := p.allocate(fmt.Sprintf("portal step %d depth-normals", index), p.opts.depthNormalsFormat)
	if err != nil {
		p.alloc.Release(color)
		return nil, err
	}

	pair := &TargetPair{Color: color, DepthNormals: depthNormals}
	p.slots[index] = pair
	p.opts.logger.Debug("render: allocated target pair", "index", index, "width", p.width, "height", p.height)
	return pair, nil
}

// Mask returns the single full-screen portal mask target.
func (p *TargetPool) Mask() (RenderTarget, error) {
	if p.mask != nil {
		return p.mask, nil
	}
	m, err := p.allocate("portal mask", p.opts.maskFormat)
	if err != nil {
		return nil, err
	}
	p.mask = m
	return m, nil
}

func (p *TargetPool) allocate(label string, format gputypes.TextureFormat) (RenderTarget, error) {
	desc := DefaultTextureDescriptor(uint32(p.width), uint32(p.height), format) //nolint:gosec // sizes validated positive
	desc.Label = label
	t, err := p.alloc.Allocate(desc)
	if err != nil {
		return nil, fmt.Errorf("render: allocate %s: %w", label, err)
	}
	return t, nil
}

// InvalidateAll releases every allocated target. The index space is kept:
// Len is unchanged and later Get calls reallocate lazily at the current size.
func (p *TargetPool) InvalidateAll() {
	released := 0
	for i, pair := range p.slots {
		if pair == nil {
			continue
		}
		p.alloc.Release(pair.Color)
		p.alloc.Release(pair.DepthNormals)
		p.slots[i] = nil
		released++
	}
	if p.mask != nil {
		p.alloc.Release(p.mask)
		p.mask = nil
	}
	p.opts.logger.Info("render: target pool invalidated", "released", released, "slots", len(p.slots))
}

// Resize sets the size of future targets and invalidates the current ones.
// It must be called between frames.
func (p *TargetPool) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	p.width, p.height = width, height
	p.InvalidateAll()
	return nil
}

// Size returns the size targets are allocated with.
func (p *TargetPool) Size() (width, height int) {
	return p.width, p.height
}

// Len returns the number of slot indices the pool has seen.
func (p *TargetPool) Len() int {
	return len(p.slots)
}

// Allocated returns the number of slots currently holding targets.
func (p *TargetPool) Allocated() int {
	n := 0
	for _, pair := range p.slots {
		if pair != nil {
			n++
		}
	}
	return n
}

// Slot returns the pair at index without allocating, or nil.
func (p *TargetPool) Slot(index int) *TargetPair {
	if index < 0 || index >= len(p.slots) {
		return nil
	}
	return p.slots[index]
}

// ColorFormat returns the format of color targets.
func (p *TargetPool) ColorFormat() gputypes.TextureFormat { return p.opts.colorFormat }

// DepthNormalsFormat returns the format of depth/normal targets.
func (p *TargetPool) DepthNormalsFormat() gputypes.TextureFormat { return p.opts.depthNormalsFormat }
