// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render owns the render targets portal cameras draw into.
//
// # Key Principle
//
// The pool RECEIVES a GPU device from the host application through an
// Allocator, it does NOT create its own. The CPU PixmapAllocator is used by
// the software backend and in tests.
//
// # Core Types
//
//   - RenderTarget: where a camera pass writes (PixmapTarget, TextureTarget)
//   - Allocator: creates and releases targets (PixmapAllocator, TextureAllocator)
//   - TargetPool: growable list of color + depth/normal pairs, one per
//     render step, plus the shared portal mask target
//
// # Lifecycle
//
// Pairs are allocated lazily the first time a render step index needs one and
// are reused frame after frame. A screen resolution change calls Resize,
// which releases every target without shrinking the index space; the next Get
// reallocates at the new size.
//
//	pool, _ := render.NewTargetPool(render.PixmapAllocator{}, 1280, 720)
//	pair, _ := pool.Get(0)
//	_ = pool.Resize(1920, 1080) // on resolution change
package render
