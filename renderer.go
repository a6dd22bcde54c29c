// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package portal

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/portal/render"
)

// Renderer renders every visible portal once per frame, recursing into
// portals seen through portals within the configured budget.
//
// The renderer owns the portal camera: it moves it through each portal and
// restores it between sibling renders. The main camera is only read.
//
// Renderer is NOT safe for concurrent use. RenderPortals runs on the render
// thread before the main camera draws.
type Renderer struct {
	registry  *Registry
	pool      *render.TargetPool
	mainCam   Camera
	portalCam Camera
	maskCam   Camera

	cfg     Config
	effects []PostEffect
	globals Globals

	last FrameStats
}

// NewRenderer creates a renderer. It fails fast on invalid configuration,
// on active portals without a linked side, and when the pool's depth/normal
// format differs from the main camera's.
func NewRenderer(reg *Registry, pool *render.TargetPool, mainCam, portalCam Camera, opts ...RendererOption) (*Renderer, error) {
	if reg == nil {
		return nil, errors.New("portal: nil registry")
	}
	if pool == nil {
		return nil, errors.New("portal: nil target pool")
	}
	if mainCam == nil || portalCam == nil {
		return nil, ErrNilCamera
	}

	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	if f, ok := mainCam.(DepthNormalsFormatter); ok {
		if f.DepthNormalsFormat() != pool.DepthNormalsFormat() {
			return nil, &FormatMismatchError{Camera: f.DepthNormalsFormat(), Pool: pool.DepthNormalsFormat()}
		}
	}

	maskCam := o.maskCamera
	if maskCam == nil {
		maskCam = portalCam
	}
	return &Renderer{
		registry:  reg,
		pool:      pool,
		mainCam:   mainCam,
		portalCam: portalCam,
		maskCam:   maskCam,
		cfg:       o.config,
		effects:   o.postEffects,
		globals:   o.globals,
		last:      FrameStats{Deepest: -1},
	}, nil
}

// Config returns the renderer's tunables.
func (r *Renderer) Config() Config { return r.cfg }

// LastFrame returns the statistics of the last RenderPortals call.
func (r *Renderer) LastFrame() FrameStats { return r.last }

// Attach subscribes the renderer to the host's hooks: RenderPortals before
// the main camera renders and Resize on resolution changes.
func (r *Renderer) Attach(h *Hooks) {
	h.OnPreRender(r.RenderPortals)
	h.OnResolutionChanged(r.Resize)
}

// Resize reallocates render targets at the new screen size and publishes it.
// It must be called between frames.
func (r *Renderer) Resize(width, height int) error {
	if err := r.pool.Resize(width, height); err != nil {
		return err
	}
	if r.globals != nil {
		r.globals.SetGlobalFloat(ResolutionXName, float64(width))
		r.globals.SetGlobalFloat(ResolutionYName, float64(height))
	}
	return nil
}

// frame is the state of one RenderPortals call, passed through the recursion.
type frame struct {
	budget frameBudget
	main   CameraState
	active []*Portal
	stats  FrameStats
	errs   []error
}

func (f *frame) fail(p *Portal, err error) {
	err = fmt.Errorf("portal: render %s: %w", p, err)
	Logger().Error("portal: render failed", "portal", p.String(), "err", err)
	f.errs = append(f.errs, err)
}

// visible is a portal seen from a recursive camera together with the part
// of the screen it may still cover.
type visible struct {
	portal *Portal
	bounds []Rect
}

// RenderPortals renders all portals for the coming frame. Budget
// exhaustion truncates the recursion silently; backend errors are logged,
// the affected portal shows its default material, and the errors are
// returned joined once the frame is complete.
func (r *Renderer) RenderPortals() error {
	f := &frame{
		budget: frameBudget{max: r.cfg.MaxRenderSteps},
		main:   Capture(r.mainCam),
		active: r.registry.Active(),
		stats:  FrameStats{Deepest: -1},
	}
	camPos := f.main.Pose().Position
	mainVP := f.main.Projection().Mul4(ViewMatrix(f.main.Pose()))

	results := make(map[*Portal]*render.TargetPair, len(f.active))
	for _, p := range f.active {
		if p.Other == nil {
			f.fail(p, ErrMissingLink)
			continue
		}
		if p.IsPaused() {
			continue
		}
		if !p.Volumetric && !r.seenByMain(p, camPos, mainVP) {
			continue
		}

		f.main.Apply(r.portalCam)
		f.stats.TopLevel = append(f.stats.TopLevel, p.Name)
		if pair := r.renderDepth(f, 0, p, FullScreen(), p.Name); pair != nil {
			results[p] = pair
		}
	}
	f.main.Apply(r.portalCam)

	for _, p := range f.active {
		p.SetTextures(results[p])
	}

	r.renderMask(f)

	r.last = f.stats
	Logger().Debug("portal: frame rendered",
		"steps", f.budget.used,
		"deepest", f.stats.Deepest,
		"truncated", f.stats.Truncated,
		"top_level", len(f.stats.TopLevel))
	return errors.Join(f.errs...)
}

// seenByMain applies the top-level visibility test. Close or large portals
// are tested with their precise screen rects, far ones against the full
// screen.
func (r *Renderer) seenByMain(p *Portal, camPos mgl64.Vec3, vp mgl64.Mat4) bool {
	bounds := FullScreen()
	if r.cfg.precise(p.DistanceTo(camPos), p.SurfaceArea()) {
		bounds = p.ScreenRects(vp)
	}
	return SeenBy(p, camPos, vp, FullScreen(), bounds, r.cfg.FacingThreshold)
}

// renderDepth renders the view through p into the next pool slot and
// returns it, or nil when the budget is spent or the render failed.
func (r *Renderer) renderDepth(f *frame, depth int, p *Portal, bounds []Rect, tree string) *render.TargetPair {
	if depth >= r.cfg.MaxDepth || f.budget.exhausted() {
		f.stats.Truncated++
		return nil
	}
	index, _ := f.budget.claim()
	f.stats.record(StepRecord{Index: index, Depth: depth, Portal: p.Name, Tree: tree})

	pair, err := r.pool.Get(index)
	if err != nil {
		f.fail(p, err)
		return nil
	}

	cam := r.portalCam
	pose := p.TransformPose(cam.Pose())
	cam.SetPose(pose)
	if p.EdgeOverride != nil {
		cam.SetEdgeColors(p.EdgeOverride.Clone())
	}
	r.setupProjection(f, depth, p, cam)
	entered := Capture(cam)

	vp := entered.Projection().Mul4(ViewMatrix(pose))
	seen := r.visiblePortals(f, p, vp, pose.Position, bounds)
	Logger().Debug("portal: render step",
		"index", index, "depth", depth, "portal", p.Name,
		"visible", len(seen), "tree", tree)

	children := make([]*render.TargetPair, len(seen))
	for i, v := range seen {
		if !r.shouldRecurse(depth, p, v.portal, pose.Position) {
			if depth+1 >= r.cfg.MaxDepth {
				f.stats.Truncated++
			}
			continue
		}
		children[i] = r.renderDepth(f, depth+1, v.portal, v.bounds, tree+" > "+v.portal.Name)
		entered.Apply(cam)
	}
	// A later sibling's recursion may have reassigned an earlier one, so
	// every child gets its own result back before this level draws.
	for i, v := range seen {
		v.portal.SetTextures(children[i])
	}

	entered.Apply(cam)
	if err := r.renderDepthNormals(pair.DepthNormals); err != nil {
		f.fail(p, err)
		return nil
	}
	if err := cam.Render(pair.Color, PassColor); err != nil {
		f.fail(p, err)
		return nil
	}
	p.SetTextures(pair)
	return pair
}

// setupProjection gives cam an oblique projection whose near plane lies
// just behind the linked side, so nothing between the camera and that
// surface is drawn. At depth 0 with the main camera almost touching the
// portal the plain projection is kept.
func (r *Renderer) setupProjection(f *frame, depth int, p *Portal, cam Camera) {
	gap := r.cfg.ClearSpaceBehindPortal
	if depth == 0 && p.DistanceTo(f.main.Pose().Position) < 2*gap {
		cam.SetProjection(f.main.Projection())
		return
	}

	out := p.Other
	pose := cam.Pose()
	n := out.Normal()
	plane := PlaneFromPoint(n.Mul(-1), out.ClosestPoint(pose.Position).Add(n.Mul(gap)))
	clip := WorldPlaneToCamera(ViewMatrix(pose), plane)
	cam.SetProjection(ObliqueProjection(f.main.Projection(), clip))
}

// visiblePortals lists the active portals seen from the recursive camera
// within bounds. The linked side being looked out of is never a candidate.
func (r *Renderer) visiblePortals(f *frame, in *Portal, vp mgl64.Mat4, camPos mgl64.Vec3, bounds []Rect) []visible {
	var seen []visible
	for _, c := range f.active {
		if c == in.Other || !c.IsEnabled() || c.Other == nil || c.PauseRenderingOnly {
			continue
		}
		rects := c.ScreenRects(vp)
		if !SeenBy(c, camPos, vp, bounds, rects, r.cfg.FacingThreshold) {
			continue
		}
		seen = append(seen, visible{portal: c, bounds: IntersectBounds(bounds, rects)})
	}
	return seen
}

// shouldRecurse reports whether candidate, seen through in at depth, gets
// its own render step.
func (r *Renderer) shouldRecurse(depth int, in, candidate *Portal, camPos mgl64.Vec3) bool {
	return depth+1 < r.cfg.MaxDepth &&
		candidate.Pose.Position.Sub(camPos).Len() < r.cfg.MaxRenderDistance &&
		in.RenderRecursive &&
		!candidate.IsPaused()
}

// renderDepthNormals renders the raw geometry pass with every post effect
// switched off, then restores the effects.
func (r *Renderer) renderDepthNormals(target render.RenderTarget) error {
	states := make([]bool, len(r.effects))
	for i, e := range r.effects {
		states[i] = e.Enabled()
		e.SetEnabled(false)
	}
	err := r.portalCam.Render(target, PassDepthNormals)
	for i, e := range r.effects {
		e.SetEnabled(states[i])
	}
	return err
}

// renderMask renders the full-screen portal mask from the main camera's
// point of view and publishes it.
func (r *Renderer) renderMask(f *frame) {
	mask, err := r.pool.Mask()
	if err != nil {
		f.errs = append(f.errs, fmt.Errorf("portal: mask target: %w", err))
		Logger().Error("portal: mask target", "err", err)
		return
	}
	if r.maskCam != r.mainCam {
		f.main.Apply(r.maskCam)
	}
	if err := r.maskCam.Render(mask, PassPortalMask); err != nil {
		f.errs = append(f.errs, fmt.Errorf("portal: mask pass: %w", err))
		Logger().Error("portal: mask pass", "err", err)
		return
	}
	if r.globals != nil {
		r.globals.SetGlobalTexture(PortalMaskTextureName, mask)
	}
}
