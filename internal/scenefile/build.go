package scenefile

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/portal"
	"github.com/gogpu/portal/render"
	"github.com/gogpu/portal/softcam"
)

// World is everything a scene file describes, wired and ready to render.
type World struct {
	Config    portal.Config
	Registry  *portal.Registry
	Scene     *softcam.Scene
	Main      *softcam.Camera
	PortalCam *softcam.Camera
	Pool      *render.TargetPool
	Globals   *softcam.Globals
	Portals   []*portal.Portal
}

// Build creates the registry, scene, cameras and target pool of f.
// Portals register in file order.
func (f *File) Build() (*World, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	scene := &softcam.Scene{
		Background:  color(f.Background, gg.Black),
		PortalColor: gg.Magenta,
	}
	for _, q := range f.Quads {
		c := color(q.Color, gg.White)
		if q.Floor {
			p, _ := vec3(q.Position)
			scene.AddQuad(softcam.Floor(p, q.Width, q.Height, c))
			continue
		}
		scene.AddQuad(softcam.Wall(pose(q.Position, q.Yaw, q.Pitch), q.Width, q.Height, c))
	}

	w := &World{
		Config:   f.Renderer,
		Registry: portal.NewRegistry(),
		Scene:    scene,
		Globals:  softcam.NewGlobals(),
	}
	for _, def := range f.Portals {
		p := def.build()
		scene.AddPortal(p)
		w.Portals = append(w.Portals, p)
		if err := w.Registry.Register(def.Channel, p, def.Required); err != nil {
			return nil, err
		}
	}

	lens := softcam.Lens{
		FovY:   f.Camera.FovY,
		Aspect: float64(f.Screen.Width) / float64(f.Screen.Height),
		Near:   f.Camera.Near,
		Far:    f.Camera.Far,
	}
	w.Main = softcam.NewCamera(scene, lens)
	w.Main.SetPose(pose(f.Camera.Position, f.Camera.Yaw, f.Camera.Pitch))
	w.Main.SetEdgeColors(f.Camera.edges())
	w.PortalCam = softcam.NewCamera(scene, lens)

	for _, cam := range []*softcam.Camera{w.Main, w.PortalCam} {
		if f.Effects.Fog {
			cam.AddEffect(softcam.NewFog(color(f.Effects.FogColor, gg.White), f.Effects.FogStart, f.Effects.FogEnd))
		}
		if f.Effects.EdgeDetect {
			cam.AddEffect(softcam.NewEdgeDetect())
		}
	}

	pool, err := render.NewTargetPool(render.PixmapAllocator{}, f.Screen.Width, f.Screen.Height,
		render.WithDepthNormalsFormat(w.Main.DepthNormalsFormat()),
		render.WithPoolLogger(portal.Logger()))
	if err != nil {
		return nil, fmt.Errorf("scenefile: target pool: %w", err)
	}
	w.Pool = pool
	return w, nil
}

// Renderer returns a portal renderer over the world, with the portal
// camera's effects and the world's globals attached.
func (w *World) Renderer(opts ...portal.RendererOption) (*portal.Renderer, error) {
	base := []portal.RendererOption{
		portal.WithConfig(w.Config),
		portal.WithPostEffects(w.PortalCam.PostEffects()...),
		portal.WithGlobals(w.Globals),
	}
	return portal.NewRenderer(w.Registry, w.Pool, w.Main, w.PortalCam, append(base, opts...)...)
}

// Portal returns the portal called name, or nil.
func (w *World) Portal(name string) *portal.Portal {
	for _, p := range w.Portals {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (def Portal) build() *portal.Portal {
	width, height := def.Width, def.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 2
	}
	p := portal.New(def.Name, pose(def.Position, def.Yaw, def.Pitch), portal.Surface{Width: width, Height: height})
	p.Material = softcam.NewMaterial(color(def.Color, gg.Magenta))
	if def.Recursive != nil {
		p.RenderRecursive = *def.Recursive
	}
	p.Volumetric = def.Volumetric
	p.PauseRenderingOnly = def.PauseRendering
	if def.Edge != "" {
		p.EdgeOverride = &portal.EdgeColors{Color: gg.Hex(def.Edge)}
	}
	return p
}

func (c Camera) edges() portal.EdgeColors {
	e := portal.EdgeColors{Color: color(c.Edge, gg.Black)}
	if len(c.EdgeGradient) < 2 {
		return e
	}
	e.Mode = portal.EdgeColorGradient
	last := float64(len(c.EdgeGradient) - 1)
	for i, s := range c.EdgeGradient {
		e.Gradient = append(e.Gradient, gg.ColorStop{Offset: float64(i) / last, Color: gg.Hex(s)})
	}
	return e
}
