package main

import (
	"fmt"

	"github.com/gogpu/portal"
	"github.com/gogpu/portal/internal/scenefile"
	"github.com/gogpu/portal/render"
)

// app owns a built scene and the targets the main view is drawn into.
type app struct {
	file     *scenefile.File
	world    *scenefile.World
	renderer *portal.Renderer
	hooks    *portal.Hooks

	screen *render.PixmapTarget
	dn     *render.PixmapTarget
}

func newApp(f *scenefile.File) (*app, error) {
	w, err := f.Build()
	if err != nil {
		return nil, err
	}
	r, err := w.Renderer()
	if err != nil {
		return nil, err
	}
	a := &app{
		file:     f,
		world:    w,
		renderer: r,
		hooks:    &portal.Hooks{},
	}
	r.Attach(a.hooks)
	a.hooks.OnResolutionChanged(a.resizeScreen)
	if err := a.resizeScreen(f.Screen.Width, f.Screen.Height); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) resizeScreen(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", width, height)
	}
	a.screen = render.NewPixmapTarget(width, height)
	a.dn = render.NewPixmapTarget(width, height)
	lens := a.world.Main.Lens()
	lens.Aspect = float64(width) / float64(height)
	a.world.Main.SetLens(lens)
	a.world.PortalCam.SetLens(lens)
	return nil
}

// frame renders the portals and then the main view into a.screen.
func (a *app) frame() error {
	if err := a.hooks.FirePreRender(); err != nil {
		return err
	}
	if err := a.world.Main.Render(a.dn, portal.PassDepthNormals); err != nil {
		return err
	}
	return a.world.Main.Render(a.screen, portal.PassColor)
}

func (a *app) size() (int, int) {
	return a.screen.Width(), a.screen.Height()
}

func (a *app) close() {
	_ = a.world.Main.Close()
	_ = a.world.PortalCam.Close()
	a.world.Pool.InvalidateAll()
}
