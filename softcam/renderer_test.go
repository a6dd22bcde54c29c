package softcam

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/portal"
	"github.com/gogpu/portal/render"
)

// TestRendererThroughSoftwareCamera renders one portal pair end to end:
// A stands in front of the camera, B opens onto a red wall far to the side.
func TestRendererThroughSoftwareCamera(t *testing.T) {
	scene := &Scene{Background: blue}
	scene.AddQuad(
		Wall(portal.NewPose(mgl64.Vec3{10, 0, -10}, 0, 0), 4, 4, red),
		Wall(portal.NewPose(mgl64.Vec3{0, 0, -10}, 0, 0), 6, 6, green),
	)

	a := portal.New("A", portal.NewPose(mgl64.Vec3{0, 0, -5}, math.Pi, 0))
	b := portal.New("B", portal.NewPose(mgl64.Vec3{10, 0, -5}, 0, 0))
	aMat, bMat := NewMaterial(yellow), NewMaterial(yellow)
	a.Material, b.Material = aMat, bMat
	scene.AddPortal(a, b)

	reg := portal.NewRegistry()
	for _, p := range []*portal.Portal{a, b} {
		if err := reg.Register("pair", p, 2); err != nil {
			t.Fatalf("Register(%s) = %v", p.Name, err)
		}
	}

	pool, err := render.NewTargetPool(render.PixmapAllocator{}, size, size)
	if err != nil {
		t.Fatalf("NewTargetPool() = %v", err)
	}
	mainCam := NewCamera(scene, DefaultLens())
	portalCam := NewCamera(scene, DefaultLens())
	globals := NewGlobals()
	r, err := portal.NewRenderer(reg, pool, mainCam, portalCam,
		portal.WithPostEffects(portalCam.PostEffects()...),
		portal.WithGlobals(globals))
	if err != nil {
		t.Fatalf("NewRenderer() = %v", err)
	}

	if err := r.RenderPortals(); err != nil {
		t.Fatalf("RenderPortals() = %v", err)
	}
	if got := r.LastFrame().Steps; got != 1 {
		t.Errorf("Steps = %d, want 1", got)
	}
	if aMat.IsDefault() || aMat.Texture() != pool.Slot(0).Color {
		t.Error("A should show the step 0 texture")
	}
	if !bMat.IsDefault() {
		t.Error("B is behind the main camera and should show its default")
	}
	if _, ok := globals.Texture(portal.PortalMaskTextureName); !ok {
		t.Error("portal mask was not published")
	}

	screen := render.NewPixmapTarget(size, size)
	if err := mainCam.Render(screen, portal.PassColor); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	// The green wall stands right behind A, yet A shows the red wall.
	if got := screen.GetPixel(size/2, size/2); !near(got, rgba(red)) {
		t.Errorf("center = %v, want the red wall seen through A", got)
	}
	if got := screen.GetPixel(size/2, 4); !near(got, rgba(green)) {
		t.Errorf("above A = %v, want the green wall behind it", got)
	}
}
