// Package portal renders linked portal pairs with recursion.
//
// # Overview
//
// A Portal is a flat opening with one or more rectangular surfaces. Portals
// register on a named channel of a Registry; once a channel holds its
// required number of portals they are linked in registration order and
// become active. Each frame, before the main camera draws, the Renderer
// walks the active portals the main camera can see, places a portal camera
// behind the linked side and renders the view into a pooled color texture
// that the portal's Material then shows.
//
// # Quick Start
//
//	reg := portal.NewRegistry()
//	a := portal.New("a", portal.NewPose(mgl64.Vec3{0, 1, -5}, math.Pi, 0), portal.Surface{Width: 1, Height: 2})
//	b := portal.New("b", portal.NewPose(mgl64.Vec3{8, 1, -5}, 0, 0), portal.Surface{Width: 1, Height: 2})
//	reg.Register("blue", a, 2)
//	reg.Register("blue", b, 2)
//
//	pool, _ := render.NewTargetPool(render.PixmapAllocator{}, 640, 480)
//	r, err := portal.NewRenderer(reg, pool, mainCam, portalCam)
//	if err != nil {
//		return err
//	}
//
//	hooks := &portal.Hooks{}
//	r.Attach(hooks)
//	hooks.FirePreRender() // once per frame, before the main camera
//
// # Recursion
//
// A portal seen through another portal is rendered first, deeper levels
// before shallower ones, so every texture a level samples is complete when
// that level draws. Recursion stops at Config.MaxDepth and when the frame's
// render steps (Config.MaxRenderSteps) run out; each step owns one pool
// slot. Portals farther than Config.MaxRenderDistance are skipped.
//
// # Coordinate System
//
// World space is right-handed with +Y up:
//   - Cameras look down their local -Z axis
//   - A portal's front face points along its local +Z axis
//   - Screen rectangles are normalized to [0,1] with the origin at bottom-left
//
// # Engines
//
// The renderer depends only on the Camera, Material, PostEffect and Globals
// interfaces. Package softcam implements them in software on top of gg.
package portal

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
