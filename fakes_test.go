package portal

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/portal/render"
)

// renderCall is what fakeCamera saw when Render was called.
type renderCall struct {
	target   string
	pass     Pass
	pose     Pose
	proj     mgl64.Mat4
	edges    EdgeColors
	textures map[string]string // portal name -> color texture label, "" for default
	effects  bool              // any post effect enabled
}

type fakeCamera struct {
	pose  Pose
	proj  mgl64.Mat4
	edges EdgeColors

	portals []*Portal
	effects []*fakeEffect
	calls   []renderCall

	failTarget string
	dnFormat   gputypes.TextureFormat
}

func newFakeCamera(pose Pose, portals ...*Portal) *fakeCamera {
	return &fakeCamera{
		pose:    pose,
		proj:    testProjection(),
		edges:   EdgeColors{Color: gg.RGB(1, 1, 1)},
		portals: portals,
	}
}

func testProjection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(60), 1, 0.1, 1000)
}

func (c *fakeCamera) Pose() Pose                 { return c.pose }
func (c *fakeCamera) SetPose(p Pose)             { c.pose = p }
func (c *fakeCamera) Projection() mgl64.Mat4     { return c.proj }
func (c *fakeCamera) SetProjection(m mgl64.Mat4) { c.proj = m }
func (c *fakeCamera) EdgeColors() EdgeColors     { return c.edges }
func (c *fakeCamera) SetEdgeColors(e EdgeColors) { c.edges = e }

func (c *fakeCamera) Render(target render.RenderTarget, pass Pass) error {
	call := renderCall{
		target:   target.Label(),
		pass:     pass,
		pose:     c.pose,
		proj:     c.proj,
		edges:    c.edges.Clone(),
		textures: make(map[string]string, len(c.portals)),
	}
	for _, p := range c.portals {
		if t := p.Textures(); t != nil {
			call.textures[p.Name] = t.Color.Label()
		} else {
			call.textures[p.Name] = ""
		}
	}
	for _, e := range c.effects {
		call.effects = call.effects || e.Enabled()
	}
	c.calls = append(c.calls, call)
	if c.failTarget != "" && c.failTarget == target.Label() {
		return errors.New("device lost")
	}
	return nil
}

// colorCall returns the color pass that wrote label.
func (c *fakeCamera) colorCall(label string) (renderCall, bool) {
	for _, call := range c.calls {
		if call.pass == PassColor && call.target == label {
			return call, true
		}
	}
	return renderCall{}, false
}

func (c *fakeCamera) count(pass Pass) int {
	n := 0
	for _, call := range c.calls {
		if call.pass == pass {
			n++
		}
	}
	return n
}

type formatCamera struct {
	*fakeCamera
}

func (c formatCamera) DepthNormalsFormat() gputypes.TextureFormat { return c.dnFormat }

type fakeMaterial struct {
	events []string
}

func (m *fakeMaterial) SetTextures(color, _ render.RenderTarget) {
	m.events = append(m.events, "set:"+color.Label())
}

func (m *fakeMaterial) UseDefault() {
	m.events = append(m.events, "default")
}

func (m *fakeMaterial) last() string {
	if len(m.events) == 0 {
		return ""
	}
	return m.events[len(m.events)-1]
}

type fakeEffect struct {
	enabled bool
	toggles int
}

func (e *fakeEffect) Enabled() bool { return e.enabled }
func (e *fakeEffect) SetEnabled(v bool) {
	e.enabled = v
	e.toggles++
}

type fakeGlobals struct {
	textures map[string]render.RenderTarget
	floats   map[string]float64
}

func newFakeGlobals() *fakeGlobals {
	return &fakeGlobals{
		textures: make(map[string]render.RenderTarget),
		floats:   make(map[string]float64),
	}
}

func (g *fakeGlobals) SetGlobalTexture(name string, t render.RenderTarget) { g.textures[name] = t }
func (g *fakeGlobals) SetGlobalFloat(name string, v float64)               { g.floats[name] = v }

type recordingObserver struct {
	name string
	log  *[]string
}

func (o recordingObserver) PortalEnabled(p *Portal) {
	*o.log = append(*o.log, o.name+":enabled:"+p.Name)
}

func (o recordingObserver) PortalDisabled(p *Portal) {
	*o.log = append(*o.log, o.name+":disabled:"+p.Name)
}

// facingPose returns a pose at pos looking along +Z.
func facingPose(pos mgl64.Vec3) Pose {
	return NewPose(pos, math.Pi, 0)
}

// newPortal returns a portal with a fakeMaterial.
func newPortal(name string, pose Pose) (*Portal, *fakeMaterial) {
	m := &fakeMaterial{}
	p := New(name, pose)
	p.Material = m
	return p, m
}

// mirrorScene is two portals facing each other along Z: A at the origin
// facing -Z, B at z=-20 facing +Z. The main camera stands at z=-5 looking
// at A, so every view through A comes out of B and sees A again.
type mirrorScene struct {
	reg        *Registry
	a, b       *Portal
	aMat, bMat *fakeMaterial
	main       *fakeCamera
	cam        *fakeCamera
	pool       *render.TargetPool
}

func newMirrorScene() (*mirrorScene, error) {
	s := &mirrorScene{reg: NewRegistry()}
	s.a, s.aMat = newPortal("A", IdentityPose())
	s.b, s.bMat = newPortal("B", NewPose(mgl64.Vec3{0, 0, -20}, math.Pi, 0))
	if err := s.reg.Register("mirror", s.a, 2); err != nil {
		return nil, err
	}
	if err := s.reg.Register("mirror", s.b, 2); err != nil {
		return nil, err
	}
	s.main = newFakeCamera(facingPose(mgl64.Vec3{0, 0, -5}))
	s.cam = newFakeCamera(IdentityPose(), s.a, s.b)
	pool, err := render.NewTargetPool(render.PixmapAllocator{}, 8, 8)
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return s, nil
}

func (s *mirrorScene) renderer(opts ...RendererOption) (*Renderer, error) {
	return NewRenderer(s.reg, s.pool, s.main, s.cam, opts...)
}

func colorLabel(i int) string {
	return fmt.Sprintf("portal step %d color", i)
}
