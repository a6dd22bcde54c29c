package softcam

import (
	"sync"

	"github.com/gogpu/portal"
	"github.com/gogpu/portal/render"
)

// Globals is a name-keyed store of values published for shaders.
// It is safe for concurrent use.
type Globals struct {
	mu       sync.RWMutex
	textures map[string]render.RenderTarget
	floats   map[string]float64
}

// NewGlobals returns an empty store.
func NewGlobals() *Globals {
	return &Globals{
		textures: make(map[string]render.RenderTarget),
		floats:   make(map[string]float64),
	}
}

// SetGlobalTexture publishes t under name.
func (g *Globals) SetGlobalTexture(name string, t render.RenderTarget) {
	g.mu.Lock()
	g.textures[name] = t
	g.mu.Unlock()
}

// SetGlobalFloat publishes v under name.
func (g *Globals) SetGlobalFloat(name string, v float64) {
	g.mu.Lock()
	g.floats[name] = v
	g.mu.Unlock()
}

// Texture returns the texture published under name.
func (g *Globals) Texture(name string) (render.RenderTarget, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.textures[name]
	return t, ok
}

// Float returns the value published under name.
func (g *Globals) Float(name string) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.floats[name]
	return v, ok
}

var _ portal.Globals = (*Globals)(nil)
