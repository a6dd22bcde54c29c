package portal

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	cfg := portal.DefaultConfig()
//	cfg.MaxDepth = 2
//	r, err := portal.NewRenderer(reg, pool, mainCam, portalCam,
//		portal.WithConfig(cfg),
//		portal.WithPostEffects(fog, edges),
//	)
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	config      Config
	postEffects []PostEffect
	globals     Globals
	maskCamera  Camera
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the default tunables.
func WithConfig(cfg Config) RendererOption {
	return func(o *rendererOptions) {
		o.config = cfg
	}
}

// WithPostEffects registers the post effects of the portal camera. They are
// disabled for the depth/normal pass and restored afterwards.
func WithPostEffects(effects ...PostEffect) RendererOption {
	return func(o *rendererOptions) {
		o.postEffects = append(o.postEffects, effects...)
	}
}

// WithGlobals sets where the portal mask and the screen resolution are
// published.
func WithGlobals(g Globals) RendererOption {
	return func(o *rendererOptions) {
		o.globals = g
	}
}

// WithMaskCamera sets the camera used for the portal mask pass. By default
// the portal camera renders the mask from the main camera's pose.
func WithMaskCamera(cam Camera) RendererOption {
	return func(o *rendererOptions) {
		o.maskCamera = cam
	}
}
