package portal

// Config holds the tunables of recursive portal rendering.
type Config struct {
	// MaxDepth bounds the recursion depth. Depth 0 is a portal seen by the
	// main camera.
	MaxDepth int `toml:"max_depth"`

	// MaxRenderSteps bounds the number of portal renders in one frame, shared
	// by all top-level portals in registration order.
	MaxRenderSteps int `toml:"max_render_steps"`

	// MaxRenderDistance is the distance beyond which a portal seen through
	// another portal is not rendered recursively.
	MaxRenderDistance float64 `toml:"max_render_distance"`

	// DistanceToStartCheckingPortalBounds selects the visibility test for
	// top-level portals. Within this distance, scaled by the portal's area
	// relative to ReferenceSurfaceArea, the precise screen rects are tested;
	// farther away the portal is tested against the full screen.
	DistanceToStartCheckingPortalBounds float64 `toml:"distance_to_start_checking_portal_bounds"`

	// ClearSpaceBehindPortal offsets the oblique near plane behind the linked
	// portal's surface.
	ClearSpaceBehindPortal float64 `toml:"clear_space_behind_portal"`

	// FacingThreshold is the dot product between portal normal and the
	// direction to the camera below which the portal faces the camera.
	FacingThreshold float64 `toml:"facing_threshold"`

	// ReferenceSurfaceArea is the area of an average portal.
	ReferenceSurfaceArea float64 `toml:"reference_surface_area"`
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{
		MaxDepth:                            4,
		MaxRenderSteps:                      12,
		MaxRenderDistance:                   400,
		DistanceToStartCheckingPortalBounds: 5,
		ClearSpaceBehindPortal:              0.49,
		FacingThreshold:                     0.05,
		ReferenceSurfaceArea:                64,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth <= 0:
		return &ConfigError{Field: "MaxDepth", Reason: "must be positive"}
	case c.MaxRenderSteps <= 0:
		return &ConfigError{Field: "MaxRenderSteps", Reason: "must be positive"}
	case c.MaxRenderDistance <= 0:
		return &ConfigError{Field: "MaxRenderDistance", Reason: "must be positive"}
	case c.DistanceToStartCheckingPortalBounds < 0:
		return &ConfigError{Field: "DistanceToStartCheckingPortalBounds", Reason: "must not be negative"}
	case c.ClearSpaceBehindPortal < 0:
		return &ConfigError{Field: "ClearSpaceBehindPortal", Reason: "must not be negative"}
	case c.ReferenceSurfaceArea <= 0:
		return &ConfigError{Field: "ReferenceSurfaceArea", Reason: "must be positive"}
	}
	return nil
}

// precise reports whether a portal at distance with the given surface area
// should be tested with its precise screen rects. Closer or larger portals
// use precise rects.
func (c Config) precise(distance, area float64) bool {
	return distance <= c.DistanceToStartCheckingPortalBounds*area/c.ReferenceSurfaceArea
}
