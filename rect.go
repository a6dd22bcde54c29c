package portal

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in normalized viewport coordinates,
// where (0, 0) is the bottom-left corner of the screen and (1, 1) the top-right.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// FullScreen returns a bounds set containing only the whole viewport.
// A fresh slice is returned so callers may keep it.
func FullScreen() []Rect {
	return []Rect{{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the height of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Overlaps reports whether r and o share a region of positive area.
// Touching edges do not count as an overlap.
func (r Rect) Overlaps(o Rect) bool {
	return o.MaxX > r.MinX && o.MinX < r.MaxX &&
		o.MaxY > r.MinY && o.MinY < r.MaxY
}

// Intersect returns the intersection of r and o.
// The result is Empty when the rectangles do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		MinX: math.Max(r.MinX, o.MinX),
		MinY: math.Max(r.MinY, o.MinY),
		MaxX: math.Min(r.MaxX, o.MaxX),
		MaxY: math.Min(r.MaxY, o.MaxY),
	}
}

// Clamp restricts r to the unit viewport.
func (r Rect) Clamp() Rect {
	return r.Intersect(Rect{MaxX: 1, MaxY: 1})
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.3f, %.3f)-(%.3f, %.3f)", r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// OverlapsAny reports whether any rectangle of a overlaps any rectangle of b.
func OverlapsAny(a, b []Rect) bool {
	for _, ra := range a {
		for _, rb := range b {
			if ra.Overlaps(rb) {
				return true
			}
		}
	}
	return false
}

// IntersectBounds returns the pairwise intersections of every overlapping
// pair taken from a and b. The result is empty when nothing overlaps.
func IntersectBounds(a, b []Rect) []Rect {
	var out []Rect
	for _, ra := range a {
		for _, rb := range b {
			if ra.Overlaps(rb) {
				out = append(out, ra.Intersect(rb))
			}
		}
	}
	return out
}
