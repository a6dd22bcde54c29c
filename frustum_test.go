package portal

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPlaneDistance(t *testing.T) {
	pl := PlaneFromPoint(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 3, 0})
	tests := []struct {
		p    mgl64.Vec3
		want float64
	}{
		{mgl64.Vec3{0, 3, 0}, 0},
		{mgl64.Vec3{5, 4, -1}, 1},
		{mgl64.Vec3{0, 0, 0}, -3},
	}
	for _, tt := range tests {
		if got := pl.Distance(tt.p); math.Abs(got-tt.want) > eps {
			t.Errorf("Distance(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := FrustumFromMatrix(viewProjection(IdentityPose()))

	tests := []struct {
		name string
		p    mgl64.Vec3
		want bool
	}{
		{"straight ahead", mgl64.Vec3{0, 0, -10}, true},
		{"behind", mgl64.Vec3{0, 0, 10}, false},
		{"closer than near", mgl64.Vec3{0, 0, -0.05}, false},
		{"beyond far", mgl64.Vec3{0, 0, -2000}, false},
		{"outside left", mgl64.Vec3{-20, 0, -10}, false},
		{"inside right edge", mgl64.Vec3{5, 0, -10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsPoint(tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestFrustumPlanesNormalized(t *testing.T) {
	f := FrustumFromMatrix(viewProjection(NewPose(mgl64.Vec3{1, 2, 3}, 0.3, 0.2)))
	for i, pl := range f.Planes {
		if l := pl.Normal.Len(); math.Abs(l-1) > eps {
			t.Errorf("plane %d normal length = %v, want 1", i, l)
		}
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	f := FrustumFromMatrix(viewProjection(IdentityPose()))
	tests := []struct {
		name   string
		lo, hi mgl64.Vec3
		want   bool
	}{
		{"box ahead", mgl64.Vec3{-1, -1, -11}, mgl64.Vec3{1, 1, -9}, true},
		{"box behind", mgl64.Vec3{-1, -1, 9}, mgl64.Vec3{1, 1, 11}, false},
		{"box straddling the eye", mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}, true},
		{"box far left", mgl64.Vec3{-100, -1, -11}, mgl64.Vec3{-90, 1, -9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IntersectsAABB(tt.lo, tt.hi); got != tt.want {
				t.Errorf("IntersectsAABB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObliqueProjectionStandardNearPlane(t *testing.T) {
	const near = 0.1
	proj := testProjection()
	got := ObliqueProjection(proj, mgl64.Vec4{0, 0, -1, -near})
	if !got.ApproxEqualThreshold(proj, 1e-9) {
		t.Errorf("ObliqueProjection with the near plane = %v, want %v", got, proj)
	}
}

func TestObliqueProjectionClipsAtPlane(t *testing.T) {
	// Camera at the origin looking down -Z, clip plane tilted through (0, 0, -5).
	normal := mgl64.Vec3{0.3, 0, -1}.Normalize()
	plane := PlaneFromPoint(normal, mgl64.Vec3{0, 0, -5})
	proj := ObliqueProjection(testProjection(), WorldPlaneToCamera(mgl64.Ident4(), plane))
	f := FrustumFromMatrix(proj)

	near := f.Planes[FrustumNear]
	if !near.Normal.ApproxEqualThreshold(normal, 1e-6) || math.Abs(near.D-plane.D) > 1e-6 {
		t.Errorf("near plane = %+v, want %+v", near, plane)
	}
	if !f.ContainsPoint(mgl64.Vec3{0, 0, -6}) {
		t.Error("point beyond the clip plane should be inside")
	}
	if f.ContainsPoint(mgl64.Vec3{0, 0, -4}) {
		t.Error("point before the clip plane should be clipped")
	}
}

func TestWorldPlaneToCamera(t *testing.T) {
	pose := NewPose(mgl64.Vec3{3, 1, -2}, 0.7, -0.2)
	plane := PlaneFromPoint(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{4, 0, 0})
	cp := WorldPlaneToCamera(ViewMatrix(pose), plane)

	world := mgl64.Vec3{2, 5, -7}
	local := ViewMatrix(pose).Mul4x1(world.Vec4(1))
	if got, want := cp.Dot(local), plane.Distance(world); math.Abs(got-want) > eps {
		t.Errorf("camera-space distance = %v, want %v", got, want)
	}
}

func TestClipNear(t *testing.T) {
	tests := []struct {
		name string
		poly []mgl64.Vec4
		want int
	}{
		{"all in front", []mgl64.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {1, 1, 0, 1}}, 3},
		{"all behind", []mgl64.Vec4{{0, 0, -2, 1}, {1, 0, -2, 1}, {1, 1, -2, 1}}, 0},
		{"one vertex behind", []mgl64.Vec4{{0, 0, -2, 1}, {1, 0, 0, 1}, {1, 1, 0, 1}}, 4},
		{"negative w", []mgl64.Vec4{{0, 0, 0, -1}, {1, 0, 0, -1}, {1, 1, 0, -1}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipNear(tt.poly)
			if len(got) != tt.want {
				t.Fatalf("ClipNear() returned %d vertices, want %d", len(got), tt.want)
			}
			for _, v := range got {
				if v[2]+v[3] < -eps || v[3] < minClipW-eps {
					t.Errorf("vertex %v outside the near plane", v)
				}
			}
		})
	}
}

func TestRectOverlapIsStrict(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 0.5, MaxY: 0.5}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{MinX: 0.25, MinY: 0.25, MaxX: 1, MaxY: 1}, true},
		{"touching edge", Rect{MinX: 0.5, MinY: 0, MaxX: 1, MaxY: 0.5}, false},
		{"touching corner", Rect{MinX: 0.5, MinY: 0.5, MaxX: 1, MaxY: 1}, false},
		{"contained", Rect{MinX: 0.1, MinY: 0.1, MaxX: 0.2, MaxY: 0.2}, true},
		{"disjoint", Rect{MinX: 0.7, MinY: 0.7, MaxX: 0.8, MaxY: 0.8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(a); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %v", tt.b)
			}
		})
	}
}

func TestIntersectBounds(t *testing.T) {
	parent := []Rect{
		{MinX: 0, MinY: 0, MaxX: 0.5, MaxY: 1},
		{MinX: 0.6, MinY: 0, MaxX: 1, MaxY: 1},
	}
	child := []Rect{{MinX: 0.4, MinY: 0.2, MaxX: 0.7, MaxY: 0.4}}

	got := IntersectBounds(parent, child)
	want := []Rect{
		{MinX: 0.4, MinY: 0.2, MaxX: 0.5, MaxY: 0.4},
		{MinX: 0.6, MinY: 0.2, MaxX: 0.7, MaxY: 0.4},
	}
	if len(got) != len(want) {
		t.Fatalf("IntersectBounds() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IntersectBounds()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !OverlapsAny(parent, child) {
		t.Error("OverlapsAny() = false, want true")
	}
	if got := IntersectBounds(parent, []Rect{{MinX: 0.5, MinY: 0, MaxX: 0.6, MaxY: 1}}); len(got) != 0 {
		t.Errorf("IntersectBounds() of the gap = %v, want none", got)
	}
}

func TestRectClamp(t *testing.T) {
	r := Rect{MinX: -0.5, MinY: 0.2, MaxX: 1.5, MaxY: 2}.Clamp()
	want := Rect{MinX: 0, MinY: 0.2, MaxX: 1, MaxY: 1}
	if r != want {
		t.Errorf("Clamp() = %v, want %v", r, want)
	}
	if (Rect{MinX: 1.2, MaxX: 1.5, MaxY: 1}).Clamp().Empty() != true {
		t.Error("rect right of the screen should clamp to empty")
	}
}
