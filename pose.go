package portal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a rigid transform: a world position and an orientation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewPose returns a pose at position with a yaw (about +Y) and pitch
// (about local +X), both in radians.
func NewPose(position mgl64.Vec3, yaw, pitch float64) Pose {
	q := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0}))
	return Pose{Position: position, Rotation: q.Normalize()}
}

// IdentityPose returns the pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// Forward returns the direction a camera with this pose looks at (local -Z).
func (p Pose) Forward() mgl64.Vec3 {
	return p.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
}

// Up returns the local +Y axis in world space.
func (p Pose) Up() mgl64.Vec3 {
	return p.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
}

// Matrix returns the local-to-world matrix of the pose.
func (p Pose) Matrix() mgl64.Mat4 {
	t := p.Position
	return mgl64.Translate3D(t[0], t[1], t[2]).Mul4(p.Rotation.Mat4())
}

// ToLocal maps a world point into the pose's local frame.
func (p Pose) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return p.Rotation.Inverse().Rotate(world.Sub(p.Position))
}

// ToWorld maps a local point into world space.
func (p Pose) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Rotation.Rotate(local))
}

// ApproxEqual reports whether two poses match within eps. Rotations are
// compared up to sign, since q and -q describe the same orientation.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	if !p.Position.ApproxEqualThreshold(o.Position, eps) {
		return false
	}
	return sameRotation(p.Rotation, o.Rotation, eps)
}

func sameRotation(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(a.Normalize().Dot(b.Normalize())) >= 1-eps
}

// halfTurn is the 180 degree turn about local up that maps the front of one
// portal side onto the back of its linked side.
var halfTurn = mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0})

// ViewMatrix returns the world-to-camera matrix for a camera with pose p.
func ViewMatrix(p Pose) mgl64.Mat4 {
	t := p.Position
	return p.Rotation.Inverse().Mat4().Mul4(mgl64.Translate3D(-t[0], -t[1], -t[2]))
}
