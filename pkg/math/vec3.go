// Package math provides double-precision vector and quaternion helpers for
// camera navigation, layered on top of mgl64.
package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as degenerate.
const Epsilon = 1e-12

// Camera space conventions: the camera looks down -Z with +Y up.
var (
	ViewDirectionCameraSpace = mgl64.Vec3{0, 0, -1}
	UpDirectionCameraSpace   = mgl64.Vec3{0, 1, 0}
)

// IsDegenerate reports whether v is too short to be normalized or contains NaN.
func IsDegenerate(v mgl64.Vec3) bool {
	l := v.Len()
	return l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0)
}

// VecApproxEqual reports whether a and b are within tol of each other,
// measured as the length of their difference.
func VecApproxEqual(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

// SafeNormalize returns v as a unit vector, or fallback if v is degenerate.
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	if IsDegenerate(v) {
		return fallback
	}
	return v.Mul(1 / v.Len())
}

// Angle returns the angle in radians between a and b. Both vectors are
// normalized first; a degenerate input yields 0.
func Angle(a, b mgl64.Vec3) float64 {
	if IsDegenerate(a) || IsDegenerate(b) {
		return 0
	}
	d := a.Normalize().Dot(b.Normalize())
	return math.Acos(mgl64.Clamp(d, -1, 1))
}

// Project returns the projection of v onto the direction of onto.
func Project(v, onto mgl64.Vec3) mgl64.Vec3 {
	l2 := onto.LenSqr()
	if l2 < Epsilon*Epsilon {
		return mgl64.Vec3{}
	}
	return onto.Mul(v.Dot(onto) / l2)
}

// Orthogonal returns a unit vector perpendicular to v.
func Orthogonal(v mgl64.Vec3) mgl64.Vec3 {
	// Cross with the axis least aligned with v
	axis := mgl64.Vec3{1, 0, 0}
	if math.Abs(v.X()) > math.Abs(v.Y()) {
		axis = mgl64.Vec3{0, 1, 0}
	}
	if math.Abs(v.Z()) < math.Abs(v.X()) && math.Abs(v.Z()) < math.Abs(v.Y()) {
		axis = mgl64.Vec3{0, 0, 1}
	}
	return SafeNormalize(v.Cross(axis), mgl64.Vec3{0, 0, 1})
}

// Sign returns -1, 0 or 1 depending on the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Lerp linearly interpolates between two scalars.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVec3 performs linear interpolation between two 3D vectors.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
