package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// QuatFromEuler builds a quaternion from pitch (X), yaw (Y) and roll (Z)
// angles in radians, composed as Rz * Ry * Rx.
func QuatFromEuler(euler mgl64.Vec3) mgl64.Quat {
	cx, sx := math.Cos(euler.X()*0.5), math.Sin(euler.X()*0.5)
	cy, sy := math.Cos(euler.Y()*0.5), math.Sin(euler.Y()*0.5)
	cz, sz := math.Cos(euler.Z()*0.5), math.Sin(euler.Z()*0.5)

	return mgl64.Quat{
		W: cx*cy*cz + sx*sy*sz,
		V: mgl64.Vec3{
			sx*cy*cz - cx*sy*sz,
			cx*sy*cz + sx*cy*sz,
			cx*cy*sz - sx*sy*cz,
		},
	}
}

// QuatFromMat3 converts a column-major rotation matrix into a quaternion.
func QuatFromMat3(m mgl64.Mat3) mgl64.Quat {
	m00, m01, m02 := m[0], m[3], m[6]
	m10, m11, m12 := m[1], m[4], m[7]
	m20, m21, m22 := m[2], m[5], m[8]

	trace := m00 + m11 + m22
	var q mgl64.Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = mgl64.Quat{W: 0.25 / s, V: mgl64.Vec3{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s}}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = mgl64.Quat{W: (m21 - m12) / s, V: mgl64.Vec3{0.25 * s, (m01 + m10) / s, (m02 + m20) / s}}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = mgl64.Quat{W: (m02 - m20) / s, V: mgl64.Vec3{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s}}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = mgl64.Quat{W: (m10 - m01) / s, V: mgl64.Vec3{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s}}
	}
	return q.Normalize()
}

// Mat3FromQuat returns the rotation matrix of q.
func Mat3FromQuat(q mgl64.Quat) mgl64.Mat3 {
	return Upper3(q.Normalize().Mat4())
}

// LookAtQuaternion returns the rotation of a camera placed at eye looking at
// center, with its up vector as close to up as possible. When up is parallel
// to the view direction an arbitrary perpendicular up vector is used.
func LookAtQuaternion(eye, center, up mgl64.Vec3) mgl64.Quat {
	f := SafeNormalize(center.Sub(eye), ViewDirectionCameraSpace)
	s := f.Cross(up)
	if IsDegenerate(s) {
		s = f.Cross(Orthogonal(f))
	}
	s = s.Normalize()
	u := s.Cross(f)

	return QuatFromMat3(mgl64.Mat3{
		s.X(), s.Y(), s.Z(),
		u.X(), u.Y(), u.Z(),
		-f.X(), -f.Y(), -f.Z(),
	})
}

// ViewDirection returns the world space view direction of a camera rotation.
func ViewDirection(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(ViewDirectionCameraSpace)
}

// RotateInverse rotates v by the inverse of q (v * q in glm notation).
func RotateInverse(v mgl64.Vec3, q mgl64.Quat) mgl64.Vec3 {
	return q.Inverse().Rotate(v)
}

// QuatAngle returns the rotation angle of q in radians, in [0, pi].
func QuatAngle(q mgl64.Quat) float64 {
	q = q.Normalize()
	return 2 * math.Atan2(q.V.Len(), math.Abs(q.W))
}

// AngleAxis returns the rotation of angle radians around axis. A degenerate
// axis yields the identity rotation.
func AngleAxis(angle float64, axis mgl64.Vec3) mgl64.Quat {
	if IsDegenerate(axis) {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(angle, axis.Normalize())
}

// Slerp performs spherical linear interpolation between two quaternions
// along the shortest path. t should be in range [0, 1].
func Slerp(q, other mgl64.Quat, t float64) mgl64.Quat {
	// Compute cos of angle between quaternions
	dot := q.Dot(other)

	// If dot is negative, negate one quaternion to take the shorter path
	if dot < 0 {
		other = other.Scale(-1)
		dot = -dot
	}

	// If quaternions are very close, use linear interpolation to avoid division by zero
	if dot > 1-1e-9 {
		return mgl64.Quat{
			W: Lerp(q.W, other.W, t),
			V: LerpVec3(q.V, other.V, t),
		}.Normalize()
	}

	theta0 := math.Acos(dot)
	theta := theta0 * t
	sinTheta := math.Sin(theta)
	sinTheta0 := math.Sin(theta0)

	s0 := math.Cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return q.Scale(s0).Add(other.Scale(s1))
}

// QuatApproxEqual reports whether a and b represent the same orientation
// within tol radians.
func QuatApproxEqual(a, b mgl64.Quat, tol float64) bool {
	return QuatAngle(a.Inverse().Mul(b)) <= tol
}

// EulerAngles returns the pitch (X), yaw (Y) and roll (Z) angles of q, the
// inverse of QuatFromEuler for yaw in (-pi/2, pi/2).
func EulerAngles(q mgl64.Quat) mgl64.Vec3 {
	w, x, y, z := q.W, q.V.X(), q.V.Y(), q.V.Z()

	py := 2 * (y*z + w*x)
	px := w*w - x*x - y*y + z*z
	pitch := math.Atan2(py, px)
	if py == 0 && px == 0 {
		pitch = 2 * math.Atan2(x, w)
	}
	yaw := math.Asin(mgl64.Clamp(-2*(x*z-w*y), -1, 1))
	roll := math.Atan2(2*(x*y+w*z), w*w+x*x-y*y-z*z)
	return mgl64.Vec3{pitch, yaw, roll}
}
