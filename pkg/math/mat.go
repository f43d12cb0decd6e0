package math

import "github.com/go-gl/mathgl/mgl64"

// Upper3 returns the upper-left 3x3 portion of m.
func Upper3(m mgl64.Mat4) mgl64.Mat3 {
	return mgl64.Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// FromMat3 creates a Mat4 from a 3x3 matrix.
func FromMat3(m3 mgl64.Mat3) mgl64.Mat4 {
	return mgl64.Mat4{
		m3[0], m3[1], m3[2], 0,
		m3[3], m3[4], m3[5], 0,
		m3[6], m3[7], m3[8], 0,
		0, 0, 0, 1,
	}
}

// TransformPoint transforms a point by m (assumes w=1).
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	r := m.Mul4x1(p.Vec4(1))
	if r[3] != 0 && r[3] != 1 {
		return mgl64.Vec3{r[0] / r[3], r[1] / r[3], r[2] / r[3]}
	}
	return r.Vec3()
}

// TransformDirection transforms a direction by the linear part of m,
// ignoring translation.
func TransformDirection(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return Upper3(m).Mul3x1(d)
}

// ModelTransform composes translation, rotation and uniform scale into a
// model matrix (T * R * S).
func ModelTransform(translation mgl64.Vec3, rotation mgl64.Mat3, scale float64) mgl64.Mat4 {
	t := mgl64.Translate3D(translation.X(), translation.Y(), translation.Z())
	s := mgl64.Scale3D(scale, scale, scale)
	return t.Mul4(FromMat3(rotation)).Mul4(s)
}
