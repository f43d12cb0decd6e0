package scene

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/pkg/math"
)

// SurfacePositionHandle decomposes a model space point relative to an
// object's reference surface.
type SurfacePositionHandle struct {
	// CenterToReferenceSurface points from the object center to the
	// reference surface point below the query point.
	CenterToReferenceSurface mgl64.Vec3
	// ReferenceSurfaceOutDirection is the unit outward normal at that point.
	ReferenceSurfaceOutDirection mgl64.Vec3
	// HeightToSurface is the height of the actual surface (terrain) above
	// the reference surface along the out direction.
	HeightToSurface float64
}

// CenterToActualSurface returns the model space vector from the center to
// the actual surface, terrain height included.
func (h SurfacePositionHandle) CenterToActualSurface() mgl64.Vec3 {
	return h.CenterToReferenceSurface.Add(h.ReferenceSurfaceOutDirection.Mul(h.HeightToSurface))
}

// Surface answers surface position queries in model space.
type Surface interface {
	SurfacePositionHandle(p mgl64.Vec3) SurfacePositionHandle
}

// HeightFunc returns the terrain height above the reference surface in the
// given unit direction.
type HeightFunc func(dir mgl64.Vec3) float64

// fallbackOutDirection is used for queries at the exact center.
var fallbackOutDirection = mgl64.Vec3{0, 0, 1}

// Sphere is a spherical reference surface with optional terrain.
type Sphere struct {
	Radius float64
	Height HeightFunc
}

// SurfacePositionHandle implements Surface.
func (s Sphere) SurfacePositionHandle(p mgl64.Vec3) SurfacePositionHandle {
	dir := math.SafeNormalize(p, fallbackOutDirection)
	h := SurfacePositionHandle{
		CenterToReferenceSurface:     dir.Mul(s.Radius),
		ReferenceSurfaceOutDirection: dir,
	}
	if s.Height != nil {
		h.HeightToSurface = s.Height(dir)
	}
	return h
}

// Ellipsoid is a triaxial reference surface. Queries are projected onto it
// along the geodetic surface normal.
type Ellipsoid struct {
	Radii  mgl64.Vec3
	Height HeightFunc
}

const (
	geodeticEpsilon       = 1e-10
	geodeticMaxIterations = 64
)

// SurfacePositionHandle implements Surface.
func (e Ellipsoid) SurfacePositionHandle(p mgl64.Vec3) SurfacePositionHandle {
	var onSurface mgl64.Vec3
	if math.IsDegenerate(p) {
		onSurface = mgl64.Vec3{0, 0, e.Radii.Z()}
	} else {
		onSurface = e.GeodeticSurfaceProjection(p)
	}
	normal := e.GeodeticSurfaceNormal(onSurface)
	h := SurfacePositionHandle{
		CenterToReferenceSurface:     onSurface,
		ReferenceSurfaceOutDirection: normal,
	}
	if e.Height != nil {
		h.HeightToSurface = e.Height(normal)
	}
	return h
}

// GeodeticSurfaceNormal returns the outward unit normal at a surface point.
func (e Ellipsoid) GeodeticSurfaceNormal(onSurface mgl64.Vec3) mgl64.Vec3 {
	inv2 := e.oneOverRadiiSquared()
	n := mgl64.Vec3{onSurface.X() * inv2.X(), onSurface.Y() * inv2.Y(), onSurface.Z() * inv2.Z()}
	return math.SafeNormalize(n, fallbackOutDirection)
}

// GeodeticSurfaceProjection returns the point on the ellipsoid whose normal
// passes through p. It uses Newton iteration on the scaling parameter.
func (e Ellipsoid) GeodeticSurfaceProjection(p mgl64.Vec3) mgl64.Vec3 {
	inv2 := e.oneOverRadiiSquared()
	inv4 := mgl64.Vec3{inv2.X() * inv2.X(), inv2.Y() * inv2.Y(), inv2.Z() * inv2.Z()}
	p2 := mgl64.Vec3{p.X() * p.X(), p.Y() * p.Y(), p.Z() * p.Z()}

	beta := 1 / gomath.Sqrt(p2.Dot(inv2))
	n := mgl64.Vec3{beta * p.X() * inv2.X(), beta * p.Y() * inv2.Y(), beta * p.Z() * inv2.Z()}.Len()
	alpha := (1 - beta) * (p.Len() / n)

	var d mgl64.Vec3
	s, dSdA := 0.0, 1.0
	for i := 0; i < geodeticMaxIterations; i++ {
		alpha -= s / dSdA

		d = mgl64.Vec3{1 + alpha*inv2.X(), 1 + alpha*inv2.Y(), 1 + alpha*inv2.Z()}
		d2 := mgl64.Vec3{d.X() * d.X(), d.Y() * d.Y(), d.Z() * d.Z()}
		d3 := mgl64.Vec3{d2.X() * d.X(), d2.Y() * d.Y(), d2.Z() * d.Z()}

		s = p2.X()*inv2.X()/d2.X() + p2.Y()*inv2.Y()/d2.Y() + p2.Z()*inv2.Z()/d2.Z() - 1
		dSdA = -2 * (p2.X()*inv4.X()/d3.X() + p2.Y()*inv4.Y()/d3.Y() + p2.Z()*inv4.Z()/d3.Z())

		if gomath.Abs(s) <= geodeticEpsilon {
			break
		}
	}
	return mgl64.Vec3{p.X() / d.X(), p.Y() / d.Y(), p.Z() / d.Z()}
}

func (e Ellipsoid) oneOverRadiiSquared() mgl64.Vec3 {
	r := e.Radii
	return mgl64.Vec3{1 / (r.X() * r.X()), 1 / (r.Y() * r.Y()), 1 / (r.Z() * r.Z())}
}
