package math

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// CubicBezier evaluates a cubic Bezier segment at t in [0, 1].
func CubicBezier(t float64, p0, p1, p2, p3 mgl64.Vec3) mgl64.Vec3 {
	a := 1 - t
	return p0.Mul(a * a * a).
		Add(p1.Mul(3 * t * a * a)).
		Add(p2.Mul(3 * t * t * a)).
		Add(p3.Mul(t * t * t))
}

// PiecewiseCubicBezier evaluates a curve made of consecutive cubic segments.
// points holds 3n+1 control points for n segments and knots holds the n+1
// increasing parameter values at the segment boundaries, from 0 to 1.
func PiecewiseCubicBezier(t float64, points []mgl64.Vec3, knots []float64) mgl64.Vec3 {
	if t <= 0 {
		return points[0]
	}
	if t >= 1 {
		return points[len(points)-1]
	}

	// First knot >= t ends the current segment
	end := sort.SearchFloat64s(knots, t)
	if end < 1 {
		end = 1
	}
	if end > len(knots)-1 {
		end = len(knots) - 1
	}
	segment := end - 1

	start := knots[segment]
	duration := knots[segment+1] - start
	local := 0.0
	if duration > 0 {
		local = (t - start) / duration
	}

	i := segment * 3
	return CubicBezier(local, points[i], points[i+1], points[i+2], points[i+3])
}
