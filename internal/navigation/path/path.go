package path

import (
	gomath "math"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/navigation/interpolator"
	"github.com/Faultbox/orbital-nav/internal/navigation/waypoint"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

// lengthSamples is the number of samples used to measure a curve.
const lengthSamples = 100

// Path is a timed flight from one waypoint to another.
type Path struct {
	start    waypoint.Waypoint
	end      waypoint.Waypoint
	curve    Curve
	length   float64
	duration float64
	elapsed  float64
}

// New creates a path of the given curve type lasting duration seconds.
func New(start, end waypoint.Waypoint, curveType CurveType, duration float64, nodes waypoint.NodeLookup) (*Path, error) {
	curve, err := newCurve(curveType, start, end, nodes)
	if err != nil {
		return nil, err
	}
	return &Path{
		start:    start,
		end:      end,
		curve:    curve,
		length:   arcLength(curve, lengthSamples),
		duration: gomath.Max(duration, 0),
	}, nil
}

// StartPoint returns the first waypoint.
func (p *Path) StartPoint() waypoint.Waypoint { return p.start }

// EndPoint returns the last waypoint.
func (p *Path) EndPoint() waypoint.Waypoint { return p.end }

// Curve returns the path curve.
func (p *Path) Curve() Curve { return p.curve }

// Length returns the approximate curve length.
func (p *Path) Length() float64 { return p.length }

// Duration returns the flight time in seconds.
func (p *Path) Duration() float64 { return p.duration }

// Progress returns the eased curve parameter of the current position.
func (p *Path) Progress() float64 {
	if p.duration <= 0 {
		return 1
	}
	return interpolator.CubicEaseInOut(gomath.Min(p.elapsed/p.duration, 1))
}

// HasReachedEnd reports whether the whole duration has elapsed.
func (p *Path) HasReachedEnd() bool {
	return p.elapsed >= p.duration
}

// CurrentNodeIdentifier returns the node the camera is closest to in path
// order: the start node for the first half, the end node after that.
func (p *Path) CurrentNodeIdentifier() string {
	if p.Progress() < 0.5 {
		return p.start.NodeIdentifier()
	}
	return p.end.NodeIdentifier()
}

// Traverse advances the path by dt seconds and returns the new pose.
func (p *Path) Traverse(dt float64) camera.Pose {
	p.elapsed = gomath.Min(p.elapsed+dt, p.duration)
	return p.Interpolate(p.Progress())
}

// Interpolate returns the pose at curve parameter u. Rotation is eased
// between the endpoint rotations.
func (p *Path) Interpolate(u float64) camera.Pose {
	if u < endpointEpsilon {
		return p.start.Pose()
	}
	if u > 1-endpointEpsilon {
		return p.end.Pose()
	}
	return camera.Pose{
		Position: p.curve.Position(u),
		Rotation: math.Slerp(p.start.Rotation(), p.end.Rotation(), interpolator.CubicEaseInOut(u)),
	}
}
