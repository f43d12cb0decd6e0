// Package path flies the camera between two waypoints along a smooth curve.
package path

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/orbital-nav/internal/navigation/waypoint"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

// ErrUnknownCurveType is returned for a curve name that does not exist.
var ErrUnknownCurveType = errors.New("unknown curve type")

// endpointEpsilon snaps parameters this close to 0 or 1 to the exact
// endpoints.
const endpointEpsilon = 1e-12

// Curve tangent lengths, relative to the node size at the ends and to the
// node distance in the middle.
const (
	endTangentLengthFactor = 2.0
	midTangentLengthFactor = 0.3
	// overviewHeightFactor places the overview knot relative to the distance
	// between the start and end nodes.
	overviewHeightFactor = 1.5
)

// CurveType selects the curve shape.
type CurveType int

const (
	// CurveZoomOutOverview leaves the start node outwards, passes a point
	// with a view of both nodes and closes in on the end node.
	CurveZoomOutOverview CurveType = iota
	// CurveLinear is a straight line.
	CurveLinear
)

var curveTypeNames = [...]string{
	CurveZoomOutOverview: "ZoomOutOverview",
	CurveLinear:          "Linear",
}

// String returns the curve type name.
func (c CurveType) String() string {
	if c >= 0 && int(c) < len(curveTypeNames) {
		return curveTypeNames[c]
	}
	return fmt.Sprintf("CurveType(%d)", int(c))
}

// ParseCurveType converts a curve name to its type.
func ParseCurveType(s string) (CurveType, error) {
	for c, name := range curveTypeNames {
		if name == s {
			return CurveType(c), nil
		}
	}
	return CurveZoomOutOverview, fmt.Errorf("%w: %q", ErrUnknownCurveType, s)
}

// MarshalYAML implements yaml.Marshaler.
func (c CurveType) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CurveType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCurveType(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Curve maps a parameter u in [0, 1] to a world space position.
type Curve interface {
	Position(u float64) mgl64.Vec3
}

// newCurve creates a curve of the given type between two waypoints.
func newCurve(t CurveType, start, end waypoint.Waypoint, nodes waypoint.NodeLookup) (Curve, error) {
	switch t {
	case CurveZoomOutOverview:
		return NewZoomOutOverviewCurve(start, end, nodes)
	case CurveLinear:
		return LinearCurve{Start: start.Position(), End: end.Position()}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCurveType, t)
	}
}

// LinearCurve is a straight segment.
type LinearCurve struct {
	Start, End mgl64.Vec3
}

// Position implements Curve.
func (c LinearCurve) Position(u float64) mgl64.Vec3 {
	if u < endpointEpsilon {
		return c.Start
	}
	if u > 1-endpointEpsilon {
		return c.End
	}
	return math.LerpVec3(c.Start, c.End, u)
}

// ZoomOutOverviewCurve is a piecewise cubic Bezier curve through control
// points derived from the waypoints and their nodes.
type ZoomOutOverviewCurve struct {
	points []mgl64.Vec3
	knots  []float64
}

// NewZoomOutOverviewCurve builds the curve. When the waypoints reference
// different nodes the curve passes an extra knot to the side of the line
// between them, far enough out to see both.
func NewZoomOutOverviewCurve(start, end waypoint.Waypoint, nodes waypoint.NodeLookup) (*ZoomOutOverviewCurve, error) {
	startNode := start.Node(nodes)
	if startNode == nil {
		return nil, fmt.Errorf("start: %w: %s", waypoint.ErrNodeNotFound, start.NodeIdentifier())
	}
	endNode := end.Node(nodes)
	if endNode == nil {
		return nil, fmt.Errorf("end: %w: %s", waypoint.ErrNodeNotFound, end.NodeIdentifier())
	}

	startNodePos := startNode.WorldPosition()
	endNodePos := endNode.WorldPosition()

	startNodeToStartPos := start.Position().Sub(startNodePos)
	startTangentDir := math.SafeNormalize(startNodeToStartPos, math.Orthogonal(endNodePos.Sub(startNodePos)))
	startTangentLength := endTangentLengthFactor * start.ValidBoundingSphere()

	// Leave the start node outwards.
	points := []mgl64.Vec3{
		start.Position(),
		start.Position().Add(startTangentDir.Mul(startTangentLength)),
	}

	if start.NodeIdentifier() != end.NodeIdentifier() {
		startNodeToEndNode := endNodePos.Sub(startNodePos)
		parallel := math.Project(startNodeToStartPos, startNodeToEndNode)
		orthogonal := math.SafeNormalize(startNodeToStartPos.Sub(parallel), math.Orthogonal(startNodeToEndNode))

		extraKnot := startNodePos.
			Add(startNodeToEndNode.Mul(0.5)).
			Add(orthogonal.Mul(overviewHeightFactor * startNodeToEndNode.Len()))

		points = append(points,
			extraKnot.Sub(startNodeToEndNode.Mul(midTangentLengthFactor)),
			extraKnot,
			extraKnot.Add(startNodeToEndNode.Mul(midTangentLengthFactor)),
		)
	}

	// Close in on the end node.
	endNodeToEndPos := end.Position().Sub(endNodePos)
	endTangentDir := math.SafeNormalize(endNodeToEndPos, startTangentDir)
	endTangentLength := endTangentLengthFactor * end.ValidBoundingSphere()

	points = append(points,
		end.Position().Add(endTangentDir.Mul(endTangentLength)),
		end.Position(),
	)

	return &ZoomOutOverviewCurve{points: points, knots: lengthKnots(points)}, nil
}

// lengthKnots places the segment boundaries at each segment's share of the
// total length, so the camera keeps a similar speed across segments.
func lengthKnots(points []mgl64.Vec3) []float64 {
	segments := (len(points) - 1) / 3
	knots := make([]float64, segments+1)
	total := 0.0
	for i := 0; i < segments; i++ {
		p := points[3*i : 3*i+4]
		prev := p[0]
		for k := 1; k <= lengthSamples; k++ {
			q := math.CubicBezier(float64(k)/lengthSamples, p[0], p[1], p[2], p[3])
			total += q.Sub(prev).Len()
			prev = q
		}
		knots[i+1] = total
	}
	if total <= 0 {
		for i := range knots {
			knots[i] = float64(i) / float64(segments)
		}
		return knots
	}
	for i := range knots {
		knots[i] /= total
	}
	knots[segments] = 1
	return knots
}

// Points returns the control points.
func (c *ZoomOutOverviewCurve) Points() []mgl64.Vec3 { return c.points }

// Knots returns the parameter values at the segment boundaries.
func (c *ZoomOutOverviewCurve) Knots() []float64 { return c.knots }

// Segments returns the number of cubic segments.
func (c *ZoomOutOverviewCurve) Segments() int { return len(c.knots) - 1 }

// Position implements Curve. The endpoints are returned exactly.
func (c *ZoomOutOverviewCurve) Position(u float64) mgl64.Vec3 {
	if u < endpointEpsilon {
		return c.points[0]
	}
	if u > 1-endpointEpsilon {
		return c.points[len(c.points)-1]
	}
	return math.PiecewiseCubicBezier(u, c.points, c.knots)
}

// arcLength approximates the curve length by sampling.
func arcLength(c Curve, samples int) float64 {
	length := 0.0
	prev := c.Position(0)
	for i := 1; i <= samples; i++ {
		p := c.Position(float64(i) / float64(samples))
		length += p.Sub(prev).Len()
		prev = p
	}
	return length
}
