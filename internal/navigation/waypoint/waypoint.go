// Package waypoint describes camera poses tied to a scene node.
package waypoint

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/logger"
	"github.com/Faultbox/orbital-nav/internal/scene"
)

// DefaultMinValidBoundingSphere is the smallest bounding sphere trusted for
// distance computations.
const DefaultMinValidBoundingSphere = 10.0

// ErrNodeNotFound is returned when a waypoint references an unknown node.
var ErrNodeNotFound = errors.New("waypoint node not found")

// NodeLookup resolves scene nodes by identifier.
type NodeLookup interface {
	Node(id string) *scene.Node
}

// Waypoint is a camera pose plus the node it is relative to.
type Waypoint struct {
	pose                camera.Pose
	nodeIdentifier      string
	validBoundingSphere float64
}

// New creates a waypoint at an explicit pose.
func New(pose camera.Pose, nodeID string, nodes NodeLookup, minValidBoundingSphere float64) (Waypoint, error) {
	node := nodes.Node(nodeID)
	if node == nil {
		return Waypoint{}, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	return Waypoint{
		pose:                pose,
		nodeIdentifier:      nodeID,
		validBoundingSphere: FindValidBoundingSphere(node, minValidBoundingSphere),
	}, nil
}

// FromNavigationState creates a waypoint at the pose a navigation state
// describes. The state's anchor becomes the waypoint node.
func FromNavigationState(ns NavigationState, nodes NodeLookup, minValidBoundingSphere float64) (Waypoint, error) {
	pose, err := ns.CameraPose(nodes)
	if err != nil {
		return Waypoint{}, err
	}
	return New(pose, ns.Anchor, nodes, minValidBoundingSphere)
}

// Pose returns the camera pose.
func (w Waypoint) Pose() camera.Pose { return w.pose }

// Position returns the camera position.
func (w Waypoint) Position() mgl64.Vec3 { return w.pose.Position }

// Rotation returns the camera rotation.
func (w Waypoint) Rotation() mgl64.Quat { return w.pose.Rotation }

// NodeIdentifier returns the identifier of the reference node.
func (w Waypoint) NodeIdentifier() string { return w.nodeIdentifier }

// Node resolves the reference node. It may be nil if the node was removed.
func (w Waypoint) Node(nodes NodeLookup) *scene.Node { return nodes.Node(w.nodeIdentifier) }

// ValidBoundingSphere returns the size used for distance computations.
func (w Waypoint) ValidBoundingSphere() float64 { return w.validBoundingSphere }

// FindValidBoundingSphere returns the bounding sphere of node, or of its
// first direct child with one larger than minimum, or minimum itself.
func FindValidBoundingSphere(node *scene.Node, minimum float64) float64 {
	bs := node.BoundingSphere()
	if bs >= minimum {
		return bs
	}

	log := logger.Named("waypoint")

	// Only direct children; deeper nodes rarely represent the visual size
	for _, child := range node.Children() {
		if cbs := child.BoundingSphere(); cbs > minimum {
			log.Warn("node has no or a very small bounding sphere, using child",
				zap.String("node", node.Identifier()),
				zap.String("child", child.Identifier()),
				zap.Float64("boundingSphere", cbs))
			return cbs
		}
	}

	log.Warn("node has no or a very small bounding sphere, using minimal value",
		zap.String("node", node.Identifier()),
		zap.Float64("boundingSphere", minimum))
	return minimum
}
