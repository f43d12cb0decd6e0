// Package scene provides the scene graph the navigators orbit around.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/pkg/math"
)

// Orbitable is anything the camera can be anchored to or aim at.
type Orbitable interface {
	Identifier() string
	WorldPosition() mgl64.Vec3
	WorldRotationMatrix() mgl64.Mat3
	ModelTransform() mgl64.Mat4
	InteractionSphere() float64
	CalculateSurfacePositionHandle(modelSpacePoint mgl64.Vec3) SurfacePositionHandle
}

// Registry looks up orbitable objects by identifier. Lookup returns nil
// when no object has the identifier.
type Registry interface {
	Lookup(identifier string) Orbitable
}

// Node is a scene graph node with a transform relative to its parent.
type Node struct {
	id       string
	parent   *Node
	children []*Node

	position mgl64.Vec3
	rotation mgl64.Quat
	scale    float64

	boundingSphere    float64
	interactionSphere float64

	// Surface is optional. Nodes without one answer surface queries with a
	// sphere of their interaction radius.
	Surface Surface

	// Simple animation advanced by Graph.Update
	Velocity mgl64.Vec3 // parent space units per second
	SpinAxis mgl64.Vec3
	SpinRate float64 // radians per second
}

// NewNode creates a node at the parent origin with unit scale.
func NewNode(id string) *Node {
	return &Node{
		id:       id,
		rotation: mgl64.QuatIdent(),
		scale:    1,
	}
}

// Identifier returns the unique node identifier.
func (n *Node) Identifier() string { return n.id }

// Parent returns the parent node, nil for roots.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children.
func (n *Node) Children() []*Node { return n.children }

// SetPosition sets the translation relative to the parent.
func (n *Node) SetPosition(p mgl64.Vec3) { n.position = p }

// Position returns the translation relative to the parent.
func (n *Node) Position() mgl64.Vec3 { return n.position }

// SetRotation sets the rotation relative to the parent.
func (n *Node) SetRotation(q mgl64.Quat) { n.rotation = q.Normalize() }

// Rotation returns the rotation relative to the parent.
func (n *Node) Rotation() mgl64.Quat { return n.rotation }

// SetScale sets the uniform scale relative to the parent.
func (n *Node) SetScale(s float64) { n.scale = s }

// SetBoundingSphere sets the model space bounding radius.
func (n *Node) SetBoundingSphere(r float64) { n.boundingSphere = r }

// SetInteractionSphere sets the model space interaction radius.
func (n *Node) SetInteractionSphere(r float64) { n.interactionSphere = r }

// BoundingSphere returns the bounding radius in world units.
func (n *Node) BoundingSphere() float64 {
	return n.boundingSphere * n.WorldScale()
}

// InteractionSphere returns the interaction radius in world units.
func (n *Node) InteractionSphere() float64 {
	return n.interactionSphere * n.WorldScale()
}

// WorldScale returns the accumulated uniform scale.
func (n *Node) WorldScale() float64 {
	if n.parent == nil {
		return n.scale
	}
	return n.parent.WorldScale() * n.scale
}

// WorldRotation returns the accumulated rotation.
func (n *Node) WorldRotation() mgl64.Quat {
	if n.parent == nil {
		return n.rotation
	}
	return n.parent.WorldRotation().Mul(n.rotation)
}

// WorldRotationMatrix returns the accumulated rotation as a matrix.
func (n *Node) WorldRotationMatrix() mgl64.Mat3 {
	return math.Mat3FromQuat(n.WorldRotation())
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	if n.parent == nil {
		return n.position
	}
	p := n.parent
	offset := p.WorldRotation().Rotate(n.position.Mul(p.WorldScale()))
	return p.WorldPosition().Add(offset)
}

// ModelTransform returns the model to world matrix.
func (n *Node) ModelTransform() mgl64.Mat4 {
	return math.ModelTransform(n.WorldPosition(), n.WorldRotationMatrix(), n.WorldScale())
}

// CalculateSurfacePositionHandle answers a surface query for a model space
// point.
func (n *Node) CalculateSurfacePositionHandle(p mgl64.Vec3) SurfacePositionHandle {
	if n.Surface != nil {
		return n.Surface.SurfacePositionHandle(p)
	}
	return Sphere{Radius: n.interactionSphere}.SurfacePositionHandle(p)
}

// advance applies one step of the node animation.
func (n *Node) advance(dt float64) {
	n.position = n.position.Add(n.Velocity.Mul(dt))
	if n.SpinRate != 0 && !math.IsDegenerate(n.SpinAxis) {
		spin := math.AngleAxis(n.SpinRate*dt, n.SpinAxis)
		n.rotation = spin.Mul(n.rotation).Normalize()
	}
}
