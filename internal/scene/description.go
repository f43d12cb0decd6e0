package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/orbital-nav/pkg/math"
)

// ErrInvalidSurface is returned for a node description with more than one
// surface kind.
var ErrInvalidSurface = errors.New("node describes both a sphere and an ellipsoid")

// NodeDescription is the YAML form of a scene node.
type NodeDescription struct {
	Identifier        string     `yaml:"identifier"`
	Parent            string     `yaml:"parent,omitempty"`
	Position          [3]float64 `yaml:"position"`
	Scale             float64    `yaml:"scale,omitempty"`
	BoundingSphere    float64    `yaml:"boundingSphere"`
	InteractionSphere float64    `yaml:"interactionSphere"`

	// At most one surface
	Radius    float64     `yaml:"radius,omitempty"`
	Ellipsoid *[3]float64 `yaml:"ellipsoid,omitempty"`

	Velocity [3]float64 `yaml:"velocity,omitempty"`
	SpinAxis [3]float64 `yaml:"spinAxis,omitempty"`
	SpinRate float64    `yaml:"spinRate,omitempty"`
}

// Build creates a graph from node descriptions. Parents must be listed
// before their children.
func Build(desc []NodeDescription) (*Graph, error) {
	g := NewGraph()
	for _, d := range desc {
		n, err := d.node()
		if err != nil {
			return nil, err
		}
		if err := g.Add(n, d.Parent); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ParseDescription decodes a YAML node list and builds the graph.
func ParseDescription(data []byte) (*Graph, error) {
	var desc []NodeDescription
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return Build(desc)
}

func (d NodeDescription) node() (*Node, error) {
	n := NewNode(d.Identifier)
	n.SetPosition(mgl64.Vec3(d.Position))
	if d.Scale > 0 {
		n.SetScale(d.Scale)
	}
	n.SetBoundingSphere(d.BoundingSphere)
	n.SetInteractionSphere(d.InteractionSphere)

	switch {
	case d.Radius > 0 && d.Ellipsoid != nil:
		return nil, fmt.Errorf("%s: %w", d.Identifier, ErrInvalidSurface)
	case d.Radius > 0:
		n.Surface = Sphere{Radius: d.Radius}
	case d.Ellipsoid != nil:
		n.Surface = Ellipsoid{Radii: mgl64.Vec3(*d.Ellipsoid)}
	}

	n.Velocity = mgl64.Vec3(d.Velocity)
	n.SpinAxis = mgl64.Vec3(d.SpinAxis)
	n.SpinRate = d.SpinRate
	if n.SpinRate != 0 && math.IsDegenerate(n.SpinAxis) {
		n.SpinAxis = mgl64.Vec3{0, 0, 1}
	}
	return n, nil
}
