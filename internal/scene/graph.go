package scene

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by graph operations.
var (
	ErrDuplicateNode = errors.New("duplicate node identifier")
	ErrNodeNotFound  = errors.New("node not found")
	ErrEmptyID       = errors.New("empty node identifier")
)

// Graph owns the scene nodes and resolves them by identifier.
type Graph struct {
	nodes map[string]*Node
	roots []*Node
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Add inserts a node under the parent with the given identifier. An empty
// parent makes the node a root.
func (g *Graph) Add(n *Node, parent string) error {
	if n.id == "" {
		return ErrEmptyID
	}
	if _, ok := g.nodes[n.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.id)
	}
	if parent == "" {
		g.roots = append(g.roots, n)
	} else {
		p, ok := g.nodes[parent]
		if !ok {
			return fmt.Errorf("parent of %s: %w: %s", n.id, ErrNodeNotFound, parent)
		}
		n.parent = p
		p.children = append(p.children, n)
	}
	g.nodes[n.id] = n
	return nil
}

// Remove deletes a node and its subtree.
func (g *Graph) Remove(id string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if n.parent != nil {
		n.parent.children = removeNode(n.parent.children, n)
	} else {
		g.roots = removeNode(g.roots, n)
	}
	g.forget(n)
	n.parent = nil
	return nil
}

func (g *Graph) forget(n *Node) {
	delete(g.nodes, n.id)
	for _, c := range n.children {
		g.forget(c)
	}
}

func removeNode(list []*Node, n *Node) []*Node {
	for i, c := range list {
		if c == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Node returns the node with the identifier, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Lookup implements Registry.
func (g *Graph) Lookup(id string) Orbitable {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return n
}

// Identifiers returns all node identifiers in sorted order.
func (g *Graph) Identifiers() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Update advances the animation of every node by dt seconds.
func (g *Graph) Update(dt float64) {
	for _, n := range g.nodes {
		n.advance(dt)
	}
}
