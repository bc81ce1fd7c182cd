// Package scene provides the retained scene graph that tiles, placed objects
// and polygon meshes are attached to.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Graph is a retained scene graph. Nodes persist between frames; the host
// renderer walks the graph once per frame.
type Graph struct {
	root   *Node
	nodes  map[uint64]*Node
	nextID uint64
}

// NewGraph creates a graph containing only its root node.
func NewGraph() *Graph {
	g := &Graph{nodes: make(map[uint64]*Node)}
	g.root = g.newNode("root", KindGroup)
	g.root.Visible = true
	return g
}

// Root returns the root node.
func (g *Graph) Root() *Node {
	return g.root
}

// NewNode creates a visible node under the root.
func (g *Graph) NewNode(name string, kind Kind) *Node {
	n := g.newNode(name, kind)
	n.Visible = true
	n.SetParent(g.root)
	return n
}

// NewChild creates a visible node under parent at a local position.
func (g *Graph) NewChild(parent *Node, name string, kind Kind, pos mgl32.Vec3) *Node {
	n := g.newNode(name, kind)
	n.Visible = true
	n.Position = pos
	n.SetParent(parent)
	return n
}

// Len returns the number of live nodes, the root included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Walk visits the attached hierarchy depth-first from the root.
// Returning false from fn skips the node's children.
func (g *Graph) Walk(fn func(n *Node) bool) {
	g.root.Walk(fn)
}

func (g *Graph) newNode(name string, kind Kind) *Node {
	g.nextID++
	n := &Node{
		ID:    g.nextID,
		Name:  name,
		Kind:  kind,
		Scale: 1,
		graph: g,
	}
	g.nodes[n.ID] = n
	return n
}
