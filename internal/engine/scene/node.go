package scene

import "github.com/go-gl/mathgl/mgl32"

// Kind tells the renderer how to draw a node.
type Kind uint8

const (
	KindGroup Kind = iota
	KindTile
	KindMarker
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindTile:
		return "tile"
	case KindMarker:
		return "marker"
	case KindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Node is a visual handle in the scene graph.
type Node struct {
	ID   uint64
	Name string
	Kind Kind

	// Transform relative to the parent
	Position mgl32.Vec3
	Scale    float32

	Visible bool

	// Render data (tile content, mesh, material)
	Payload any

	parent    *Node
	children  []*Node
	graph     *Graph
	destroyed bool
}

// Parent returns the parent node, or nil for the root and detached nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// SetParent moves the node under p, keeping its local transform.
// A nil parent detaches the node from the hierarchy.
func (n *Node) SetParent(p *Node) {
	if n.destroyed || n.parent == p || p == n {
		return
	}
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	n.parent = p
	if p != nil {
		p.children = append(p.children, n)
	}
}

// Detach removes the node from the hierarchy without destroying it.
func (n *Node) Detach() {
	n.SetParent(nil)
}

// Show makes the node visible.
func (n *Node) Show() { n.Visible = true }

// Hide makes the node invisible.
func (n *Node) Hide() { n.Visible = false }

// EffectivelyVisible reports whether the node and all its ancestors are
// visible and the node is attached to the root.
func (n *Node) EffectivelyVisible() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.Visible {
			return false
		}
		if cur == n.graph.root {
			return true
		}
	}
	return false
}

// WorldPosition returns the position relative to the graph root.
func (n *Node) WorldPosition() mgl32.Vec3 {
	pos := n.Position
	for p := n.parent; p != nil; p = p.parent {
		pos = p.Position.Add(pos.Mul(p.Scale))
	}
	return pos
}

// WorldScale returns the accumulated scale of the node and its ancestors.
func (n *Node) WorldScale() float32 {
	s := n.Scale
	for p := n.parent; p != nil; p = p.parent {
		s *= p.Scale
	}
	return s
}

// Destroy detaches the node and destroys it together with its subtree.
func (n *Node) Destroy() {
	if n.destroyed || n == n.graph.root {
		return
	}
	n.Detach()
	n.destroyTree()
}

// Destroyed reports whether Destroy has been called on the node or an ancestor.
func (n *Node) Destroyed() bool {
	return n.destroyed
}

// Walk visits n and its descendants depth-first.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

func (n *Node) destroyTree() {
	for _, c := range n.children {
		c.parent = nil
		c.destroyTree()
	}
	n.children = nil
	n.destroyed = true
	n.Payload = nil
	delete(n.graph.nodes, n.ID)
}

func (n *Node) removeChild(c *Node) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}
