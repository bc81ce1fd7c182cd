package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewNodeAttachedToRoot(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("pin", KindMarker)

	if n.Parent() != g.Root() {
		t.Fatal("new node is not parented under the root")
	}
	if !n.EffectivelyVisible() {
		t.Error("new node should be attached and visible")
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestSetParentKeepsLocalTransform(t *testing.T) {
	g := NewGraph()
	tile := g.NewChild(g.Root(), "tile", KindTile, mgl32.Vec3{10, 0, 5})
	obj := g.NewNode("obj", KindMarker)
	obj.Position = mgl32.Vec3{1, 0, 1}

	obj.SetParent(tile)

	if len(tile.Children()) != 1 || len(g.Root().Children()) != 1 {
		t.Fatalf("children: tile=%d root=%d, want 1 and 1", len(tile.Children()), len(g.Root().Children()))
	}
	want := mgl32.Vec3{11, 0, 6}
	if got := obj.WorldPosition(); got != want {
		t.Errorf("WorldPosition() = %v, want %v", got, want)
	}
}

func TestWorldPositionUsesParentScale(t *testing.T) {
	g := NewGraph()
	parent := g.NewChild(g.Root(), "p", KindGroup, mgl32.Vec3{1, 0, 0})
	parent.Scale = 2
	child := g.NewChild(parent, "c", KindMarker, mgl32.Vec3{1, 1, 1})

	want := mgl32.Vec3{3, 2, 2}
	if got := child.WorldPosition(); got != want {
		t.Errorf("WorldPosition() = %v, want %v", got, want)
	}
	if got := child.WorldScale(); got != 2 {
		t.Errorf("WorldScale() = %v, want 2", got)
	}
}

func TestVisibilityInherited(t *testing.T) {
	g := NewGraph()
	tile := g.NewNode("tile", KindTile)
	obj := g.NewChild(tile, "obj", KindMarker, mgl32.Vec3{})

	tile.Hide()
	if obj.EffectivelyVisible() {
		t.Error("child of hidden parent reported visible")
	}
	tile.Show()
	if !obj.EffectivelyVisible() {
		t.Error("child of visible parent reported hidden")
	}

	tile.Detach()
	if obj.EffectivelyVisible() {
		t.Error("child of detached parent reported attached")
	}
}

func TestDestroySubtree(t *testing.T) {
	g := NewGraph()
	tile := g.NewNode("tile", KindTile)
	kept := g.NewChild(tile, "kept", KindMarker, mgl32.Vec3{})
	lost := g.NewChild(tile, "lost", KindMarker, mgl32.Vec3{})

	kept.SetParent(g.Root())
	tile.Destroy()

	if !tile.Destroyed() || !lost.Destroyed() {
		t.Error("tile and its remaining child should be destroyed")
	}
	if kept.Destroyed() || !kept.EffectivelyVisible() {
		t.Error("reparented child should survive")
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}

	// Destroyed nodes ignore reparenting.
	lost.SetParent(g.Root())
	if lost.Parent() != nil {
		t.Error("destroyed node was reparented")
	}
}

func TestRootCannotBeDestroyed(t *testing.T) {
	g := NewGraph()
	g.Root().Destroy()
	if g.Root().Destroyed() {
		t.Error("root was destroyed")
	}
}

func TestWalkSkipsHiddenBranches(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("a", KindTile)
	g.NewChild(a, "a1", KindMarker, mgl32.Vec3{})
	b := g.NewNode("b", KindTile)
	g.NewChild(b, "b1", KindMarker, mgl32.Vec3{})
	b.Hide()

	var names []string
	g.Walk(func(n *Node) bool {
		if !n.Visible {
			return false
		}
		names = append(names, n.Name)
		return true
	})

	want := []string{"root", "a", "a1"}
	if len(names) != len(want) {
		t.Fatalf("walked %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("walk[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}
