package placement

import (
	"testing"

	"github.com/Faultbox/geoar/pkg/geo"
)

func TestQueueFIFOAndDedup(t *testing.T) {
	q := NewQueue()
	t1 := geo.NewTileID(16, 1, 1)
	t2 := geo.NewTileID(16, 2, 1)

	if !q.Push("a", t1) || !q.Push("b", t2) || !q.Push("c", t1) {
		t.Fatal("Push of new names failed")
	}
	if q.Push("a", t2) {
		t.Error("Push of queued name succeeded")
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}

	name, tile, ok := q.Pop()
	if !ok || name != "a" || tile != t1 {
		t.Errorf("Pop() = (%q, %v, %v), want (a, %v, true)", name, tile, ok, t1)
	}
	if !q.Push("a", t2) {
		t.Error("Push after Pop rejected")
	}
}

func TestQueueDropTile(t *testing.T) {
	q := NewQueue()
	t1 := geo.NewTileID(16, 1, 1)
	t2 := geo.NewTileID(16, 2, 1)
	q.Push("a", t1)
	q.Push("b", t2)
	q.Push("c", t1)

	if n := q.DropTile(t1); n != 2 {
		t.Errorf("DropTile() = %d, want 2", n)
	}
	if q.Contains("a") || q.Contains("c") || !q.Contains("b") {
		t.Error("DropTile removed the wrong entries")
	}

	name, _, _ := q.Pop()
	if name != "b" {
		t.Errorf("Pop() = %q, want b", name)
	}
	if _, _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue succeeded")
	}
}

func TestQueueRemoveAndClear(t *testing.T) {
	q := NewQueue()
	tile := geo.NewTileID(16, 1, 1)
	q.Push("a", tile)
	q.Push("b", tile)

	if !q.Remove("a") || q.Remove("a") {
		t.Error("Remove() results wrong")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
	q.Clear()
	if q.Len() != 0 || q.Contains("b") {
		t.Error("Clear() left entries")
	}
}
