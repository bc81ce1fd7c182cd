package tiles

import (
	"testing"

	"github.com/Faultbox/geoar/pkg/geo"
)

func TestDirectionStep(t *testing.T) {
	tests := []struct {
		dir    Direction
		dx, dy int
	}{
		{North, 0, -1},
		{South, 0, 1},
		{East, 1, 0},
		{West, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			dx, dy := tt.dir.Step()
			if dx != tt.dx || dy != tt.dy {
				t.Errorf("Step() = (%d, %d), want (%d, %d)", dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestWindowTier(t *testing.T) {
	w := NewWindow(geo.NewTileID(10, 500, 500), 1, 2, 2)

	tests := []struct {
		off  Offset
		want Tier
	}{
		{Offset{0, 0}, TierVisible},
		{Offset{1, 1}, TierVisible},
		{Offset{-1, 0}, TierVisible},
		{Offset{2, 0}, TierBackground},
		{Offset{0, -2}, TierBackground},
		{Offset{-2, 2}, TierBackground},
	}
	for _, tt := range tests {
		if got := w.Tier(tt.off); got != tt.want {
			t.Errorf("Tier(%v) = %v, want %v", tt.off, got, tt.want)
		}
	}
}

func TestWindowRasterOrder(t *testing.T) {
	center := geo.NewTileID(10, 500, 500)
	w := NewWindow(center, 1, 1, 1)

	got := w.Visible()
	if len(got) != 9 {
		t.Fatalf("Visible() len = %d, want 9", len(got))
	}
	if got[0] != center.Offset(-1, -1) {
		t.Errorf("first tile = %v, want north-west corner", got[0])
	}
	if got[1] != center.Offset(0, -1) {
		t.Errorf("second tile = %v, want north edge", got[1])
	}
	if got[8] != center.Offset(1, 1) {
		t.Errorf("last tile = %v, want south-east corner", got[8])
	}
}

func TestWindowPreloadNeverSmallerThanVisible(t *testing.T) {
	w := NewWindow(geo.NewTileID(10, 500, 500), 2, 0, 1)
	if n := len(w.Preload()); n != 25 {
		t.Errorf("Preload() len = %d, want 25", n)
	}
}

func TestWindowClipsToGrid(t *testing.T) {
	w := NewWindow(geo.NewTileID(3, 0, 0), 1, 1, 1)
	got := w.Visible()
	if len(got) != 4 {
		t.Fatalf("Visible() at grid corner len = %d, want 4", len(got))
	}
	for _, id := range got {
		if !id.Valid() {
			t.Errorf("off-grid tile %v listed", id)
		}
	}
}

func TestWindowPan(t *testing.T) {
	center := geo.NewTileID(10, 500, 500)
	w := NewWindow(center, 1, 1, 1)
	have := make(map[geo.TileID]bool)
	for _, id := range w.Visible() {
		have[id] = true
	}

	delta, ok := w.Pan(East, func(id geo.TileID) bool { return have[id] })
	if !ok {
		t.Fatal("Pan(East) rejected")
	}
	if w.Center() != center.Offset(1, 0) {
		t.Errorf("Center() = %v, want %v", w.Center(), center.Offset(1, 0))
	}
	if len(delta.Removed) != 0 {
		t.Errorf("Pan removed %d tiles, want 0", len(delta.Removed))
	}
	want := []geo.TileID{center.Offset(2, -1), center.Offset(2, 0), center.Offset(2, 1)}
	if len(delta.Added) != len(want) {
		t.Fatalf("Added = %v, want %v", delta.Added, want)
	}
	for i := range want {
		if delta.Added[i] != want[i] {
			t.Errorf("Added[%d] = %v, want %v", i, delta.Added[i], want[i])
		}
	}

	if got := w.Offset(center.Offset(-1, 0)); got != (Offset{-2, 0}) {
		t.Errorf("old west tile offset = %v, want {-2 0}", got)
	}
}

func TestWindowPanOffGrid(t *testing.T) {
	center := geo.NewTileID(3, 0, 4)
	w := NewWindow(center, 1, 1, 1)

	if _, ok := w.Pan(West, func(geo.TileID) bool { return false }); ok {
		t.Error("Pan(West) off the grid accepted")
	}
	if w.Center() != center {
		t.Errorf("rejected pan moved center to %v", w.Center())
	}
}

func TestWindowReset(t *testing.T) {
	w := NewWindow(geo.NewTileID(10, 500, 500), 1, 1, 1)
	current := w.Preload()

	delta := w.Reset(geo.NewTileID(11, 1000, 1000), current)
	if len(delta.Removed) != len(current) {
		t.Errorf("Removed len = %d, want %d", len(delta.Removed), len(current))
	}
	if len(delta.Added) != 9 {
		t.Errorf("Added len = %d, want 9", len(delta.Added))
	}
	for _, id := range delta.Added {
		if id.Zoom != 11 {
			t.Errorf("added tile %v not on zoom 11", id)
		}
	}

	current[0] = geo.TileID{}
	if delta.Removed[0] == current[0] {
		t.Error("Removed aliases the caller's slice")
	}
}
