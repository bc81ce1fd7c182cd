// Package tiles implements the sliding tile window and the frame-budgeted
// streamer that materializes tiles into the scene graph.
package tiles

import "github.com/Faultbox/geoar/pkg/geo"

// Direction is a one-tile pan step.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Step returns the grid delta of the direction. Tile rows grow southwards.
func (d Direction) Step() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// ZoomDirection is a one-level zoom step.
type ZoomDirection int

const (
	ZoomOut ZoomDirection = -1
	ZoomIn  ZoomDirection = 1
)

// Tier is the coarse visibility bucket of a tile.
type Tier uint8

const (
	TierVisible Tier = iota
	TierBackground
)

func (t Tier) String() string {
	if t == TierVisible {
		return "visible"
	}
	return "background"
}

// Offset is a tile's grid distance from the window center.
type Offset struct {
	DX, DY int
}

// Delta lists the tiles a window transition adds and removes.
type Delta struct {
	Added   []geo.TileID
	Removed []geo.TileID
}

// Window tracks the logical center tile and derives offsets, tiers and
// transition deltas from it.
type Window struct {
	center        geo.TileID
	visibleRadius int
	preloadX      int
	preloadY      int
}

// NewWindow creates a window. The preload rectangle never shrinks below the
// visible radius.
func NewWindow(center geo.TileID, visibleRadius, preloadX, preloadY int) *Window {
	return &Window{
		center:        center,
		visibleRadius: visibleRadius,
		preloadX:      max(preloadX, visibleRadius),
		preloadY:      max(preloadY, visibleRadius),
	}
}

// Center returns the logical center tile.
func (w *Window) Center() geo.TileID {
	return w.center
}

// VisibleRadius returns the radius of the visible tier.
func (w *Window) VisibleRadius() int {
	return w.visibleRadius
}

// Offset returns the position of id relative to the center.
func (w *Window) Offset(id geo.TileID) Offset {
	return Offset{DX: id.X - w.center.X, DY: id.Y - w.center.Y}
}

// Tier returns the visibility tier for an offset.
func (w *Window) Tier(off Offset) Tier {
	if abs(off.DX) <= w.visibleRadius && abs(off.DY) <= w.visibleRadius {
		return TierVisible
	}
	return TierBackground
}

// Visible lists the on-grid tiles within the visible radius in raster order.
func (w *Window) Visible() []geo.TileID {
	return raster(w.center, w.visibleRadius, w.visibleRadius)
}

// Preload lists the on-grid tiles of the preload rectangle in raster order.
func (w *Window) Preload() []geo.TileID {
	return raster(w.center, w.preloadX, w.preloadY)
}

// Pan moves the center one step. Added holds the visible tiles for which
// has returns false; Pan never removes tiles. A step off the world grid is
// rejected and leaves the window unchanged.
func (w *Window) Pan(d Direction, has func(geo.TileID) bool) (Delta, bool) {
	dx, dy := d.Step()
	next := w.center.Offset(dx, dy)
	if (dx == 0 && dy == 0) || !next.Valid() {
		return Delta{}, false
	}
	w.center = next

	var delta Delta
	for _, id := range w.Visible() {
		if !has(id) {
			delta.Added = append(delta.Added, id)
		}
	}
	return delta, true
}

// Reset recenters the window, typically on another zoom level. Every
// currently materialized tile is removed and the whole preload rectangle is
// added.
func (w *Window) Reset(center geo.TileID, current []geo.TileID) Delta {
	w.center = center
	removed := make([]geo.TileID, len(current))
	copy(removed, current)
	return Delta{Added: w.Preload(), Removed: removed}
}

// raster lists tiles row by row from north to south, west to east.
func raster(center geo.TileID, rx, ry int) []geo.TileID {
	ids := make([]geo.TileID, 0, (2*rx+1)*(2*ry+1))
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			id := center.Offset(dx, dy)
			if id.Valid() {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
