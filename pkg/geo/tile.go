// Package geo provides tile addressing, Web Mercator projection and the
// conversion between geographic coordinates and local scene positions.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// TileID addresses one tile of the quad-tree grid. Two IDs are equal iff
// zoom, x and y all match, so TileID is usable as a map key.
type TileID struct {
	Zoom int
	X    int
	Y    int
}

// NewTileID creates a tile ID.
func NewTileID(zoom, x, y int) TileID {
	return TileID{Zoom: zoom, X: x, Y: y}
}

// Maptile converts the ID to an orb tile. The ID must be valid.
func (t TileID) Maptile() maptile.Tile {
	return maptile.New(uint32(t.X), uint32(t.Y), maptile.Zoom(t.Zoom))
}

// String returns the z/x/y form used for logs and tile paths.
func (t TileID) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// GridSize returns the number of tiles per axis at the ID's zoom level.
func (t TileID) GridSize() int {
	return 1 << uint(t.Zoom)
}

// Valid reports whether the ID lies on the world grid.
func (t TileID) Valid() bool {
	if t.Zoom < 0 || t.Zoom > 30 {
		return false
	}
	n := t.GridSize()
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

// Offset returns the tile dx columns east and dy rows south of t.
func (t TileID) Offset(dx, dy int) TileID {
	return TileID{Zoom: t.Zoom, X: t.X + dx, Y: t.Y + dy}
}

// Rect is the geographic extent of a tile.
//
// Containment is half-open so that tiles partition the map: the west and
// north edges belong to the tile, the east and south edges belong to the
// neighbour. On the last column and row of the world there is no neighbour,
// so those outer edges are closed.
type Rect struct {
	Bound       orb.Bound
	closedEast  bool
	closedSouth bool
}

// MinLat returns the southern edge.
func (r Rect) MinLat() float64 { return r.Bound.Min.Lat() }

// MaxLat returns the northern edge.
func (r Rect) MaxLat() float64 { return r.Bound.Max.Lat() }

// MinLon returns the western edge.
func (r Rect) MinLon() float64 { return r.Bound.Min.Lon() }

// MaxLon returns the eastern edge.
func (r Rect) MaxLon() float64 { return r.Bound.Max.Lon() }

// Center returns the midpoint of the rect as (lat, lon).
func (r Rect) Center() (lat, lon float64) {
	c := r.Bound.Center()
	return c.Lat(), c.Lon()
}

// Contains reports whether (lat, lon) is claimed by the rect.
func (r Rect) Contains(lat, lon float64) bool {
	if lon < r.MinLon() || lat > r.MaxLat() {
		return false
	}
	if lon > r.MaxLon() || (lon == r.MaxLon() && !r.closedEast) {
		return false
	}
	if lat < r.MinLat() || (lat == r.MinLat() && !r.closedSouth) {
		return false
	}
	return true
}
