package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
)

// Projection is the tile and projection math the streaming core relies on.
// Implementations must be pure.
type Projection interface {
	TileForCoordinate(lat, lon float64, zoom int) TileID
	BoundsForTile(id TileID) Rect
	ToMeters(lat, lon float64) (x, y float64)
	FromMeters(x, y float64) (lat, lon float64)
	TileSizeMeters(zoom int) float64
}

// WebMercator implements Projection for the EPSG:3857 slippy-map grid.
type WebMercator struct{}

// TileForCoordinate returns the tile whose bounds claim the coordinate at
// zoom. The maptile fraction rounds coordinates on a tile edge either way,
// so its answer is clamped to the grid, checked against Rect.Contains and
// corrected to the neighbour that claims the point.
func (w WebMercator) TileForCoordinate(lat, lon float64, zoom int) TileID {
	f := maptile.Fraction(orb.Point{lon, lat}, maptile.Zoom(zoom))
	last := float64(int(1)<<uint(zoom) - 1)
	id := TileID{
		Zoom: zoom,
		X:    int(math.Max(0, math.Min(last, math.Floor(f[0])))),
		Y:    int(math.Max(0, math.Min(last, math.Floor(f[1])))),
	}
	if w.BoundsForTile(id).Contains(lat, lon) {
		return id
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			n := id.Offset(dx, dy)
			if n.Valid() && w.BoundsForTile(n).Contains(lat, lon) {
				return n
			}
		}
	}
	return id
}

// BoundsForTile returns the geographic extent of id.
func (WebMercator) BoundsForTile(id TileID) Rect {
	last := id.GridSize() - 1
	return Rect{
		Bound:       id.Maptile().Bound(),
		closedEast:  id.X == last,
		closedSouth: id.Y == last,
	}
}

// ToMeters projects a WGS84 coordinate to Mercator meters (x east, y north).
func (WebMercator) ToMeters(lat, lon float64) (float64, float64) {
	p := project.WGS84.ToMercator(orb.Point{lon, lat})
	return p[0], p[1]
}

// FromMeters is the inverse of ToMeters.
func (WebMercator) FromMeters(x, y float64) (float64, float64) {
	p := project.Mercator.ToWGS84(orb.Point{x, y})
	return p.Lat(), p.Lon()
}

// TileSizeMeters returns the edge length of one tile in Mercator meters.
func (WebMercator) TileSizeMeters(zoom int) float64 {
	return 2 * math.Pi * orb.EarthRadius / float64(uint64(1)<<uint(zoom))
}
