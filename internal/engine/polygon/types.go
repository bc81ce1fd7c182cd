// Package polygon turns a drawn outline into a closed extruded volume: a flat
// bottom cap, a top cap raised by the wall height and two-sided side walls.
package polygon

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrTooFewPoints     = errors.New("polygon needs at least 3 points")
	ErrDegenerate       = errors.New("polygon outline has no area")
	ErrSelfIntersecting = errors.New("polygon outline intersects itself")
	ErrNoEar            = errors.New("polygon outline cannot be triangulated")
)

// DefaultTolerance is the cell size of the planar grid outline points are
// rounded to before matching. Points that round to the same cell are the same
// vertex; this merges points closer than half a cell on both axes, while two
// points closer than the tolerance can still land in adjacent cells.
const DefaultTolerance = 1e-4

// Vertex is a mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the box center.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent on each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh is an extruded polygon. Vertices holds the bottom surface followed by
// the top surface; vertex i and i+Half share a planar position.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	// Neighbors[i] is the vertex that follows vertex i in input order, for
	// i < Half. The input winding is kept: when Clockwise is set, this is
	// the clockwise neighbour on a map seen from above (east right, north
	// up), otherwise the counter-clockwise one.
	Neighbors []int
	Half      int

	// Clockwise reports the winding of the input outline in the (x, z) plane.
	Clockwise bool

	// WallStart is the offset in Indices where the side walls begin; caps
	// come first.
	WallStart int

	// Origin is the base-center of the volume in the input frame. Vertex
	// positions are relative to it.
	Origin mgl32.Vec3
	Bounds Bounds

	first int // vertex of the first input point
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Outline returns the bottom outline in input order, relative to Origin.
func (m *Mesh) Outline() []mgl32.Vec3 {
	if m.Half == 0 {
		return nil
	}
	out := make([]mgl32.Vec3, 0, m.Half)
	start := m.first
	for i, n := start, 0; n < m.Half; n++ {
		out = append(out, m.Vertices[i].Position)
		i = m.Neighbors[i]
		if i == start {
			break
		}
	}
	return out
}
