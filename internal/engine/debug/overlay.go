// Package debug builds the top-down overlay geometry of the map view: tile
// quads, marker quads and polygon outlines in scene space.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geoar/internal/engine/polygon"
	"github.com/Faultbox/geoar/internal/engine/scene"
	"github.com/Faultbox/geoar/internal/tiles"
)

// Color is an RGBA color.
type Color struct {
	R, G, B, A uint8
}

var (
	ColorTileVisible    = Color{62, 98, 140, 255}
	ColorTileBackground = Color{40, 44, 54, 255}
	ColorGrid           = Color{128, 128, 128, 255}
	ColorCenter         = Color{240, 200, 80, 255}
	ColorMarker         = Color{90, 200, 120, 255}
	ColorMesh           = Color{230, 120, 70, 255}
	ColorBounds         = Color{230, 120, 70, 96}
	ColorOutline        = Color{255, 255, 255, 255}
)

// Line is a scene-space segment.
type Line struct {
	From, To mgl32.Vec3
	Color    Color
}

// Quad is an axis-aligned square on the ground plane.
type Quad struct {
	Center mgl32.Vec3
	Half   float32
	Color  Color
	Filled bool
}

// TileQuads returns a filled quad for every materialized tile and a grid
// outline on top. Background tiles are drawn dimmed; the center tile gets a
// highlighted outline.
func TileQuads(recs []*tiles.Record, center tiles.Offset, tileSize float32) []Quad {
	half := tileSize / 2
	quads := make([]Quad, 0, 2*len(recs)+1)
	var outlines []Quad
	for _, rec := range recs {
		pos := rec.Node.WorldPosition()
		color := ColorTileBackground
		if rec.Node.Visible {
			color = ColorTileVisible
		}
		quads = append(quads, Quad{Center: pos, Half: half, Color: color, Filled: true})

		outline := Quad{Center: pos, Half: half, Color: ColorGrid}
		if rec.Offset == center {
			outline.Color = ColorCenter
		}
		outlines = append(outlines, outline)
	}
	return append(quads, outlines...)
}

// MarkerQuads returns a quad for every effectively visible marker node.
func MarkerQuads(g *scene.Graph, half float32) []Quad {
	var quads []Quad
	g.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Kind == scene.KindMarker {
			quads = append(quads, Quad{Center: n.WorldPosition(), Half: half, Color: ColorMarker, Filled: true})
		}
		return true
	})
	return quads
}

// MeshLines returns the outline and footprint bounds of a mesh node.
func MeshLines(n *scene.Node, m *polygon.Mesh) []Line {
	origin, scale := n.WorldPosition(), n.WorldScale()
	world := func(p mgl32.Vec3) mgl32.Vec3 { return origin.Add(p.Mul(scale)) }

	outline := m.Outline()
	lines := make([]Line, 0, len(outline)+4)
	for i, p := range outline {
		q := outline[(i+1)%len(outline)]
		lines = append(lines, Line{From: world(p), To: world(q), Color: ColorMesh})
	}
	return append(lines, BoundsLines(world(m.Bounds.Min), world(m.Bounds.Max), ColorBounds)...)
}

// BoundsLines returns the ground footprint of a box as four lines.
func BoundsLines(lo, hi mgl32.Vec3, c Color) []Line {
	y := lo.Y()
	a := mgl32.Vec3{lo.X(), y, lo.Z()}
	b := mgl32.Vec3{hi.X(), y, lo.Z()}
	d := mgl32.Vec3{hi.X(), y, hi.Z()}
	e := mgl32.Vec3{lo.X(), y, hi.Z()}
	return []Line{
		{From: a, To: b, Color: c},
		{From: b, To: d, Color: c},
		{From: d, To: e, Color: c},
		{From: e, To: a, Color: c},
	}
}

// PolylineLines connects points in order, closing the loop when closed is set.
func PolylineLines(points []mgl32.Vec3, closed bool, c Color) []Line {
	if len(points) < 2 {
		return nil
	}
	lines := make([]Line, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		lines = append(lines, Line{From: points[i], To: points[i+1], Color: c})
	}
	if closed && len(points) > 2 {
		lines = append(lines, Line{From: points[len(points)-1], To: points[0], Color: c})
	}
	return lines
}

// MeshSource is implemented by node payloads that carry a polygon mesh.
type MeshSource interface {
	PolygonMesh() *polygon.Mesh
}

// MeshOverlay returns the lines of every effectively visible mesh node
// whose payload is a MeshSource.
func MeshOverlay(g *scene.Graph) []Line {
	var lines []Line
	g.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if src, ok := n.Payload.(MeshSource); ok && n.Kind == scene.KindMesh {
			lines = append(lines, MeshLines(n, src.PolygonMesh())...)
		}
		return true
	})
	return lines
}
