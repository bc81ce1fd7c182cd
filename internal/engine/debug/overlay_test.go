package debug

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geoar/internal/engine/polygon"
	"github.com/Faultbox/geoar/internal/engine/scene"
	"github.com/Faultbox/geoar/internal/tiles"
	"github.com/Faultbox/geoar/pkg/geo"
)

type meshPayload struct{ m *polygon.Mesh }

func (p meshPayload) PolygonMesh() *polygon.Mesh { return p.m }

func TestTileQuads(t *testing.T) {
	g := scene.NewGraph()
	proj := geo.NewProjector(geo.WebMercator{}, 47.3769, 8.5417, 1)
	s := tiles.NewStreamer(tiles.Config{
		Zoom: 16, MinZoom: 3, MaxZoom: 19,
		VisibleRadius: 1, PreloadRadiusX: 2, PreloadRadiusY: 2,
		TileWorldSize: 1,
	}, proj, g, nil, nil)
	if err := s.Startup(); err != nil {
		t.Fatal(err)
	}

	quads := TileQuads(s.Tiles(), tiles.Offset{}, 1)
	if len(quads) != 50 {
		t.Fatalf("TileQuads() len = %d, want 50", len(quads))
	}

	var visible, background, centers int
	for _, q := range quads {
		switch {
		case q.Filled && q.Color == ColorTileVisible:
			visible++
		case q.Filled && q.Color == ColorTileBackground:
			background++
		case !q.Filled && q.Color == ColorCenter:
			centers++
		}
	}
	if visible != 9 || background != 16 || centers != 1 {
		t.Errorf("visible %d, background %d, centers %d; want 9, 16, 1", visible, background, centers)
	}
}

func TestMarkerQuadsSkipHidden(t *testing.T) {
	g := scene.NewGraph()
	shown := g.NewNode("a", scene.KindMarker)
	shown.Position = mgl32.Vec3{1, 0, 2}
	hidden := g.NewNode("b", scene.KindMarker)
	hidden.Hide()

	parent := g.NewNode("tile", scene.KindTile)
	parent.Hide()
	g.NewChild(parent, "c", scene.KindMarker, mgl32.Vec3{})

	quads := MarkerQuads(g, 0.05)
	if len(quads) != 1 {
		t.Fatalf("MarkerQuads() len = %d, want 1", len(quads))
	}
	if quads[0].Center != shown.Position {
		t.Errorf("Center = %v, want %v", quads[0].Center, shown.Position)
	}
}

func TestMeshOverlay(t *testing.T) {
	m, err := polygon.Builder{WallHeight: 1}.Build([]mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 0, 2}, {0, 0, 2}})
	if err != nil {
		t.Fatal(err)
	}
	g := scene.NewGraph()
	n := g.NewNode("poly", scene.KindMesh)
	n.Position = m.Origin
	n.Scale = 2
	n.Payload = meshPayload{m}

	lines := MeshOverlay(g)
	if len(lines) != 8 {
		t.Fatalf("MeshOverlay() len = %d, want 8", len(lines))
	}
	// The first outline point is the first input point, scaled about the origin.
	if want := (mgl32.Vec3{-1, 0, -1}); !lines[0].From.ApproxEqual(want) {
		t.Errorf("first outline point = %v, want %v", lines[0].From, want)
	}

	n.Hide()
	if lines := MeshOverlay(g); len(lines) != 0 {
		t.Errorf("hidden mesh produced %d lines", len(lines))
	}
}

func TestPolylineLines(t *testing.T) {
	pts := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}}
	if n := len(PolylineLines(pts, false, ColorOutline)); n != 2 {
		t.Errorf("open polyline lines = %d, want 2", n)
	}
	if n := len(PolylineLines(pts, true, ColorOutline)); n != 3 {
		t.Errorf("closed polyline lines = %d, want 3", n)
	}
	if PolylineLines(pts[:1], true, ColorOutline) != nil {
		t.Error("single point produced lines")
	}
}
