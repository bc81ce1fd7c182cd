package mapview

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geoar/internal/config"
	"github.com/Faultbox/geoar/internal/engine/polygon"
	"github.com/Faultbox/geoar/internal/engine/scene"
	"github.com/Faultbox/geoar/internal/tiles"
)

func testMap(t *testing.T) *Map {
	t.Helper()
	cfg := config.Default()
	cfg.Streaming.PreloadRadiusX = 1
	cfg.Streaming.PreloadRadiusY = 1
	m, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.Startup(); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	return m
}

func settle(t *testing.T, m *Map) {
	t.Helper()
	for i := 0; !m.Settled(); i++ {
		if i > 1000 {
			t.Fatal("map did not settle")
		}
		m.Tick()
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Map.Zoom = 25
	if _, err := New(cfg, Options{}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New() error = %v, want ErrInvalid", err)
	}
}

func TestStartupStats(t *testing.T) {
	m := testMap(t)
	st := m.Stats()
	if st.Zoom != 16 || st.Tiles != 9 || st.State != tiles.Idle {
		t.Errorf("Stats() = %+v, want zoom 16, 9 tiles, idle", st)
	}
}

func TestStatsReportHeading(t *testing.T) {
	cfg := config.Default()
	cfg.Map.HeadingDeg = 90
	m, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := m.Stats().HeadingDeg; got < 89.999 || got > 90.001 {
		t.Errorf("Stats().HeadingDeg = %v, want 90", got)
	}
}

func TestBuildPolygonPlacedAtItsOrigin(t *testing.T) {
	m := testMap(t)
	outline := []mgl32.Vec3{{0, 0, 0}, {0.2, 0, 0}, {0.2, 0, 0.2}, {0, 0, 0.2}}

	node, err := m.BuildPolygon(outline, Heights{Base: 0, Wall: 0.1}, "glass")
	if err != nil {
		t.Fatalf("BuildPolygon() error = %v", err)
	}
	if node.Kind != scene.KindMesh {
		t.Errorf("Kind = %v, want mesh", node.Kind)
	}
	if m.Polygons.Pending() != 1 {
		t.Fatalf("Polygons.Pending() = %d, want 1", m.Polygons.Pending())
	}
	settle(t, m)

	if node.Parent() == nil || node.Parent().Kind != scene.KindTile {
		t.Fatalf("polygon parented under %v, want a tile", node.Parent())
	}
	if !node.EffectivelyVisible() {
		t.Error("polygon not visible after placement")
	}
	if pos := node.WorldPosition(); !pos.ApproxEqualThreshold(mgl32.Vec3{0.1, 0, 0.1}, 1e-4) {
		t.Errorf("WorldPosition() = %v, want (0.1, 0, 0.1)", pos)
	}

	poly := node.Payload.(Polygon)
	if poly.Material != "glass" || poly.Zoom != 16 || len(poly.Mesh.Vertices) != 8 {
		t.Errorf("payload = %+v", poly)
	}
}

func TestPolygonScalesWithZoom(t *testing.T) {
	m := testMap(t)
	outline := []mgl32.Vec3{{0, 0, 0}, {0.2, 0, 0}, {0.2, 0, 0.2}, {0, 0, 0.2}}
	node, err := m.BuildPolygon(outline, m.DefaultHeights(), "")
	if err != nil {
		t.Fatal(err)
	}
	settle(t, m)

	if !m.ChangeZoom(tiles.ZoomIn) {
		t.Fatal("ChangeZoom rejected")
	}
	if node.Destroyed() {
		t.Fatal("polygon destroyed with its tile")
	}
	if node.Visible {
		t.Error("polygon visible during zoom batch")
	}
	settle(t, m)

	if node.Scale != 2 {
		t.Errorf("Scale = %v, want 2", node.Scale)
	}
	if pos := node.WorldPosition(); !pos.ApproxEqualThreshold(mgl32.Vec3{0.2, 0, 0.2}, 1e-3) {
		t.Errorf("WorldPosition() = %v, want (0.2, 0, 0.2)", pos)
	}
}

func TestBuildPolygonError(t *testing.T) {
	m := testMap(t)
	_, err := m.BuildPolygon([]mgl32.Vec3{{0, 0, 0}}, m.DefaultHeights(), "")
	if !errors.Is(err, polygon.ErrTooFewPoints) {
		t.Errorf("BuildPolygon() error = %v, want ErrTooFewPoints", err)
	}
	if m.Polygons.Len() != 0 {
		t.Errorf("Polygons.Len() = %d, want 0", m.Polygons.Len())
	}
}

func TestDropPin(t *testing.T) {
	m := testMap(t)
	if err := m.RegisterPin("pin-1", 0, 0, "taken"); err != nil {
		t.Fatal(err)
	}

	name, err := m.DropPin("here")
	if err != nil {
		t.Fatalf("DropPin() error = %v", err)
	}
	if name != "pin-2" {
		t.Errorf("DropPin() = %q, want pin-2", name)
	}
	settle(t, m)

	it, ok := m.Pins.Lookup(name)
	if !ok {
		t.Fatal("dropped pin not registered")
	}
	if tile, placed := it.Placed(); !placed || tile != m.Streamer().Center() {
		t.Errorf("Placed() = (%v, %v), want center tile", tile, placed)
	}
	if it.Value.Label != "here" {
		t.Errorf("Label = %q, want here", it.Value.Label)
	}
}

func TestLoadCatalogue(t *testing.T) {
	m := testMap(t)
	data := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"name":"hall"},"geometry":{"type":"Point","coordinates":[8.5417,47.3769]}},
	  {"type":"Feature","properties":{"name":"hall"},"geometry":{"type":"Point","coordinates":[8.5418,47.3770]}},
	  {"type":"Feature","properties":{"name":"tower"},"geometry":{"type":"Point","coordinates":[9.0,48.0]}}
	]}`
	path := filepath.Join(t.TempDir(), "buildings.geojson")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := m.LoadCatalogue(KindBuildings, path)
	if err != nil {
		t.Fatalf("LoadCatalogue() error = %v", err)
	}
	if n != 2 || m.Buildings.Len() != 2 {
		t.Errorf("registered %d (Len %d), want 2", n, m.Buildings.Len())
	}
	settle(t, m)

	hall, _ := m.Buildings.Lookup("hall")
	if _, placed := hall.Placed(); !placed {
		t.Error("hall not placed")
	}
	tower, _ := m.Buildings.Lookup("tower")
	if _, placed := tower.Placed(); placed {
		t.Error("tower outside the window placed")
	}

	if _, err := m.LoadCatalogue("roads", path); err == nil {
		t.Error("LoadCatalogue() with unknown kind succeeded")
	}
}
