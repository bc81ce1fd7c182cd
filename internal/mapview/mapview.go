// Package mapview wires the projector, tile streamer, placement indices and
// polygon builder into one explicitly constructed map context.
package mapview

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/paulmach/orb/geojson"
	"github.com/teris-io/shortid"
	"go.uber.org/zap"

	"github.com/Faultbox/geoar/internal/config"
	"github.com/Faultbox/geoar/internal/engine/polygon"
	"github.com/Faultbox/geoar/internal/engine/scene"
	"github.com/Faultbox/geoar/internal/logger"
	"github.com/Faultbox/geoar/internal/placement"
	"github.com/Faultbox/geoar/internal/tiles"
	"github.com/Faultbox/geoar/pkg/geo"
)

// Catalogue kinds.
const (
	KindBuildings = "buildings"
	KindPins      = "pins"
	KindPolygons  = "polygons"
)

// Building is the value stored for a catalogue building.
type Building struct {
	Properties geojson.Properties
}

// Pin is the value stored for a dropped or loaded pin.
type Pin struct {
	Label string
}

// Polygon is the value stored for a user-drawn volume. Its mesh is built in
// scene units at Zoom.
type Polygon struct {
	Mesh     *polygon.Mesh
	Material string
	Zoom     int
	Base     float32
}

// PolygonMesh returns the extruded mesh.
func (p Polygon) PolygonMesh() *polygon.Mesh {
	return p.Mesh
}

// Heights are the extrusion parameters of a polygon.
type Heights struct {
	Base float32
	Wall float32
}

// Options carries collaborators that override the config.
type Options struct {
	Source tiles.Source // tile data; derived from cfg.Data when nil
	Log    *zap.Logger
}

// Map is the map context. All methods must be called from the frame loop.
type Map struct {
	cfg   *config.Config
	log   *zap.Logger
	graph *scene.Graph

	projector *geo.Projector
	streamer  *tiles.Streamer

	Buildings *placement.Index[Building]
	Pins      *placement.Index[Pin]
	Polygons  *placement.Index[Polygon]

	pinSeq     int
	polygonSeq int
}

// New creates a map context from cfg.
func New(cfg *config.Config, opts Options) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.OrNop(opts.Log)

	source := opts.Source
	if source == nil {
		if cfg.Data.TileDir != "" {
			source = tiles.DirSource{Root: cfg.Data.TileDir, Ext: cfg.Data.TileExt}
		} else {
			source = tiles.StaticSource{}
		}
	}

	graph := scene.NewGraph()
	projector := geo.NewProjector(geo.WebMercator{}, cfg.Map.CenterLat, cfg.Map.CenterLon, 1)
	projector.SetHeading(cfg.Map.HeadingDeg * math.Pi / 180)

	streamer := tiles.NewStreamer(tiles.Config{
		Zoom:           cfg.Map.Zoom,
		MinZoom:        cfg.Map.MinZoom,
		MaxZoom:        cfg.Map.MaxZoom,
		VisibleRadius:  cfg.Streaming.VisibleRadius,
		PreloadRadiusX: cfg.Streaming.PreloadRadiusX,
		PreloadRadiusY: cfg.Streaming.PreloadRadiusY,
		TilesPerTick:   cfg.Streaming.TilesPerTick,
		TileWorldSize:  cfg.Map.TileWorldSize,
	}, projector, graph, source, log.Named("tiles"))

	m := &Map{
		cfg:       cfg,
		log:       log,
		graph:     graph,
		projector: projector,
		streamer:  streamer,
	}
	perTick := cfg.Placement.ItemsPerTick
	m.Buildings = placement.New[Building](placement.Config{Kind: KindBuildings, ItemsPerTick: perTick}, streamer, graph, log.Named(KindBuildings))
	m.Pins = placement.New[Pin](placement.Config{Kind: KindPins, ItemsPerTick: perTick}, streamer, graph, log.Named(KindPins))
	m.Polygons = placement.New[Polygon](placement.Config{Kind: KindPolygons, ItemsPerTick: perTick}, streamer, graph, log.Named(KindPolygons))
	m.Polygons.SetPlaceHook(scalePolygon)

	streamer.Subscribe(m.Buildings)
	streamer.Subscribe(m.Pins)
	streamer.Subscribe(m.Polygons)
	return m, nil
}

// scalePolygon keeps a polygon's geographic size when the zoom level differs
// from the one it was built at.
func scalePolygon(it *placement.Item[Polygon], tile geo.TileID) {
	s := float32(math.Ldexp(1, tile.Zoom-it.Value.Zoom))
	it.Node.Scale = s
	it.Node.Position[1] = it.Value.Base * s
}

// LoadCatalogues registers the GeoJSON catalogues named in the config.
func (m *Map) LoadCatalogues() error {
	for _, path := range m.cfg.Data.Buildings {
		if _, err := m.LoadCatalogue(KindBuildings, path); err != nil {
			return err
		}
	}
	for _, path := range m.cfg.Data.Pins {
		if _, err := m.LoadCatalogue(KindPins, path); err != nil {
			return err
		}
	}
	return nil
}

// LoadCatalogue registers every feature of a GeoJSON file into the index of
// kind. Duplicate names are logged and skipped. Returns the number of
// registered objects.
func (m *Map) LoadCatalogue(kind, path string) (int, error) {
	features, err := placement.LoadFeatures(path, kind)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, f := range features {
		switch kind {
		case KindBuildings:
			err = m.RegisterBuilding(f.Name, f.Lat, f.Lon, f.Properties)
		case KindPins:
			err = m.RegisterPin(f.Name, f.Lat, f.Lon, f.Properties.MustString("label", f.Name))
		default:
			return n, fmt.Errorf("load catalogue %s: unknown kind %q", path, kind)
		}
		if err != nil {
			m.log.Warn("catalogue entry skipped", zap.String("file", path), zap.String("name", f.Name), zap.Error(err))
			continue
		}
		n++
	}
	m.log.Info("catalogue loaded", zap.String("kind", kind), zap.String("file", path), zap.Int("objects", n))
	return n, nil
}

// Startup streams the initial tiles synchronously.
func (m *Map) Startup() error {
	return m.streamer.Startup()
}

// Tick advances tile streaming and every placement queue by one frame.
func (m *Map) Tick() {
	m.streamer.Tick()
	m.Buildings.Tick()
	m.Pins.Tick()
	m.Polygons.Tick()
}

// Pan moves the map one tile in d.
func (m *Map) Pan(d tiles.Direction) bool {
	return m.streamer.Pan(d)
}

// ChangeZoom moves one zoom level in dir.
func (m *Map) ChangeZoom(dir tiles.ZoomDirection) bool {
	return m.streamer.ChangeZoom(dir)
}

// Settled reports whether no tile or object is waiting to be materialized.
func (m *Map) Settled() bool {
	return m.streamer.State() == tiles.Idle &&
		m.Buildings.Pending() == 0 && m.Pins.Pending() == 0 && m.Polygons.Pending() == 0
}

// Graph returns the scene graph.
func (m *Map) Graph() *scene.Graph {
	return m.graph
}

// Streamer returns the tile streamer.
func (m *Map) Streamer() *tiles.Streamer {
	return m.streamer
}

// Projector returns the coordinate projector.
func (m *Map) Projector() *geo.Projector {
	return m.projector
}

// Subscribe adds a listener for tile events after the placement indices.
func (m *Map) Subscribe(l tiles.Listener) {
	m.streamer.Subscribe(l)
}

// RegisterBuilding adds a building marker.
func (m *Map) RegisterBuilding(name string, lat, lon float64, props geojson.Properties) error {
	node := m.graph.NewNode(name, scene.KindMarker)
	b := Building{Properties: props}
	node.Payload = b
	if err := m.Buildings.Register(name, lat, lon, node, b); err != nil {
		node.Destroy()
		return err
	}
	return nil
}

// RegisterPin adds a pin marker.
func (m *Map) RegisterPin(name string, lat, lon float64, label string) error {
	node := m.graph.NewNode(name, scene.KindMarker)
	p := Pin{Label: label}
	node.Payload = p
	if err := m.Pins.Register(name, lat, lon, node, p); err != nil {
		node.Destroy()
		return err
	}
	return nil
}

// DropPin registers a pin at the map focus and returns its name.
func (m *Map) DropPin(label string) (string, error) {
	lat, lon := m.projector.Center()
	for {
		m.pinSeq++
		name := fmt.Sprintf("pin-%d", m.pinSeq)
		err := m.RegisterPin(name, lat, lon, label)
		if errors.Is(err, placement.ErrDuplicateName) {
			continue
		}
		if err != nil {
			return "", err
		}
		return name, nil
	}
}

// DefaultHeights returns the configured extrusion parameters.
func (m *Map) DefaultHeights() Heights {
	return Heights{Base: float32(m.cfg.Polygon.BaseHeight), Wall: float32(m.cfg.Polygon.WallHeight)}
}

// BuildPolygon extrudes an outline given in scene coordinates and registers
// the volume at the geographic position of its base-center. The returned
// node is shown once the polygon's tile is materialized.
func (m *Map) BuildPolygon(points []mgl32.Vec3, h Heights, material string) (*scene.Node, error) {
	mesh, err := polygon.Builder{
		BaseHeight: h.Base,
		WallHeight: h.Wall,
		Tolerance:  m.cfg.Polygon.MatchTolerance,
	}.Build(points)
	if err != nil {
		return nil, fmt.Errorf("build polygon: %w", err)
	}

	name := m.polygonName()
	lat, lon := m.projector.ToGeoCoordinate(mgl32.Vec3{mesh.Origin.X(), 0, mesh.Origin.Z()})
	value := Polygon{Mesh: mesh, Material: material, Zoom: m.streamer.Zoom(), Base: mesh.Origin.Y()}

	node := m.graph.NewNode(name, scene.KindMesh)
	node.Payload = value
	if err := m.Polygons.Register(name, lat, lon, node, value); err != nil {
		node.Destroy()
		return nil, err
	}
	m.log.Info("polygon built",
		zap.String("name", name),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.String("material", material),
	)
	return node, nil
}

func (m *Map) polygonName() string {
	if id, err := shortid.Generate(); err == nil {
		if _, taken := m.Polygons.Lookup("polygon-" + id); !taken {
			return "polygon-" + id
		}
	}
	for {
		m.polygonSeq++
		name := fmt.Sprintf("polygon-%d", m.polygonSeq)
		if _, taken := m.Polygons.Lookup(name); !taken {
			return name
		}
	}
}

// Stats is a snapshot of the map state.
type Stats struct {
	Zoom       int
	HeadingDeg float64
	Center     geo.TileID
	State      tiles.State
	Tiles      int
	Pending    int
	Buildings  int
	Pins       int
	Polygons   int
	Queued     int
}

// Stats returns a snapshot of the map state.
func (m *Map) Stats() Stats {
	return Stats{
		Zoom:       m.streamer.Zoom(),
		HeadingDeg: m.projector.Heading() * 180 / math.Pi,
		Center:     m.streamer.Center(),
		State:      m.streamer.State(),
		Tiles:      m.streamer.Len(),
		Pending:    m.streamer.Pending(),
		Buildings:  m.Buildings.Len(),
		Pins:       m.Pins.Len(),
		Polygons:   m.Polygons.Len(),
		Queued:     m.Buildings.Pending() + m.Pins.Pending() + m.Polygons.Pending(),
	}
}
