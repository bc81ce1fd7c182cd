package tiles

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/geoar/internal/engine/scene"
	"github.com/Faultbox/geoar/internal/logger"
	"github.com/Faultbox/geoar/internal/metrics"
	"github.com/Faultbox/geoar/pkg/geo"
)

// ErrAlreadyStarted is returned by a second Startup call.
var ErrAlreadyStarted = errors.New("streamer already started")

// State is the streamer's scheduling state.
type State int

const (
	// Idle means no tile is waiting to be materialized. After an
	// AllTilesSettled event Idle doubles as "settled".
	Idle State = iota
	// Streaming means tiles are materialized a few per tick.
	Streaming
)

func (s State) String() string {
	if s == Streaming {
		return "streaming"
	}
	return "idle"
}

// Config holds the streamer's window shape, zoom bounds and frame budget.
type Config struct {
	Zoom           int
	MinZoom        int
	MaxZoom        int
	VisibleRadius  int
	PreloadRadiusX int
	PreloadRadiusY int
	TilesPerTick   int
	TileWorldSize  float64 // scene units per tile edge
}

// Record is a materialized tile. Its tier is derived from Offset on demand.
type Record struct {
	ID      geo.TileID
	Node    *scene.Node
	Offset  Offset
	Content any
}

// Streamer owns the tile cache, drives the window and fires lifecycle events.
// All methods must be called from the host's frame loop goroutine.
type Streamer struct {
	cfg       Config
	projector *geo.Projector
	graph     *scene.Graph
	source    Source
	log       *zap.Logger

	root   *scene.Node // parent of all tile nodes
	window *Window
	zoom   int

	cache map[geo.TileID]*Record
	order []geo.TileID // cache enumeration order

	pending    []geo.TileID
	pendingSet map[geo.TileID]struct{}
	settle     bool // fire AllTilesSettled when pending drains

	state       State
	started     bool
	dispatching bool
	listeners   []Listener
}

// NewStreamer creates a streamer. The projector's center is the initial map
// focus; the streamer owns its scale from now on.
func NewStreamer(cfg Config, projector *geo.Projector, graph *scene.Graph, source Source, log *zap.Logger) *Streamer {
	if cfg.TilesPerTick < 1 {
		cfg.TilesPerTick = 1
	}
	if cfg.TileWorldSize <= 0 {
		cfg.TileWorldSize = 1
	}
	if source == nil {
		source = StaticSource{}
	}
	return &Streamer{
		cfg:        cfg,
		projector:  projector,
		graph:      graph,
		source:     source,
		log:        logger.OrNop(log),
		root:       graph.NewNode("map", scene.KindGroup),
		zoom:       cfg.Zoom,
		cache:      make(map[geo.TileID]*Record),
		pendingSet: make(map[geo.TileID]struct{}),
	}
}

// Subscribe registers a listener. Listeners are notified in subscription order.
func (s *Streamer) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Startup materializes the preload rectangle around the focus synchronously
// and fires AllTilesSettled.
func (s *Streamer) Startup() error {
	if s.started {
		return ErrAlreadyStarted
	}
	if s.zoom < s.cfg.MinZoom || s.zoom > s.cfg.MaxZoom {
		return fmt.Errorf("startup zoom %d outside [%d, %d]", s.zoom, s.cfg.MinZoom, s.cfg.MaxZoom)
	}
	s.started = true

	s.applyScale()
	s.window = NewWindow(s.focusTile(), s.cfg.VisibleRadius, s.cfg.PreloadRadiusX, s.cfg.PreloadRadiusY)

	preload := s.window.Preload()
	s.log.Info("startup",
		zap.Stringer("center", s.window.Center()),
		zap.Int("tiles", len(preload)),
	)

	for _, id := range preload {
		s.materialize(id)
	}
	s.fireSettled()
	return nil
}

// Pan shifts the window center one tile in d. Tiles that enter the visible
// radius are queued for materialization; nothing is evicted. Returns false
// if the pan was rejected.
func (s *Streamer) Pan(d Direction) bool {
	if !s.started || s.dispatching {
		s.log.Warn("pan rejected", zap.Stringer("direction", d), zap.Bool("started", s.started))
		return false
	}

	delta, ok := s.window.Pan(d, s.has)
	if !ok {
		s.log.Debug("pan off the grid ignored", zap.Stringer("direction", d))
		return false
	}

	dx, dy := d.Step()
	size := s.projector.Projection().TileSizeMeters(s.zoom)
	s.projector.Shift(float64(dx)*size, -float64(dy)*size)

	for _, id := range s.order {
		s.place(s.cache[id])
	}
	s.enqueue(delta.Added)

	s.log.Debug("pan",
		zap.Stringer("direction", d),
		zap.Stringer("center", s.window.Center()),
		zap.Int("queued", len(delta.Added)),
	)
	return true
}

// ChangeZoom moves one zoom level in dir. Every materialized tile is evicted
// (TileRemoved for each, then ZoomChanged) and the preload rectangle is
// streamed at the new level. Returns false if the new level is out of bounds.
func (s *Streamer) ChangeZoom(dir ZoomDirection) bool {
	next := s.zoom + int(dir)
	if !s.started || s.dispatching || next < s.cfg.MinZoom || next > s.cfg.MaxZoom {
		s.log.Debug("zoom rejected", zap.Int("zoom", s.zoom), zap.Int("requested", next))
		return false
	}

	delta := s.window.Reset(s.tileAt(next), s.order)
	evicted := s.evict(delta.Removed)

	s.zoom = next
	s.applyScale()

	s.log.Info("zoom changed",
		zap.Int("zoom", s.zoom),
		zap.Int("evicted", evicted),
		zap.Int("queued", len(delta.Added)),
	)

	s.settle = true
	s.enqueue(delta.Added)
	if len(s.pending) == 0 {
		s.finishBatch()
	}
	return true
}

// Tick materializes up to TilesPerTick queued tiles. Call once per frame.
func (s *Streamer) Tick() {
	if s.state != Streaming {
		return
	}

	budget := s.cfg.TilesPerTick
	for budget > 0 && len(s.pending) > 0 {
		id := s.pending[0]
		s.pending = s.pending[1:]
		delete(s.pendingSet, id)
		if s.has(id) {
			continue
		}
		s.materialize(id)
		budget--
	}
	metrics.StreamPending.Set(float64(len(s.pending)))

	if len(s.pending) == 0 {
		s.finishBatch()
	}
}

// State returns the scheduling state.
func (s *Streamer) State() State {
	return s.state
}

// Zoom returns the current zoom level.
func (s *Streamer) Zoom() int {
	return s.zoom
}

// Center returns the window's center tile.
func (s *Streamer) Center() geo.TileID {
	if s.window == nil {
		return s.focusTile()
	}
	return s.window.Center()
}

// Pending returns the number of tiles waiting to be materialized.
func (s *Streamer) Pending() int {
	return len(s.pending)
}

// Len returns the number of materialized tiles.
func (s *Streamer) Len() int {
	return len(s.cache)
}

// Root returns the node all tile nodes are parented under.
func (s *Streamer) Root() *scene.Node {
	return s.root
}

// Projector returns the projector the streamer keeps in sync with the window.
func (s *Streamer) Projector() *geo.Projector {
	return s.projector
}

// Tile returns the record of a materialized tile.
func (s *Streamer) Tile(id geo.TileID) (*Record, bool) {
	rec, ok := s.cache[id]
	return rec, ok
}

// TileNode returns the scene node of a materialized tile.
func (s *Streamer) TileNode(id geo.TileID) (*scene.Node, bool) {
	rec, ok := s.cache[id]
	if !ok {
		return nil, false
	}
	return rec.Node, true
}

// Tier returns the visibility tier of a materialized tile.
func (s *Streamer) Tier(id geo.TileID) (Tier, bool) {
	rec, ok := s.cache[id]
	if !ok {
		return TierBackground, false
	}
	return s.window.Tier(rec.Offset), true
}

// Tiles returns the materialized tiles in enumeration order.
func (s *Streamer) Tiles() []*Record {
	recs := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		recs = append(recs, s.cache[id])
	}
	return recs
}

func (s *Streamer) has(id geo.TileID) bool {
	_, ok := s.cache[id]
	return ok
}

func (s *Streamer) focusTile() geo.TileID {
	return s.tileAt(s.zoom)
}

// tileAt returns the tile containing the map focus at zoom.
func (s *Streamer) tileAt(zoom int) geo.TileID {
	lat, lon := s.projector.Center()
	return s.projector.Projection().TileForCoordinate(lat, lon, zoom)
}

// applyScale keeps one tile at TileWorldSize scene units.
func (s *Streamer) applyScale() {
	s.projector.SetScale(s.cfg.TileWorldSize / s.projector.Projection().TileSizeMeters(s.zoom))
}

func (s *Streamer) enqueue(ids []geo.TileID) {
	for _, id := range ids {
		if s.has(id) {
			continue
		}
		if _, ok := s.pendingSet[id]; ok {
			continue
		}
		s.pending = append(s.pending, id)
		s.pendingSet[id] = struct{}{}
	}
	if len(s.pending) > 0 {
		s.state = Streaming
	}
	metrics.StreamPending.Set(float64(len(s.pending)))
}

func (s *Streamer) finishBatch() {
	s.state = Idle
	if s.settle {
		s.settle = false
		s.fireSettled()
	}
}

// materialize fetches and attaches one tile. A failed fetch leaves the tile
// absent from the cache.
func (s *Streamer) materialize(id geo.TileID) bool {
	content, err := s.source.Fetch(id)
	if err != nil {
		metrics.TileFailuresTotal.Inc()
		s.log.Warn("tile materialization failed", zap.Stringer("tile", id), zap.Error(err))
		return false
	}

	node := s.graph.NewChild(s.root, id.String(), scene.KindTile, s.nodePosition(id))
	node.Payload = content
	rec := &Record{ID: id, Node: node, Content: content}
	s.place(rec)

	s.cache[id] = rec
	s.order = append(s.order, id)
	metrics.TilesMaterialized.Set(float64(len(s.cache)))

	s.log.Debug("tile added", zap.Stringer("tile", id), zap.Stringer("tier", s.window.Tier(rec.Offset)))
	s.dispatch(metrics.EventTileAdded, func(l Listener) { l.OnTileAdded(id) })
	return true
}

// place recomputes a record's offset, node position and tier.
func (s *Streamer) place(rec *Record) {
	rec.Offset = s.window.Offset(rec.ID)
	rec.Node.Position = s.nodePosition(rec.ID)
	rec.Node.Visible = s.window.Tier(rec.Offset) == TierVisible
}

// nodePosition returns the scene position of the tile's center.
func (s *Streamer) nodePosition(id geo.TileID) mgl32.Vec3 {
	lat, lon := s.projector.Projection().BoundsForTile(id).Center()
	return s.projector.ToLocalPosition(lat, lon)
}

// evict detaches the given tiles, fires TileRemoved for each and then
// ZoomChanged. Tile nodes are destroyed only after listeners had the chance
// to rescue their children. Queued tiles of an unfinished batch are dropped.
func (s *Streamer) evict(removed []geo.TileID) int {
	s.pending = nil
	clear(s.pendingSet)
	s.settle = false

	nodes := make([]*scene.Node, 0, len(removed))
	for _, id := range removed {
		rec, ok := s.cache[id]
		if !ok {
			continue
		}
		rec.Node.Detach()
		nodes = append(nodes, rec.Node)
		delete(s.cache, id)
		s.dispatch(metrics.EventTileRemoved, func(l Listener) { l.OnTileRemoved(id) })
	}
	s.order = s.order[:0]
	metrics.TilesMaterialized.Set(0)

	s.dispatch(metrics.EventZoomChanged, func(l Listener) { l.OnZoomChanged() })

	for _, n := range nodes {
		n.Destroy()
	}
	return len(nodes)
}

func (s *Streamer) fireSettled() {
	s.log.Info("all tiles settled", zap.Int("tiles", len(s.cache)), zap.Int("zoom", s.zoom))
	s.dispatch(metrics.EventSettled, func(l Listener) { l.OnAllTilesSettled() })
}

func (s *Streamer) dispatch(event string, fn func(Listener)) {
	metrics.TileEventsTotal.WithLabelValues(event).Inc()
	s.dispatching = true
	defer func() { s.dispatching = false }()
	for _, l := range s.listeners {
		fn(l)
	}
}
