// Package placement keeps catalogues of geo-located objects in sync with the
// streamed tile window. Objects are queued when the tile containing them is
// added and materialized under that tile a few per frame.
package placement

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/geoar/internal/engine/scene"
	"github.com/Faultbox/geoar/internal/logger"
	"github.com/Faultbox/geoar/internal/metrics"
	"github.com/Faultbox/geoar/pkg/geo"
)

var (
	// ErrDuplicateName is returned when registering a name twice.
	ErrDuplicateName = errors.New("name already registered")
	// ErrNilNode is returned when registering an object without a node.
	ErrNilNode = errors.New("nil node")
)

// TileHost is the part of the tile streamer an index reads from.
type TileHost interface {
	Projector() *geo.Projector
	TileNode(id geo.TileID) (*scene.Node, bool)
	Zoom() int
}

// PlaceHook adjusts an item after it was positioned under tile and before
// it is shown.
type PlaceHook[T any] func(item *Item[T], tile geo.TileID)

// Item is a catalogue entry: a geo-located object and its scene node.
type Item[T any] struct {
	Name  string
	Lat   float64
	Lon   float64
	Node  *scene.Node
	Value T

	tile   geo.TileID
	placed bool
}

// Placed reports whether the item is materialized and returns its tile.
func (it *Item[T]) Placed() (geo.TileID, bool) {
	return it.tile, it.placed
}

// Config holds per-index settings.
type Config struct {
	Kind         string // metric label and log component
	ItemsPerTick int
}

// Index is the catalogue of one object kind together with its load queue.
// It implements tiles.Listener.
type Index[T any] struct {
	cfg   Config
	host  TileHost
	graph *scene.Graph
	log   *zap.Logger

	items map[string]*Item[T]
	order []string // registration order
	queue *Queue
	ready bool

	hook PlaceHook[T]
}

// New creates an index placing objects under the tiles of host.
func New[T any](cfg Config, host TileHost, graph *scene.Graph, log *zap.Logger) *Index[T] {
	if cfg.ItemsPerTick < 1 {
		cfg.ItemsPerTick = 1
	}
	return &Index[T]{
		cfg:   cfg,
		host:  host,
		graph: graph,
		log:   logger.OrNop(log),
		items: make(map[string]*Item[T]),
		queue: NewQueue(),
	}
}

// SetPlaceHook installs fn to run on every placement.
func (x *Index[T]) SetPlaceHook(fn PlaceHook[T]) {
	x.hook = fn
}

// Kind returns the index's kind label.
func (x *Index[T]) Kind() string {
	return x.cfg.Kind
}

// Register adds an object to the catalogue. Its node is hidden and parked
// under the graph root until placed. If the tile containing the object is
// already materialized the object is queued right away.
func (x *Index[T]) Register(name string, lat, lon float64, node *scene.Node, value T) error {
	if node == nil {
		return fmt.Errorf("register %q: %w", name, ErrNilNode)
	}
	if _, ok := x.items[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateName)
	}

	node.SetParent(x.graph.Root())
	node.Hide()
	it := &Item[T]{Name: name, Lat: lat, Lon: lon, Node: node, Value: value}
	x.items[name] = it
	x.order = append(x.order, name)
	metrics.CatalogueSize.WithLabelValues(x.cfg.Kind).Set(float64(len(x.items)))

	tile := x.host.Projector().Projection().TileForCoordinate(lat, lon, x.host.Zoom())
	if _, ok := x.host.TileNode(tile); ok {
		x.enqueue(it, tile)
	}
	x.log.Debug("registered", zap.String("name", name), zap.Stringer("tile", tile))
	return nil
}

// Unregister removes an object from the catalogue. Its node is detached from
// its tile and hidden; the caller owns it from now on.
func (x *Index[T]) Unregister(name string) bool {
	it, ok := x.items[name]
	if !ok {
		return false
	}
	x.queue.Remove(name)
	x.park(it)
	delete(x.items, name)
	for i, n := range x.order {
		if n == name {
			x.order = append(x.order[:i], x.order[i+1:]...)
			break
		}
	}
	metrics.CatalogueSize.WithLabelValues(x.cfg.Kind).Set(float64(len(x.items)))
	x.updateDepth()
	return true
}

// Lookup returns the catalogue entry for name.
func (x *Index[T]) Lookup(name string) (*Item[T], bool) {
	it, ok := x.items[name]
	return it, ok
}

// Items returns all entries in registration order.
func (x *Index[T]) Items() []*Item[T] {
	out := make([]*Item[T], 0, len(x.order))
	for _, name := range x.order {
		out = append(out, x.items[name])
	}
	return out
}

// Query scans the catalogue for objects inside the tile's bounds.
func (x *Index[T]) Query(id geo.TileID) []*Item[T] {
	bounds := x.host.Projector().Projection().BoundsForTile(id)
	var out []*Item[T]
	for _, name := range x.order {
		it := x.items[name]
		if bounds.Contains(it.Lat, it.Lon) {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the catalogue size.
func (x *Index[T]) Len() int {
	return len(x.items)
}

// Pending returns the load queue length.
func (x *Index[T]) Pending() int {
	return x.queue.Len()
}

// Ready reports whether the queue is drained by Tick. The gate opens on
// AllTilesSettled and closes on ZoomChanged.
func (x *Index[T]) Ready() bool {
	return x.ready
}

// Tick places up to ItemsPerTick queued objects. Call once per frame.
func (x *Index[T]) Tick() {
	if !x.ready {
		return
	}
	for budget := x.cfg.ItemsPerTick; budget > 0; budget-- {
		name, tile, ok := x.queue.Pop()
		if !ok {
			break
		}
		if it, ok := x.items[name]; ok {
			x.place(it, tile)
		}
	}
	x.updateDepth()
}

// OnTileAdded queues every catalogue object inside the tile.
func (x *Index[T]) OnTileAdded(id geo.TileID) {
	for _, it := range x.Query(id) {
		x.enqueue(it, id)
	}
	x.updateDepth()
}

// OnTileRemoved rescues the objects placed under the tile before the tile
// node is destroyed and drops their queued placements.
func (x *Index[T]) OnTileRemoved(id geo.TileID) {
	x.queue.DropTile(id)
	for _, name := range x.order {
		it := x.items[name]
		if it.placed && it.tile == id {
			x.park(it)
		}
	}
	x.updateDepth()
}

// OnZoomChanged closes the drain gate, clears the queue and parks every
// object under the graph root.
func (x *Index[T]) OnZoomChanged() {
	x.ready = false
	x.queue.Clear()
	for _, name := range x.order {
		x.park(x.items[name])
	}
	x.updateDepth()
	x.log.Debug("zoom changed, catalogue parked", zap.Int("items", len(x.items)))
}

// OnAllTilesSettled opens the drain gate.
func (x *Index[T]) OnAllTilesSettled() {
	x.ready = true
	x.log.Debug("drain enabled", zap.Int("pending", x.queue.Len()))
}

func (x *Index[T]) enqueue(it *Item[T], tile geo.TileID) {
	if it.placed && it.tile == tile && it.Node.Visible {
		return
	}
	x.queue.Push(it.Name, tile)
	x.updateDepth()
}

// place parents the item's node under its tile, positions it relative to the
// tile and shows it. Placing an already placed item yields the same state.
func (x *Index[T]) place(it *Item[T], tile geo.TileID) {
	if it.Node.Destroyed() {
		x.log.Warn("placement skipped, node destroyed", zap.String("name", it.Name))
		return
	}
	tileNode, ok := x.host.TileNode(tile)
	if !ok {
		x.log.Warn("placement skipped, tile not materialized",
			zap.String("name", it.Name), zap.Stringer("tile", tile))
		return
	}

	world := x.host.Projector().ToLocalPosition(it.Lat, it.Lon)
	local := world.Sub(tileNode.WorldPosition())
	if s := tileNode.WorldScale(); s != 0 {
		local = local.Mul(1 / s)
	}

	it.Node.SetParent(tileNode)
	it.Node.Position = local
	it.tile = tile
	it.placed = true
	if x.hook != nil {
		x.hook(it, tile)
	}
	it.Node.Show()

	metrics.PlacementsTotal.WithLabelValues(x.cfg.Kind).Inc()
	x.log.Debug("placed", zap.String("name", it.Name), zap.Stringer("tile", tile))
}

// park detaches the node from its tile to the graph root and hides it.
func (x *Index[T]) park(it *Item[T]) {
	if it.Node.Parent() != x.graph.Root() {
		it.Node.SetParent(x.graph.Root())
	}
	it.Node.Hide()
	it.placed = false
}

func (x *Index[T]) updateDepth() {
	metrics.PlacementQueueDepth.WithLabelValues(x.cfg.Kind).Set(float64(x.queue.Len()))
}
