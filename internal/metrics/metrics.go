// Package metrics exposes Prometheus collectors for tile streaming and
// object placement.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	TilesMaterialized = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mapview_tiles_materialized",
		Help: "Number of tiles currently in the tile cache",
	})
	TileEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapview_tile_events_total",
		Help: "Tile streamer events fired, by event",
	}, []string{"event"})
	TileFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapview_tile_failures_total",
		Help: "Tiles that failed to materialize",
	})
	StreamPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mapview_stream_pending",
		Help: "Tiles waiting to be materialized",
	})
	PlacementQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mapview_placement_queue_depth",
		Help: "Objects waiting in a placement load queue, by kind",
	}, []string{"kind"})
	PlacementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapview_placements_total",
		Help: "Objects materialized under a tile, by kind",
	}, []string{"kind"})
	CatalogueSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mapview_catalogue_size",
		Help: "Registered objects, by kind",
	}, []string{"kind"})
)

// Tile event label values.
const (
	EventTileAdded   = "tile_added"
	EventTileRemoved = "tile_removed"
	EventZoomChanged = "zoom_changed"
	EventSettled     = "all_tiles_settled"
)

func init() {
	prometheus.MustRegister(TilesMaterialized)
	prometheus.MustRegister(TileEventsTotal)
	prometheus.MustRegister(TileFailuresTotal)
	prometheus.MustRegister(StreamPending)
	prometheus.MustRegister(PlacementQueueDepth)
	prometheus.MustRegister(PlacementsTotal)
	prometheus.MustRegister(CatalogueSize)
}

// Handler returns the /metrics handler.
func Handler() http.Handler { return promhttp.Handler() }

// Mux returns a mux serving Handler on /metrics.
func Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return mux
}

// Start serves Mux on addr in the background. The caller shuts the
// returned server down.
func Start(addr string, log *zap.Logger) *http.Server {
	s := &http.Server{Addr: addr, Handler: Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics listening", zap.String("addr", addr))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return s
}
