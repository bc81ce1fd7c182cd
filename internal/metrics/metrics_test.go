package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerExposesCollectors(t *testing.T) {
	TileEventsTotal.WithLabelValues(EventTileAdded).Inc()
	PlacementQueueDepth.WithLabelValues("pins").Set(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{
		"mapview_tile_events_total",
		"mapview_placement_queue_depth",
		"mapview_tiles_materialized",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}

func TestQueueDepthGauge(t *testing.T) {
	PlacementQueueDepth.WithLabelValues("buildings").Set(7)
	if got := testutil.ToFloat64(PlacementQueueDepth.WithLabelValues("buildings")); got != 7 {
		t.Errorf("queue depth = %v, want 7", got)
	}
}

func TestMuxRoutes(t *testing.T) {
	tests := []struct {
		path string
		code int
	}{
		{"/metrics", 200},
		{"/", 404},
	}
	mux := Mux()
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.code)
		}
	}
}
