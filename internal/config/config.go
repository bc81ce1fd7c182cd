// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Map       MapConfig       `yaml:"map"`
	Streaming StreamingConfig `yaml:"streaming"`
	Placement PlacementConfig `yaml:"placement"`
	Polygon   PolygonConfig   `yaml:"polygon"`
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Data      DataConfig      `yaml:"data"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// MapConfig holds the initial view and zoom bounds.
type MapConfig struct {
	CenterLat     float64 `yaml:"center_lat"`
	CenterLon     float64 `yaml:"center_lon"`
	Zoom          int     `yaml:"zoom"`
	MinZoom       int     `yaml:"min_zoom"`
	MaxZoom       int     `yaml:"max_zoom"`
	HeadingDeg    float64 `yaml:"heading_deg"`
	TileWorldSize float64 `yaml:"tile_world_size"` // scene units per tile edge
}

// StreamingConfig holds the tile window shape and frame budget.
type StreamingConfig struct {
	VisibleRadius  int `yaml:"visible_radius"`
	PreloadRadiusX int `yaml:"preload_radius_x"`
	PreloadRadiusY int `yaml:"preload_radius_y"`
	TilesPerTick   int `yaml:"tiles_per_tick"`
}

// PlacementConfig holds the load queue frame budget.
type PlacementConfig struct {
	ItemsPerTick int `yaml:"items_per_tick"`
}

// PolygonConfig holds extrusion settings for user-drawn shapes.
type PolygonConfig struct {
	BaseHeight     float64 `yaml:"base_height"`
	WallHeight     float64 `yaml:"wall_height"`
	MatchTolerance float64 `yaml:"match_tolerance"`
}

// GraphicsConfig holds window settings for the SDL host.
type GraphicsConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	VSync         bool    `yaml:"vsync"`
	FPSLimit      int     `yaml:"fps_limit"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
}

// DataConfig holds tile and catalogue locations.
type DataConfig struct {
	TileDir   string   `yaml:"tile_dir"` // empty: every tile materializes without data
	TileExt   string   `yaml:"tile_ext"`
	Buildings []string `yaml:"buildings"` // GeoJSON files
	Pins      []string `yaml:"pins"`      // GeoJSON files
}

// MetricsConfig holds the Prometheus listener.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Map: MapConfig{
			CenterLat:     47.3769,
			CenterLon:     8.5417,
			Zoom:          16,
			MinZoom:       3,
			MaxZoom:       19,
			TileWorldSize: 1,
		},
		Streaming: StreamingConfig{
			VisibleRadius:  1,
			PreloadRadiusX: 2,
			PreloadRadiusY: 2,
			TilesPerTick:   1,
		},
		Placement: PlacementConfig{
			ItemsPerTick: 1,
		},
		Polygon: PolygonConfig{
			BaseHeight:     0,
			WallHeight:     0.2,
			MatchTolerance: 1e-4,
		},
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			PixelsPerUnit: 160,
		},
		Data: DataConfig{
			TileExt: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that the settings are consistent.
func (c *Config) Validate() error {
	m := c.Map
	switch {
	case m.MinZoom < 0 || m.MaxZoom > 30 || m.MinZoom > m.MaxZoom:
		return fmt.Errorf("%w: zoom bounds [%d, %d]", ErrInvalid, m.MinZoom, m.MaxZoom)
	case m.Zoom < m.MinZoom || m.Zoom > m.MaxZoom:
		return fmt.Errorf("%w: zoom %d outside [%d, %d]", ErrInvalid, m.Zoom, m.MinZoom, m.MaxZoom)
	case m.CenterLat < -85.0511 || m.CenterLat > 85.0511 || m.CenterLon < -180 || m.CenterLon > 180:
		return fmt.Errorf("%w: center (%v, %v)", ErrInvalid, m.CenterLat, m.CenterLon)
	case m.TileWorldSize <= 0:
		return fmt.Errorf("%w: tile_world_size %v", ErrInvalid, m.TileWorldSize)
	}

	s := c.Streaming
	switch {
	case s.VisibleRadius < 0:
		return fmt.Errorf("%w: visible_radius %d", ErrInvalid, s.VisibleRadius)
	case s.PreloadRadiusX < 0 || s.PreloadRadiusY < 0:
		return fmt.Errorf("%w: preload radius (%d, %d)", ErrInvalid, s.PreloadRadiusX, s.PreloadRadiusY)
	case s.TilesPerTick < 1:
		return fmt.Errorf("%w: tiles_per_tick %d", ErrInvalid, s.TilesPerTick)
	}

	if c.Placement.ItemsPerTick < 1 {
		return fmt.Errorf("%w: items_per_tick %d", ErrInvalid, c.Placement.ItemsPerTick)
	}
	if c.Polygon.MatchTolerance <= 0 {
		return fmt.Errorf("%w: match_tolerance %v", ErrInvalid, c.Polygon.MatchTolerance)
	}
	return nil
}
