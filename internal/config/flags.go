package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagEnv         = flag.String("env", ".env", "Path to .env file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLat         = flag.Float64("lat", 0, "Initial center latitude")
	flagLon         = flag.Float64("lon", 0, "Initial center longitude")
	flagZoom        = flag.Int("zoom", -1, "Initial zoom level")
	flagRadius      = flag.Int("radius", -1, "Visible tile radius")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagTileDir     = flag.String("tiles", "", "Tile directory ({z}/{x}/{y}.{ext})")
	flagMetricsAddr = flag.String("metrics-addr", "", "Prometheus listen address")
	flagWriteConfig = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config target, empty if not requested.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLat != 0 || *flagLon != 0 {
		cfg.Map.CenterLat = *flagLat
		cfg.Map.CenterLon = *flagLon
	}
	if *flagZoom >= 0 {
		cfg.Map.Zoom = *flagZoom
	}
	if *flagRadius >= 0 {
		cfg.Streaming.VisibleRadius = *flagRadius
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagTileDir != "" {
		cfg.Data.TileDir = *flagTileDir
	}
	if *flagMetricsAddr != "" {
		cfg.Metrics.Addr = *flagMetricsAddr
	}
}
