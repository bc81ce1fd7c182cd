package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by applyEnv. Process environment wins over the
// .env file.
const (
	EnvLat         = "MAPVIEW_LAT"
	EnvLon         = "MAPVIEW_LON"
	EnvZoom        = "MAPVIEW_ZOOM"
	EnvLogLevel    = "MAPVIEW_LOG_LEVEL"
	EnvLogFile     = "MAPVIEW_LOG_FILE"
	EnvTileDir     = "MAPVIEW_TILE_DIR"
	EnvMetricsAddr = "MAPVIEW_METRICS_ADDR"
)

// readEnv merges the .env file (if any) with the process environment.
func readEnv(envFile string) (map[string]string, error) {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, key := range []string{EnvLat, EnvLon, EnvZoom, EnvLogLevel, EnvLogFile, EnvTileDir, EnvMetricsAddr} {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}
	return vars, nil
}

// applyEnv applies environment overrides. Malformed numbers are reported.
func applyEnv(cfg *Config, vars map[string]string) error {
	if v, ok := vars[EnvLat]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		cfg.Map.CenterLat = f
	}
	if v, ok := vars[EnvLon]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		cfg.Map.CenterLon = f
	}
	if v, ok := vars[EnvZoom]; ok {
		z, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		cfg.Map.Zoom = z
	}
	if v, ok := vars[EnvLogLevel]; ok {
		cfg.Logging.Level = v
	}
	if v, ok := vars[EnvLogFile]; ok {
		cfg.Logging.LogFile = v
	}
	if v, ok := vars[EnvTileDir]; ok {
		cfg.Data.TileDir = v
	}
	if v, ok := vars[EnvMetricsAddr]; ok {
		cfg.Metrics.Addr = v
	}
	return nil
}
