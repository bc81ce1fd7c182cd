// Package main is the entry point for the GeoAR map viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/geoar/internal/config"
	"github.com/Faultbox/geoar/internal/logger"
	"github.com/Faultbox/geoar/internal/mapview"
	"github.com/Faultbox/geoar/internal/metrics"
	"github.com/Faultbox/geoar/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== GeoAR Map Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("failed to write config", zap.String("path", path), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config written", zap.String("path", path))
		return
	}

	if cfg.Metrics.Addr != "" {
		srv := metrics.Start(cfg.Metrics.Addr, logger.Named("metrics"))
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	m, err := mapview.New(cfg, mapview.Options{Log: logger.Named("map")})
	if err != nil {
		logger.Error("failed to create map", zap.Error(err))
		os.Exit(1)
	}
	if err := m.LoadCatalogues(); err != nil {
		logger.Error("failed to load catalogues", zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, m, logger.Named("viewer"))
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
