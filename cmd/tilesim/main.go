// Package main runs a scripted, headless pan/zoom session against the map
// core and reports how many frames each step needed to settle.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/Faultbox/geoar/internal/config"
	"github.com/Faultbox/geoar/internal/logger"
	"github.com/Faultbox/geoar/internal/mapview"
	"github.com/Faultbox/geoar/internal/metrics"
	"github.com/Faultbox/geoar/internal/tiles"
	"github.com/Faultbox/geoar/pkg/geo"
)

var (
	flagScript   = flag.String("script", "E,E,N,+,-", "Comma separated steps: N S E W pan, + - zoom, P drop a pin")
	flagMaxTicks = flag.Int("max-ticks", 10000, "Frame limit per step")
	flagHold     = flag.Duration("hold", 0, "Keep the metrics endpoint up this long after the run")
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

	steps, err := parseScript(*flagScript)
	if err != nil {
		logger.Error("bad script", zap.Error(err))
		os.Exit(1)
	}

	if cfg.Metrics.Addr != "" {
		srv := metrics.Start(cfg.Metrics.Addr, logger.Named("metrics"))
		defer func() {
			if *flagHold > 0 {
				logger.Info("holding metrics endpoint", zap.Duration("for", *flagHold))
				time.Sleep(*flagHold)
			}
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

	if err := run(m, steps, *flagMaxTicks); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

// run executes the steps, ticking the map until it settles after each one.
func run(m *mapview.Map, steps []step, maxTicks int) error {
	added := 0
	m.Subscribe(tiles.ListenerFuncs{
		TileAdded: func(geo.TileID) { added++ },
	})

	bar := pb.New(len(steps) + 1).Prefix("Steps ")
	bar.SetRefreshRate(100 * time.Millisecond)
	bar.Start()

	start := time.Now()
	if err := m.Startup(); err != nil {
		return err
	}
	ticks, err := settle(m, maxTicks)
	if err != nil {
		return err
	}
	bar.Increment()
	logger.Info("startup", zap.Int("ticks", ticks), zap.Int("tiles_added", added))

	for _, s := range steps {
		added = 0
		if !s.apply(m) {
			logger.Warn("step rejected", zap.String("step", s.name))
		}
		ticks, err := settle(m, maxTicks)
		if err != nil {
			return fmt.Errorf("step %s: %w", s.name, err)
		}
		bar.Increment()
		st := m.Stats()
		logger.Info("step settled",
			zap.String("step", s.name),
			zap.Int("ticks", ticks),
			zap.Int("tiles_added", added),
			zap.Int("zoom", st.Zoom),
			zap.Stringer("center", st.Center),
			zap.Int("tiles", st.Tiles),
		)
	}

	st := m.Stats()
	bar.FinishPrint(fmt.Sprintf("Simulation finished in %s: zoom %d, %d tiles, %d buildings, %d pins",
		time.Since(start).Round(time.Millisecond), st.Zoom, st.Tiles, st.Buildings, st.Pins))
	return nil
}

func settle(m *mapview.Map, maxTicks int) (int, error) {
	for ticks := 0; ; ticks++ {
		if m.Settled() {
			return ticks, nil
		}
		if ticks >= maxTicks {
			return ticks, fmt.Errorf("not settled after %d ticks", maxTicks)
		}
		m.Tick()
	}
}

type step struct {
	name  string
	apply func(m *mapview.Map) bool
}

func parseScript(script string) ([]step, error) {
	var steps []step
	for _, tok := range strings.Split(script, ",") {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		var apply func(m *mapview.Map) bool
		switch tok {
		case "":
			continue
		case "N":
			apply = func(m *mapview.Map) bool { return m.Pan(tiles.North) }
		case "S":
			apply = func(m *mapview.Map) bool { return m.Pan(tiles.South) }
		case "E":
			apply = func(m *mapview.Map) bool { return m.Pan(tiles.East) }
		case "W":
			apply = func(m *mapview.Map) bool { return m.Pan(tiles.West) }
		case "+":
			apply = func(m *mapview.Map) bool { return m.ChangeZoom(tiles.ZoomIn) }
		case "-":
			apply = func(m *mapview.Map) bool { return m.ChangeZoom(tiles.ZoomOut) }
		case "P":
			apply = func(m *mapview.Map) bool {
				_, err := m.DropPin("sim")
				return err == nil
			}
		default:
			return nil, fmt.Errorf("unknown step %q", tok)
		}
		steps = append(steps, step{name: tok, apply: apply})
	}
	return steps, nil
}
